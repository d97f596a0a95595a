package models

import (
	"strconv"

	"github.com/julianstephens/vacationbid/internal/constants"
)

// Preference is one ranked entry of a preference set. Rank is 1-based and
// contiguous within its kind.
type Preference struct {
	Kind      constants.IntervalType
	StartDate Date
	EndDate   Date
	Rank      int
}

// PreferenceSet is the employee's ranked choices for a round. ID stays nil
// until the backend has created the set.
type PreferenceSet struct {
	ID    *int64
	Days  []Preference
	Weeks []Preference
}

// HasID reports whether the set exists server-side
func (s PreferenceSet) HasID() bool { return s.ID != nil }

// IDString renders the identifier, or "-" for an unsaved set
func (s PreferenceSet) IDString() string {
	if s.ID == nil {
		return "-"
	}
	return strconv.FormatInt(*s.ID, 10)
}

// Of returns the entries of the given kind
func (s PreferenceSet) Of(kind constants.IntervalType) []Preference {
	if kind == constants.IntervalWeek {
		return s.Weeks
	}
	return s.Days
}

// Len is the number of entries across both kinds
func (s PreferenceSet) Len() int { return len(s.Days) + len(s.Weeks) }

// RankOf returns the rank of the entry starting at start, or 0
func (s PreferenceSet) RankOf(kind constants.IntervalType, start Date) int {
	for _, p := range s.Of(kind) {
		if p.StartDate == start {
			return p.Rank
		}
	}
	return 0
}

// Clone returns a deep copy so callers can mutate lists freely
func (s PreferenceSet) Clone() PreferenceSet {
	out := PreferenceSet{
		Days:  append([]Preference(nil), s.Days...),
		Weeks: append([]Preference(nil), s.Weeks...),
	}
	if s.ID != nil {
		id := *s.ID
		out.ID = &id
	}
	return out
}

// Equal compares identity and every entry in order
func (s PreferenceSet) Equal(o PreferenceSet) bool {
	if (s.ID == nil) != (o.ID == nil) || (s.ID != nil && *s.ID != *o.ID) {
		return false
	}
	return equalPrefs(s.Days, o.Days) && equalPrefs(s.Weeks, o.Weeks)
}

func equalPrefs(a, b []Preference) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// WithID returns a copy of s carrying id
func (s PreferenceSet) WithID(id *int64) PreferenceSet {
	out := s.Clone()
	out.ID = nil
	if id != nil {
		v := *id
		out.ID = &v
	}
	return out
}

// Int64 returns a pointer to v, for building sets in literals
func Int64(v int64) *int64 { return &v }
