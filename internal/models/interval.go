package models

import "github.com/julianstephens/vacationbid/internal/constants"

// Interval is one bookable vacation slot with its remaining quota
type Interval struct {
	Kind           constants.IntervalType
	StartDate      Date
	EndDate        Date // empty for single days
	Quota          int
	PreferenceRank *int // set when the backend already knows the employee ranked it
}

// Label renders the interval the way the pick screen shows it
func (i Interval) Label() string {
	if i.Kind == constants.IntervalWeek {
		return "week of " + i.StartDate.String()
	}
	return i.StartDate.String()
}

// Availability is everything the quota endpoint returned for a round
type Availability struct {
	Days  []Interval
	Weeks []Interval
}

// IsEmpty reports whether no interval is available at all
func (a Availability) IsEmpty() bool {
	return len(a.Days) == 0 && len(a.Weeks) == 0
}

// Of returns the intervals of the given kind
func (a Availability) Of(kind constants.IntervalType) []Interval {
	if kind == constants.IntervalWeek {
		return a.Weeks
	}
	return a.Days
}
