package preferences

import (
	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/models"
)

// Toggle is a single check or uncheck of an interval on the pick screen
type Toggle struct {
	Interval models.Interval
	Checked  bool
}

// Rerank assigns rank = position+1 to every entry, closing any gap
func Rerank(prefs []models.Preference) []models.Preference {
	out := make([]models.Preference, len(prefs))
	for i, p := range prefs {
		p.Rank = i + 1
		out[i] = p
	}
	return out
}

// Contiguous reports whether ranks are exactly 1..N in list order
func Contiguous(prefs []models.Preference) bool {
	for i, p := range prefs {
		if p.Rank != i+1 {
			return false
		}
	}
	return true
}

// Apply returns the candidate set produced by t. Checking appends the
// interval at the bottom of its kind's list; unchecking removes the entry
// with the same start date. Either way the list is re-ranked before it is
// returned. Toggles that would not change anything return set unchanged.
func Apply(set models.PreferenceSet, t Toggle) models.PreferenceSet {
	out := set.Clone()
	list := out.Of(t.Interval.Kind)
	idx := indexOf(list, t.Interval.StartDate)

	switch {
	case t.Checked && idx < 0:
		list = append(list, models.Preference{
			Kind:      t.Interval.Kind,
			StartDate: t.Interval.StartDate,
			EndDate:   t.Interval.EndDate,
			Rank:      len(list) + 1,
		})
	case !t.Checked && idx >= 0:
		list = append(list[:idx:idx], list[idx+1:]...)
	default:
		return out
	}

	list = Rerank(list)
	if t.Interval.Kind == constants.IntervalWeek {
		out.Weeks = list
	} else {
		out.Days = list
	}
	return out
}

// ApplyAll folds toggles over set in order
func ApplyAll(set models.PreferenceSet, toggles []Toggle) models.PreferenceSet {
	out := set.Clone()
	for _, t := range toggles {
		out = Apply(out, t)
	}
	return out
}

// changes reports whether t would alter set
func changes(set models.PreferenceSet, t Toggle) bool {
	present := indexOf(set.Of(t.Interval.Kind), t.Interval.StartDate) >= 0
	return present != t.Checked
}

func indexOf(list []models.Preference, start models.Date) int {
	for i, p := range list {
		if p.StartDate == start {
			return i
		}
	}
	return -1
}
