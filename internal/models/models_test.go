package models

import (
	"encoding/json"
	"testing"

	"github.com/julianstephens/vacationbid/internal/constants"
)

func TestDateUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"iso string", `"2026-06-01"`, "2026-06-01", false},
		{"number", `5`, "5", false},
		{"padded number", ` 12 `, "12", false},
		{"null", `null`, "", false},
		{"empty string", `""`, "", false},
		{"object", `{"d":1}`, "", true},
		{"bool", `true`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := d.UnmarshalJSON([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && d != tt.want {
				t.Errorf("UnmarshalJSON(%s) = %q, want %q", tt.input, d, tt.want)
			}
		})
	}
}

func TestDateInStruct(t *testing.T) {
	var v struct {
		Date Date `json:"date"`
	}
	if err := json.Unmarshal([]byte(`{"date": 7}`), &v); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if v.Date != "7" || v.Date.IsZero() {
		t.Errorf("Date = %q, want 7", v.Date)
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"date":"7"}` {
		t.Errorf("Marshal() = %s, want the date as a string", out)
	}
}

func TestIntervalLabel(t *testing.T) {
	day := Interval{Kind: constants.IntervalDay, StartDate: "2026-06-01"}
	if day.Label() != "2026-06-01" {
		t.Errorf("day Label() = %q", day.Label())
	}
	week := Interval{Kind: constants.IntervalWeek, StartDate: "2026-07-06", EndDate: "2026-07-12"}
	if week.Label() != "week of 2026-07-06" {
		t.Errorf("week Label() = %q", week.Label())
	}
}

func TestAvailability(t *testing.T) {
	var empty Availability
	if !empty.IsEmpty() {
		t.Error("zero Availability should be empty")
	}

	a := Availability{Weeks: []Interval{{Kind: constants.IntervalWeek, StartDate: "2026-07-06"}}}
	if a.IsEmpty() {
		t.Error("Availability with a week should not be empty")
	}
	if len(a.Of(constants.IntervalWeek)) != 1 || len(a.Of(constants.IntervalDay)) != 0 {
		t.Errorf("Of() split = %d weeks / %d days", len(a.Of(constants.IntervalWeek)), len(a.Of(constants.IntervalDay)))
	}
}

func testSet() PreferenceSet {
	return PreferenceSet{
		ID: Int64(3),
		Days: []Preference{
			{Kind: constants.IntervalDay, StartDate: "2026-06-02", Rank: 1},
			{Kind: constants.IntervalDay, StartDate: "2026-06-01", Rank: 2},
		},
		Weeks: []Preference{
			{Kind: constants.IntervalWeek, StartDate: "2026-07-06", EndDate: "2026-07-12", Rank: 1},
		},
	}
}

func TestPreferenceSetAccessors(t *testing.T) {
	s := testSet()

	if !s.HasID() || s.IDString() != "3" {
		t.Errorf("HasID/IDString = %v/%s, want true/3", s.HasID(), s.IDString())
	}
	if (PreferenceSet{}).IDString() != "-" {
		t.Error("IDString() of an unsaved set should be -")
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if got := s.RankOf(constants.IntervalDay, "2026-06-01"); got != 2 {
		t.Errorf("RankOf(day 06-01) = %d, want 2", got)
	}
	if got := s.RankOf(constants.IntervalWeek, "2026-06-01"); got != 0 {
		t.Errorf("RankOf(week 06-01) = %d, want 0", got)
	}
}

func TestPreferenceSetCloneIsDeep(t *testing.T) {
	s := testSet()
	c := s.Clone()

	if !c.Equal(s) {
		t.Fatal("Clone() should equal the original")
	}

	c.Days[0].Rank = 9
	*c.ID = 99
	if s.Days[0].Rank != 1 || *s.ID != 3 {
		t.Error("mutating the clone changed the original")
	}
}

func TestPreferenceSetEqual(t *testing.T) {
	base := testSet()

	tests := []struct {
		name   string
		mutate func(s *PreferenceSet)
		want   bool
	}{
		{"identical", func(s *PreferenceSet) {}, true},
		{"nil id", func(s *PreferenceSet) { s.ID = nil }, false},
		{"other id", func(s *PreferenceSet) { s.ID = Int64(4) }, false},
		{"order", func(s *PreferenceSet) { s.Days[0], s.Days[1] = s.Days[1], s.Days[0] }, false},
		{"end date", func(s *PreferenceSet) { s.Weeks[0].EndDate = "" }, false},
		{"missing week", func(s *PreferenceSet) { s.Weeks = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base.Clone()
			tt.mutate(&other)
			if got := base.Equal(other); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithID(t *testing.T) {
	s := PreferenceSet{Days: testSet().Days}
	id := Int64(12)

	out := s.WithID(id)
	if out.IDString() != "12" || s.HasID() {
		t.Errorf("WithID() = %s, original HasID = %v", out.IDString(), s.HasID())
	}
	*id = 13
	if out.IDString() != "12" {
		t.Error("WithID() should copy the id")
	}
	if cleared := out.WithID(nil); cleared.HasID() {
		t.Error("WithID(nil) should clear the id")
	}
}

func TestRound(t *testing.T) {
	r := Round{RoundID: "R1", ProcessID: "P1"}
	if r.Key() != (RoundKey{RoundID: "R1", ProcessID: "P1"}) {
		t.Errorf("Key() = %+v", r.Key())
	}
	if (RoundKey{}).IsZero() != true || r.Key().IsZero() {
		t.Error("IsZero() mismatch")
	}

	if got := r.ForcingSentence(); got != "You may be forced to take vacation in this upcoming rating." {
		t.Errorf("ForcingSentence() = %q", got)
	}
	r.IsBelowPointOfForcing = true
	if got := r.ForcingSentence(); got != "You will be forced to take vacation in this upcoming rating." {
		t.Errorf("ForcingSentence() = %q", got)
	}
}

func TestSaveAttemptSavedIDString(t *testing.T) {
	if got := (SaveAttempt{}).SavedIDString(); got != "-" {
		t.Errorf("SavedIDString() = %q, want -", got)
	}
	if got := (SaveAttempt{SavedID: Int64(5)}).SavedIDString(); got != "5" {
		t.Errorf("SavedIDString() = %q, want 5", got)
	}
}
