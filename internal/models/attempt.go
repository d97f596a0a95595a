package models

import (
	"strconv"
	"time"
)

// SaveAttempt is one journaled create-or-update of a preference set
type SaveAttempt struct {
	ID         string
	RequestID  string
	RecordedAt time.Time
	Method     string
	Path       string
	RoundID    string
	ProcessID  string
	SetID      *int64
	SavedID    *int64
	DayCount   int
	WeekCount  int
	Outcome    string
	Error      string
	Duration   time.Duration
}

// SavedIDString renders the identifier the backend returned, or "-"
func (a SaveAttempt) SavedIDString() string {
	if a.SavedID == nil {
		return "-"
	}
	return strconv.FormatInt(*a.SavedID, 10)
}
