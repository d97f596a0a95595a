package models

import "github.com/julianstephens/vacationbid/internal/constants"

// RoundKey scopes every quota and preference call to one bidding round
type RoundKey struct {
	RoundID   string
	ProcessID string
}

// IsZero reports whether no round is selected
func (k RoundKey) IsZero() bool {
	return k.RoundID == "" && k.ProcessID == ""
}

// Round is the pick overview for the signed-in employee
type Round struct {
	RoundID               string
	ProcessID             string
	EmployeeID            string
	Rank                  int
	CutoffTime            string
	IntervalType          constants.IntervalType
	IsBelowPointOfForcing bool
	AmountToForce         *int
}

// Key returns the round/process pair used to scope requests
func (r Round) Key() RoundKey {
	return RoundKey{RoundID: r.RoundID, ProcessID: r.ProcessID}
}

// ForcingSentence is the point-of-forcing notice shown with the overview
func (r Round) ForcingSentence() string {
	verb := "may"
	if r.IsBelowPointOfForcing {
		verb = "will"
	}
	return "You " + verb + " be forced to take vacation in this upcoming rating."
}
