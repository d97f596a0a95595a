package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

// IntervalType is the granularity of a vacation interval
type IntervalType string

const (
	AppName           = "vacationbid"
	Version           = "v0.3.0"
	DefaultConfigDir  = "~/.config/vacationbid"
	DefaultJournal    = "~/.config/vacationbid/journal.db"
	DefaultBaseURL    = "http://localhost:4000"
	DefaultTimeout    = 15 * time.Second
	EnvFileName       = ".env"
	LogFileName       = "vacationbid.log"
	KeyringCSRFUser   = "csrf-token"
	KeyringCookieUser = "session-cookie"

	// Interval types
	IntervalDay  IntervalType = "day"
	IntervalWeek IntervalType = "week"

	// Backend routes
	PathPickOverview  = "/api/vacation/pick_overview"
	PathAvailability  = "/api/vacation_availability"
	PathPreferences   = "/api/vacation/preferences"
	PathLatestPrefSet = "/api/vacation/preferences/latest"

	// Request headers
	HeaderCSRFToken = "x-csrf-token"
	HeaderRequestID = "X-Request-Id"

	// User-facing messages
	MsgSaveError      = "Error saving preferences. Please try again"
	MsgStaleRevision  = "Your preferences were changed elsewhere. Please reload and try again"
	MsgFetchError     = "Error fetching vacation pick data. Please try again"
	MsgQuotaError     = "Unable to load available vacation. Please try again"
	MsgNoOpenRound    = "No open vacation round."
	MsgLoading        = "Loading"
	MsgNoPreferences  = "No preferences selected yet."
	MsgNoAvailability = "No vacation time available."

	// Journal outcomes
	OutcomeSaved  = "saved"
	OutcomeFailed = "failed"
	OutcomeStale  = "stale"
)

// Session States
const (
	StateRound SessionState = iota
	StateAvailable
	StatePreferences
	StateConfirmReload
)
