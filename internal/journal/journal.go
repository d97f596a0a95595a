// Package journal keeps a local record of every preference save attempt.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/vacationbid/internal/api"
	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/journal/postgres"
	"github.com/julianstephens/vacationbid/internal/journal/sqlite"
	"github.com/julianstephens/vacationbid/internal/logger"
	"github.com/julianstephens/vacationbid/internal/models"
	"github.com/julianstephens/vacationbid/internal/preferences"
)

// DefaultHistoryLimit is how many attempts `history` shows without --limit
const DefaultHistoryLimit = 20

// Store persists save attempts
type Store interface {
	Init() error
	Close() error
	Location() string
	Append(ctx context.Context, a models.SaveAttempt) error
	Recent(ctx context.Context, limit int) ([]models.SaveAttempt, error)
}

// Open initializes the journal named by target: a postgres:// URL selects
// PostgreSQL, anything else is a sqlite file path.
func Open(target string) (Store, error) {
	var store Store
	if postgres.IsConnString(target) {
		if err := postgres.ValidateConnString(target); err != nil {
			return nil, err
		}
		store = postgres.New(target)
	} else {
		store = sqlite.NewStore(target)
	}

	if err := store.Init(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return store, nil
}

// Recorder is a preferences.Saver that journals each attempt before
// handing the result back. Journal failures are logged, never returned.
type Recorder struct {
	next  preferences.Saver
	store Store
	now   func() time.Time
}

func NewRecorder(next preferences.Saver, store Store) *Recorder {
	return &Recorder{next: next, store: store, now: time.Now}
}

func (r *Recorder) SavePreferences(ctx context.Context, key models.RoundKey, set models.PreferenceSet) (models.PreferenceSet, error) {
	reqID := api.RequestIDFrom(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
		ctx = api.WithRequestID(ctx, reqID)
	}
	method, path := api.PreferenceSetEndpoint(set.ID)

	start := r.now()
	saved, err := r.next.SavePreferences(ctx, key, set)

	attempt := models.SaveAttempt{
		ID:         uuid.NewString(),
		RequestID:  reqID,
		RecordedAt: start,
		Method:     method,
		Path:       path,
		RoundID:    key.RoundID,
		ProcessID:  key.ProcessID,
		SetID:      set.ID,
		DayCount:   len(set.Days),
		WeekCount:  len(set.Weeks),
		Outcome:    Outcome(err),
		Duration:   r.now().Sub(start),
	}
	if err != nil {
		attempt.Error = err.Error()
	} else {
		attempt.SavedID = saved.ID
	}

	// a cancelled save is still worth recording
	if jerr := r.store.Append(context.WithoutCancel(ctx), attempt); jerr != nil {
		logger.Warn("Failed to journal save attempt", "request_id", reqID, "error", jerr)
	}
	return saved, err
}

// Outcome classifies a save result for the journal
func Outcome(err error) string {
	switch {
	case err == nil:
		return constants.OutcomeSaved
	case errors.Is(err, api.ErrStaleRevision):
		return constants.OutcomeStale
	default:
		return constants.OutcomeFailed
	}
}
