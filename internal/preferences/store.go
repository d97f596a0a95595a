// Package preferences keeps the employee's ranked preference set in sync
// with the backend.
package preferences

import (
	"context"
	"sync"

	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/errors"
	"github.com/julianstephens/vacationbid/internal/logger"
	"github.com/julianstephens/vacationbid/internal/models"
)

// Loader fetches the latest saved set for a round
type Loader interface {
	FetchLatestPreferences(ctx context.Context, key models.RoundKey) (models.PreferenceSet, error)
}

// Snapshot is a consistent read of the store
type Snapshot struct {
	Loaded    bool                 // false until the first successful load
	Saving    bool                 // a save is in flight or queued
	Set       models.PreferenceSet // what the employee should see, possibly optimistic
	Confirmed models.PreferenceSet // last server-confirmed set
	Err       string               // user-facing error, empty when none
}

// Store holds the authoritative preference set and the optimistic view
// derived from it. It is safe for concurrent use; only the Controller and
// LoadLatest mutate it.
type Store struct {
	mu        sync.RWMutex
	loader    Loader
	key       models.RoundKey
	loaded    bool
	saving    bool
	confirmed models.PreferenceSet
	visible   models.PreferenceSet
	errMsg    string
}

func NewStore(loader Loader, key models.RoundKey) *Store {
	return &Store{loader: loader, key: key}
}

// Key is the round this store is scoped to
func (s *Store) Key() models.RoundKey { return s.key }

// Current returns the latest known state
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Loaded:    s.loaded,
		Saving:    s.saving,
		Set:       s.visible.Clone(),
		Confirmed: s.confirmed.Clone(),
		Err:       s.errMsg,
	}
}

// LoadLatest fetches the most recently saved set. An employee with no saved
// set gets an empty set with no id. A failed load leaves the store unloaded
// and records a fetch error.
func (s *Store) LoadLatest(ctx context.Context) (models.PreferenceSet, error) {
	set, err := s.loader.FetchLatestPreferences(ctx, s.key)
	if err != nil {
		logger.Warn("Failed to load latest preferences", "round_id", s.key.RoundID, "error", err)
		s.SetError(constants.MsgFetchError)
		return models.PreferenceSet{}, errors.NewUserError(constants.MsgFetchError, err)
	}
	logger.Debug("Loaded latest preferences", "round_id", s.key.RoundID, "id", set.IDString(), "entries", set.Len())
	s.Replace(set)
	return set.Clone(), nil
}

// Replace overwrites the authoritative state and clears any error
func (s *Store) Replace(set models.PreferenceSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.confirmed = set.Clone()
	s.visible = set.Clone()
	s.errMsg = ""
}

// SetError records a user-facing message without touching preference data
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}

func (s *Store) isLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) confirmedSet() models.PreferenceSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.confirmed.Clone()
}

func (s *Store) visibleSet() models.PreferenceSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible.Clone()
}

// stage shows an optimistic candidate ahead of confirmation
func (s *Store) stage(candidate models.PreferenceSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = candidate
	s.saving = true
	s.errMsg = ""
}

// settle adopts a server response. visible is the server set with any
// toggles still waiting to be sent applied on top.
func (s *Store) settle(server, visible models.PreferenceSet, stillSaving bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed = server
	s.visible = visible
	s.saving = stillSaving
	s.errMsg = ""
}

// revert drops the optimistic view and records msg
func (s *Store) revert(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = s.confirmed.Clone()
	s.saving = false
	s.errMsg = msg
}
