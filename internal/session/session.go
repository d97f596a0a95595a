// Package session mounts everything the pick screen needs for one round.
package session

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/errors"
	"github.com/julianstephens/vacationbid/internal/logger"
	"github.com/julianstephens/vacationbid/internal/models"
	"github.com/julianstephens/vacationbid/internal/preferences"
	"github.com/julianstephens/vacationbid/internal/quota"
)

// Backend is the set of calls a session makes
type Backend interface {
	FetchPickOverview(ctx context.Context) (*models.Round, error)
	quota.Fetcher
	preferences.Loader
}

// Deps wires a session. Saver defaults to Backend when it implements
// preferences.Saver; callers pass a journaling saver to record attempts.
type Deps struct {
	Backend Backend
	Saver   preferences.Saver
	// Round, when set, skips the overview fetch so the quota and
	// preference loads start immediately.
	Round *models.Round
}

// Session is the mounted state for one round
type Session struct {
	Round        *models.Round // nil when no round is open
	Availability models.Availability
	QuotaErr     error // set when availability fell back to empty
	PrefErr      error // set when the latest preferences could not be loaded
	Controller   *preferences.Controller
}

// HasRound reports whether a round is open
func (s *Session) HasRound() bool { return s.Round != nil }

// Mount fetches the round overview (unless given), then loads availability
// and the latest preference set concurrently. Only a failed overview is an
// error; the other two degrade and are reported on the session.
func Mount(ctx context.Context, deps Deps) (*Session, error) {
	round := deps.Round
	if round == nil {
		r, err := deps.Backend.FetchPickOverview(ctx)
		if err != nil {
			logger.Error("Failed to fetch pick overview", "error", err)
			return nil, errors.NewUserError(constants.MsgFetchError, err)
		}
		round = r
	}

	s := &Session{Round: round}
	if round == nil {
		logger.Info("No open vacation round")
		return s, nil
	}

	saver := deps.Saver
	if saver == nil {
		if bs, ok := deps.Backend.(preferences.Saver); ok {
			saver = bs
		}
	}
	store := preferences.NewStore(deps.Backend, round.Key())
	s.Controller = preferences.NewController(store, saver)

	provider := quota.NewProvider(deps.Backend)

	var g errgroup.Group
	g.Go(func() error {
		s.Availability, s.QuotaErr = provider.Load(ctx, *round)
		return nil
	})
	g.Go(func() error {
		_, s.PrefErr = store.LoadLatest(ctx)
		return nil
	})
	_ = g.Wait()

	logger.Debug("Mounted session", "round_id", round.RoundID, "process_id", round.ProcessID,
		"quota_err", s.QuotaErr, "pref_err", s.PrefErr)
	return s, nil
}
