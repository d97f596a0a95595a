// Package quota loads the vacation intervals still open for a bidding round.
package quota

import (
	"context"

	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/errors"
	"github.com/julianstephens/vacationbid/internal/logger"
	"github.com/julianstephens/vacationbid/internal/models"
)

// Fetcher is the backend call the provider depends on
type Fetcher interface {
	FetchAvailability(ctx context.Context, key models.RoundKey, hint constants.IntervalType) (models.Availability, error)
}

// Provider loads availability once per view; it never retries or polls.
type Provider struct {
	fetcher Fetcher
}

func NewProvider(f Fetcher) *Provider {
	return &Provider{fetcher: f}
}

// Load returns the intervals open in the round. On failure it returns an
// empty Availability together with an error carrying a user-facing message,
// so callers can render the empty result and show the message.
func (p *Provider) Load(ctx context.Context, round models.Round) (models.Availability, error) {
	avail, err := p.fetcher.FetchAvailability(ctx, round.Key(), round.IntervalType)
	if err != nil {
		logger.Warn("Failed to load vacation availability", "round_id", round.RoundID, "process_id", round.ProcessID, "error", err)
		return models.Availability{}, errors.NewUserError(constants.MsgQuotaError, err)
	}
	logger.Debug("Loaded vacation availability", "round_id", round.RoundID, "days", len(avail.Days), "weeks", len(avail.Weeks))
	return avail, nil
}
