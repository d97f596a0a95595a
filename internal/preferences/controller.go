package preferences

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/julianstephens/vacationbid/internal/api"
	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/errors"
	"github.com/julianstephens/vacationbid/internal/logger"
	"github.com/julianstephens/vacationbid/internal/models"
)

var (
	// ErrNotLoaded is returned for toggles issued before the first load
	ErrNotLoaded = stderrors.New("preferences are not loaded yet")
	// ErrInvalidInterval is returned for toggles without a start date or kind
	ErrInvalidInterval = stderrors.New("invalid interval")
)

// Saver sends a complete preference set and returns the server's copy.
// A set without an id is created, one with an id is updated.
type Saver interface {
	SavePreferences(ctx context.Context, key models.RoundKey, set models.PreferenceSet) (models.PreferenceSet, error)
}

// SaveErrorMessage maps a save failure to the text shown to the employee
func SaveErrorMessage(err error) string {
	if stderrors.Is(err, api.ErrStaleRevision) {
		return constants.MsgStaleRevision
	}
	return constants.MsgSaveError
}

// Controller applies toggles optimistically and serializes saves. At most
// one save is in flight; toggles made meanwhile queue on top of the
// optimistic set and go out together in the next save, addressed with the id
// from the latest response.
type Controller struct {
	mu       sync.Mutex
	store    *Store
	saver    Saver
	pending  []Toggle
	inFlight  bool
	reloading bool
	gen       int // bumped by Reload so an in-flight Flush knows its batch is gone
}

func NewController(store *Store, saver Saver) *Controller {
	return &Controller{store: store, saver: saver}
}

// Store returns the store the controller writes to
func (c *Controller) Store() *Store { return c.store }

// Apply stages t in the store without touching the network. It reports
// whether the caller should start a Flush; false means either nothing
// changed or a save already in flight will pick the toggle up.
func (c *Controller) Apply(t Toggle) (bool, error) {
	if t.Interval.StartDate.IsZero() ||
		(t.Interval.Kind != constants.IntervalDay && t.Interval.Kind != constants.IntervalWeek) {
		return false, fmt.Errorf("%w: %q %q", ErrInvalidInterval, t.Interval.Kind, t.Interval.StartDate)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// toggles during a reload would be staged on the set being replaced
	if c.reloading || !c.store.isLoaded() {
		return false, ErrNotLoaded
	}
	if !changes(c.store.visibleSet(), t) {
		return false, nil
	}

	c.pending = append(c.pending, t)
	c.store.stage(ApplyAll(c.store.confirmedSet(), c.pending))
	logger.Debug("Staged preference toggle", "kind", t.Interval.Kind, "start", t.Interval.StartDate, "checked", t.Checked, "pending", len(c.pending))
	return !c.inFlight, nil
}

// Flush sends queued toggles until none are left. Calls made while another
// Flush is running return immediately; that Flush will send their toggles.
// On failure the store reverts to the last confirmed set, every queued
// toggle is dropped and the returned error carries the user-facing message.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight || len(c.pending) == 0 {
		c.mu.Unlock()
		return nil
	}
	c.inFlight = true
	defer func() {
		c.inFlight = false
		c.mu.Unlock()
	}()

	for len(c.pending) > 0 {
		batch := len(c.pending)
		gen := c.gen
		base := c.store.confirmedSet()
		candidate := ApplyAll(base, c.pending)

		saved, err := c.save(ctx, candidate)

		if err != nil {
			msg := SaveErrorMessage(err)
			logger.Error("Failed to save preferences", "id", base.IDString(), "toggles", batch, "error", err)
			c.pending = nil
			c.store.revert(msg)
			return errors.NewUserError(msg, err)
		}

		if gen == c.gen {
			c.pending = c.pending[batch:]
		}
		c.store.settle(saved.Clone(), ApplyAll(saved, c.pending), len(c.pending) > 0)
		logger.Info("Saved preferences", "id", saved.IDString(), "days", len(saved.Days), "weeks", len(saved.Weeks))
	}
	return nil
}

// save calls the saver with c.mu released. The deferred Lock keeps the
// caller's deferred Unlock balanced if the saver panics.
func (c *Controller) save(ctx context.Context, set models.PreferenceSet) (models.PreferenceSet, error) {
	c.mu.Unlock()
	defer c.mu.Lock()
	return c.saver.SavePreferences(ctx, c.store.Key(), set)
}

// Toggle stages t and, unless a save is already running, saves until the
// queue is empty.
func (c *Controller) Toggle(ctx context.Context, interval models.Interval, checked bool) error {
	start, err := c.Apply(Toggle{Interval: interval, Checked: checked})
	if err != nil || !start {
		return err
	}
	return c.Flush(ctx)
}

// Reload discards queued toggles and fetches the latest set again, which is
// how an employee recovers from a stale-revision error. Toggles are rejected
// with ErrNotLoaded until the fetch returns.
func (c *Controller) Reload(ctx context.Context) (models.PreferenceSet, error) {
	c.mu.Lock()
	c.pending = nil
	c.gen++
	c.reloading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.reloading = false
		c.mu.Unlock()
	}()
	return c.store.LoadLatest(ctx)
}
