package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/models"
)

// roundQuery keeps round_id ahead of process_id, matching what the backend
// has always been sent. An empty key sends no query at all.
func roundQuery(key models.RoundKey) string {
	if key.IsZero() {
		return ""
	}
	return "round_id=" + url.QueryEscape(key.RoundID) + "&process_id=" + url.QueryEscape(key.ProcessID)
}

// PreferenceSetEndpoint routes a save: a set without an id is created, a set
// with one is updated in place.
func PreferenceSetEndpoint(id *int64) (method, path string) {
	if id == nil {
		return http.MethodPost, constants.PathPreferences
	}
	return http.MethodPut, constants.PathPreferences + "/" + strconv.FormatInt(*id, 10)
}

// FetchPickOverview returns the open round for the employee, or nil when
// there is none.
func (c *Client) FetchPickOverview(ctx context.Context) (*models.Round, error) {
	raw, err := c.get(ctx, constants.PathPickOverview, "")
	if err != nil {
		return nil, err
	}
	if isNull(raw) {
		return nil, nil
	}

	var data roundData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := validate.Struct(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	round := data.toModel()
	return &round, nil
}

// FetchAvailability returns the available quota for a round. hint is the
// round's interval type, used to classify flat array payloads.
func (c *Client) FetchAvailability(ctx context.Context, key models.RoundKey, hint constants.IntervalType) (models.Availability, error) {
	raw, err := c.get(ctx, constants.PathAvailability, roundQuery(key))
	if err != nil {
		return models.Availability{}, err
	}
	return decodeAvailability(raw, hint)
}

// FetchLatestPreferences returns the most recently saved set, or an empty
// set with no id when the employee has not saved one yet.
func (c *Client) FetchLatestPreferences(ctx context.Context, key models.RoundKey) (models.PreferenceSet, error) {
	raw, err := c.get(ctx, constants.PathLatestPrefSet, roundQuery(key))
	if err != nil {
		return models.PreferenceSet{}, err
	}
	return decodePreferenceSet(raw)
}

// SavePreferences sends the complete set. The returned set is the server's
// canonical copy and should replace the caller's.
func (c *Client) SavePreferences(ctx context.Context, key models.RoundKey, set models.PreferenceSet) (models.PreferenceSet, error) {
	method, path := PreferenceSetEndpoint(set.ID)
	raw, status, err := c.send(ctx, method, path, newPreferenceSetRequest(key, set))
	if err != nil {
		return models.PreferenceSet{}, err
	}

	if status == http.StatusNoContent {
		// Nothing to adopt: an update keeps what was sent, a create has no id
		if set.ID == nil {
			return models.PreferenceSet{}, fmt.Errorf("%w: create returned no content", ErrDecode)
		}
		return set.Clone(), nil
	}

	saved, err := decodePreferenceSet(raw)
	if err != nil {
		return models.PreferenceSet{}, err
	}
	if saved.ID == nil {
		return models.PreferenceSet{}, fmt.Errorf("%w: saved preference set has no id", ErrDecode)
	}
	return saved, nil
}
