package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/models"
)

var validate = validator.New()

type envelope struct {
	Data json.RawMessage `json:"data"`
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

type roundData struct {
	RoundID               string `json:"round_id" validate:"required"`
	ProcessID             string `json:"process_id" validate:"required"`
	IntervalType          string `json:"interval_type" validate:"required,oneof=week day"`
	EmployeeID            string `json:"employee_id"`
	Rank                  int    `json:"rank" validate:"gte=0"`
	CutoffTime            string `json:"cutoff_time"`
	IsBelowPointOfForcing bool   `json:"is_below_point_of_forcing"`
	AmountToForce         *int   `json:"amount_to_force" validate:"omitempty,gte=0"`
}

func (d roundData) toModel() models.Round {
	return models.Round{
		RoundID:               d.RoundID,
		ProcessID:             d.ProcessID,
		EmployeeID:            d.EmployeeID,
		Rank:                  d.Rank,
		CutoffTime:            d.CutoffTime,
		IntervalType:          constants.IntervalType(d.IntervalType),
		IsBelowPointOfForcing: d.IsBelowPointOfForcing,
		AmountToForce:         d.AmountToForce,
	}
}

type dayQuotaData struct {
	Date      models.Date `json:"date" validate:"required_without=StartDate"`
	StartDate models.Date `json:"start_date"`
	Quota     int         `json:"quota" validate:"gte=0"`
}

type weekQuotaData struct {
	StartDate models.Date `json:"start_date" validate:"required"`
	EndDate   models.Date `json:"end_date" validate:"required"`
	Quota     int         `json:"quota" validate:"gte=0"`
}

type quotaSummaryData struct {
	Days  []dayQuotaData  `json:"days" validate:"dive"`
	Weeks []weekQuotaData `json:"weeks" validate:"dive"`
}

type intervalQuotaData struct {
	StartDate      models.Date `json:"start_date" validate:"required"`
	EndDate        models.Date `json:"end_date"`
	Quota          int         `json:"quota" validate:"gte=0"`
	PreferenceRank *int        `json:"preference_rank" validate:"omitempty,gte=1"`
	IntervalType   string      `json:"interval_type" validate:"omitempty,oneof=week day"`
}

// decodeAvailability accepts both the {days, weeks} summary and the flat
// per-interval array. Array items without an interval_type take hint, and
// without a hint an item spanning more than one date is a week.
func decodeAvailability(raw json.RawMessage, hint constants.IntervalType) (models.Availability, error) {
	var out models.Availability
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return out, nil
	}

	if raw[0] == '[' {
		var items []intervalQuotaData
		if err := json.Unmarshal(raw, &items); err != nil {
			return out, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		for _, it := range items {
			if err := validate.Struct(it); err != nil {
				return out, fmt.Errorf("%w: %v", ErrDecode, err)
			}
			kind := constants.IntervalType(it.IntervalType)
			if kind == "" {
				kind = hint
			}
			if kind == "" {
				kind = constants.IntervalDay
				if !it.EndDate.IsZero() && it.EndDate != it.StartDate {
					kind = constants.IntervalWeek
				}
			}
			iv := models.Interval{
				Kind:           kind,
				StartDate:      it.StartDate,
				EndDate:        it.EndDate,
				Quota:          it.Quota,
				PreferenceRank: it.PreferenceRank,
			}
			if kind == constants.IntervalWeek {
				out.Weeks = append(out.Weeks, iv)
			} else {
				out.Days = append(out.Days, iv)
			}
		}
		return out, nil
	}

	var summary quotaSummaryData
	if err := json.Unmarshal(raw, &summary); err != nil {
		return out, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := validate.Struct(summary); err != nil {
		return out, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	for _, d := range summary.Days {
		start := d.Date
		if start.IsZero() {
			start = d.StartDate
		}
		out.Days = append(out.Days, models.Interval{
			Kind:      constants.IntervalDay,
			StartDate: start,
			Quota:     d.Quota,
		})
	}
	for _, w := range summary.Weeks {
		out.Weeks = append(out.Weeks, models.Interval{
			Kind:      constants.IntervalWeek,
			StartDate: w.StartDate,
			EndDate:   w.EndDate,
			Quota:     w.Quota,
		})
	}
	return out, nil
}

type preferenceData struct {
	StartDate    models.Date `json:"start_date" validate:"required"`
	EndDate      models.Date `json:"end_date,omitempty"`
	Rank         int         `json:"rank" validate:"gte=1"`
	IntervalType string      `json:"interval_type,omitempty" validate:"omitempty,oneof=week day"`
}

type preferenceSetData struct {
	ID          *int64           `json:"id"`
	Days        []preferenceData `json:"days" validate:"dive"`
	Weeks       []preferenceData `json:"weeks" validate:"dive"`
	Preferences []preferenceData `json:"preferences" validate:"dive"`
}

type preferenceSetRequest struct {
	RoundID   string           `json:"round_id"`
	ProcessID string           `json:"process_id"`
	Weeks     []preferenceData `json:"weeks"`
	Days      []preferenceData `json:"days"`
}

func newPreferenceSetRequest(key models.RoundKey, set models.PreferenceSet) preferenceSetRequest {
	return preferenceSetRequest{
		RoundID:   key.RoundID,
		ProcessID: key.ProcessID,
		Weeks:     toPreferenceData(set.Weeks),
		Days:      toPreferenceData(set.Days),
	}
}

// toPreferenceData never returns nil so empty lists go out as []
func toPreferenceData(prefs []models.Preference) []preferenceData {
	out := make([]preferenceData, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, preferenceData{StartDate: p.StartDate, EndDate: p.EndDate, Rank: p.Rank})
	}
	return out
}

// decodePreferenceSet turns a payload into a set whose per-kind ranks are
// exactly 1..N in list order. Payloads that cannot satisfy that are rejected.
func decodePreferenceSet(raw json.RawMessage) (models.PreferenceSet, error) {
	if isNull(raw) {
		return models.PreferenceSet{}, nil
	}

	var data preferenceSetData
	if err := json.Unmarshal(raw, &data); err != nil {
		return models.PreferenceSet{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := validate.Struct(data); err != nil {
		return models.PreferenceSet{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	days := fromPreferenceData(data.Days, constants.IntervalDay)
	weeks := fromPreferenceData(data.Weeks, constants.IntervalWeek)
	for _, p := range data.Preferences {
		switch constants.IntervalType(p.IntervalType) {
		case constants.IntervalDay:
			days = append(days, fromPreferenceData([]preferenceData{p}, constants.IntervalDay)...)
		case constants.IntervalWeek:
			weeks = append(weeks, fromPreferenceData([]preferenceData{p}, constants.IntervalWeek)...)
		default:
			return models.PreferenceSet{}, fmt.Errorf("%w: preference %s has no interval_type", ErrDecode, p.StartDate)
		}
	}

	var err error
	if days, err = orderByRank(days); err != nil {
		return models.PreferenceSet{}, err
	}
	if weeks, err = orderByRank(weeks); err != nil {
		return models.PreferenceSet{}, err
	}
	return models.PreferenceSet{ID: data.ID, Days: days, Weeks: weeks}, nil
}

func fromPreferenceData(in []preferenceData, kind constants.IntervalType) []models.Preference {
	out := make([]models.Preference, 0, len(in))
	for _, p := range in {
		out = append(out, models.Preference{Kind: kind, StartDate: p.StartDate, EndDate: p.EndDate, Rank: p.Rank})
	}
	return out
}

func orderByRank(prefs []models.Preference) ([]models.Preference, error) {
	sort.SliceStable(prefs, func(i, j int) bool { return prefs[i].Rank < prefs[j].Rank })
	for i, p := range prefs {
		if p.Rank != i+1 {
			return nil, fmt.Errorf("%w: %s ranks are not contiguous (got %d at position %d)", ErrDecode, p.Kind, p.Rank, i+1)
		}
	}
	return prefs, nil
}
