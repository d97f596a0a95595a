package picks

import (
	"bytes"
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/julianstephens/vacationbid/internal/cli"
	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/models"
)

type fakeBackend struct {
	mu          sync.Mutex
	round       *models.Round
	overviewErr error
	avail       models.Availability
	availErr    error
	latest      models.PreferenceSet
	saves       []models.PreferenceSet
}

func (f *fakeBackend) FetchPickOverview(context.Context) (*models.Round, error) {
	return f.round, f.overviewErr
}

func (f *fakeBackend) FetchAvailability(context.Context, models.RoundKey, constants.IntervalType) (models.Availability, error) {
	return f.avail, f.availErr
}

func (f *fakeBackend) FetchLatestPreferences(context.Context, models.RoundKey) (models.PreferenceSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest.Clone(), nil
}

func (f *fakeBackend) SavePreferences(_ context.Context, _ models.RoundKey, set models.PreferenceSet) (models.PreferenceSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, set.Clone())
	saved := set.WithID(models.Int64(31))
	f.latest = saved.Clone()
	return saved, nil
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		round: &models.Round{
			RoundID: "R1", ProcessID: "P1", EmployeeID: "4412", Rank: 3,
			CutoffTime: "2026-03-01T17:00:00Z", IntervalType: constants.IntervalWeek,
		},
		avail: models.Availability{
			Days: []models.Interval{
				{Kind: constants.IntervalDay, StartDate: "2026-06-01", Quota: 2},
			},
			Weeks: []models.Interval{
				{Kind: constants.IntervalWeek, StartDate: "2026-07-06", EndDate: "2026-07-12", Quota: 1},
				{Kind: constants.IntervalWeek, StartDate: "2026-07-13", EndDate: "2026-07-19", Quota: 4},
			},
		},
	}
}

func setupContext(t *testing.T, b *fakeBackend) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	ctx := &cli.Context{Backend: b, Out: &out}
	t.Cleanup(func() { ctx.Close() })
	return ctx, &out
}

func TestRoundCmd(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *fakeBackend)
		want    []string
		wantErr string
	}{
		{
			name: "open round",
			want: []string{"Round R1 (process P1)", "4412", "Rank in group:  3", "weeks", "You may be forced"},
		},
		{
			name:   "below point of forcing",
			mutate: func(b *fakeBackend) { b.round.IsBelowPointOfForcing = true },
			want:   []string{"You will be forced"},
		},
		{
			name:   "no round",
			mutate: func(b *fakeBackend) { b.round = nil },
			want:   []string{constants.MsgNoOpenRound},
		},
		{
			name:    "overview failure",
			mutate:  func(b *fakeBackend) { b.overviewErr = stderrors.New("boom") },
			wantErr: constants.MsgFetchError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend()
			if tt.mutate != nil {
				tt.mutate(b)
			}
			ctx, out := setupContext(t, b)

			err := (&RoundCmd{}).Run(ctx)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("Run() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output = %q, missing %q", out.String(), w)
				}
			}
		})
	}
}

func TestQuotaCmd(t *testing.T) {
	b := newBackend()
	b.latest = models.PreferenceSet{
		ID:    models.Int64(5),
		Weeks: []models.Preference{{Kind: constants.IntervalWeek, StartDate: "2026-07-13", Rank: 1}},
	}
	ctx, out := setupContext(t, b)

	if err := (&QuotaCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, w := range []string{"[ ] day", "2026-06-01", "[ ] week  week of 2026-07-06", "[1] week  week of 2026-07-13", "quota 4"} {
		if !strings.Contains(out.String(), w) {
			t.Errorf("output = %q, missing %q", out.String(), w)
		}
	}
}

func TestQuotaCmdKindFilter(t *testing.T) {
	ctx, out := setupContext(t, newBackend())

	if err := (&QuotaCmd{Kind: "week"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.Contains(out.String(), "2026-06-01") {
		t.Errorf("output = %q, should not list days", out.String())
	}

	if err := (&QuotaCmd{Kind: "month"}).Run(ctx); err == nil {
		t.Error("an unknown --kind should fail")
	}
}

func TestQuotaCmdFailure(t *testing.T) {
	b := newBackend()
	b.availErr = stderrors.New("boom")
	ctx, _ := setupContext(t, b)

	err := (&QuotaCmd{}).Run(ctx)
	if err == nil || err.Error() != constants.MsgQuotaError {
		t.Errorf("Run() error = %v, want %q", err, constants.MsgQuotaError)
	}
}

func TestPrefsShowCmd(t *testing.T) {
	b := newBackend()
	b.latest = models.PreferenceSet{
		ID: models.Int64(5),
		Weeks: []models.Preference{
			{Kind: constants.IntervalWeek, StartDate: "2026-07-13", Rank: 1},
			{Kind: constants.IntervalWeek, StartDate: "2026-07-06", Rank: 2},
		},
	}
	ctx, out := setupContext(t, b)

	if err := (&PrefsShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Preference set 5") {
		t.Errorf("output = %q, want the set id", got)
	}
	if strings.Index(got, "2026-07-13") > strings.Index(got, "2026-07-06") {
		t.Errorf("output = %q, want rank order", got)
	}
}

func TestPrefsShowCmdEmpty(t *testing.T) {
	ctx, out := setupContext(t, newBackend())
	if err := (&PrefsShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), constants.MsgNoPreferences) {
		t.Errorf("output = %q, want %q", out.String(), constants.MsgNoPreferences)
	}
}

func TestPrefsAddAndRemove(t *testing.T) {
	b := newBackend()
	ctx, out := setupContext(t, b)

	add := &PrefsAddCmd{IntervalFlags{Week: "2026-07-13"}}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("add Run() error = %v", err)
	}
	if len(b.saves) != 1 || b.saves[0].HasID() {
		t.Fatalf("saves = %+v, want one create", b.saves)
	}
	if !strings.Contains(out.String(), "Preference set 31") {
		t.Errorf("output = %q, want the created set", out.String())
	}

	add = &PrefsAddCmd{IntervalFlags{Week: "2026-07-06"}}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("second add Run() error = %v", err)
	}
	second := b.saves[1]
	if !second.HasID() || second.RankOf(constants.IntervalWeek, "2026-07-06") != 2 {
		t.Errorf("second save = %+v, want update appending rank 2", second)
	}

	remove := &PrefsRemoveCmd{IntervalFlags{Week: "2026-07-13"}}
	if err := remove.Run(ctx); err != nil {
		t.Fatalf("remove Run() error = %v", err)
	}
	third := b.saves[2]
	if len(third.Weeks) != 1 || third.RankOf(constants.IntervalWeek, "2026-07-06") != 1 {
		t.Errorf("third save = %+v, want the remaining week re-ranked to 1", third)
	}
}

func TestPrefsAddUnknownInterval(t *testing.T) {
	b := newBackend()
	ctx, _ := setupContext(t, b)

	err := (&PrefsAddCmd{IntervalFlags{Day: "2026-12-25"}}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "no available day") {
		t.Errorf("Run() error = %v, want no available day", err)
	}
	if len(b.saves) != 0 {
		t.Errorf("saves = %d, want none", len(b.saves))
	}
}

func TestPrefsRemoveNotSelectedIsNoOp(t *testing.T) {
	b := newBackend()
	ctx, _ := setupContext(t, b)

	if err := (&PrefsRemoveCmd{IntervalFlags{Day: "2026-06-01"}}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(b.saves) != 0 {
		t.Errorf("saves = %d, want none for a no-op removal", len(b.saves))
	}
}

func TestIntervalFlagsSelection(t *testing.T) {
	tests := []struct {
		name    string
		flags   IntervalFlags
		kind    constants.IntervalType
		wantErr bool
	}{
		{"day", IntervalFlags{Day: "2026-06-01"}, constants.IntervalDay, false},
		{"week", IntervalFlags{Week: "2026-07-06"}, constants.IntervalWeek, false},
		{"both", IntervalFlags{Day: "a", Week: "b"}, "", true},
		{"neither", IntervalFlags{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _, err := tt.flags.selection()
			if (err != nil) != tt.wantErr {
				t.Fatalf("selection() error = %v, wantErr %v", err, tt.wantErr)
			}
			if kind != tt.kind {
				t.Errorf("selection() kind = %s, want %s", kind, tt.kind)
			}
		})
	}
}

func TestPrefsAddIsJournaled(t *testing.T) {
	b := newBackend()
	ctx, _ := setupContext(t, b)
	ctx.JournalTarget = filepath.Join(t.TempDir(), "journal.db")

	if err := (&PrefsAddCmd{IntervalFlags{Day: "2026-06-01"}}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	store, err := ctx.Journal()
	if err != nil {
		t.Fatalf("Journal() error = %v", err)
	}
	attempts, err := store.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(attempts) != 1 || attempts[0].Outcome != constants.OutcomeSaved || attempts[0].DayCount != 1 {
		t.Errorf("attempts = %+v, want one saved attempt with one day", attempts)
	}
}
