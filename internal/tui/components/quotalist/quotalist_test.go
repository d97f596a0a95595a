package quotalist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/models"
)

func testAvailability() models.Availability {
	return models.Availability{
		Days: []models.Interval{
			{Kind: constants.IntervalDay, StartDate: "2026-06-01", EndDate: "2026-06-01", Quota: 3},
			{Kind: constants.IntervalDay, StartDate: "2026-06-02", EndDate: "2026-06-02", Quota: 0},
		},
		Weeks: []models.Interval{
			{Kind: constants.IntervalWeek, StartDate: "2026-07-06", EndDate: "2026-07-12", Quota: 1},
		},
	}
}

func TestItems(t *testing.T) {
	set := models.PreferenceSet{
		Weeks: []models.Preference{{Kind: constants.IntervalWeek, StartDate: "2026-07-06", Rank: 1}},
		Days:  []models.Preference{{Kind: constants.IntervalDay, StartDate: "2026-06-02", Rank: 1}},
	}

	items := Items(testAvailability(), set)
	if len(items) != 3 {
		t.Fatalf("Items() returned %d rows, want 3", len(items))
	}

	want := []struct {
		start   models.Date
		checked bool
	}{
		{"2026-06-01", false},
		{"2026-06-02", true},
		{"2026-07-06", true},
	}
	for i, w := range want {
		if items[i].Interval.StartDate != w.start || items[i].Checked() != w.checked {
			t.Errorf("items[%d] = %s checked=%v, want %s checked=%v",
				i, items[i].Interval.StartDate, items[i].Checked(), w.start, w.checked)
		}
	}
}

func TestItemRendering(t *testing.T) {
	unchecked := Item{Interval: models.Interval{Kind: constants.IntervalDay, StartDate: "2026-06-01", Quota: 3}}
	if !strings.HasPrefix(unchecked.Title(), "[ ] ") {
		t.Errorf("Title() = %q, want unchecked box", unchecked.Title())
	}
	if strings.Contains(unchecked.Description(), "preference") {
		t.Errorf("Description() = %q, should not show a rank", unchecked.Description())
	}

	checked := Item{Interval: models.Interval{Kind: constants.IntervalWeek, StartDate: "2026-07-06", Quota: 1}, Rank: 2}
	if !strings.HasPrefix(checked.Title(), "[x] ") {
		t.Errorf("Title() = %q, want checked box", checked.Title())
	}
	if !strings.Contains(checked.Description(), "preference #2") {
		t.Errorf("Description() = %q, want rank 2", checked.Description())
	}
}

func TestToggleEmitsMsg(t *testing.T) {
	m := New(80, 20)
	m.SetData(testAvailability(), models.PreferenceSet{
		Days: []models.Preference{{Kind: constants.IntervalDay, StartDate: "2026-06-01", Rank: 1}},
	})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if cmd == nil {
		t.Fatal("space on a row should emit a command")
	}
	msg, ok := cmd().(ToggleMsg)
	if !ok {
		t.Fatalf("command produced %T, want ToggleMsg", cmd())
	}
	if msg.Interval.StartDate != "2026-06-01" || msg.Checked {
		t.Errorf("ToggleMsg = %+v, want uncheck of 2026-06-01", msg)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on a row should emit a command")
	}
	msg = cmd().(ToggleMsg)
	if msg.Interval.StartDate != "2026-06-02" || !msg.Checked {
		t.Errorf("ToggleMsg = %+v, want check of 2026-06-02", msg)
	}
}

func TestEmptyView(t *testing.T) {
	m := New(80, 20)
	if !strings.Contains(m.View(), constants.MsgNoAvailability) {
		t.Errorf("View() = %q, want empty notice", m.View())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if cmd != nil {
		if _, ok := cmd().(ToggleMsg); ok {
			t.Error("toggle on an empty list should not emit ToggleMsg")
		}
	}
}

func TestSetDataKeepsCursor(t *testing.T) {
	m := New(80, 20)
	m.SetData(testAvailability(), models.PreferenceSet{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	m.SetData(testAvailability(), models.PreferenceSet{
		Days: []models.Preference{{Kind: constants.IntervalDay, StartDate: "2026-06-02", Rank: 1}},
	})
	sel, ok := m.Selected()
	if !ok || sel.Interval.StartDate != "2026-06-02" || !sel.Checked() {
		t.Errorf("Selected() = %+v, want checked 2026-06-02", sel)
	}
}
