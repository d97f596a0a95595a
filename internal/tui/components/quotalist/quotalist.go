package quotalist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/models"
)

// ToggleMsg asks the controller to add or remove an interval. Checked is the
// state the row showed when pressed.
type ToggleMsg struct {
	Interval models.Interval
	Checked  bool
}

type Item struct {
	Interval models.Interval
	Rank     int // 0 when not preferred
}

func (i Item) Checked() bool { return i.Rank > 0 }

func (i Item) Title() string {
	box := "[ ]"
	if i.Checked() {
		box = "[x]"
	}
	return box + " " + i.Interval.Label()
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | quota %d", i.Interval.Kind, i.Interval.Quota)
	if i.Checked() {
		desc += fmt.Sprintf(" | preference #%d", i.Rank)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Interval.Label() }

type KeyMap struct {
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Available"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle}
	}

	return Model{list: l, keys: keys}
}

// Items builds the rows for availability, days first, marking the
// intervals already in set with their rank.
func Items(avail models.Availability, set models.PreferenceSet) []Item {
	var items []Item
	for _, kind := range []constants.IntervalType{constants.IntervalDay, constants.IntervalWeek} {
		for _, iv := range avail.Of(kind) {
			items = append(items, Item{Interval: iv, Rank: set.RankOf(kind, iv.StartDate)})
		}
	}
	return items
}

// SetData replaces the rows, keeping the cursor where it was
func (m *Model) SetData(avail models.Availability, set models.PreferenceSet) {
	rows := Items(avail, set)
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = r
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx < len(items) {
		m.list.Select(idx)
	}
}

func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

// Filtering reports whether keystrokes belong to the filter input
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Toggle) {
			if i, ok := m.Selected(); ok {
				toggle := ToggleMsg{Interval: i.Interval, Checked: !i.Checked()}
				return m, func() tea.Msg { return toggle }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  " + constants.MsgNoAvailability
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
