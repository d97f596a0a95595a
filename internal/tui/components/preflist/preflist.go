package preflist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/models"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	rankStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(5)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	set      models.PreferenceSet
	saving   bool
	width    int
	height   int
}

func New(width, height int) Model {
	m := Model{viewport: viewport.New(width, height)}
	m.Render()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetSet shows set; saving marks it as not yet confirmed
func (m *Model) SetSet(set models.PreferenceSet, saving bool) {
	m.set = set
	m.saving = saving
	m.Render()
}

func (m *Model) Render() {
	m.viewport.SetContent(Render(m.set, m.saving))
}

// Render lays out the ranked days then weeks
func Render(set models.PreferenceSet, saving bool) string {
	if set.Len() == 0 {
		return constants.MsgNoPreferences
	}

	var b strings.Builder
	for _, kind := range []constants.IntervalType{constants.IntervalDay, constants.IntervalWeek} {
		prefs := set.Of(kind)
		if len(prefs) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		title := "Days"
		if kind == constants.IntervalWeek {
			title = "Weeks"
		}
		b.WriteString(headingStyle.Render(title) + "\n")
		for _, p := range prefs {
			label := models.Interval{Kind: p.Kind, StartDate: p.StartDate}.Label()
			b.WriteString(fmt.Sprintf("%s %s\n",
				rankStyle.Render(fmt.Sprintf("#%d", p.Rank)),
				dateStyle.Render(label),
			))
		}
	}

	status := "saved as set " + set.IDString()
	if saving {
		status = "saving..."
	} else if !set.HasID() {
		status = "not saved yet"
	}
	b.WriteString("\n" + statusStyle.Render(status))
	return b.String()
}
