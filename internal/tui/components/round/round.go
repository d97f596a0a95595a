package round

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/models"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	forcingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)
)

type Model struct {
	round  *models.Round
	width  int
	height int
}

func New(r *models.Round) Model {
	return Model{round: r}
}

func (m *Model) SetRound(r *models.Round) {
	m.round = r
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) View() string {
	return Render(m.round)
}

// Render shows the pick overview; nil means no open round
func Render(r *models.Round) string {
	if r == nil {
		return constants.MsgNoOpenRound
	}

	picking := ""
	if r.IntervalType != "" {
		picking = string(r.IntervalType) + "s"
	}

	rows := [][2]string{
		{"Badge", r.EmployeeID},
		{"Rank in group", fmt.Sprintf("%d", r.Rank)},
		{"Cutoff", r.CutoffTime},
		{"Picking", picking},
		{"Round", r.RoundID},
		{"Process", r.ProcessID},
	}
	if r.AmountToForce != nil {
		rows = append(rows, [2]string{"Amount to force", fmt.Sprintf("%d", *r.AmountToForce)})
	}

	var b strings.Builder
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		b.WriteString(labelStyle.Render(row[0]) + valueStyle.Render(row[1]) + "\n")
	}
	b.WriteString("\n" + forcingStyle.Render(r.ForcingSentence()))
	return b.String()
}
