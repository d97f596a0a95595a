package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/vacationbid/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case m.loading:
		content = m.spinner.View() + " " + constants.MsgLoading
	case m.state == constants.StateConfirmReload:
		content = m.form.View()
	case m.state == constants.StateRound:
		content = m.roundModel.View()
	case m.sess == nil || !m.sess.HasRound():
		// mount failed or no round is open; the banner or round tab says which
		content = mutedStyle.Render(constants.MsgNoOpenRound)
	case m.state == constants.StateAvailable:
		content = m.quotaList.View()
	case m.state == constants.StatePreferences:
		content = m.prefList.View()
	}

	parts := []string{m.viewTabs(), docStyle.Render(content)}
	if m.banner != "" {
		parts = append(parts, dangerStyle.Render(m.banner))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	active := m.state
	if active == constants.StateConfirmReload {
		active = m.previousState
	}

	var tabs []string
	for i, title := range tabTitles {
		if active == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
