package tui

import (
	stderrors "errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/vacationbid/internal/api"
	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/errors"
	"github.com/julianstephens/vacationbid/internal/logger"
	"github.com/julianstephens/vacationbid/internal/preferences"
	"github.com/julianstephens/vacationbid/internal/tui/components/quotalist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		w, h := msg.Width-4, msg.Height-8
		m.roundModel.SetSize(w, h)
		m.quotaList.SetSize(w, h)
		m.prefList.SetSize(w, h)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case mountedMsg:
		m.loading = false
		if msg.err != nil {
			m.banner = errors.UserMessage(msg.err)
			return m, nil
		}
		m.sess = msg.sess
		m.roundModel.SetRound(m.sess.Round)
		m.refresh()
		return m, nil

	case quotalist.ToggleMsg:
		return m.toggle(msg)

	case savedMsg:
		m.refresh()
		if msg.err != nil && stderrors.Is(msg.err, api.ErrStaleRevision) {
			m.openReloadConfirm()
			return m, m.form.Init()
		}
		return m, nil

	case reloadedMsg:
		m.refresh()
		return m, nil
	}

	if m.state == constants.StateConfirmReload {
		return m.updateConfirmReload(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.state == constants.StateAvailable && m.quotaList.Filtering() {
			var cmd tea.Cmd
			m.quotaList, cmd = m.quotaList.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % constants.SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + constants.SessionState(len(tabTitles))) % constants.SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			if m.controller() != nil {
				return m, m.reload()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateAvailable:
		m.quotaList, cmd = m.quotaList.Update(msg)
	case constants.StatePreferences:
		m.prefList, cmd = m.prefList.Update(msg)
	}
	return m, cmd
}

// toggle stages the change right away and starts a save unless one is
// already running; that save picks the change up.
func (m Model) toggle(msg quotalist.ToggleMsg) (tea.Model, tea.Cmd) {
	ctrl := m.controller()
	if ctrl == nil {
		return m, nil
	}

	// the row may not reflect a toggle still queued behind this one, so flip
	// against the store
	checked := ctrl.Store().Current().Set.RankOf(msg.Interval.Kind, msg.Interval.StartDate) == 0
	start, err := ctrl.Apply(preferences.Toggle{Interval: msg.Interval, Checked: checked})
	if err != nil {
		logger.Debug("Toggle rejected", "start", msg.Interval.StartDate, "error", err)
		m.refresh()
		if !stderrors.Is(err, preferences.ErrNotLoaded) {
			m.banner = err.Error()
		}
		return m, nil
	}

	m.refresh()
	if !start {
		return m, nil
	}
	return m, m.flush()
}

func (m Model) updateConfirmReload(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if m.confirmationForm.Confirmed {
			cmds = append(cmds, m.reload())
		}
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}
