package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/errors"
	"github.com/julianstephens/vacationbid/internal/preferences"
	"github.com/julianstephens/vacationbid/internal/session"
	"github.com/julianstephens/vacationbid/internal/tui/components/preflist"
	"github.com/julianstephens/vacationbid/internal/tui/components/quotalist"
	"github.com/julianstephens/vacationbid/internal/tui/components/round"
)

var tabTitles = []string{"Round", "Available", "Preferences"}

type mountedMsg struct {
	sess *session.Session
	err  error
}

type savedMsg struct{ err error }

type reloadedMsg struct{ err error }

type ConfirmationFormModel struct {
	Confirmed bool
}

type Model struct {
	ctx              context.Context
	deps             session.Deps
	timeout          time.Duration
	sess             *session.Session
	state            constants.SessionState
	previousState    constants.SessionState
	keys             KeyMap
	help             help.Model
	spinner          spinner.Model
	loading          bool
	banner           string // user-facing error, empty when none
	form             *huh.Form
	confirmationForm *ConfirmationFormModel
	roundModel       round.Model
	quotaList        quotalist.Model
	prefList         preflist.Model
	quitting         bool
	width            int
	height           int
}

// NewModel builds the pick screen. Nothing is fetched until Init runs.
// timeout bounds each backend round trip; zero means no bound.
func NewModel(ctx context.Context, deps session.Deps, timeout time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:        ctx,
		deps:       deps,
		timeout:    timeout,
		state:      constants.StateRound,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		loading:    true,
		roundModel: round.New(nil),
		quotaList:  quotalist.New(0, 0),
		prefList:   preflist.New(0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateAvailable:
		keys = append(keys, m.keys.Toggle, m.keys.Reload)
	case constants.StatePreferences:
		keys = append(keys, m.keys.Reload)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.mount())
}

func (m Model) withTimeout() (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(m.ctx)
	}
	return context.WithTimeout(m.ctx, m.timeout)
}

func (m Model) mount() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		sess, err := session.Mount(ctx, m.deps)
		return mountedMsg{sess: sess, err: err}
	}
}

func (m Model) controller() *preferences.Controller {
	if m.sess == nil {
		return nil
	}
	return m.sess.Controller
}

func (m Model) flush() tea.Cmd {
	ctrl := m.controller()
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		return savedMsg{err: ctrl.Flush(ctx)}
	}
}

func (m Model) reload() tea.Cmd {
	ctrl := m.controller()
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		_, err := ctrl.Reload(ctx)
		return reloadedMsg{err: err}
	}
}

// refresh copies the store's current snapshot into the views
func (m *Model) refresh() {
	ctrl := m.controller()
	if ctrl == nil {
		return
	}
	snap := ctrl.Store().Current()
	m.quotaList.SetData(m.sess.Availability, snap.Set)
	m.prefList.SetSet(snap.Set, snap.Saving)

	m.banner = snap.Err
	if m.banner == "" && m.sess.QuotaErr != nil {
		m.banner = errors.UserMessage(m.sess.QuotaErr)
	}
}

func (m *Model) openReloadConfirm() {
	m.confirmationForm = &ConfirmationFormModel{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(constants.MsgStaleRevision).
				Affirmative("Reload").
				Negative("Keep").
				Value(&m.confirmationForm.Confirmed),
		),
	)
	if m.state != constants.StateConfirmReload {
		m.previousState = m.state
	}
	m.state = constants.StateConfirmReload
}
