package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"stocksearch/internal/domain"
	"stocksearch/internal/logging"
	"stocksearch/internal/search"
	"stocksearch/internal/ui/input"
	inputtypes "stocksearch/internal/ui/input/types"
	"stocksearch/internal/ui/views"
)

const queryCharLimit = 64

// Session is the part of search.Session the screen drives
type Session interface {
	Snapshot() search.State
	Updates() <-chan search.State
	Done() <-chan struct{}
	SetQueryText(text string) error
	SetSelection(id string) error
	ClearSelection() error
	RequestDetail() error
}

// Settings tunes the screen
type Settings struct {
	MinFragmentLength int
	MaxVisible        int
	Ready             bool // render the ready marker for terminal tests
	Logger            zerolog.Logger
}

// Model represents the UI state
type Model struct {
	session  Session
	settings Settings
	logger   zerolog.Logger

	state     search.State // last snapshot received from the session
	highlight int          // highlighted suggestion row, -1 for none

	width            int
	height           int
	showHelp         bool
	helpScrollOffset int
	statusMessage    string
	inPagerMode      bool // tracks if we're currently in pager mode

	help         help.Model
	spinner      spinner.Model
	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	inputHandler *input.Handler
	pager        *PagerOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(session Session, settings Settings) *Model {
	if settings.MinFragmentLength < 1 {
		settings.MinFragmentLength = search.DefaultMinFragmentLength
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = views.NewStyles().StatusLoading

	return &Model{
		session:      session,
		settings:     settings,
		logger:       logging.Component(settings.Logger, "ui"),
		state:        session.Snapshot(),
		highlight:    -1,
		help:         help.New(),
		spinner:      sp,
		renderer:     views.NewRenderer(),
		helpRenderer: NewHelpRenderer(settings.MinFragmentLength),
		inputHandler: input.New("Type a ticker symbol", queryCharLimit),
		pager:        NewPagerOps(nil),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.session.Updates(), m.session.Done()),
		m.inputHandler.Init(),
		m.spinner.Tick,
	)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			return m, m.handleHelpKey(msg)
		}

		m.statusMessage = ""
		actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())
		cmds := []tea.Cmd{cmd}
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action))
		}
		return m, tea.Batch(cmds...)

	case stateMsg:
		m.applyState(msg.state)
		return m, waitForState(m.session.Updates(), m.session.Done())

	case sessionClosedMsg:
		m.logger.Debug().Msg("session closed")
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case detailPagerMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Str("symbol", msg.symbol).Msg("pager failed")
			m.statusMessage = fmt.Sprintf("Could not open record: %v", msg.err)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil
	}

	return m, m.inputHandler.Update(msg)
}

// View renders the UI
func (m *Model) View() string {
	// Don't render anything if we're in pager mode
	if m.inPagerMode {
		return ""
	}

	state := views.ViewState{
		Width:             m.width,
		Height:            m.height,
		Input:             m.inputHandler.TextInput().View(),
		ModeName:          m.inputHandler.ModeName(),
		QueryText:         m.state.QueryText,
		MinFragmentLength: m.settings.MinFragmentLength,
		Suggestions:       m.state.Suggestions,
		Highlight:         m.highlight,
		MaxVisible:        m.settings.MaxVisible,
		Selection:         m.state.Selection,
		Detail:            m.state.Detail,
		SuggestInFlight:   m.state.SuggestInFlight(),
		DetailInFlight:    m.state.DetailInFlight(),
		Spinner:           m.spinner.View(),
		FailureText:       failureText(m.state.Failure),
		StatusMessage:     m.statusMessage,
		ShortHelp:         m.help.View(m.inputHandler.Keys()),
		ShowHelp:          m.showHelp,
		Ready:             m.settings.Ready,
	}
	if m.showHelp {
		state.HelpContent = m.helpRenderer.renderHelpContent(m.height, m.helpScrollOffset)
	}

	return m.renderer.Render(state)
}

// processAction executes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	var err error

	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.SelectHighlightedAction:
		err = m.session.SetSelection(a.Identifier)

	case inputtypes.ClearSelectionAction:
		err = m.session.ClearSelection()

	case inputtypes.UpdateTextAction:
		m.highlight = -1
		err = m.session.SetQueryText(a.Text)

	case inputtypes.RequestDetailAction:
		err = m.session.RequestDetail()
		if errors.Is(err, search.ErrNotActionable) {
			m.statusMessage = "Nothing to look up"
			return nil
		}

	case inputtypes.OpenDetailPagerAction:
		if m.state.Detail.IsZero() {
			return nil
		}
		return m.fetchDetailPager(m.state.Detail)

	case inputtypes.ToggleHelpAction:
		m.showHelp = !m.showHelp
		m.helpScrollOffset = 0

	case inputtypes.QuitAction:
		return tea.Quit

	case inputtypes.ChangeModeAction:
		// the handler already switched modes
	}

	if err != nil {
		m.logger.Error().Err(err).Str("action", action.Type()).Msg("session rejected action")
		m.statusMessage = err.Error()
		return nil
	}

	m.applyState(m.session.Snapshot())
	return nil
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "?", "f1":
		m.showHelp = false
		m.helpScrollOffset = 0
	case "ctrl+c":
		return tea.Quit
	case "up", "k":
		if m.helpScrollOffset > 0 {
			m.helpScrollOffset--
		}
	case "down", "j":
		m.helpScrollOffset++
	}
	return nil
}

func (m *Model) navigate(direction string) {
	n := len(m.state.Suggestions)
	if n == 0 {
		m.highlight = -1
		return
	}

	switch direction {
	case "up":
		if m.highlight > 0 {
			m.highlight--
		}
	case "down":
		if m.highlight < n-1 {
			m.highlight++
		}
	case "home":
		m.highlight = 0
	case "end":
		m.highlight = n - 1
	}
}

// applyState adopts a snapshot, keeping the highlight inside the list
func (m *Model) applyState(s search.State) {
	m.state = s
	switch n := len(s.Suggestions); {
	case n == 0:
		m.highlight = -1
	case m.highlight >= n:
		m.highlight = n - 1
	}
}

func (m *Model) inputContext() inputtypes.Context {
	return &input.ModelContext{
		State:     m.state,
		Highlight: m.highlight,
		HelpShown: m.showHelp,
	}
}

// fetchDetailPager shows the record in the pager
func (m *Model) fetchDetailPager(rec domain.DetailRecord) tea.Cmd {
	if m.program == nil {
		return func() tea.Msg {
			return detailPagerMsg{symbol: rec.Symbol(), err: errors.New("program not set")}
		}
	}
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.pager.Show(rec.Symbol(), views.DetailText(rec))
		m.program.Send(resumeRenderingMsg{})
		return detailPagerMsg{symbol: rec.Symbol(), err: err}
	}
}

// waitForState blocks until the session publishes a state or stops
func waitForState(updates <-chan search.State, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case s, ok := <-updates:
			if !ok {
				return sessionClosedMsg{}
			}
			return stateMsg{state: s}
		case <-done:
			return sessionClosedMsg{}
		}
	}
}

func failureText(f *search.Failure) string {
	if f == nil {
		return ""
	}
	switch f.Kind {
	case domain.FetchSuggest:
		return fmt.Sprintf("Suggestions for %q failed: %v", f.Key, f.Err)
	case domain.FetchDetail:
		return fmt.Sprintf("Lookup of %q failed: %v", f.Key, f.Err)
	default:
		return f.Err.Error()
	}
}
