package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/five82/melulu/internal/catalog"
	"github.com/five82/melulu/internal/prefs"
	"github.com/five82/melulu/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewBrowse View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *state.Controller
	Store      *state.Store
	Prefs      prefs.Prefs
	PrefsPath  string
	LogPath    string
	// LogChanged signals writes to LogPath. Without it the log view
	// re-reads the file on every tick.
	LogChanged <-chan struct{}
	// DeepLinkID is selected during boot, before any key is handled.
	DeepLinkID string
	Logger     *log.Logger
	PollTick   time.Duration
}

// Model is the root application state for Bubble Tea. It never mutates
// catalog state itself: keys become intents on the controller and the view
// is drawn from the snapshots the controller commits to the store.
type Model struct {
	// Configuration
	ctx        context.Context
	ctrl       *state.Controller
	store      *state.Store
	logger     *log.Logger
	prefs      prefs.Prefs
	prefsPath  string
	logPath    string
	logChanged <-chan struct{}
	deepLink   string
	pollTick   time.Duration
	keys       keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	notice      string

	// Data state
	snapshot state.Snapshot

	// Grid state
	cursor  int
	gridTop int // first visible card row

	// Search box
	searchInput textinput.Model
	searching   bool

	// chip is the highlighted genre chip, -1 for none. It follows the
	// user's chip, home and search keys, never the query text.
	chip int

	spinner spinner.Model

	// Drawer state
	drawerViewport viewport.Model
	drawerRevision uint64
	drawerID       string

	// Log state
	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	p := opts.Prefs
	if p.Theme == "" {
		p.Theme = themeOrder[0]
	}

	ti := textinput.New()
	ti.Placeholder = "Search dramas..."
	ti.Prompt = "/ "
	ti.CharLimit = 80

	theme := GetTheme(p.Theme)
	return Model{
		ctx:         ctx,
		ctrl:        opts.Controller,
		store:       opts.Store,
		logger:      logger,
		prefs:       p,
		prefsPath:   opts.PrefsPath,
		logPath:     opts.LogPath,
		logChanged:  opts.LogChanged,
		deepLink:    opts.DeepLinkID,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		theme:       theme,
		currentView: ViewBrowse,
		snapshot:    state.Snapshot{Mode: state.ModeHome, Page: 1},
		searchInput: ti,
		chip:        0,
		spinner:     newSpinner(theme),
		logState:    newLogState(),
	}
}

func newSpinner(t Theme) spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info))),
	)
}

// Init implements tea.Model. The boot intents begin here so that they
// precede every key press.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, watchCmd(m.ctx, m.store, 0))
	}
	if m.logChanged != nil {
		cmds = append(cmds, logWatchCmd(m.ctx, m.logChanged))
	}
	if m.ctrl != nil {
		cmds = append(cmds, bootCmd(m.ctx, m.ctrl.BeginBoot(m.deepLink)))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.searchInput.Width = max(m.width-8, 10)
		m.clampCursor()
		m.updateDrawerViewport(true)
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		if m.store == nil {
			return m, nil
		}
		return m, watchCmd(m.ctx, m.store, m.snapshot.Revision)

	case intentDoneMsg:
		m.handleIntentDone(msg)
		return m, nil

	case bootDoneMsg:
		if msg.err != nil {
			m.logger.Warn("boot failed", "error", msg.err)
		}
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case logChangedMsg:
		return m.handleLogChanged(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchInput(msg)
	}
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Info))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.updateDrawerViewport(true)
		m.logState.contentVersion++
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		if m.currentView == ViewLogs {
			m.currentView = ViewBrowse
			return m, nil
		}
		m.currentView = ViewLogs
		return m, m.refreshLogs()
	}

	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}
	return m.handleBrowseKey(msg)
}

// handleBrowseKey processes keyboard input for the catalog view.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(ternary(m.snapshot.Mode == state.ModeSearch, m.snapshot.Query, ""))
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Home):
		m.chip = 0
		return m, m.dispatch(state.Home())

	case key.Matches(msg, m.keys.Refresh):
		return m, m.dispatch(state.Refresh())

	case key.Matches(msg, m.keys.LoadMore):
		return m, m.dispatch(state.LoadMore())

	case key.Matches(msg, m.keys.Chip):
		idx := int(msg.String()[0] - '1')
		if idx < 0 || idx >= len(chips) {
			idx = 0
		}
		m.chip = idx
		return m, m.dispatch(chipIntent(idx))

	case key.Matches(msg, m.keys.Open):
		item, ok := m.cursorItem()
		if !ok {
			return m, nil
		}
		return m, m.dispatch(state.Select(item.ID))

	case key.Matches(msg, m.keys.Play):
		if m.snapshot.Selected == nil {
			m.notice = "Open a drama first"
			return m, nil
		}
		return m, m.dispatch(state.Play())

	case key.Matches(msg, m.keys.CopyLink):
		if m.snapshot.Selected == nil {
			m.notice = "Open a drama first"
			return m, nil
		}
		return m, m.dispatch(state.CopyLink())

	case key.Matches(msg, m.keys.Theater):
		if !m.snapshot.Player.Open {
			return m, nil
		}
		return m, m.dispatch(state.Theater())

	case key.Matches(msg, m.keys.ClosePlayer):
		if !m.snapshot.Player.Open {
			return m, nil
		}
		return m, m.dispatch(state.ClosePlayer())

	case key.Matches(msg, m.keys.Escape):
		switch {
		case m.snapshot.Player.Open:
			return m, m.dispatch(state.ClosePlayer())
		case m.snapshot.DrawerOpen:
			return m, m.dispatch(state.ClearSelection())
		}
		return m, nil

	case key.Matches(msg, m.keys.Wider):
		m.setColumns(m.columns() + 1)
		return m, nil

	case key.Matches(msg, m.keys.Narrower):
		m.setColumns(m.columns() - 1)
		return m, nil

	case key.Matches(msg, m.keys.HalfPageDown):
		m.drawerViewport.HalfPageDown()
		return m, nil

	case key.Matches(msg, m.keys.HalfPageUp):
		m.drawerViewport.HalfPageUp()
		return m, nil
	}

	return m.handleGridKey(msg)
}

// handleSearchInput handles keyboard input while the search box is focused.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.searchInput.Value()
		m.searching = false
		m.searchInput.Blur()
		// A blank query goes back to the home feed.
		m.chip = -1
		if strings.TrimSpace(query) == "" {
			m.chip = 0
		}
		return m, m.dispatch(state.Search(query))

	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.searchInput.Blur()
		return m, nil

	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// dispatch begins an intent now, in key order, and finishes it off the
// update loop.
func (m Model) dispatch(in state.Intent) tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	p := m.ctrl.Begin(in)
	ctx := m.ctx
	return func() tea.Msg {
		return intentDoneMsg{intent: p.Intent(), err: p.Finish(ctx)}
	}
}

func (m *Model) handleIntentDone(msg intentDoneMsg) {
	switch {
	case msg.err == nil:
		return
	case errors.Is(msg.err, state.ErrSuperseded):
		m.logger.Debug("intent superseded", "intent", msg.intent.String())
	case errors.Is(msg.err, state.ErrNoSelection):
		m.notice = "Open a drama first"
	default:
		// The controller has already put the failure in the snapshot.
		m.logger.Warn("intent failed", "intent", msg.intent.String(), "error", msg.err)
	}
}

// chipIntent maps a genre chip to its intent.
func chipIntent(idx int) state.Intent {
	if idx <= 0 || idx >= len(chips) {
		return state.Home()
	}
	return state.Search(chips[idx])
}

// applySnapshot installs a newer snapshot, keeping the grid cursor on the
// same drama when it is still listed.
func (m *Model) applySnapshot(snap state.Snapshot) {
	if snap.Revision < m.snapshot.Revision {
		return
	}
	prevID := ""
	if item, ok := m.cursorItem(); ok {
		prevID = item.ID
	}
	listChanged := snap.Mode != m.snapshot.Mode || snap.Query != m.snapshot.Query

	m.snapshot = snap

	switch {
	case listChanged:
		m.cursor = 0
		m.gridTop = 0
	case prevID == "":
	case m.cursor < len(snap.Items) && snap.Items[m.cursor].ID == prevID:
	default:
		for i, it := range snap.Items {
			if it.ID == prevID {
				m.cursor = i
				break
			}
		}
	}
	m.clampCursor()
	m.updateDrawerViewport(false)
}

func (m Model) cursorItem() (catalog.ListItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snapshot.Items) {
		return catalog.ListItem{}, false
	}
	return m.snapshot.Items[m.cursor], true
}

// savePrefs persists the presentation preferences. Failures are logged only.
func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs", "path", m.prefsPath, "error", err)
	}
}

// handleTick processes the redraw tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.logChanged == nil && m.currentView == ViewLogs && m.logState.follow {
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.renderSearchBar())
	} else {
		b.WriteString(m.renderChips())
	}
	b.WriteString("\n")

	b.WriteString(m.renderContent())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())

	return b.String()
}

// contentHeight is the height left after header, chip bar and command bar.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderBrowse()
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type intentDoneMsg struct {
	intent state.Intent
	err    error
}

type bootDoneMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// watchCmd waits for the store to hold a snapshot newer than seen.
func watchCmd(ctx context.Context, store *state.Store, seen uint64) tea.Cmd {
	changed := store.Changed()
	return func() tea.Msg {
		if snap := store.Snapshot(); snap.Revision != seen {
			return snapshotMsg(snap)
		}
		select {
		case <-changed:
			return snapshotMsg(store.Snapshot())
		case <-ctx.Done():
			return nil
		}
	}
}

func bootCmd(ctx context.Context, boot state.Boot) tea.Cmd {
	return func() tea.Msg {
		return bootDoneMsg{err: boot.Finish(ctx)}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
