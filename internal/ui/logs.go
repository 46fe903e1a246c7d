package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/five82/melulu/internal/logtail"
)

// logState holds all log-related state.
type logState struct {
	rawLines []string
	follow   bool
	minLevel log.Level
	err      error

	// Content caching - skip re-render when unchanged
	contentVersion uint64
	lastRendered   uint64
}

func newLogState() logState {
	return logState{
		follow:   true,
		minLevel: log.DebugLevel,
	}
}

type logLinesMsg struct {
	lines []string
	err   error
}

// logChangedMsg reports a write to the session log. closed is set once the
// watcher has stopped.
type logChangedMsg struct{ closed bool }

// logWatchCmd waits for the next write to the session log.
func logWatchCmd(ctx context.Context, changed <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case _, ok := <-changed:
			return logChangedMsg{closed: !ok}
		case <-ctx.Done():
			return nil
		}
	}
}

// handleLogChanged refreshes a following log view and re-arms the watch.
// When the watcher stops the view falls back to refreshing on the tick.
func (m Model) handleLogChanged(msg logChangedMsg) (tea.Model, tea.Cmd) {
	if msg.closed {
		m.logChanged = nil
		return m, nil
	}
	cmds := []tea.Cmd{logWatchCmd(m.ctx, m.logChanged)}
	if m.currentView == ViewLogs && m.logState.follow {
		cmds = append(cmds, m.refreshLogs())
	}
	return m, tea.Batch(cmds...)
}

// levelCycle is the order the minimum level steps through.
var levelCycle = []log.Level{log.DebugLevel, log.InfoLevel, log.WarnLevel, log.ErrorLevel}

func levelLabel(l log.Level) string {
	return strings.ToUpper(l.String())
}

// refreshLogs reads the tail of the session log.
func (m *Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	if msg.err != nil {
		m.logState.err = msg.err
		m.logState.contentVersion++
		m.updateLogViewport()
		return
	}
	if m.logState.err == nil && equalLines(m.logState.rawLines, msg.lines) {
		return
	}
	m.logState.err = nil
	m.logState.rawLines = msg.lines
	m.logState.contentVersion++
	m.updateLogViewport()
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// visibleLogLines returns the lines at or above the minimum level.
func (m *Model) visibleLogLines() []string {
	return logtail.Filter(m.logState.rawLines, m.logState.minLevel)
}

// updateLogViewport updates the log viewport with current content.
func (m *Model) updateLogViewport() {
	width := max(m.width-4, 10)
	height := max(m.contentHeight()-3, 1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.SurfaceAlt))

	if m.logState.lastRendered == 0 || m.logState.contentVersion != m.logState.lastRendered {
		m.logViewport.SetContent(m.renderLogContent(width))
		m.logState.lastRendered = max(m.logState.contentVersion, 1)
	}

	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.SurfaceAlt)
	height := m.contentHeight()

	title := "Session Log"
	if m.logState.minLevel > log.DebugLevel {
		title = fmt.Sprintf("Session Log (%s+)", levelLabel(m.logState.minLevel))
	}

	autoTail := ternary(m.logState.follow, "on", "off")
	status := bg.Render(fmt.Sprintf("%d lines  auto-tail %s", len(m.visibleLogLines()), autoTail), styles.FaintText)
	if m.logPath != "" {
		status += bg.Spaces(2) + bg.Render(truncate(m.logPath, max(m.width/2, 10)), styles.AccentText)
	}

	content := m.logViewport.View() + "\n" + " " + status
	return m.renderTitledBox(title, content, m.width, height, true)
}

// renderLogContent renders the colorized log lines.
func (m *Model) renderLogContent(width int) string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles()

	if m.logPath == "" {
		return bg.FillLine(bg.Render("Logging to a file is disabled", styles.MutedText), width)
	}
	if m.logState.err != nil {
		return bg.FillLine(bg.Render(m.logState.err.Error(), styles.DangerText), width)
	}
	lines := m.visibleLogLines()
	if len(lines) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	var b strings.Builder
	style := styles.Text
	for i, line := range lines {
		if lvl, ok := logtail.LineLevel(line); ok {
			style = m.levelStyle(lvl, styles)
		}
		b.WriteString(bg.FillLine(bg.Render(truncate(line, width), style), width))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) levelStyle(l log.Level, styles Styles) lipgloss.Style {
	switch {
	case l >= log.ErrorLevel:
		return styles.DangerText
	case l == log.WarnLevel:
		return styles.WarningText
	case l == log.InfoLevel:
		return styles.Text
	default:
		return styles.FaintText
	}
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewBrowse
		return m, nil

	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		m.updateLogViewport()
		if m.logState.follow {
			return m, m.refreshLogs()
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleLevel):
		next := levelCycle[0]
		for i, l := range levelCycle {
			if l == m.logState.minLevel {
				next = levelCycle[(i+1)%len(levelCycle)]
				break
			}
		}
		m.logState.minLevel = next
		m.logState.contentVersion++
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logState.follow = false
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = false
		return m, nil

	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		m.logState.follow = false
		return m, nil

	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = false
		return m, nil
	}

	return m, nil
}
