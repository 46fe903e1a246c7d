package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/melulu/internal/catalog"
	"github.com/five82/melulu/internal/state"
)

// handleGridKey moves the card cursor. Moving down from the last row asks
// for the next page.
func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Items)
	if count == 0 {
		return m, nil
	}
	cols := m.columns()

	switch {
	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor < count-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor+cols < count {
			m.cursor += cols
		} else if m.cursor/cols < (count-1)/cols {
			m.cursor = count - 1
		} else if !m.snapshot.Loading() {
			return m, m.dispatch(state.LoadMore())
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = count - 1
	}

	m.scrollToCursor()
	return m, nil
}

// columns returns how many cards fit side by side.
func (m Model) columns() int {
	if m.prefs.Columns > 0 {
		return min(m.prefs.Columns, MaxColumns)
	}
	return max(m.gridWidth()/CardWidth, 1)
}

// setColumns fixes the column count and persists it.
func (m *Model) setColumns(n int) {
	n = min(max(n, 1), MaxColumns)
	if n == m.prefs.Columns {
		return
	}
	m.prefs.Columns = n
	m.savePrefs()
	m.scrollToCursor()
}

// gridWidth is the inner width available to the card grid.
func (m Model) gridWidth() int {
	w := m.width
	if m.drawerBeside() {
		w -= DrawerWidth
	}
	return max(w-2, CardWidth)
}

// gridRows is how many card rows fit in the grid box.
func (m Model) gridRows() int {
	h := m.contentHeight() - 2
	if m.snapshot.Player.Open {
		h -= playerHeight
	}
	return max(h/CardHeight, 1)
}

func (m *Model) clampCursor() {
	count := len(m.snapshot.Items)
	if count == 0 {
		m.cursor = 0
		m.gridTop = 0
		return
	}
	if m.cursor >= count {
		m.cursor = count - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollToCursor()
}

// scrollToCursor keeps the cursor row inside the visible rows.
func (m *Model) scrollToCursor() {
	row := m.cursor / m.columns()
	rows := m.gridRows()
	if row < m.gridTop {
		m.gridTop = row
	}
	if row >= m.gridTop+rows {
		m.gridTop = row - rows + 1
	}
}

// drawerBeside reports whether the drawer is shown next to the grid rather
// than in place of it.
func (m Model) drawerBeside() bool {
	return m.snapshot.DrawerOpen && m.width >= DrawerMinWidth
}

// renderBrowse renders the catalog view: player strip, card grid and drawer.
func (m Model) renderBrowse() string {
	height := m.contentHeight()

	var top string
	if m.snapshot.Player.Open {
		top = m.renderPlayer(m.width)
		height -= playerHeight
	}

	var body string
	switch {
	case m.snapshot.DrawerOpen && !m.drawerBeside():
		body = m.renderDrawer(m.width, height)
	case m.drawerBeside():
		gridWidth := m.width - DrawerWidth
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderTitledBox(m.gridTitle(), m.renderGrid(gridWidth-2), gridWidth, height, !m.snapshot.DrawerOpen),
			m.renderDrawer(DrawerWidth, height),
		)
	default:
		body = m.renderTitledBox(m.gridTitle(), m.renderGrid(m.width-2), m.width, height, true)
	}

	if top == "" {
		return body
	}
	return top + "\n" + body
}

// gridTitle is the box title: the list heading and the page count.
func (m Model) gridTitle() string {
	title := m.snapshot.Heading()
	if n := len(m.snapshot.Items); n > 0 {
		title += fmt.Sprintf(" (%d, page %d)", n, m.snapshot.Page)
	}
	return title
}

// renderGrid lays the visible card rows out in width cells.
func (m Model) renderGrid(width int) string {
	styles := m.theme.Styles()
	items := m.snapshot.Items
	if len(items) == 0 {
		msg := "No dramas found"
		switch {
		case m.snapshot.Loading():
			msg = m.spinner.View() + " Loading…"
		case m.snapshot.LastError != nil:
			msg = "Could not load dramas. Press r to retry."
		}
		return lipgloss.Place(width, m.gridRows()*CardHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Background(lipgloss.Color(m.theme.SurfaceAlt)).Render(msg),
			lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.SurfaceAlt)))
	}

	cols := m.columns()
	cardWidth := CardWidth
	if m.prefs.Columns > 0 {
		cardWidth = max(width/cols, 12)
	}

	var rows []string
	first := m.gridTop * cols
	last := min(first+m.gridRows()*cols, len(items))
	for start := first; start < last; start += cols {
		end := min(start+cols, last)
		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderCard(items[i], cardWidth, i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}

// renderCard renders one poster card: title, year and duration, views and
// the tag.
func (m Model) renderCard(it catalog.ListItem, width int, focused bool) string {
	bgColor := m.theme.SurfaceAlt
	borderColor := m.theme.BorderMuted
	if focused {
		bgColor = m.theme.FocusBg
		borderColor = m.theme.BorderFocus
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	inner := width - 2

	titleStyle := styles.Text.Bold(true)
	if focused {
		titleStyle = styles.AccentText.Bold(true)
	}

	lines := []string{
		bg.Render(truncate(it.Title, inner), titleStyle),
		bg.Render(truncate(catalog.CardTagline(it), inner), styles.MutedText),
		bg.Render("▶ "+catalog.FormatViews(it.Views), styles.InfoText),
		bg.Render(truncate(it.Tag, inner), styles.WarningText),
	}
	for i, line := range lines {
		lines[i] = bg.FillLine(line, inner)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		BorderBackground(lipgloss.Color(m.theme.SurfaceAlt)).
		Background(lipgloss.Color(bgColor)).
		Width(inner).
		Height(CardHeight - 2).
		Render(strings.Join(lines, "\n"))
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr := m.theme.Border
	if focused {
		borderColorStr = m.theme.BorderFocus
	}
	bgColorStr := m.theme.SurfaceAlt
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 1)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	padded := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		padded = append(padded,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(padded, "\n") + "\n" + bottomBorder
}
