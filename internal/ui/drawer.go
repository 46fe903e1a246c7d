package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/melulu/internal/catalog"
)

// playerHeight is the outer height of the player strip.
const playerHeight = 5

// drawerSize returns the outer size of the detail drawer.
func (m Model) drawerSize() (int, int) {
	height := m.contentHeight()
	if m.snapshot.Player.Open {
		height -= playerHeight
	}
	if m.drawerBeside() {
		return DrawerWidth, height
	}
	return m.width, height
}

// updateDrawerViewport refreshes the drawer content when the selection has
// changed since it was last rendered, or always when force is set.
func (m *Model) updateDrawerViewport(force bool) {
	width, height := m.drawerSize()
	innerW := max(width-4, 10)
	innerH := max(height-2, 1)

	if m.drawerViewport.Width == 0 {
		m.drawerViewport = viewport.New(innerW, innerH)
	}
	resized := m.drawerViewport.Width != innerW || m.drawerViewport.Height != innerH
	m.drawerViewport.Width = innerW
	m.drawerViewport.Height = innerH
	m.drawerViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.SurfaceAlt))

	if !force && !resized && m.drawerRevision == m.snapshot.Revision {
		return
	}
	m.drawerRevision = m.snapshot.Revision

	id := ""
	if m.snapshot.Selected != nil {
		id = m.snapshot.Selected.ID
	}
	m.drawerViewport.SetContent(m.renderDetail(innerW))
	if id != m.drawerID {
		m.drawerID = id
		m.drawerViewport.GotoTop()
	}
}

// renderDetail renders the selected drama for the drawer viewport.
func (m Model) renderDetail(width int) string {
	d := m.snapshot.Selected
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles()
	if d == nil {
		return bg.FillLine(bg.Render("Loading details…", styles.MutedText), width)
	}

	var lines []string
	add := func(s string) {
		lines = append(lines, bg.FillLine(s, width))
	}

	for _, l := range wrap(d.Title, width) {
		add(bg.Render(l, styles.Text.Bold(true)))
	}
	add(bg.Render(catalog.DetailMeta(*d), styles.MutedText))
	add("")
	add(bg.Render("Rating", styles.FaintText) + bg.Space() + bg.Render("★ "+d.Rating, styles.WarningText))
	for i, l := range wrap(catalog.TagsLine(*d), max(width-5, 1)) {
		label := ternary(i == 0, "Tags", "    ")
		add(bg.Render(label, styles.FaintText) + bg.Space() + bg.Render(l, styles.AccentText))
	}
	add("")
	for _, l := range wrap(d.Desc, width) {
		add(bg.Render(l, styles.Text))
	}
	add("")
	add(bg.Render("p", styles.AccentText) + bg.Render(" Play  ", styles.MutedText) +
		bg.Render("c", styles.AccentText) + bg.Render(" Copy link  ", styles.MutedText) +
		bg.Render("esc", styles.AccentText) + bg.Render(" Close", styles.MutedText))

	return strings.Join(lines, "\n")
}

// renderDrawer renders the detail drawer box.
func (m Model) renderDrawer(width, height int) string {
	title := "Details"
	if d := m.snapshot.Selected; d != nil {
		title = d.ID
	}
	return m.renderTitledBox(title, " "+strings.ReplaceAll(m.drawerViewport.View(), "\n", "\n "), width, height, true)
}

// renderPlayer renders the player strip above the grid.
func (m Model) renderPlayer(width int) string {
	p := m.snapshot.Player
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles()
	inner := max(width-4, 10)

	var status string
	switch {
	case p.Playing:
		status = bg.Render("▶ Playing", styles.SuccessText)
	default:
		status = bg.Render(m.spinner.View()+" Starting…", styles.InfoText)
	}
	if p.Theater {
		status += bg.Spaces(2) + bg.Render("Theater", styles.WarningText)
	}

	lines := []string{
		bg.Render(truncate(p.Title, inner), styles.Text.Bold(true)) + bg.Spaces(2) + bg.Render(p.Meta, styles.MutedText),
		status,
		bg.Render(truncate(p.URL, inner), styles.FaintText),
	}
	for i, l := range lines {
		lines[i] = " " + l
	}
	return m.renderTitledBox("Now Playing", strings.Join(lines, "\n"), width, playerHeight, true)
}
