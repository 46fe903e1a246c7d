package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/melulu/internal/state"
)

// renderHeader renders the status bar: logo, status pill, offline badge,
// the last message and the time of the last commit.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.snapshot

	status := snap.Status
	if status.Text == "" {
		status = state.Status{Text: "Starting", Kind: state.StatusLoading}
	}
	pillText := status.Text
	if snap.Loading() {
		pillText = strings.TrimSpace(m.spinner.View()) + " " + pillText
	}

	parts := []string{
		bg.Render("melulu", styles.Logo),
		styles.StatusPill(status.Kind).Render(pillText),
	}
	if snap.IsOffline() {
		parts = append(parts, bg.Render(fmt.Sprintf("OFFLINE ×%d", snap.ConsecutiveFailures), styles.DangerText))
	}
	if snap.Message != "" {
		msgStyle := styles.MutedText
		if snap.Status.Kind == state.StatusError {
			msgStyle = styles.DangerText.Bold(false)
		}
		parts = append(parts, bg.Render(truncate(snap.Message, max(m.width/2, 20)), msgStyle))
	}

	left := bg.Join(parts, "  ")
	right := ""
	if !snap.LastUpdated.IsZero() {
		right = bg.Render(snap.LastUpdated.Format("15:04:05"), styles.FaintText)
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		right = ""
		gap = 1
	}

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(left + bg.Spaces(gap) + right)
}

// renderChips renders the genre chip bar with the last chosen chip
// highlighted.
func (m Model) renderChips() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	active := m.chip

	segments := make([]string, 0, len(chips))
	for i, c := range chips {
		label := fmt.Sprintf("%d %s", i+1, c)
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.Chip)).
			Foreground(lipgloss.Color(m.theme.Muted)).
			Padding(0, 1)
		if i == active {
			style = style.
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Bold(true)
		}
		segments = append(segments, style.Render(label))
	}

	line := bg.Join(segments, " ")
	if m.snapshot.Mode == state.ModeSearch && active < 0 {
		line += bg.Spaces(2) + bg.Render(m.snapshot.Heading(), styles.AccentText)
	}
	return bg.FillLine(" "+line, m.width)
}

// renderSearchBar renders the focused search box in place of the chips.
func (m Model) renderSearchBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	hint := bg.Render("enter", styles.AccentText) + bg.Render(" search  ", styles.MutedText) +
		bg.Render("esc", styles.AccentText) + bg.Render(" cancel", styles.MutedText)
	return bg.FillLine(" "+m.searchInput.View()+bg.Spaces(2)+hint, m.width)
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.currentView == ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"v", "Level " + levelLabel(m.logState.minLevel)},
			{"g/G", "Top/Bottom"},
			{"L", "Back"},
			{"?", "More"},
		}
	case m.snapshot.Player.Open:
		commands = []cmd{
			{"t", ternary(m.snapshot.Player.Theater, "Exit theater", "Theater")},
			{"x", "Close player"},
			{"enter", "Details"},
			{"/", "Search"},
			{"?", "More"},
		}
	case m.snapshot.DrawerOpen:
		commands = []cmd{
			{"p", "Play"},
			{"c", "Copy link"},
			{"ctrl+d/u", "Scroll"},
			{"esc", "Close"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"/", "Search"},
			{"1-8", "Genres"},
			{"enter", "Details"},
			{"m", "More"},
			{"r", "Refresh"},
			{"L", "Log"},
			{"?", "Help"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.notice != "" {
		segments = append(segments, bg.Render(m.notice, styles.WarningText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
