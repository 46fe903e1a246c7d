package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/melulu/internal/catalog"
	"github.com/five82/melulu/internal/state"
)

func TestThemeLookups(t *testing.T) {
	if got := GetTheme("nope").Name; got != "Midnight" {
		t.Fatalf("GetTheme unknown = %q, want Midnight", got)
	}
	if got := NextTheme("Slate"); got != "Midnight" {
		t.Fatalf("NextTheme wraps = %q, want Midnight", got)
	}
	if got := NextTheme("unknown"); got != themeOrder[0] {
		t.Fatalf("NextTheme unknown = %q, want %q", got, themeOrder[0])
	}

	th := GetTheme("Kanagawa")
	cases := map[state.StatusKind]string{
		state.StatusOK:      th.Success,
		state.StatusLoading: th.Info,
		state.StatusWarn:    th.Warning,
		state.StatusError:   th.Danger,
	}
	for kind, want := range cases {
		if got := th.StatusColor(kind); got != want {
			t.Fatalf("StatusColor(%d) = %q, want %q", kind, got, want)
		}
	}
}

func TestTruncateCountsWideRunes(t *testing.T) {
	if got := truncate("  ", 10); got != "" {
		t.Fatalf("truncate blank = %q, want empty", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
	got := truncate("霸道总裁爱上我", 7)
	if w := lipgloss.Width(got); w > 7 {
		t.Fatalf("truncate = %q (%d cells), want <=7", got, w)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("truncate = %q, want ellipsis", got)
	}
}

func TestChipIntent(t *testing.T) {
	if got := chipIntent(0); got.Kind != state.KindHome {
		t.Fatalf("chip 0 = %v, want home", got)
	}
	got := chipIntent(6)
	if got.Kind != state.KindSearch || got.Query != "校园" {
		t.Fatalf("chip 6 = %v, want search 校园", got)
	}
	if got := chipIntent(42); got.Kind != state.KindHome {
		t.Fatalf("out of range chip = %v, want home", got)
	}
}

func TestRenderCard(t *testing.T) {
	m := New(Options{})
	card := m.renderCard(catalog.ListItem{
		ID:       "1",
		Title:    "The Return",
		Year:     "2023",
		Duration: "45m",
		Views:    catalog.NumberCount(3_400_000),
		Tag:      "Revenge",
	}, CardWidth, false)

	for _, want := range []string{"The Return", "2023 • 45m", "3.4M", "Revenge"} {
		if !strings.Contains(card, want) {
			t.Fatalf("card missing %q:\n%s", want, card)
		}
	}
	if h := lipgloss.Height(card); h != CardHeight {
		t.Fatalf("card height = %d, want %d", h, CardHeight)
	}
	if w := lipgloss.Width(card); w != CardWidth {
		t.Fatalf("card width = %d, want %d", w, CardWidth)
	}
}
