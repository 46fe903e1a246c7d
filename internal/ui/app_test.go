package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/melulu/internal/catalog"
	"github.com/five82/melulu/internal/prefs"
	"github.com/five82/melulu/internal/state"
)

type stubFetcher struct {
	mu       sync.Mutex
	requests []string
	perPage  int
}

func (f *stubFetcher) record(s string) {
	f.mu.Lock()
	f.requests = append(f.requests, s)
	f.mu.Unlock()
}

func (f *stubFetcher) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return ""
	}
	return f.requests[len(f.requests)-1]
}

func (f *stubFetcher) list(prefix string, page int) any {
	n := f.perPage
	if n == 0 {
		n = 3
	}
	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s%d-%d", prefix, page, i)
		items = append(items, map[string]any{"id": id, "title": "Title " + id, "views": 1500, "year": "2024"})
	}
	return map[string]any{"data": items}
}

func (f *stubFetcher) Home(_ context.Context, page int) (any, error) {
	f.record(fmt.Sprintf("home:%d", page))
	return f.list("h", page), nil
}

func (f *stubFetcher) Search(_ context.Context, q string, page int) (any, error) {
	f.record(fmt.Sprintf("search:%s:%d", q, page))
	return f.list("s", page), nil
}

func (f *stubFetcher) Detail(_ context.Context, id string) (any, error) {
	f.record("detail:" + id)
	return map[string]any{"data": map[string]any{
		"id": id, "title": "Detail " + id, "tags": "Romance,CEO", "desc": "<p>A story</p>",
	}}, nil
}

func (f *stubFetcher) Video(_ context.Context, id string) (any, error) {
	f.record("video:" + id)
	return map[string]any{"url": "http://cdn.test/" + id + ".mp4"}, nil
}

type testHarness struct {
	t       *testing.T
	fetcher *stubFetcher
	store   *state.Store
	m       Model
}

func newHarness(t *testing.T, opts Options) *testHarness {
	t.Helper()
	f := &stubFetcher{}
	store := &state.Store{}
	ctrl := state.NewController(state.Options{
		Fetcher:  f,
		Renderer: store,
		Proxy:    true,
	})
	opts.Controller = ctrl
	opts.Store = store
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	}
	h := &testHarness{t: t, fetcher: f, store: store, m: New(opts)}
	h.update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *testHarness) update(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// press sends a key and runs the resulting command, if any, to completion.
func (h *testHarness) press(k string) {
	h.t.Helper()
	h.finish(h.update(keyMsg(k)))
}

func (h *testHarness) finish(cmd tea.Cmd) {
	h.t.Helper()
	if cmd != nil {
		if msg := cmd(); msg != nil {
			if _, ok := msg.(intentDoneMsg); ok {
				h.update(msg)
			}
		}
	}
	h.update(snapshotMsg(h.store.Snapshot()))
}

func (h *testHarness) home() {
	h.t.Helper()
	h.finish(h.m.dispatch(state.Home()))
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func TestChipKeysMapToIntents(t *testing.T) {
	h := newHarness(t, Options{})
	h.home()

	h.press("2")
	if got := h.fetcher.last(); got != "search:Romance:1" {
		t.Fatalf("chip 2 request = %q, want search:Romance:1", got)
	}
	if got := h.m.chip; got != 1 {
		t.Fatalf("chip = %d, want 1", got)
	}

	h.press("1")
	if got := h.fetcher.last(); got != "home:1" {
		t.Fatalf("chip 1 request = %q, want home:1", got)
	}
	if h.m.snapshot.Mode != state.ModeHome {
		t.Fatalf("mode = %v, want home", h.m.snapshot.Mode)
	}
	if got := h.m.chip; got != 0 {
		t.Fatalf("chip = %d, want 0", got)
	}
}

func TestSearchBoxSubmitsQuery(t *testing.T) {
	h := newHarness(t, Options{})
	h.home()

	h.update(keyMsg("/"))
	if !h.m.searching {
		t.Fatalf("expected search box to be focused")
	}
	for _, r := range "ceo" {
		h.update(keyMsg(string(r)))
	}
	h.press("enter")

	if h.m.searching {
		t.Fatalf("search box still focused after enter")
	}
	if got := h.fetcher.last(); got != "search:ceo:1" {
		t.Fatalf("request = %q, want search:ceo:1", got)
	}
	if got := h.m.snapshot.Heading(); got != "Search: “ceo”" {
		t.Fatalf("heading = %q", got)
	}
	if got := h.m.chip; got != -1 {
		t.Fatalf("chip = %d, want -1", got)
	}
}

func TestBlankSearchGoesHome(t *testing.T) {
	h := newHarness(t, Options{})
	h.press("3")

	h.update(keyMsg("/"))
	h.m.searchInput.SetValue("   ")
	h.press("enter")

	if got := h.fetcher.last(); got != "home:1" {
		t.Fatalf("request = %q, want home:1", got)
	}
	if h.m.snapshot.Mode != state.ModeHome {
		t.Fatalf("mode = %v, want home", h.m.snapshot.Mode)
	}
	if got := h.m.chip; got != 0 {
		t.Fatalf("chip = %d, want 0", got)
	}
}

func TestEscCancelsSearchWithoutFetching(t *testing.T) {
	h := newHarness(t, Options{})
	h.home()

	h.update(keyMsg("/"))
	h.update(keyMsg("x"))
	h.press("esc")

	if h.m.searching {
		t.Fatalf("search box still focused after esc")
	}
	if got := h.fetcher.last(); got != "home:1" {
		t.Fatalf("request = %q, want no new request", got)
	}
}

func TestOpenAndCloseDrawer(t *testing.T) {
	h := newHarness(t, Options{})
	h.home()

	h.press("l")
	if h.m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", h.m.cursor)
	}
	h.press("enter")

	if got := h.fetcher.last(); got != "detail:h1-1" {
		t.Fatalf("request = %q, want detail:h1-1", got)
	}
	if !h.m.snapshot.DrawerOpen || h.m.snapshot.Selected == nil {
		t.Fatalf("drawer not open: %+v", h.m.snapshot)
	}
	view := h.m.View()
	if !strings.Contains(view, "Detail h1-1") {
		t.Fatalf("view does not show the detail title:\n%s", view)
	}
	if !strings.Contains(view, "A story") {
		t.Fatalf("view does not show the description:\n%s", view)
	}

	h.press("esc")
	if h.m.snapshot.DrawerOpen || h.m.snapshot.Selected != nil {
		t.Fatalf("drawer still open after esc")
	}
}

func TestPlayNeedsSelection(t *testing.T) {
	h := newHarness(t, Options{})
	h.home()

	cmd := h.update(keyMsg("p"))
	if cmd != nil {
		t.Fatalf("expected no command without a selection")
	}
	if h.m.notice == "" {
		t.Fatalf("expected a notice")
	}

	h.press("j")
	if h.m.notice != "" {
		t.Fatalf("notice = %q, want cleared on the next key", h.m.notice)
	}
}

func TestMovingPastLastRowLoadsMore(t *testing.T) {
	h := newHarness(t, Options{})
	h.home()

	cols := h.m.columns()
	if cols != 3 {
		t.Fatalf("columns = %d, want 3 at width 120", cols)
	}

	h.press("j")
	if got := h.fetcher.last(); got != "home:2" {
		t.Fatalf("request = %q, want home:2", got)
	}
	if got := len(h.m.snapshot.Items); got != 6 {
		t.Fatalf("items = %d, want 6", got)
	}

	h.press("j")
	if h.m.cursor != 3 {
		t.Fatalf("cursor = %d, want 3", h.m.cursor)
	}
}

func TestCursorFollowsDramaAcrossSnapshots(t *testing.T) {
	next, _ := New(Options{}).Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m := next.(Model)
	items := []catalog.ListItem{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	m.applySnapshot(state.Snapshot{Revision: 1, Items: items})
	m.cursor = 2

	m.applySnapshot(state.Snapshot{Revision: 2, Items: []catalog.ListItem{{ID: "x"}, {ID: "a"}, {ID: "b"}, {ID: "c"}}})
	if m.cursor != 3 {
		t.Fatalf("cursor = %d, want 3", m.cursor)
	}

	// Older snapshots are ignored.
	m.applySnapshot(state.Snapshot{Revision: 1, Items: items})
	if len(m.snapshot.Items) != 4 {
		t.Fatalf("stale snapshot applied")
	}

	m.applySnapshot(state.Snapshot{Revision: 3, Mode: state.ModeSearch, Query: "q", Items: items})
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 after the list changed", m.cursor)
	}
}

func TestThemeAndColumnsPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	h := newHarness(t, Options{PrefsPath: path})

	h.press("T")
	if h.m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", h.m.theme.Name)
	}
	h.press("]")

	got := prefs.Load(path)
	if got.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", got.Theme)
	}
	if got.Columns != 4 {
		t.Fatalf("saved columns = %d, want 4", got.Columns)
	}
	if h.m.columns() != 4 {
		t.Fatalf("columns = %d, want 4", h.m.columns())
	}
}

func TestViewShowsHeadingStatusAndCards(t *testing.T) {
	h := newHarness(t, Options{})
	h.home()

	view := h.m.View()
	for _, want := range []string{"melulu", "Trending / Home", "Title h1-0", "1.5K", "3 items shown"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestBootSelectsDeepLink(t *testing.T) {
	h := newHarness(t, Options{DeepLinkID: "abc"})

	boot := h.m.ctrl.BeginBoot(h.m.deepLink)
	h.finish(bootCmd(context.Background(), boot))

	snap := h.m.snapshot
	if snap.Selected == nil || snap.Selected.ID != "abc" {
		t.Fatalf("selected = %+v, want abc", snap.Selected)
	}
	if snap.Status.Text != "Proxy mode" {
		t.Fatalf("status = %q, want Proxy mode", snap.Status.Text)
	}
}

func TestLogViewFiltersByLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "melulu.log")
	content := strings.Join([]string{
		"2026-01-02 10:00:00 DEBU melulu: intent intent=home",
		"2026-01-02 10:00:01 INFO melulu: fetch ok status=200",
		"2026-01-02 10:00:02 WARN melulu: intent failed error=boom",
		"  continuation",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	h := newHarness(t, Options{LogPath: path})
	cmd := h.update(keyMsg("L"))
	if h.m.currentView != ViewLogs {
		t.Fatalf("view = %v, want logs", h.m.currentView)
	}
	if cmd == nil {
		t.Fatalf("expected a log read command")
	}
	h.update(cmd())

	if got := len(h.m.visibleLogLines()); got != 4 {
		t.Fatalf("visible lines = %d, want 4", got)
	}

	h.update(keyMsg("v"))
	h.update(keyMsg("v"))
	lines := h.m.visibleLogLines()
	if len(lines) != 2 || !strings.Contains(lines[0], "WARN") {
		t.Fatalf("visible lines at WARN = %q", lines)
	}

	h.update(keyMsg("L"))
	if h.m.currentView != ViewBrowse {
		t.Fatalf("view = %v, want browse", h.m.currentView)
	}
}

func TestLogWatchDrivesRefresh(t *testing.T) {
	changed := make(chan struct{}, 1)
	m := New(Options{LogPath: filepath.Join(t.TempDir(), "melulu.log"), LogChanged: changed})
	m.currentView = ViewLogs

	next, cmd := m.Update(logChangedMsg{})
	if cmd == nil {
		t.Fatal("log change produced no commands")
	}
	m = next.(Model)
	if m.logChanged == nil {
		t.Fatal("watch dropped after a change")
	}

	next, cmd = m.Update(logChangedMsg{closed: true})
	if cmd != nil {
		t.Fatal("closed watcher re-armed")
	}
	if next.(Model).logChanged != nil {
		t.Fatal("closed watcher still attached")
	}
}
