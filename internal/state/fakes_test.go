package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/five82/melulu/internal/catalog"
	"github.com/five82/melulu/internal/playback"
)

func page(ids ...string) any {
	items := make([]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, map[string]any{"id": id, "title": "T" + id})
	}
	return map[string]any{"data": items}
}

func ids(items []catalog.ListItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

// funcFetcher answers synchronously and records every request.
type funcFetcher struct {
	mu       sync.Mutex
	requests []string

	home   func(page int) (any, error)
	search func(query string, page int) (any, error)
	detail func(id string) (any, error)
	video  func(id string) (any, error)
}

func (f *funcFetcher) record(s string) {
	f.mu.Lock()
	f.requests = append(f.requests, s)
	f.mu.Unlock()
}

func (f *funcFetcher) got() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *funcFetcher) Home(_ context.Context, p int) (any, error) {
	f.record(fmt.Sprintf("home:%d", p))
	if f.home == nil {
		return page(), nil
	}
	return f.home(p)
}

func (f *funcFetcher) Search(_ context.Context, q string, p int) (any, error) {
	f.record(fmt.Sprintf("search:%s:%d", q, p))
	if f.search == nil {
		return page(), nil
	}
	return f.search(q, p)
}

func (f *funcFetcher) Detail(_ context.Context, id string) (any, error) {
	f.record("detail:" + id)
	if f.detail == nil {
		return map[string]any{"id": id, "title": "Detail " + id}, nil
	}
	return f.detail(id)
}

func (f *funcFetcher) Video(_ context.Context, id string) (any, error) {
	f.record("video:" + id)
	if f.video == nil {
		return map[string]any{"data": map[string]any{"mp4": "http://cdn/" + id + ".mp4"}}, nil
	}
	return f.video(id)
}

type reply struct {
	raw any
	err error
}

type request struct {
	key   string
	reply chan reply
}

// blockingFetcher hands every request to the test, which answers it when it
// chooses.
type blockingFetcher struct {
	requests chan request
}

func newBlockingFetcher() *blockingFetcher {
	return &blockingFetcher{requests: make(chan request, 16)}
}

func (f *blockingFetcher) wait(ctx context.Context, key string) (any, error) {
	r := request{key: key, reply: make(chan reply, 1)}
	f.requests <- r
	select {
	case rep := <-r.reply:
		return rep.raw, rep.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *blockingFetcher) Home(ctx context.Context, p int) (any, error) {
	return f.wait(ctx, fmt.Sprintf("home:%d", p))
}

func (f *blockingFetcher) Search(ctx context.Context, q string, p int) (any, error) {
	return f.wait(ctx, fmt.Sprintf("search:%s:%d", q, p))
}

func (f *blockingFetcher) Detail(ctx context.Context, id string) (any, error) {
	return f.wait(ctx, "detail:"+id)
}

func (f *blockingFetcher) Video(ctx context.Context, id string) (any, error) {
	return f.wait(ctx, "video:"+id)
}

// collect receives n requests keyed by their description.
func (f *blockingFetcher) collect(n int) map[string]request {
	out := make(map[string]request, n)
	for i := 0; i < n; i++ {
		r := <-f.requests
		out[r.key] = r
	}
	return out
}

type fakePlayback struct {
	mu     sync.Mutex
	calls  []string
	result playback.Result
	err    error
	fsErr  error
}

func (f *fakePlayback) Resolve(_ context.Context, url string) (playback.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "resolve "+url)
	res, err := f.result, f.err
	f.mu.Unlock()
	if res == (playback.Result{}) && err == nil {
		res = playback.Result{URL: url, Playing: true}
	}
	return res, err
}

func (f *fakePlayback) Detach(context.Context) error {
	f.mu.Lock()
	f.calls = append(f.calls, "detach")
	f.mu.Unlock()
	return nil
}

func (f *fakePlayback) ToggleFullscreen(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "fullscreen")
	return f.fsErr
}

func (f *fakePlayback) got() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeClipboard struct {
	copied []string
	err    error
}

func (f *fakeClipboard) Copy(text string) error {
	if f.err != nil {
		return f.err
	}
	f.copied = append(f.copied, text)
	return nil
}

// recordingRenderer keeps every rendered revision.
type recordingRenderer struct {
	mu        sync.Mutex
	revisions []uint64
}

func (r *recordingRenderer) Render(s Snapshot) {
	r.mu.Lock()
	r.revisions = append(r.revisions, s.Revision)
	r.mu.Unlock()
}

func (r *recordingRenderer) got() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint64(nil), r.revisions...)
}
