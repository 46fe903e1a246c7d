package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/melulu/internal/catalog"
	"github.com/five82/melulu/internal/deeplink"
	"github.com/five82/melulu/internal/dramaapi"
	"github.com/five82/melulu/internal/playback"
)

// Playback is the media capability the controller drives.
type Playback interface {
	Resolve(ctx context.Context, url string) (playback.Result, error)
	Detach(ctx context.Context) error
	ToggleFullscreen(ctx context.Context) error
}

// Clipboard copies text for the user.
type Clipboard interface {
	Copy(text string) error
}

// Options configures NewController.
type Options struct {
	Fetcher   dramaapi.Fetcher
	Playback  Playback
	Clipboard Clipboard
	// Renderer receives every committed snapshot. Nil keeps snapshots only
	// in the controller.
	Renderer  Renderer
	Logger    *log.Logger
	ShareBase string
	// Proxy selects the boot status text.
	Proxy bool
}

type listTarget struct {
	mode  Mode
	query string
}

// Controller owns the navigation state. All mutation goes through intents:
// Begin captures an intent's generation in call order and Finish performs its
// fetch and commits the result unless a newer intent of the same class has
// begun since.
type Controller struct {
	fetcher   dramaapi.Fetcher
	playback  Playback
	clipboard Clipboard
	renderer  Renderer
	logger    *log.Logger
	shareBase string
	proxy     bool

	mu  sync.Mutex
	nav Snapshot

	// listGen is bumped by list-replacing intents. chainGen is additionally
	// bumped when an append chain breaks, discarding queued LoadMores.
	listGen   uint64
	chainGen  uint64
	selectGen uint64
	playGen   uint64

	// phaseFailed records a failed fetch since the in-flight count last
	// rose from zero.
	phaseFailed bool

	target   listTarget
	nextPage int
	tail     chan struct{}

	// renderMu is taken before mu is released so renders run in commit order.
	renderMu sync.Mutex
}

// NewController returns a controller in the boot state: home mode, page 1,
// no items.
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		fetcher:   opts.Fetcher,
		playback:  opts.Playback,
		clipboard: opts.Clipboard,
		renderer:  opts.Renderer,
		logger:    logger,
		shareBase: opts.ShareBase,
		proxy:     opts.Proxy,
		nav:       Snapshot{Mode: ModeHome, Page: 1},
		target:    listTarget{mode: ModeHome},
		nextPage:  1,
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Clone()
}

// FetchPhase implements dramaapi.Observer.
func (c *Controller) FetchPhase(p dramaapi.Phase) {
	c.mu.Lock()
	switch p {
	case dramaapi.PhaseLoading:
		if c.nav.InFlight == 0 {
			c.phaseFailed = false
		}
		c.nav.InFlight++
		c.nav.Status = Status{Text: "Loading…", Kind: StatusLoading}
	case dramaapi.PhaseOK, dramaapi.PhaseError:
		if p == dramaapi.PhaseError {
			c.phaseFailed = true
		}
		if c.nav.InFlight > 0 {
			c.nav.InFlight--
		}
		if c.nav.InFlight == 0 && c.nav.Status.Kind == StatusLoading {
			c.nav.Status = Status{Text: "OK", Kind: StatusOK}
			if c.phaseFailed {
				c.nav.Status = Status{Text: "Request failed", Kind: StatusError}
			}
		}
	}
	c.publishLocked()
}

// publishLocked commits the current state and renders it. It must be called
// with mu held and returns with mu released.
func (c *Controller) publishLocked() {
	c.nav.Revision++
	c.nav.LastUpdated = time.Now()
	if c.renderer == nil {
		c.mu.Unlock()
		return
	}
	snap := c.nav.Clone()
	c.renderMu.Lock()
	c.mu.Unlock()
	defer c.renderMu.Unlock()
	c.renderer.Render(snap)
}

func (c *Controller) failLocked(label string, err error) {
	c.nav.Status = Status{Text: label, Kind: StatusError}
	c.nav.Message = err.Error()
	c.nav.LastError = err
	c.nav.ConsecutiveFailures++
}

func (c *Controller) succeedLocked() {
	c.nav.LastError = nil
	c.nav.ConsecutiveFailures = 0
}

// SetStatus replaces the status indicator.
func (c *Controller) SetStatus(s Status) {
	c.mu.Lock()
	c.nav.Status = s
	c.publishLocked()
}

// ModeLabel names the URL strategy in use.
func (c *Controller) ModeLabel() string {
	if c.proxy {
		return "Proxy mode"
	}
	return "Direct mode"
}

// Begin starts an intent. Calls must be made in intent order; the returned
// Pending must be finished exactly once.
func (c *Controller) Begin(in Intent) Pending {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("intent", "intent", in.String())
	p := Pending{c: c, intent: in}
	switch in.Kind {
	case KindHome:
		return c.beginReplaceLocked(p, ModeHome, "")
	case KindSearch:
		q := strings.TrimSpace(in.Query)
		if q == "" {
			p.intent = Home()
			return c.beginReplaceLocked(p, ModeHome, "")
		}
		return c.beginReplaceLocked(p, ModeSearch, q)
	case KindRefresh:
		return c.beginReplaceLocked(p, c.target.mode, c.target.query)
	case KindLoadMore:
		c.nextPage++
		p.gen, p.chain = c.listGen, c.chainGen
		p.target = c.target
		p.page = c.nextPage
		p.appending = true
		p.prev = c.tail
		p.done = make(chan struct{})
		c.tail = p.done
	case KindSelect:
		c.selectGen++
		p.gen = c.selectGen
		p.id = strings.TrimSpace(in.ID)
	case KindClearSelection:
		c.selectGen++
		p.gen = c.selectGen
	case KindPlay:
		c.playGen++
		p.gen = c.playGen
		if c.nav.Selected != nil {
			d := c.nav.Selected.Clone()
			p.detail = &d
		}
	case KindClosePlayer:
		c.playGen++
		p.gen = c.playGen
	case KindTheater:
		p.gen = c.playGen
	case KindCopyLink:
		if c.nav.Selected != nil {
			p.id = c.nav.Selected.ID
		}
	}
	return p
}

func (c *Controller) beginReplaceLocked(p Pending, mode Mode, query string) Pending {
	c.listGen++
	c.chainGen++
	p.gen, p.chain = c.listGen, c.chainGen
	p.target = listTarget{mode: mode, query: query}
	p.page = 1
	p.done = make(chan struct{})
	c.target = p.target
	c.nextPage = 1
	c.tail = p.done
	return p
}

// resetChainLocked discards queued appends and points new ones back at the
// committed list.
func (c *Controller) resetChainLocked() {
	c.chainGen++
	c.target = listTarget{mode: c.nav.Mode, query: c.nav.Query}
	c.nextPage = c.nav.Page
}

// Pending is an intent that has begun but not finished.
type Pending struct {
	c      *Controller
	intent Intent
	gen    uint64
	chain  uint64

	target    listTarget
	page      int
	appending bool
	prev      <-chan struct{}
	done      chan struct{}

	id     string
	detail *catalog.Detail
}

// Intent returns the intent as begun. A blank search reads as KindHome.
func (p Pending) Intent() Intent { return p.intent }

// Page returns the list page a list intent fetches.
func (p Pending) Page() int { return p.page }

// Finish runs the intent to completion. It returns ErrSuperseded when the
// result was discarded in favour of a newer intent.
func (p Pending) Finish(ctx context.Context) error {
	if p.c == nil {
		return fmt.Errorf("pending intent has no controller")
	}
	switch p.intent.Kind {
	case KindHome, KindSearch, KindRefresh, KindLoadMore:
		return p.finishList(ctx)
	case KindSelect:
		return p.finishSelect(ctx)
	case KindClearSelection:
		return p.finishClearSelection()
	case KindPlay:
		return p.finishPlay(ctx)
	case KindClosePlayer:
		return p.finishClosePlayer(ctx)
	case KindTheater:
		return p.finishTheater(ctx)
	case KindCopyLink:
		return p.finishCopyLink()
	default:
		return fmt.Errorf("unknown intent %s", p.intent.Kind)
	}
}

func (p Pending) finishList(ctx context.Context) error {
	c := p.c
	defer close(p.done)

	var raw any
	var err error
	if c.fetcher == nil {
		err = fmt.Errorf("no catalog fetcher configured")
	} else if p.target.mode == ModeSearch {
		raw, err = c.fetcher.Search(ctx, p.target.query, p.page)
	} else {
		raw, err = c.fetcher.Home(ctx, p.page)
	}

	// Appends commit in page order.
	if p.prev != nil {
		select {
		case <-p.prev:
		case <-ctx.Done():
			if err == nil {
				err = ctx.Err()
			}
		}
	}

	var items []catalog.ListItem
	if err == nil {
		items = catalog.NormalizeList(raw)
	}

	c.mu.Lock()
	if p.gen != c.listGen || p.chain != c.chainGen {
		c.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		c.resetChainLocked()
		c.failLocked("Error", err)
		c.publishLocked()
		return err
	}
	c.nav.Mode = p.target.mode
	c.nav.Query = p.target.query
	c.nav.Page = p.page
	if p.appending {
		c.nav.Items = append(c.nav.Items, items...)
	} else {
		c.nav.Items = items
	}
	c.nav.Message = itemsShown(len(c.nav.Items))
	c.succeedLocked()
	c.publishLocked()
	return nil
}

func (p Pending) finishSelect(ctx context.Context) error {
	c := p.c
	var raw any
	var err error
	switch {
	case p.id == "":
		err = ErrEmptyID
	case c.fetcher == nil:
		err = fmt.Errorf("no catalog fetcher configured")
	default:
		raw, err = c.fetcher.Detail(ctx, p.id)
	}

	c.mu.Lock()
	if p.gen != c.selectGen {
		c.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		c.failLocked("Error", err)
		c.publishLocked()
		return err
	}
	detail := catalog.NormalizeDetail(raw)
	if detail.ID == "" {
		detail.ID = p.id
	}
	c.nav.Selected = &detail
	c.nav.DrawerOpen = true
	c.succeedLocked()
	c.publishLocked()
	return nil
}

func (p Pending) finishClearSelection() error {
	c := p.c
	c.mu.Lock()
	if p.gen != c.selectGen {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.nav.Selected = nil
	c.nav.DrawerOpen = false
	c.publishLocked()
	return nil
}

func (p Pending) finishPlay(ctx context.Context) error {
	c := p.c
	if p.detail == nil {
		return ErrNoSelection
	}
	id := p.detail.ID

	var media catalog.PlayableMedia
	var err error
	if c.fetcher == nil {
		err = fmt.Errorf("no catalog fetcher configured")
	} else {
		var raw any
		raw, err = c.fetcher.Video(ctx, id)
		if err == nil {
			media = catalog.NormalizeVideo(raw)
			if media.Empty() {
				err = &EmptyMediaError{ID: id}
			}
		}
	}

	c.mu.Lock()
	if p.gen != c.playGen {
		c.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		c.failLocked("Play error", err)
		c.publishLocked()
		return err
	}
	title := p.detail.Title
	if title == "" {
		title = "Playing"
	}
	c.nav.DrawerOpen = false
	c.nav.Player = Player{
		Open:  true,
		Title: title,
		Meta:  catalog.PlayerMeta(*p.detail),
		URL:   media.URL,
	}
	c.succeedLocked()
	c.publishLocked()

	if c.playback == nil {
		return p.playFailed(fmt.Errorf("no playback capability configured"))
	}
	res, err := c.playback.Resolve(ctx, media.URL)
	if err != nil {
		return p.playFailed(err)
	}

	c.mu.Lock()
	if p.gen != c.playGen {
		c.mu.Unlock()
		// The player was closed or replaced while the source was loading.
		if detachErr := c.playback.Detach(ctx); detachErr != nil {
			c.logger.Warn("detach stale source", "error", detachErr)
		}
		return ErrSuperseded
	}
	if res.External {
		c.nav.Player = Player{}
		c.nav.Status = Status{Text: res.Warning, Kind: StatusWarn}
		c.logger.Info("stream opened externally", "id", id, "url", media.URL)
	} else {
		c.nav.Player.Playing = res.Playing
		c.logger.Info("playing", "id", id, "url", media.URL)
	}
	c.publishLocked()
	return nil
}

func (p Pending) playFailed(err error) error {
	c := p.c
	c.mu.Lock()
	if p.gen != c.playGen {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.nav.Player = Player{}
	c.failLocked("Play error", err)
	c.publishLocked()
	return err
}

func (p Pending) finishClosePlayer(ctx context.Context) error {
	c := p.c
	if c.playback != nil {
		if err := c.playback.Detach(ctx); err != nil {
			c.logger.Warn("detach player", "error", err)
		}
	}
	c.mu.Lock()
	if p.gen != c.playGen {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.nav.Player = Player{}
	c.publishLocked()
	return nil
}

func (p Pending) finishTheater(ctx context.Context) error {
	c := p.c
	c.mu.Lock()
	open := c.nav.Player.Open && p.gen == c.playGen
	c.mu.Unlock()
	if !open || c.playback == nil {
		return nil
	}
	err := c.playback.ToggleFullscreen(ctx)

	c.mu.Lock()
	if p.gen != c.playGen {
		c.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		c.nav.Status = Status{Text: "Theater unavailable", Kind: StatusWarn}
		c.nav.Message = err.Error()
		c.publishLocked()
		return err
	}
	c.nav.Player.Theater = !c.nav.Player.Theater
	c.publishLocked()
	return nil
}

func (p Pending) finishCopyLink() error {
	c := p.c
	if p.id == "" {
		return ErrNoSelection
	}
	link := deeplink.ShareLink(c.shareBase, p.id)

	err := fmt.Errorf("no clipboard configured")
	if c.clipboard != nil {
		err = c.clipboard.Copy(link)
	}

	c.mu.Lock()
	if err != nil {
		c.nav.Status = Status{Text: "Copy failed", Kind: StatusError}
		c.nav.Message = err.Error()
		c.publishLocked()
		return err
	}
	c.nav.Status = Status{Text: "Link copied", Kind: StatusOK}
	c.nav.Message = link
	c.publishLocked()
	return nil
}

// Do begins and finishes one intent.
func (c *Controller) Do(ctx context.Context, in Intent) error {
	return c.Begin(in).Finish(ctx)
}

func (c *Controller) GoHome(ctx context.Context) error { return c.Do(ctx, Home()) }

func (c *Controller) RunSearch(ctx context.Context, query string) error {
	return c.Do(ctx, Search(query))
}

func (c *Controller) LoadMore(ctx context.Context) error { return c.Do(ctx, LoadMore()) }

func (c *Controller) Refresh(ctx context.Context) error { return c.Do(ctx, Refresh()) }

func (c *Controller) Select(ctx context.Context, id string) error {
	return c.Do(ctx, Select(id))
}

func (c *Controller) ClearSelection(ctx context.Context) error {
	return c.Do(ctx, ClearSelection())
}

func (c *Controller) Play(ctx context.Context) error { return c.Do(ctx, Play()) }

func (c *Controller) ClosePlayer(ctx context.Context) error { return c.Do(ctx, ClosePlayer()) }

func (c *Controller) CopyLink(ctx context.Context) error { return c.Do(ctx, CopyLink()) }

// Run consumes intents until the channel closes or ctx is cancelled. Each
// intent is begun in arrival order and finished concurrently; Run returns
// once every started intent has finished.
func (c *Controller) Run(ctx context.Context, intents <-chan Intent) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-intents:
			if !ok {
				return nil
			}
			p := c.Begin(in)
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := p.Finish(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
					c.logger.Warn("intent failed", "intent", p.Intent().String(), "error", err)
				}
			}()
		}
	}
}
