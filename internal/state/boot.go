package state

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Boot is the startup sequence: the home feed and, when the session was
// opened from a share link, the linked drama.
type Boot struct {
	c    *Controller
	home Pending
	sel  *Pending
}

// BeginBoot begins the startup intents. It must be called before any user
// intent so that a deep link never overrides a selection the user made.
func (c *Controller) BeginBoot(deepLinkID string) Boot {
	b := Boot{c: c, home: c.Begin(Home())}
	if id := strings.TrimSpace(deepLinkID); id != "" {
		sel := c.Begin(Select(id))
		b.sel = &sel
	}
	return b
}

// Finish fetches both concurrently. On success the status names the URL
// strategy in use.
func (b Boot) Finish(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return ignoreSuperseded(b.home.Finish(ctx)) })
	if b.sel != nil {
		sel := *b.sel
		g.Go(func() error { return ignoreSuperseded(sel.Finish(ctx)) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	b.c.SetStatus(Status{Text: b.c.ModeLabel(), Kind: StatusOK})
	return nil
}

// Boot begins and finishes the startup sequence.
func (c *Controller) Boot(ctx context.Context, deepLinkID string) error {
	return c.BeginBoot(deepLinkID).Finish(ctx)
}

func ignoreSuperseded(err error) error {
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	return err
}
