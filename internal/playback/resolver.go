package playback

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
)

// Capability plays media given a URL.
type Capability interface {
	// NativeHLS reports whether Load accepts .m3u8 playlists.
	NativeHLS() bool
	Load(ctx context.Context, url string) error
	Play(ctx context.Context) error
	// Stop halts playback and unbinds the current source.
	Stop(ctx context.Context) error
	ToggleFullscreen(ctx context.Context) error
}

// Opener opens a URL in a new external browsing context.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(string) error

func (f OpenerFunc) Open(u string) error { return f(u) }

// WarnHLSExternal is the warning reported when an HLS stream is handed to the
// browser.
const WarnHLSExternal = "HLS stream opened in browser"

// Result is the outcome of Resolve.
type Result struct {
	URL string
	// Playing is set when the capability took the source.
	Playing bool
	// External is set when the source was opened outside the player.
	External bool
	Warning  string
}

// Resolver chooses how a media URL is played.
type Resolver struct {
	capability Capability
	opener     Opener
	logger     *log.Logger
}

// NewResolver returns a Resolver. A nil opener falls back to OpenBrowser.
func NewResolver(capability Capability, opener Opener, logger *log.Logger) *Resolver {
	if opener == nil {
		opener = OpenerFunc(OpenBrowser)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{capability: capability, opener: opener, logger: logger}
}

// Resolve detaches the current source and plays rawURL.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (Result, error) {
	if r == nil || r.capability == nil {
		return Result{}, fmt.Errorf("playback capability is nil")
	}
	if err := r.Detach(ctx); err != nil {
		r.logger.Debug("detach before load", "error", err)
	}

	if IsHLS(rawURL) && !r.capability.NativeHLS() {
		if err := r.opener.Open(rawURL); err != nil {
			return Result{}, fmt.Errorf("open stream externally: %w", err)
		}
		return Result{URL: rawURL, External: true, Warning: WarnHLSExternal}, nil
	}

	if err := r.capability.Load(ctx, rawURL); err != nil {
		return Result{}, fmt.Errorf("load source: %w", err)
	}
	if err := r.capability.Play(ctx); err != nil {
		r.logger.Debug("play start ignored", "error", err)
	}
	return Result{URL: rawURL, Playing: true}, nil
}

// Detach stops and unbinds the current source.
func (r *Resolver) Detach(ctx context.Context) error {
	if r == nil || r.capability == nil {
		return nil
	}
	return r.capability.Stop(ctx)
}

// ToggleFullscreen switches the player between windowed and fullscreen.
func (r *Resolver) ToggleFullscreen(ctx context.Context) error {
	if r == nil || r.capability == nil {
		return fmt.Errorf("playback capability is nil")
	}
	return r.capability.ToggleFullscreen(ctx)
}

// IsHLS reports whether rawURL points at an HLS playlist. Query strings and
// fragments are ignored.
func IsHLS(rawURL string) bool {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	} else if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		path = rawURL[:i]
	}
	return strings.HasSuffix(strings.ToLower(path), ".m3u8")
}
