package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/five82/melulu/internal/catalog"
	"github.com/five82/melulu/internal/config"
	"github.com/five82/melulu/internal/deeplink"
	"github.com/five82/melulu/internal/dramaapi"
	"github.com/five82/melulu/internal/logging"
	"github.com/five82/melulu/internal/logtail"
	"github.com/five82/melulu/internal/playback"
	"github.com/five82/melulu/internal/prefs"
	"github.com/five82/melulu/internal/state"
	"github.com/five82/melulu/internal/ui"
)

// Options configure the melulu application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/melulu/prefs.toml
	Overrides  Overrides
	// DeepLink is a share link, a fragment or a bare drama id opened at
	// startup.
	DeepLink string
}

// Overrides are command-line settings applied on top of the config file.
type Overrides struct {
	Direct bool
	Origin string
	Debug  bool
}

// LoadConfig reads the config file, applies overrides and validates the
// result.
func LoadConfig(path string, ov Overrides) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if ov.Direct {
		cfg.ProxyMode = false
	}
	if origin := strings.TrimSpace(ov.Origin); origin != "" {
		if cfg.ProxyMode {
			cfg.ProxyOrigin = origin
		} else {
			cfg.DirectOrigin = origin
		}
	}
	if ov.Debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Deps replaces the session's outside-world capabilities. Zero fields use
// mpv, the system browser and the system clipboard.
type Deps struct {
	Playback  playback.Capability
	Opener    playback.Opener
	Clipboard state.Clipboard
}

// Session is one wired set of client, controller and store.
type Session struct {
	Config     config.Config
	Logger     *log.Logger
	Client     *dramaapi.Client
	Controller *state.Controller
	Store      *state.Store

	mpv *playback.MPV
}

// NewSession wires the catalog client, playback and controller for cfg.
func NewSession(cfg config.Config, logger *log.Logger, deps Deps) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	endpoints, err := dramaapi.NewEndpoints(cfg.Origin(), dramaapi.Paths(cfg.Paths), cfg.ProxyMode)
	if err != nil {
		return nil, fmt.Errorf("init catalog endpoints: %w", err)
	}
	client := dramaapi.NewClient(dramaapi.Options{
		Endpoints: endpoints,
		Timeout:   cfg.RequestTimeout,
		Logger:    logger,
	})

	s := &Session{
		Config: cfg,
		Logger: logger,
		Client: client,
		Store:  &state.Store{},
	}

	capability := deps.Playback
	if capability == nil {
		s.mpv = playback.NewMPV(playback.MPVOptions{
			Command:   cfg.Player.Command,
			Args:      cfg.Player.Args,
			NativeHLS: cfg.Player.NativeHLS,
			Socket:    cfg.Player.Socket,
			Logger:    logger,
		})
		capability = s.mpv
	}
	clip := deps.Clipboard
	if clip == nil {
		clip = deeplink.SystemClipboard()
	}

	s.Controller = state.NewController(state.Options{
		Fetcher:   client,
		Playback:  playback.NewResolver(capability, deps.Opener, logger),
		Clipboard: clip,
		Renderer:  s.Store,
		Logger:    logger,
		ShareBase: cfg.ShareBase,
		Proxy:     cfg.ProxyMode,
	})
	client.SetObserver(s.Controller)
	return s, nil
}

// Close quits the media player if the session started it.
func (s *Session) Close() error {
	if s.mpv == nil {
		return nil
	}
	return s.mpv.Close()
}

// List fetches one page of the home feed, or of search results when query is
// not blank.
func (s *Session) List(ctx context.Context, query string, page int) ([]catalog.ListItem, error) {
	if page < 1 {
		page = 1
	}
	var raw any
	var err error
	if q := strings.TrimSpace(query); q != "" {
		raw, err = s.Client.Search(ctx, q, page)
	} else {
		raw, err = s.Client.Home(ctx, page)
	}
	if err != nil {
		return nil, err
	}
	return catalog.NormalizeList(raw), nil
}

// Show selects id and returns its detail.
func (s *Session) Show(ctx context.Context, id string) (catalog.Detail, error) {
	if err := s.Controller.Select(ctx, id); err != nil {
		return catalog.Detail{}, err
	}
	snap := s.Controller.Snapshot()
	if snap.Selected == nil {
		return catalog.Detail{}, state.ErrNoSelection
	}
	return *snap.Selected, nil
}

// Play selects id and starts playback. The returned snapshot tells whether
// the player took the stream or it was handed off externally.
func (s *Session) Play(ctx context.Context, id string) (state.Snapshot, error) {
	if _, err := s.Show(ctx, id); err != nil {
		return state.Snapshot{}, err
	}
	if err := s.Controller.Play(ctx); err != nil {
		return s.Controller.Snapshot(), err
	}
	return s.Controller.Snapshot(), nil
}

// Link selects id and copies its share link. The link is returned even when
// the clipboard write fails.
func (s *Session) Link(ctx context.Context, id string) (string, error) {
	detail, err := s.Show(ctx, id)
	if err != nil {
		return "", err
	}
	link := deeplink.ShareLink(s.Config.ShareBase, detail.ID)
	return link, s.Controller.CopyLink(ctx)
}

// DeepLinkID extracts a drama id from a share link, a fragment or a bare id.
func DeepLinkID(arg string) string {
	if id, ok := deeplink.ParseFragment(arg); ok {
		return id
	}
	arg = strings.TrimSpace(arg)
	if arg == "" || strings.ContainsAny(arg, "#=/?") {
		return ""
	}
	return arg
}

// Run boots the melulu TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts.ConfigPath, opts.Overrides)
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	logger, err := logging.New(logFile, logging.Options{Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	logger.Info("starting", "origin", cfg.Origin(), "proxy", cfg.ProxyMode)

	session, err := NewSession(cfg, logger, Deps{})
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("close player", "error", err)
		}
	}()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	var logChanged <-chan struct{}
	if watcher, err := logtail.Watch(cfg.Log.File); err != nil {
		logger.Warn("log view falls back to polling", "error", err)
	} else {
		defer func() { _ = watcher.Close() }()
		logChanged = watcher.Changed()
	}

	deepLink := DeepLinkID(opts.DeepLink)
	if opts.DeepLink != "" && deepLink == "" {
		logger.Warn("ignoring deep link without an id", "arg", opts.DeepLink)
	}

	return ui.Run(ui.Options{
		Context:    ctx,
		Controller: session.Controller,
		Store:      session.Store,
		Prefs:      prefs.Load(prefsPath),
		PrefsPath:  prefsPath,
		LogPath:    cfg.Log.File,
		LogChanged: logChanged,
		DeepLinkID: deepLink,
		Logger:     logger,
		PollTick:   ui.DefaultUIInterval,
	})
}
