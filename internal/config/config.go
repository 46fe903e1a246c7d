package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds melulu's runtime settings.
type Config struct {
	ProxyMode      bool
	ProxyOrigin    string
	DirectOrigin   string
	ShareBase      string
	RequestTimeout time.Duration
	Paths          Paths
	Player         Player
	Log            Log
}

// Paths overrides the API routes. Blank entries use the defaults of the
// active mode.
type Paths struct {
	Home   string `toml:"home"`
	Search string `toml:"search"`
	Detail string `toml:"detail"`
	Video  string `toml:"video"`
}

// Player configures the external media player.
type Player struct {
	Command   string
	Args      []string
	NativeHLS *bool
	Socket    string
}

// Log configures the session log.
type Log struct {
	File  string
	Level string
}

const (
	defaultConfigPath     = "~/.config/melulu/config.toml"
	defaultProxyOrigin    = "http://localhost:8787"
	defaultShareBase      = "https://melulu.app/"
	defaultRequestTimeout = 10 * time.Second
	defaultPlayerCommand  = "mpv"
	defaultLogFile        = "~/.local/state/melulu/melulu.log"
	defaultLogLevel       = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		ProxyMode:      true,
		ProxyOrigin:    defaultProxyOrigin,
		ShareBase:      defaultShareBase,
		RequestTimeout: defaultRequestTimeout,
		Player:         Player{Command: defaultPlayerCommand},
		Log:            Log{File: mustExpand(defaultLogFile), Level: defaultLogLevel},
	}
}

type rawConfig struct {
	ProxyMode      *bool  `toml:"proxy_mode"`
	ProxyOrigin    string `toml:"proxy_origin"`
	DirectOrigin   string `toml:"direct_origin"`
	ShareBase      string `toml:"share_base"`
	RequestTimeout string `toml:"request_timeout"`
	Paths          Paths  `toml:"paths"`
	Player         struct {
		Command   string   `toml:"command"`
		Args      []string `toml:"args"`
		NativeHLS *bool    `toml:"native_hls"`
		Socket    string   `toml:"socket"`
	} `toml:"player"`
	Log struct {
		File  string `toml:"file"`
		Level string `toml:"level"`
	} `toml:"log"`
}

// Load reads the config at path (or the default location), falling back to
// defaults when the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.ProxyMode != nil {
		cfg.ProxyMode = *raw.ProxyMode
	}
	cfg.ProxyOrigin = orDefault(raw.ProxyOrigin, defaultProxyOrigin)
	cfg.DirectOrigin = strings.TrimSpace(raw.DirectOrigin)
	cfg.ShareBase = orDefault(raw.ShareBase, defaultShareBase)

	if timeout := strings.TrimSpace(raw.RequestTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse request_timeout: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("request_timeout must be positive, got %s", d)
		}
		cfg.RequestTimeout = d
	}

	cfg.Paths = Paths{
		Home:   strings.TrimSpace(raw.Paths.Home),
		Search: strings.TrimSpace(raw.Paths.Search),
		Detail: strings.TrimSpace(raw.Paths.Detail),
		Video:  strings.TrimSpace(raw.Paths.Video),
	}

	cfg.Player.Command = orDefault(raw.Player.Command, defaultPlayerCommand)
	cfg.Player.Args = append([]string(nil), raw.Player.Args...)
	cfg.Player.NativeHLS = raw.Player.NativeHLS
	cfg.Player.Socket = strings.TrimSpace(raw.Player.Socket)

	cfg.Log.File = mustExpand(orDefault(raw.Log.File, defaultLogFile))
	cfg.Log.Level = strings.ToLower(orDefault(raw.Log.Level, defaultLogLevel))

	return cfg, nil
}

// Origin returns the API origin for the active mode.
func (c Config) Origin() string {
	if c.ProxyMode {
		return c.ProxyOrigin
	}
	return c.DirectOrigin
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Origin()) == "" {
		if c.ProxyMode {
			return fmt.Errorf("proxy_origin is empty")
		}
		return fmt.Errorf("direct_origin is required when proxy_mode is false")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
