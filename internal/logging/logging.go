// Package logging builds melulu's charmbracelet loggers.
//
// The TUI owns the terminal, so interactive sessions log to a file with
// colour disabled; headless commands log to stderr with the terminal's
// colour profile.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Color enables ANSI styling. Leave it off for files.
	Color  bool
	Caller bool
}

// New returns a logger writing to w. A nil writer discards output.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	if w == nil {
		w = io.Discard
	}
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    opts.Caller,
		TimeFormat:      time.DateTime,
		Level:           level,
		Prefix:          prefix(opts.Color),
	})
	if opts.Color {
		logger.SetColorProfile(termenv.NewOutput(os.Stderr).EnvColorProfile())
	} else {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger, nil
}

// ParseLevel accepts the level names used in config files.
func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return log.InfoLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return 0, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return level, nil
}

// OpenFile opens path for appending, creating parent directories as needed.
func OpenFile(path string) (*os.File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func prefix(color bool) string {
	if !color {
		return "melulu"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FB7185")).
		Bold(true).
		Padding(0, 1).
		Render("melulu")
}
