// Package deeplink reads and writes share links of the form
// {base}#id=<identifier> and copies them to the system clipboard.
package deeplink

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
)

// DefaultShareBase is used when no share base is configured.
const DefaultShareBase = "https://melulu.app/"

// idPattern matches an "id" key, not a key ending in "id".
var idPattern = regexp.MustCompile(`(?:^|[?&])id=([^&#]+)`)

// componentUnescaper restores the marks encodeURIComponent leaves bare.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// ParseFragment extracts the drama id from a deep link. It accepts a full
// URL, a fragment with or without the leading '#', or a bare "id=..." pair.
func ParseFragment(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[i+1:]
	}
	m := idPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	id, err := url.PathUnescape(m[1])
	if err != nil {
		id = m[1]
	}
	id = strings.TrimSpace(id)
	return id, id != ""
}

// ShareLink builds the share link for id. Any fragment already on base is
// replaced.
func ShareLink(base, id string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultShareBase
	}
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + "#id=" + escapeComponent(id)
}

// escapeComponent escapes like encodeURIComponent.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// ClipboardError reports a failed clipboard write.
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("copy to clipboard: %v", e.Err)
}

func (e *ClipboardError) Unwrap() error { return e.Err }

// Clipboard writes text to the system clipboard.
type Clipboard struct {
	write       func(string) error
	unsupported func() bool
}

// SystemClipboard returns a Clipboard backed by the OS clipboard tools.
func SystemClipboard() *Clipboard {
	return &Clipboard{
		write:       clipboard.WriteAll,
		unsupported: func() bool { return clipboard.Unsupported },
	}
}

// Copy writes text. Failures, including a platform without clipboard
// support, are returned as *ClipboardError.
func (c *Clipboard) Copy(text string) error {
	if c == nil || c.write == nil || (c.unsupported != nil && c.unsupported()) {
		return &ClipboardError{Err: fmt.Errorf("clipboard unavailable")}
	}
	if err := c.write(text); err != nil {
		return &ClipboardError{Err: err}
	}
	return nil
}
