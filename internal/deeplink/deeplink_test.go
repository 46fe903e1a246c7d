package deeplink

import (
	"errors"
	"testing"
)

func TestParseFragment(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "#id=123", want: "123", wantOK: true},
		{in: "id=abc", want: "abc", wantOK: true},
		{in: "https://melulu.app/watch?x=1#id=a%20b&t=5", want: "a b", wantOK: true},
		{in: "#foo=1&id=%E7%94%9C", want: "甜", wantOK: true},
		{in: "#id=bad%zz", want: "bad%zz", wantOK: true},
		{in: "#id=", wantOK: false},
		{in: "#other=1", wantOK: false},
		{in: "https://host/?vid=3", wantOK: false},
		{in: "#vid=3&id=7", want: "7", wantOK: true},
		{in: "https://host/?id=9", want: "9", wantOK: true},
		{in: "", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseFragment(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("ParseFragment(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestShareLink(t *testing.T) {
	tests := []struct {
		base string
		id   string
		want string
	}{
		{base: "", id: "42", want: "https://melulu.app/#id=42"},
		{base: "http://localhost:3000/index.html#id=old", id: "a b&c", want: "http://localhost:3000/index.html#id=a%20b%26c"},
		{base: "", id: "a(b)!*'~", want: "https://melulu.app/#id=a(b)!*'~"},
	}
	for _, tt := range tests {
		if got := ShareLink(tt.base, tt.id); got != tt.want {
			t.Fatalf("ShareLink(%q, %q) = %q, want %q", tt.base, tt.id, got, tt.want)
		}
	}
}

func TestShareLinkRoundTrip(t *testing.T) {
	for _, id := range []string{"plain", "with space", "a&b=c", "校园#1", "it's (new)!"} {
		got, ok := ParseFragment(ShareLink("", id))
		if !ok || got != id {
			t.Fatalf("round trip of %q = %q, %v", id, got, ok)
		}
	}
}

func TestClipboardCopy(t *testing.T) {
	var copied string
	c := &Clipboard{write: func(s string) error {
		copied = s
		return nil
	}}
	if err := c.Copy("https://melulu.app/#id=1"); err != nil {
		t.Fatalf("Copy returned error: %v", err)
	}
	if copied != "https://melulu.app/#id=1" {
		t.Fatalf("copied = %q", copied)
	}
}

func TestClipboardCopyErrors(t *testing.T) {
	boom := errors.New("permission denied")
	c := &Clipboard{write: func(string) error { return boom }}
	err := c.Copy("x")
	var ce *ClipboardError
	if !errors.As(err, &ce) {
		t.Fatalf("Copy error = %v, want *ClipboardError", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("Copy error = %v, want it to wrap %v", err, boom)
	}

	c = &Clipboard{
		write:       func(string) error { return nil },
		unsupported: func() bool { return true },
	}
	if err := c.Copy("x"); !errors.As(err, &ce) {
		t.Fatalf("unsupported Copy error = %v, want *ClipboardError", err)
	}

	var nilClipboard *Clipboard
	if err := nilClipboard.Copy("x"); !errors.As(err, &ce) {
		t.Fatalf("nil Copy error = %v, want *ClipboardError", err)
	}
}
