package dramaapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type phaseRecorder struct {
	mu     sync.Mutex
	phases []Phase
}

func (r *phaseRecorder) FetchPhase(p Phase) {
	r.mu.Lock()
	r.phases = append(r.phases, p)
	r.mu.Unlock()
}

func (r *phaseRecorder) got() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Phase(nil), r.phases...)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *phaseRecorder) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	endpoints, err := NewEndpoints(server.URL, Paths{}, true)
	if err != nil {
		t.Fatalf("NewEndpoints returned error: %v", err)
	}
	c := NewClient(Options{Endpoints: endpoints, Timeout: 2 * time.Second})
	rec := &phaseRecorder{}
	c.SetObserver(rec)
	return c, rec
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_FetchesEndpoints(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	seen := map[string]string{}
	var gotAccept, gotUserAgent, gotRequestID string

	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.URL.EscapedPath()] = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/home":
			_, _ = w.Write([]byte(`{"data":[{"id":"a","views":12345678901234567890}]}`))
		case r.URL.Path == "/api/search":
			_, _ = w.Write([]byte(`[]`))
		case strings.HasPrefix(r.URL.Path, "/api/detail/"):
			_, _ = w.Write([]byte(`{"data":{"id":"x"}}`))
		case strings.HasPrefix(r.URL.Path, "/api/video/"):
			_, _ = w.Write([]byte(`{"url":"http://v/x.mp4"}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := testContext(t)

	home, err := c.Home(ctx, 2)
	if err != nil {
		t.Fatalf("Home returned error: %v", err)
	}
	views := home.(map[string]any)["data"].([]any)[0].(map[string]any)["views"]
	if _, ok := views.(json.Number); !ok {
		t.Fatalf("views decoded as %T, want json.Number", views)
	}

	if _, err := c.Search(ctx, "甜宠 ceo", 1); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if _, err := c.Detail(ctx, "a/b c"); err != nil {
		t.Fatalf("Detail returned error: %v", err)
	}
	if _, err := c.Video(ctx, "v1"); err != nil {
		t.Fatalf("Video returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if q := seen["/api/home"]; q != "page=2" {
		t.Fatalf("home query = %q, want page=2", q)
	}
	if q := seen["/api/search"]; q != "page=1&q=%E7%94%9C%E5%AE%A0+ceo" {
		t.Fatalf("search query = %q", q)
	}
	if _, ok := seen["/api/detail/a%2Fb%20c"]; !ok {
		t.Fatalf("detail path not escaped, saw %v", seen)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}
	if _, err := uuid.Parse(gotRequestID); err != nil {
		t.Fatalf("X-Request-ID = %q is not a uuid: %v", gotRequestID, err)
	}

	phases := rec.got()
	if len(phases) != 8 {
		t.Fatalf("phases = %v, want 8 signals", phases)
	}
	for i := 0; i < len(phases); i += 2 {
		if phases[i] != PhaseLoading || phases[i+1] != PhaseOK {
			t.Fatalf("phases = %v, want loading/ok pairs", phases)
		}
	}
}

func TestClient_TransportError(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 300)
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(long))
	})

	_, err := c.Home(testContext(t), 1)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if te.Status != http.StatusBadGateway {
		t.Fatalf("Status = %d, want %d", te.Status, http.StatusBadGateway)
	}
	if te.StatusText != "Bad Gateway" {
		t.Fatalf("StatusText = %q, want Bad Gateway", te.StatusText)
	}
	if n := len([]rune(te.BodyPrefix)); n != 200 {
		t.Fatalf("BodyPrefix has %d characters, want 200", n)
	}
	if got := rec.got(); len(got) != 2 || got[1] != PhaseError {
		t.Fatalf("phases = %v, want loading then error", got)
	}
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid", body: `{"data":`},
		{name: "empty", body: ``},
		{name: "html", body: `<html>oops</html>`},
		{name: "trailing", body: `{"a":1} {"b":2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Video(testContext(t), "x")
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("err = %v, want *DecodeError", err)
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	origin := server.URL
	server.Close()

	endpoints, err := NewEndpoints(origin, Paths{}, false)
	if err != nil {
		t.Fatalf("NewEndpoints returned error: %v", err)
	}
	c := NewClient(Options{Endpoints: endpoints})

	_, err = c.Home(testContext(t), 1)
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
	if !strings.Contains(ne.URL, "/api/v1/home") {
		t.Fatalf("URL = %q, want direct-mode path", ne.URL)
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.Home(context.Background(), 1); err == nil {
		t.Fatalf("nil client returned no error")
	}
	c.SetObserver(nil)
}
