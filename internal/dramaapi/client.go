package dramaapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Fetcher defines the catalog operations the navigation controller needs.
// It is implemented by *Client and can be faked in tests.
type Fetcher interface {
	Home(ctx context.Context, page int) (any, error)
	Search(ctx context.Context, query string, page int) (any, error)
	Detail(ctx context.Context, id string) (any, error)
	Video(ctx context.Context, id string) (any, error)
}

var _ Fetcher = (*Client)(nil)

// Phase is a fetch progress signal.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseOK
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseOK:
		return "ok"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Observer receives fetch progress. Implementations must return quickly; they
// run on the fetching goroutine.
type Observer interface {
	FetchPhase(Phase)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Phase)

func (f ObserverFunc) FetchPhase(p Phase) { f(p) }

const (
	defaultUserAgent = "melulu/0.1"
	defaultTimeout   = 10 * time.Second
	bodyPrefixLimit  = 200
)

// Options configures NewClient. Zero values pick defaults.
type Options struct {
	Endpoints  Endpoints
	Timeout    time.Duration
	UserAgent  string
	Logger     *log.Logger
	HTTPClient *http.Client
}

// Client talks to the catalog API.
type Client struct {
	endpoints Endpoints
	http      *http.Client
	userAgent string
	logger    *log.Logger

	mu       sync.RWMutex
	observer Observer
}

// NewClient builds a Client for the given endpoints.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		endpoints: opts.Endpoints,
		http:      httpClient,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Endpoints returns the URL strategy the client was built with.
func (c *Client) Endpoints() Endpoints {
	if c == nil {
		return Endpoints{}
	}
	return c.endpoints
}

// SetObserver replaces the progress observer. A nil observer disables
// signalling.
func (c *Client) SetObserver(o Observer) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.observer = o
	c.mu.Unlock()
}

func (c *Client) signal(p Phase) {
	c.mu.RLock()
	o := c.observer
	c.mu.RUnlock()
	if o != nil {
		o.FetchPhase(p)
	}
}

// Home fetches one page of the home feed.
func (c *Client) Home(ctx context.Context, page int) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	return c.FetchJSON(ctx, c.endpoints.Home(page))
}

// Search fetches one page of search results for query.
func (c *Client) Search(ctx context.Context, query string, page int) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	return c.FetchJSON(ctx, c.endpoints.Search(query, page))
}

// Detail fetches the detail record for id.
func (c *Client) Detail(ctx context.Context, id string) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	return c.FetchJSON(ctx, c.endpoints.Detail(id))
}

// Video fetches the playable source for id.
func (c *Client) Video(ctx context.Context, id string) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	return c.FetchJSON(ctx, c.endpoints.Video(id))
}

// FetchJSON issues a GET to rawURL and decodes the body as a single JSON
// value with numbers preserved as json.Number.
func (c *Client) FetchJSON(ctx context.Context, rawURL string) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	requestID := uuid.NewString()
	logger := c.logger.With("request_id", requestID, "url", rawURL)

	c.signal(PhaseLoading)
	payload, status, err := c.get(ctx, rawURL, requestID)
	if err != nil {
		c.signal(PhaseError)
		logger.Warn("fetch failed", "status", status, "error", err)
		return nil, err
	}
	c.signal(PhaseOK)
	logger.Debug("fetch ok", "status", status)
	return payload, nil
}

func (c *Client) get(ctx context.Context, rawURL, requestID string) (any, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &NetworkError{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &TransportError{
			URL:        rawURL,
			Status:     resp.StatusCode,
			StatusText: statusText(resp),
			BodyPrefix: bodyPrefix(resp.Body),
		}
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, resp.StatusCode, &DecodeError{URL: rawURL, Err: err}
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, resp.StatusCode, &DecodeError{URL: rawURL, Err: fmt.Errorf("unexpected data after top-level value")}
	}
	return payload, resp.StatusCode, nil
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// bodyPrefix reads at most bodyPrefixLimit characters of an error body. Read
// failures yield whatever was read so far.
func bodyPrefix(r io.Reader) string {
	buf, _ := io.ReadAll(io.LimitReader(r, bodyPrefixLimit*4))
	runes := []rune(string(buf))
	if len(runes) > bodyPrefixLimit {
		runes = runes[:bodyPrefixLimit]
	}
	return string(runes)
}
