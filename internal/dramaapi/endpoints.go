package dramaapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultProxyOrigin is the local backend the client talks to in proxy mode.
const DefaultProxyOrigin = "http://localhost:8787"

// Paths holds the four API routes. Detail and Video take the id as a trailing
// path segment.
type Paths struct {
	Home   string `toml:"home"`
	Search string `toml:"search"`
	Detail string `toml:"detail"`
	Video  string `toml:"video"`
}

// DefaultPaths returns the routes for the proxy backend or the direct API.
func DefaultPaths(proxy bool) Paths {
	if proxy {
		return Paths{
			Home:   "/api/home",
			Search: "/api/search",
			Detail: "/api/detail",
			Video:  "/api/video",
		}
	}
	return Paths{
		Home:   "/api/v1/home",
		Search: "/api/v1/search",
		Detail: "/api/v1/detail",
		Video:  "/api/v1/video",
	}
}

// Endpoints composes request URLs for one origin.
type Endpoints struct {
	base  *url.URL
	paths Paths
	proxy bool
}

// NewEndpoints validates origin and fills blank paths with the defaults for
// the chosen mode.
func NewEndpoints(origin string, paths Paths, proxy bool) (Endpoints, error) {
	base, err := parseOrigin(origin)
	if err != nil {
		return Endpoints{}, err
	}
	def := DefaultPaths(proxy)
	paths.Home = pathOr(paths.Home, def.Home)
	paths.Search = pathOr(paths.Search, def.Search)
	paths.Detail = pathOr(paths.Detail, def.Detail)
	paths.Video = pathOr(paths.Video, def.Video)
	return Endpoints{base: base, paths: paths, proxy: proxy}, nil
}

// Proxy reports whether requests go through the local backend.
func (e Endpoints) Proxy() bool { return e.proxy }

// Origin returns the scheme and host requests are sent to.
func (e Endpoints) Origin() string {
	if e.base == nil {
		return ""
	}
	return e.base.String()
}

func (e Endpoints) Home(page int) string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	return e.resolve(&url.URL{Path: e.paths.Home, RawQuery: values.Encode()})
}

func (e Endpoints) Search(query string, page int) string {
	values := url.Values{}
	values.Set("q", query)
	values.Set("page", strconv.Itoa(page))
	return e.resolve(&url.URL{Path: e.paths.Search, RawQuery: values.Encode()})
}

func (e Endpoints) Detail(id string) string {
	return e.resolve(idURL(e.paths.Detail, id))
}

func (e Endpoints) Video(id string) string {
	return e.resolve(idURL(e.paths.Video, id))
}

func (e Endpoints) resolve(rel *url.URL) string {
	if e.base == nil {
		return rel.String()
	}
	return e.base.ResolveReference(rel).String()
}

func idURL(path, id string) *url.URL {
	path = strings.TrimRight(path, "/")
	return &url.URL{
		Path:    path + "/" + id,
		RawPath: path + "/" + url.PathEscape(id),
	}
}

func pathOr(p, def string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return def
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func parseOrigin(origin string) (*url.URL, error) {
	trimmed := strings.TrimSpace(origin)
	if trimmed == "" {
		return nil, fmt.Errorf("api origin is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api origin %q: %w", origin, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("api origin %q has no host", origin)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
