package rightmove

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/net/html/charset"

	"property-scraper/scraper"
)

// Fetcher retrieves raw page text over plain HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
	robots    *RobotsGate
}

// NewFetcher creates a Fetcher. A nil robots gate allows every URL.
func NewFetcher(timeout time.Duration, userAgent string, robots *RobotsGate) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		robots:    robots,
	}
}

// Fetch returns the decoded body of targetURL. Transport errors and non-2xx
// statuses are reported as ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	if f.robots != nil && !f.robots.Allowed(ctx, targetURL) {
		return "", fmt.Errorf("%w: %s disallowed by robots.txt", scraper.ErrFetchFailed, targetURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", scraper.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", scraper.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned status %d", scraper.ErrFetchFailed, targetURL, resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("%w: decode body: %v", scraper.ErrFetchFailed, err)
	}
	text, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", scraper.ErrFetchFailed, err)
	}
	return string(text), nil
}

// RobotsGate caches robots.txt rules per host.
type RobotsGate struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	cache map[string]*robotstxt.Group
}

// NewRobotsGate creates a gate that evaluates rules for userAgent.
func NewRobotsGate(client *http.Client, userAgent string) *RobotsGate {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RobotsGate{
		client:    client,
		userAgent: userAgent,
		cache:     make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether link may be fetched. A missing or unreadable
// robots.txt allows everything.
func (g *RobotsGate) Allowed(ctx context.Context, link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	group, seen := g.cache[u.Host]
	if !seen {
		group = g.load(ctx, u)
		g.cache[u.Host] = group
	}
	if group == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

func (g *RobotsGate) load(ctx context.Context, u *url.URL) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.Scheme+"://"+u.Host+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(g.userAgent)
}
