// Package browser drives a headless Chrome through chromedp.
package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
)

// Session is one browser instance bound to a single page.
type Session interface {
	// Navigate loads url, giving up after timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// WaitPresent blocks until selector matches or timeout elapses.
	WaitPresent(ctx context.Context, selector string, timeout time.Duration) error
	// Click clicks the first element matching selector.
	Click(ctx context.Context, selector string, timeout time.Duration) error
	// StopLoading aborts an in-progress page load.
	StopLoading(ctx context.Context) error
	// HTML returns the current document's outer HTML.
	HTML(ctx context.Context) (string, error)
	// Close releases the browser. It is safe to call more than once.
	Close() error
}

// Driver hands out sessions.
type Driver interface {
	Open(ctx context.Context) (Session, error)
}

// Options configure the Chrome process.
type Options struct {
	ChromeBin string
	Headless  bool
	UserAgent string
}

// ChromeDriver launches a fresh Chrome process per session.
type ChromeDriver struct {
	opts []chromedp.ExecAllocatorOption
}

// NewChromeDriver resolves the browser binary and allocator flags.
func NewChromeDriver(o Options) *ChromeDriver {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", o.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if o.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(o.UserAgent))
	}
	if bin := FindChromeBinary(o.ChromeBin); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}
	return &ChromeDriver{opts: opts}
}

// Open starts Chrome and a tab. The caller must Close the session.
func (d *ChromeDriver) Open(ctx context.Context) (Session, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, d.opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	s := &chromeSession{ctx: tabCtx, cancel: func() {
		cancelTab()
		cancelAlloc()
	}}

	// An empty Run starts the browser so launch errors surface here.
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("chromedp start: %w", err)
	}
	return s, nil
}

type chromeSession struct {
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// bounded derives a context from the tab context that also ends when the
// caller's ctx does.
func (s *chromeSession) bounded(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	tctx, cancel := context.WithTimeout(s.ctx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return tctx, func() {
		stop()
		cancel()
	}
}

func (s *chromeSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	tctx, cancel := s.bounded(ctx, timeout)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("chromedp navigate: %w", err)
	}
	return nil
}

func (s *chromeSession) WaitPresent(ctx context.Context, selector string, timeout time.Duration) error {
	tctx, cancel := s.bounded(ctx, timeout)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("chromedp wait %q: %w", selector, err)
	}
	return nil
}

func (s *chromeSession) Click(ctx context.Context, selector string, timeout time.Duration) error {
	tctx, cancel := s.bounded(ctx, timeout)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("chromedp click %q: %w", selector, err)
	}
	return nil
}

func (s *chromeSession) StopLoading(ctx context.Context) error {
	tctx, cancel := s.bounded(ctx, 5*time.Second)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.Evaluate(`window.stop();`, nil)); err != nil {
		return fmt.Errorf("chromedp stop: %w", err)
	}
	return nil
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	tctx, cancel := s.bounded(ctx, 30*time.Second)
	defer cancel()
	var html string
	if err := chromedp.Run(tctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("chromedp outer html: %w", err)
	}
	return html, nil
}

func (s *chromeSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	return nil
}

// FindChromeBinary locates a Chrome/Chromium binary. preferred wins when set;
// an empty result lets chromedp use its own lookup.
func FindChromeBinary(preferred string) string {
	if preferred != "" {
		return preferred
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
