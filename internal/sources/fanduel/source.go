// Package fanduel scrapes NBA player props off the FanDuel sportsbook.
// DOM scraping is inherently brittle, so the adapter sits behind the same
// PropSource interface as the JSON-API sources and can be dropped from the
// chain without touching anything downstream.
package fanduel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hotshotprops/proplab/internal/pkg/config"
	"github.com/hotshotprops/proplab/internal/pkg/models"
	"github.com/hotshotprops/proplab/internal/sources"
)

const (
	sourceName     = "fanduel"
	defaultBaseURL = "https://sportsbook.fanduel.com"
	defaultPath    = "/navigation/nba"

	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// retryDelay between page-load attempts. Fixed, not exponential: the
	// chain moves on to the next source quickly either way.
	retryDelay = 2 * time.Second
)

func init() {
	sources.Register(sourceName, func(cfg *config.Config) sources.PropSource {
		return NewSource(cfg)
	})
}

type Source struct {
	pageURL     string
	userAgent   string
	timeout     time.Duration
	renderWait  time.Duration
	useBrowser  bool
	maxAttempts int
	client      *http.Client

	// render is swappable for tests; defaults to the chromedp path.
	render func(ctx context.Context, pageURL, userAgent string, renderWait, timeout time.Duration) (string, error)
}

func NewSource(cfg *config.Config) *Source {
	c := &cfg.Sources.FanDuel
	baseURL := strings.TrimSuffix(c.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	path := c.PropsPath
	if path == "" {
		path = defaultPath
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = cfg.Sources.Timeout
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	userAgent := cfg.Sources.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxAttempts := c.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 2
	}
	return &Source{
		pageURL:     baseURL + path,
		userAgent:   userAgent,
		timeout:     timeout,
		renderWait:  c.RenderWait,
		useBrowser:  c.UseBrowser,
		maxAttempts: maxAttempts,
		client:      &http.Client{Timeout: timeout},
		render:      renderPage,
	}
}

func (s *Source) Name() string { return sourceName }

// FetchProps loads the props page (headless browser or plain GET), parses
// the DOM and returns whatever rows survived. All scraping failures are
// absorbed: a blocked or redesigned page is an empty result, and the chain
// falls through to the aggregator.
func (s *Source) FetchProps(ctx context.Context) ([]models.PropLine, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, nil
		}
		html, err := s.loadPage(ctx)
		if err != nil {
			lastErr = err
			slog.Warn("FanDuel page load failed", "attempt", attempt, "error", err)
			if attempt < s.maxAttempts {
				time.Sleep(retryDelay)
			}
			continue
		}
		lines := ParseProps(html)
		if len(lines) == 0 {
			slog.Warn("FanDuel page yielded no parseable props", "attempt", attempt)
			continue
		}
		return lines, nil
	}
	if lastErr != nil {
		slog.Warn("FanDuel scrape gave up", "attempts", s.maxAttempts, "error", lastErr)
	}
	return nil, nil
}

func (s *Source) loadPage(ctx context.Context) (string, error) {
	if s.useBrowser {
		return s.render(ctx, s.pageURL, s.userAgent, s.renderWait, s.timeout)
	}
	return s.plainGet(ctx)
}

func (s *Source) plainGet(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
