package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dtnitsch/serp-benchmark/pkg/caching"
)

// Config configures the fetcher.
type Config struct {
	Timeout   time.Duration // per request; default 10s
	UserAgent string        // default "Mozilla/5.0"
	MaxBytes  int64         // response body cap; default 10MB
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0"
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 * 1024 * 1024
	}
}

type Fetcher struct {
	client *http.Client
	config Config
	cache  *caching.Cache // optional
	logger *slog.Logger
}

// NewFetcher builds a fetcher. cache may be nil.
func NewFetcher(cfg Config, cache *caching.Cache, logger *slog.Logger) *Fetcher {
	cfg.defaults()
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
		cache:  cache,
		logger: logger,
	}
}

// Fetch returns the page markup, or "" when the page is unavailable for any
// reason (network error, timeout, non-2xx status). Failures are not retried.
func (f *Fetcher) Fetch(ctx context.Context, url string) string {
	if f.cache != nil {
		if data, ok := f.cache.Get(url); ok {
			f.logger.Debug("Markup served from cache", "url", url)
			return string(data)
		}
	}

	body, err := f.GetHtmlBytes(ctx, url)
	if err != nil {
		f.logger.Warn("Page unavailable", "url", url, "error", err)
		return ""
	}

	if f.cache != nil {
		if err := f.cache.Set(url, body); err != nil {
			f.logger.Warn("Failed to cache markup", "url", url, "error", err)
		}
	}
	return string(body)
}

// GetHtmlBytes performs one GET bounded by the configured timeout.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return bodyBytes, nil
}
