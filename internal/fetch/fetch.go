// Package fetch implements the shared single-URL GET client on top of Colly.
// The sitemap fetcher, purge dispatcher, and cache warmer all issue their
// requests through it.
package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// Result carries the outcome of one HTTP GET. A populated StatusCode with a
// non-2xx value is a response, not an error; transport-level failures are
// returned as errors instead.
type Result struct {
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Client fetches a single URL.
type Client interface {
	Fetch(ctx context.Context, url string) (Result, error)
}

// Config controls collector behavior.
type Config struct {
	UserAgent string
	// Timeout applies to every request made through this client. Zero keeps
	// the collector's default.
	Timeout time.Duration
}

// CollyClient implements Client using a Colly collector cloned per request.
type CollyClient struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds a CollyClient.
func New(cfg Config) *CollyClient {
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true // operator purging their own site
	c.AllowURLRevisit = true
	c.WithTransport(newHTTPTransport())
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	if cfg.Timeout > 0 {
		c.SetRequestTimeout(cfg.Timeout)
	}
	return &CollyClient{cfg: cfg, baseCollector: c}
}

// Fetch executes a single HTTP GET.
func (c *CollyClient) Fetch(ctx context.Context, rawURL string) (Result, error) {
	collector := c.baseCollector.Clone()

	var (
		result   Result
		fetchErr error
	)
	start := time.Now()

	collector.OnResponse(func(r *colly.Response) {
		result = Result{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		// Colly reports non-2xx statuses through OnError; surface them as a
		// Result so callers can classify by status code.
		if r != nil && r.StatusCode != 0 {
			result = Result{
				URL:        rawURL,
				StatusCode: r.StatusCode,
				Body:       append([]byte(nil), r.Body...),
				Duration:   time.Since(start),
			}
			return
		}
		fetchErr = err
	})

	if err := runCollector(ctx, collector, rawURL); err != nil {
		if result.StatusCode != 0 {
			return result, nil
		}
		if fetchErr != nil {
			return Result{}, fmt.Errorf("fetch %s: %w", rawURL, fetchErr)
		}
		return Result{}, err
	}
	return result, nil
}

func runCollector(ctx context.Context, collector *colly.Collector, url string) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("visit %s: %w", url, err)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
