// Package warm re-requests page URLs through a bounded worker pool so the
// cache layer repopulates its entries before real user traffic arrives.
package warm

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/fetch"
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/metrics"
)

// Warmer dispatches warm requests across a fixed pool of workers. Workers
// report outcomes over a channel and a single collector tallies them, so no
// counter or slice is shared between goroutines. Completion order is
// non-deterministic; the failure list is collected in completion order.
type Warmer struct {
	client  fetch.Client
	workers int
	logger  *zap.Logger
}

type outcome struct {
	url      string
	ok       bool
	status   int
	err      error
	duration time.Duration
}

// NewWarmer builds a Warmer. The per-request timeout is the client's
// concern: pass a fetch client configured with one.
func NewWarmer(client fetch.Client, workers int, logger *zap.Logger) *Warmer {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Warmer{client: client, workers: workers, logger: logger}
}

// Run warms every URL and returns the ones that failed, in completion
// order. Status 200 is a success; any other status, a timeout, or a
// transport failure is a failure. No retries. A zero-length input returns
// immediately with no requests.
func (w *Warmer) Run(ctx context.Context, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	jobs := make(chan string)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range jobs {
				results <- w.visit(ctx, u)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, u := range urls {
			select {
			case jobs <- u:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	total := len(urls)
	succeeded, done := 0, 0
	var failed []string

	for out := range results {
		done++
		switch {
		case out.ok:
			succeeded++
			metrics.ObserveWarm("ok", out.duration)
			w.logger.Info("warmed",
				zap.String("url", out.url),
				zap.Int("index", done),
				zap.Int("total", total),
			)
		case out.err != nil:
			failed = append(failed, out.url)
			metrics.ObserveWarm("error", out.duration)
			w.logger.Warn("warm request failed",
				zap.String("url", out.url),
				zap.Int("index", done),
				zap.Int("total", total),
				zap.Error(out.err),
			)
		default:
			failed = append(failed, out.url)
			metrics.ObserveWarm(strconv.Itoa(out.status), out.duration)
			w.logger.Warn("warm rejected",
				zap.String("url", out.url),
				zap.Int("status", out.status),
				zap.Int("index", done),
				zap.Int("total", total),
			)
		}
	}

	if err := ctx.Err(); err != nil {
		return failed, fmt.Errorf("cache warm interrupted: %w", err)
	}

	w.logger.Info("warm phase complete",
		zap.Int("succeeded", succeeded),
		zap.Int("failed", len(failed)),
		zap.Int("total", total),
	)
	return failed, nil
}

func (w *Warmer) visit(ctx context.Context, u string) outcome {
	res, err := w.client.Fetch(ctx, u)
	if err != nil {
		return outcome{url: u, err: err}
	}
	return outcome{
		url:      u,
		ok:       res.StatusCode == http.StatusOK,
		status:   res.StatusCode,
		duration: res.Duration,
	}
}
