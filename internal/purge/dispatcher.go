package purge

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/fetch"
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/metrics"
)

// Dispatcher issues one GET per purge URL, strictly sequentially. The fixed
// inter-request delay is intentional rate limiting against the origin, so
// the dispatcher never runs requests concurrently and never skips the delay
// after a failure. No retries; failed URLs are recorded for the report.
type Dispatcher struct {
	client  fetch.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewDispatcher builds a Dispatcher with the given inter-request delay.
func NewDispatcher(client fetch.Client, delay time.Duration, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Dispatcher{
		client: client,
		// Burst 1: the first request goes immediately, every later one
		// waits out the full delay regardless of the previous outcome.
		// The limiter spaces request starts, so a request slower than
		// the delay is followed immediately rather than after a further
		// post-response sleep.
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Run purges every URL in order and returns the URLs that failed, in input
// order. Status 200 is a success; any other status or a transport failure
// is a failure. A zero-length input returns immediately with no requests.
// Cancellation stops the loop and returns the failures collected so far
// along with a wrapped context error.
func (d *Dispatcher) Run(ctx context.Context, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	total := len(urls)
	succeeded := 0
	var failed []string

	for i, u := range urls {
		if err := d.limiter.Wait(ctx); err != nil {
			return failed, fmt.Errorf("purge dispatch interrupted: %w", err)
		}

		res, err := d.client.Fetch(ctx, u)
		switch {
		case err != nil && ctx.Err() != nil:
			return failed, fmt.Errorf("purge dispatch interrupted: %w", ctx.Err())

		case err != nil:
			failed = append(failed, u)
			metrics.ObservePurge("error")
			d.logger.Warn("purge request failed",
				zap.String("url", u),
				zap.Int("index", i+1),
				zap.Int("total", total),
				zap.Error(err),
			)

		case res.StatusCode == http.StatusOK:
			succeeded++
			metrics.ObservePurge("ok")
			d.logger.Info("purged",
				zap.String("url", u),
				zap.Int("index", i+1),
				zap.Int("total", total),
			)

		default:
			failed = append(failed, u)
			metrics.ObservePurge(strconv.Itoa(res.StatusCode))
			d.logger.Warn("purge rejected",
				zap.String("url", u),
				zap.Int("status", res.StatusCode),
				zap.Int("index", i+1),
				zap.Int("total", total),
			)
		}
	}

	d.logger.Info("purge phase complete",
		zap.Int("succeeded", succeeded),
		zap.Int("failed", len(failed)),
		zap.Int("total", total),
	)
	return failed, nil
}
