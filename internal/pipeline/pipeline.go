// Package pipeline sequences the purge-preload run: sitemap walk, purge-URL
// derivation, purge dispatch, and cache warming, in that order with a strict
// barrier between phases.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/config"
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/metrics"
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/purge"
)

// SiteWalker expands a sitemap tree into the ordered list of in-domain page URLs.
type SiteWalker interface {
	Walk(ctx context.Context, rootURL string) ([]string, error)
}

// PhaseRunner consumes a list of URLs and returns the ones that failed.
// Both the purge dispatcher and the cache warmer satisfy it.
type PhaseRunner interface {
	Run(ctx context.Context, urls []string) ([]string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Pipeline wires the phases together.
type Pipeline struct {
	cfg        config.Config
	walker     SiteWalker
	dispatcher PhaseRunner
	warmer     PhaseRunner
	clock      Clock
	logger     *zap.Logger
}

// New constructs a Pipeline.
func New(
	cfg config.Config,
	walker SiteWalker,
	dispatcher PhaseRunner,
	warmer PhaseRunner,
	clock Clock,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:        cfg,
		walker:     walker,
		dispatcher: dispatcher,
		warmer:     warmer,
		clock:      clock,
		logger:     logger,
	}
}

// Run executes the full pipeline and returns the final Report. Per-URL purge
// and warm failures are recorded in the Report and do not fail the run;
// sitemap fetch/parse errors and cancellation do, with any failures gathered
// so far preserved in the returned Report.
func (p *Pipeline) Run(ctx context.Context) (report Report, err error) {
	started := p.clock.Now()
	report = Report{
		Domain:    p.cfg.Site.Domain,
		StartedAt: started,
	}
	defer func() {
		report.Elapsed = p.clock.Now().Sub(started)
	}()

	walkLog := p.logger.With(zap.String("phase", "sitemap"))
	walkLog.Info("walking sitemap tree", zap.String("url", p.cfg.SitemapURL()))
	pages, err := p.walker.Walk(ctx, p.cfg.SitemapURL())
	if err != nil {
		return report, fmt.Errorf("walk sitemap: %w", err)
	}
	report.PagesFound = len(pages)
	metrics.ObservePagesDiscovered(len(pages))

	if len(pages) == 0 {
		walkLog.Info("no page urls found; nothing to do")
		return report, nil
	}
	walkLog.Info("sitemap walk complete", zap.Int("pages", len(pages)))

	targets := purge.DeriveURLs(pages, p.cfg.PurgeBase())

	if p.cfg.Purge.Skip {
		report.PurgeSkipped = true
	} else {
		purgeLog := p.logger.With(zap.String("phase", "purge"))
		purgeLog.Info("starting purge phase", zap.Int("targets", len(targets)))
		failures, err := p.dispatcher.Run(ctx, targets)
		report.PurgeFailures = failures
		if err != nil {
			return report, err
		}
	}

	if p.cfg.Warm.Skip {
		report.WarmSkipped = true
	} else {
		warmLog := p.logger.With(zap.String("phase", "warm"))
		warmLog.Info("starting warm phase",
			zap.Int("pages", len(pages)),
			zap.Int("workers", p.cfg.Warm.Workers),
		)
		failures, err := p.warmer.Run(ctx, pages)
		report.WarmFailures = failures
		if err != nil {
			return report, err
		}
	}

	return report, nil
}
