package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	systemclock "github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/clock/system"
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/config"
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/fetch"
	idgen "github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/id/uuid"
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/logging"
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/metrics"
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/pipeline"
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/purge"
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/sitemap"
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/warm"
)

// newRunCmd creates and configures the 'run' subcommand, which executes the
// full purge-and-preload pipeline against the configured site.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Walks the sitemap, purges every page, then warms the cache",
		Long: `Walks the site's sitemap tree into a flat list of in-domain page URLs,
issues a sequential rate-limited purge request per page, and then re-fetches
the pages concurrently so the cache is repopulated. Phases can be skipped
independently with --skip-purge and --skip-warm.`,
		RunE: runRunCommand,
	}

	flags := cmd.Flags()
	flags.String("domain", "", "target site domain (required), e.g. site.ca")
	flags.String("protocol", "https", "protocol for sitemap and purge URLs (http|https)")
	flags.String("sitemap-path", "/sitemap.xml", "path of the root sitemap on the target site")
	flags.String("purge-path", "/purge", "base path of the purge endpoint on the target site")
	flags.Float64("delay", 0.5, "seconds to wait between purge requests")
	flags.Int("workers", 5, "worker pool size for the warm phase")
	flags.Bool("skip-purge", false, "skip the purge phase")
	flags.Bool("skip-warm", false, "skip the warm phase")
	flags.String("metrics-addr", "", "if set, serve /metrics and /healthz on this address during the run")
	flags.String("report-file", "", "if set, write the final report as JSON to this file")

	bind := map[string]string{
		"site.domain":         "domain",
		"site.protocol":       "protocol",
		"site.sitemap_path":   "sitemap-path",
		"purge.path":          "purge-path",
		"purge.delay_seconds": "delay",
		"warm.workers":        "workers",
		"purge.skip":          "skip-purge",
		"warm.skip":           "skip-warm",
		"metrics.addr":        "metrics-addr",
		"report.file":         "report-file",
	}
	for key, flag := range bind {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}

	return cmd
}

func runRunCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runID, err := idgen.New().NewID()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}
	logger := logging.L.With(zap.String("run_id", runID))

	metrics.Init()
	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(cfg.Metrics.Addr, logger)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics listener shutdown failed", zap.Error(err))
			}
		}()
	}

	// The sitemap walk and purge dispatch deliberately carry no per-request
	// timeout and rely on transport defaults; only warm requests get one.
	siteClient := fetch.New(fetch.Config{UserAgent: cfg.HTTP.UserAgent})
	pageClient := fetch.New(fetch.Config{UserAgent: cfg.HTTP.UserAgent, Timeout: cfg.WarmTimeout()})

	pipe := pipeline.New(
		cfg,
		sitemap.NewWalker(
			sitemap.NewFetcher(siteClient, logger),
			cfg.Site.Domain,
			cfg.Site.MaxSitemapDepth,
			logger,
		),
		purge.NewDispatcher(siteClient, cfg.PurgeDelay(), logger),
		warm.NewWarmer(pageClient, cfg.Warm.Workers, logger),
		systemclock.New(),
		logger,
	)

	report, runErr := pipe.Run(cmd.Context())
	if runErr == nil || errors.Is(runErr, context.Canceled) {
		report.LogSummary(logger)
		if cfg.Report.File != "" {
			if err := report.WriteFile(cfg.Report.File); err != nil {
				logger.Warn("failed to write report file", zap.Error(err))
			}
		}
	}
	if runErr != nil {
		return fmt.Errorf("run pipeline: %w", runErr)
	}

	logger.Info("Run command finished.")
	return nil
}
