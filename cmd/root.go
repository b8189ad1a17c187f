// Package cmd defines and implements the CLI commands for the purge-preload executable.
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/logging"
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/pkg/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge-preload",
		Short: "Purges and re-warms a site's page cache from its sitemap.",
		Long: `purge-preload walks a site's sitemap tree to enumerate its pages,
issues a rate-limited cache-purge request for each one, and then re-visits
the pages through a small worker pool so the cache is repopulated before
real user traffic arrives. Run it after a deployment or content change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Initialize Viper configuration once flags are parsed.
	cobra.OnInitialize(func() {
		config.InitConfig(cfgFile)
	})

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./purge-preload.yaml)")

	cmd.AddCommand(newRunCmd())

	return cmd
}

// Execute is the main entry point. Exit codes: 0 on success (per-URL purge
// and warm failures are reported but do not fail the run), 130 on operator
// interruption, 1 on fatal fetch/parse errors.
func Execute() {
	// Initialize the logger once at the very start.
	logging.InitLogger()
	defer func() { _ = logging.L.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logging.L.Warn("Run interrupted; remaining work aborted")
			_ = logging.L.Sync()
			os.Exit(130)
		}
		logging.L.Error("Command execution failed", zap.Error(err))
		_ = logging.L.Sync()
		os.Exit(1)
	}
}
