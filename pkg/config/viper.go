// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. This function is designed to be called
// once at application startup so that configuration is loaded and available
// to all other packages. A non-empty cfgFile pins the config file path
// instead of searching the standard locations.
func InitConfig(cfgFile string) {
	// --- Set Search Paths ---
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("purge-preload")
		viper.AddConfigPath(".")                     // Current working directory
		viper.AddConfigPath("/etc/purge-preload/")   // System-wide configuration
		viper.AddConfigPath("$HOME/.purge-preload/") // User-specific configuration
	}

	// --- Set Defaults ---
	SetDefaults(viper.GetViper())

	// --- Environment Variables ---
	viper.SetEnvPrefix("PURGEPRELOAD") // e.g., PURGEPRELOAD_SITE_DOMAIN=site.ca
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// --- Read Config File ---
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; flags, env vars and defaults still apply.
			logging.L.Debug("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}

// SetDefaults registers the default value for every recognized key on the
// supplied Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("site.domain", "")
	v.SetDefault("site.protocol", "https")
	v.SetDefault("site.sitemap_path", "/sitemap.xml")
	v.SetDefault("site.max_sitemap_depth", 10)
	v.SetDefault("purge.skip", false)
	v.SetDefault("purge.path", "/purge")
	v.SetDefault("purge.delay_seconds", 0.5)
	v.SetDefault("warm.skip", false)
	v.SetDefault("warm.workers", 5)
	v.SetDefault("warm.timeout_seconds", 10)
	v.SetDefault("http.user_agent", "purge-preload/1.0 (+https://github.com/AZBrandCanada/nginx-cache-purge-and-preload)")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("report.file", "")
}
