package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	pkgconfig "github.com/AZBrandCanada/nginx-cache-purge-and-preload/pkg/config"
)

func newViper(t *testing.T, overrides map[string]any) *viper.Viper {
	t.Helper()
	v := viper.New()
	pkgconfig.SetDefaults(v)
	for key, val := range overrides {
		v.Set(key, val)
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(newViper(t, map[string]any{"site.domain": "site.ca"}))
	require.NoError(t, err)

	require.Equal(t, "https", cfg.Site.Protocol)
	require.Equal(t, "/sitemap.xml", cfg.Site.SitemapPath)
	require.Equal(t, 10, cfg.Site.MaxSitemapDepth)
	require.Equal(t, "/purge", cfg.Purge.Path)
	require.Equal(t, 0.5, cfg.Purge.DelaySeconds)
	require.False(t, cfg.Purge.Skip)
	require.Equal(t, 5, cfg.Warm.Workers)
	require.Equal(t, 10, cfg.Warm.TimeoutSeconds)
	require.False(t, cfg.Warm.Skip)

	require.Equal(t, "https://site.ca/sitemap.xml", cfg.SitemapURL())
	require.Equal(t, "https://site.ca/purge", cfg.PurgeBase())
	require.Equal(t, 500*time.Millisecond, cfg.PurgeDelay())
	require.Equal(t, 10*time.Second, cfg.WarmTimeout())
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := Load(newViper(t, map[string]any{
		"site.domain":         "example.org",
		"site.protocol":       "http",
		"site.sitemap_path":   "/sitemaps/root.xml",
		"purge.path":          "/cache/purge",
		"purge.delay_seconds": 2.0,
		"purge.skip":          true,
		"warm.workers":        3,
		"warm.skip":           true,
	}))
	require.NoError(t, err)

	require.Equal(t, "http://example.org/sitemaps/root.xml", cfg.SitemapURL())
	require.Equal(t, "http://example.org/cache/purge", cfg.PurgeBase())
	require.Equal(t, 2*time.Second, cfg.PurgeDelay())
	require.True(t, cfg.Purge.Skip)
	require.True(t, cfg.Warm.Skip)
	require.Equal(t, 3, cfg.Warm.Workers)
}

func TestPurgeBaseTrimsTrailingSlash(t *testing.T) {
	t.Parallel()

	cfg, err := Load(newViper(t, map[string]any{
		"site.domain": "site.ca",
		"purge.path":  "/purge/",
	}))
	require.NoError(t, err)
	require.Equal(t, "https://site.ca/purge", cfg.PurgeBase())
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		overrides map[string]any
		wantErr   string
	}{
		{
			name:      "missing domain",
			overrides: map[string]any{},
			wantErr:   "site.domain is required",
		},
		{
			name: "domain with path",
			overrides: map[string]any{
				"site.domain": "site.ca/blog",
			},
			wantErr: "bare host",
		},
		{
			name: "bad protocol",
			overrides: map[string]any{
				"site.domain":   "site.ca",
				"site.protocol": "ftp",
			},
			wantErr: "site.protocol",
		},
		{
			name: "relative sitemap path",
			overrides: map[string]any{
				"site.domain":       "site.ca",
				"site.sitemap_path": "sitemap.xml",
			},
			wantErr: "site.sitemap_path",
		},
		{
			name: "negative delay",
			overrides: map[string]any{
				"site.domain":         "site.ca",
				"purge.delay_seconds": -1.0,
			},
			wantErr: "purge.delay_seconds",
		},
		{
			name: "zero workers",
			overrides: map[string]any{
				"site.domain":  "site.ca",
				"warm.workers": 0,
			},
			wantErr: "warm.workers",
		},
		{
			name: "zero warm timeout",
			overrides: map[string]any{
				"site.domain":          "site.ca",
				"warm.timeout_seconds": 0,
			},
			wantErr: "warm.timeout_seconds",
		},
		{
			name: "zero sitemap depth",
			overrides: map[string]any{
				"site.domain":            "site.ca",
				"site.max_sitemap_depth": 0,
			},
			wantErr: "site.max_sitemap_depth",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(newViper(t, tc.overrides))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
