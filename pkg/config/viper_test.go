package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	SetDefaults(v)

	require.Equal(t, "https", v.GetString("site.protocol"))
	require.Equal(t, "/sitemap.xml", v.GetString("site.sitemap_path"))
	require.Equal(t, "/purge", v.GetString("purge.path"))
	require.Equal(t, 0.5, v.GetFloat64("purge.delay_seconds"))
	require.Equal(t, 5, v.GetInt("warm.workers"))
	require.Equal(t, 10, v.GetInt("warm.timeout_seconds"))
	require.False(t, v.GetBool("purge.skip"))
	require.False(t, v.GetBool("warm.skip"))
	require.Empty(t, v.GetString("site.domain"))
}
