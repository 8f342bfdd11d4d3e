package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpast/pkg/config"
)

func TestNewConfig(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, "xhpast", cfg.Parser.Binary)
	assert.Equal(t, 30*time.Second, cfg.Parser.Timeout)
	assert.Equal(t, []string{".php"}, cfg.Extensions)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, int64(64<<20), cfg.Cache.MaxBytes)
	assert.True(t, config.IsSet(cfg.SkipVendor))
	assert.False(t, config.IsSet(cfg.DetectShebang))
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.Equal(t, config.ColorAuto, cfg.Color)
}

func TestCacheEnabled(t *testing.T) {
	cfg := &config.Config{}
	assert.True(t, cfg.CacheEnabled(), "nil means enabled")

	cfg.Cache.Enabled = config.Bool(false)
	assert.False(t, cfg.CacheEnabled())
}

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("empty config", func(t *testing.T) {
		c := &config.Config{}
		clone := c.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, c, clone)
	})

	t.Run("deep copies slices", func(t *testing.T) {
		original := &config.Config{
			Ignore:     []string{"vendor/**"},
			Extensions: []string{".php", ".inc"},
			Parser:     config.ParserConfig{Args: []string{"--verbose"}},
		}

		clone := original.Clone()
		clone.Ignore[0] = "changed"
		clone.Extensions[1] = ".phtml"
		clone.Parser.Args[0] = "--quiet"

		assert.Equal(t, "vendor/**", original.Ignore[0])
		assert.Equal(t, ".inc", original.Extensions[1])
		assert.Equal(t, "--verbose", original.Parser.Args[0])
	})

	t.Run("deep copies tri-state flags", func(t *testing.T) {
		original := config.NewConfig()

		clone := original.Clone()
		*clone.SkipVendor = false
		*clone.Cache.Enabled = false

		assert.True(t, *original.SkipVendor)
		assert.True(t, *original.Cache.Enabled)
	})

	t.Run("preserves all fields", func(t *testing.T) {
		original := config.NewConfig()
		original.Jobs = 4
		original.Format = config.FormatJSON
		original.Include = []string{"src/**"}

		assert.Equal(t, original, original.Clone())
	})
}

func TestYAMLRoundTrip(t *testing.T) {
	original := config.NewConfig()
	original.Parser.Timeout = 1500 * time.Millisecond
	original.Ignore = []string{"vendor/**"}
	original.Jobs = 3

	data, err := original.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 1.5s")
	assert.Contains(t, string(data), "binary: xhpast")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestFromYAML(t *testing.T) {
	t.Run("partial file", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte("parser:\n  timeout: 5s\ndetect_shebang: true\n"))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, cfg.Parser.Timeout)
		assert.Empty(t, cfg.Parser.Binary)
		assert.True(t, config.IsSet(cfg.DetectShebang))
		assert.Nil(t, cfg.SkipVendor)
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte("\n"))
		require.NoError(t, err)
		assert.Equal(t, &config.Config{}, cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := config.FromYAML([]byte("parsr:\n  binary: x\n"))
		require.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := config.FromYAML([]byte("jobs: [1"))
		require.Error(t, err)
	})
}

func TestToYAMLWithHeader(t *testing.T) {
	cfg := &config.Config{Jobs: 2}

	data, err := cfg.ToYAMLWithHeader("# header")
	require.NoError(t, err)
	assert.Equal(t, "# header\n\njobs: 2\n", string(data))

	data, err = cfg.ToYAMLWithHeader("")
	require.NoError(t, err)
	assert.Equal(t, "jobs: 2\n", string(data))
}

func TestGenerateTemplate(t *testing.T) {
	t.Run("minimal template parses to an empty config", func(t *testing.T) {
		data := config.GenerateTemplate(false)
		assert.Contains(t, string(data), "# phpast configuration")
		assert.Contains(t, string(data), "#   binary: xhpast")

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, &config.Config{}, cfg)
	})

	t.Run("full template parses to the defaults", func(t *testing.T) {
		cfg, err := config.FromYAML(config.GenerateTemplate(true))
		require.NoError(t, err)

		defaults := config.NewConfig()
		assert.Equal(t, defaults.Parser, cfg.Parser)
		assert.Equal(t, defaults.Cache, cfg.Cache)
		assert.Equal(t, defaults.Extensions, cfg.Extensions)
		assert.True(t, config.IsSet(cfg.SkipVendor))
		assert.False(t, config.IsSet(cfg.DetectShebang))
		assert.Equal(t, []string{"vendor/**", "node_modules/**"}, cfg.Ignore)
	})
}
