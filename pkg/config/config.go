// Package config defines core configuration types for phpast.
// These types are pure data structures; loading and merging live in internal/configloader.
package config

import "time"

// Defaults for the parser and the result cache.
const (
	DefaultBinary     = "xhpast"
	DefaultTimeout    = 30 * time.Second
	DefaultCacheBytes = 64 << 20
)

// OutputFormat specifies the output format for check results.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatSARIF OutputFormat = "sarif"
)

// ColorMode controls colorized output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParserConfig configures how the xhpast binary is run.
type ParserConfig struct {
	// Binary is the parser executable, resolved through PATH if not absolute.
	Binary string `yaml:"binary,omitempty"`

	// Args are extra arguments passed before the source is piped in.
	Args []string `yaml:"args,omitempty"`

	// Timeout bounds a single parser run.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// CacheConfig configures the in-memory parser result cache.
type CacheConfig struct {
	// Enabled turns the cache on or off. Nil means enabled.
	Enabled *bool `yaml:"enabled,omitempty"`

	// MaxBytes bounds the total size of cached parser output.
	MaxBytes int64 `yaml:"max_bytes,omitempty"`
}

// Config is the root configuration structure for phpast.
type Config struct {
	// Parser configures the xhpast binary.
	Parser ParserConfig `yaml:"parser,omitempty"`

	// Cache configures result memoization.
	Cache CacheConfig `yaml:"cache,omitempty"`

	// Extensions lists the file extensions treated as PHP during discovery.
	Extensions []string `yaml:"extensions,omitempty"`

	// Include contains glob patterns a file must match to be checked.
	Include []string `yaml:"include,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty"`

	// DetectShebang also checks extension-less scripts with a PHP shebang.
	DetectShebang *bool `yaml:"detect_shebang,omitempty"`

	// SkipVendor skips vendored dependency directories.
	SkipVendor *bool `yaml:"skip_vendor,omitempty"`

	// FollowSymlinks follows symbolic links during discovery.
	FollowSymlinks *bool `yaml:"follow_symlinks,omitempty"`

	// Jobs specifies the number of parallel workers. 0 means one per CPU.
	Jobs int `yaml:"jobs,omitempty"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"format,omitempty"`

	// Color controls colorized output.
	Color ColorMode `yaml:"color,omitempty"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			Binary:  DefaultBinary,
			Timeout: DefaultTimeout,
		},
		Cache: CacheConfig{
			Enabled:  Bool(true),
			MaxBytes: DefaultCacheBytes,
		},
		Extensions:     []string{".php"},
		DetectShebang:  Bool(false),
		SkipVendor:     Bool(true),
		FollowSymlinks: Bool(false),
		Format:         FormatText,
		Color:          ColorAuto,
		Jobs:           0,
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// IsSet reports whether a tri-state flag is set to true.
func IsSet(b *bool) bool {
	return b != nil && *b
}

// CacheEnabled reports whether parser results should be memoized.
func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}
