package configloader

import "github.com/yaklabco/phpast/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Tri-state booleans: override overwrites base if override is non-nil
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	// Parser
	if override.Parser.Binary != "" {
		result.Parser.Binary = override.Parser.Binary
	}
	if override.Parser.Args != nil {
		result.Parser.Args = override.Parser.Args
	}
	if override.Parser.Timeout != 0 {
		result.Parser.Timeout = override.Parser.Timeout
	}

	// Cache
	if override.Cache.Enabled != nil {
		result.Cache.Enabled = override.Cache.Enabled
	}
	if override.Cache.MaxBytes != 0 {
		result.Cache.MaxBytes = override.Cache.MaxBytes
	}

	// Scalars
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	// Tri-state booleans
	if override.DetectShebang != nil {
		result.DetectShebang = override.DetectShebang
	}
	if override.SkipVendor != nil {
		result.SkipVendor = override.SkipVendor
	}
	if override.FollowSymlinks != nil {
		result.FollowSymlinks = override.FollowSymlinks
	}

	// Slices
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Include != nil {
		result.Include = override.Include
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
