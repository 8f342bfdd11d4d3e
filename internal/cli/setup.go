package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/phpast/internal/configloader"
	"github.com/yaklabco/phpast/internal/logging"
	"github.com/yaklabco/phpast/pkg/config"
	"github.com/yaklabco/phpast/pkg/invoker"
	"github.com/yaklabco/phpast/pkg/xhpast"
)

// session holds what every parsing command needs: the resolved
// configuration and a parser invoker built from it.
type session struct {
	ctx     context.Context
	workDir string
	cfg     *config.Config
	invoker xhpast.Invoker
	cache   *invoker.Cache
}

// commandContext returns the command's context, or a background context.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves configuration for cmd, layering cliCfg and the
// global flags the user actually set over the discovered files.
func loadConfig(cmd *cobra.Command, globals *globalFlags, cliCfg *config.Config) (*configloader.LoadResult, string, error) {
	logger := logging.Default()

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", &ioError{err: fmt.Errorf("get working directory: %w", err)}
	}

	if cliCfg == nil {
		cliCfg = &config.Config{}
	}
	flags := cmd.Flags()
	if flags.Changed("xhpast") {
		cliCfg.Parser.Binary = globals.binary
	}
	if flags.Changed("timeout") {
		cliCfg.Parser.Timeout = globals.timeout
	}
	if flags.Changed("color") {
		cliCfg.Color = config.ColorMode(globals.color)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: globals.configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", &configError{err: fmt.Errorf("failed to load configuration: %w", err)}
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return loadResult, workDir, nil
}

// newSession loads configuration and builds the invoker chain.
// The caller must call close when done.
func newSession(cmd *cobra.Command, globals *globalFlags, cliCfg *config.Config) (*session, error) {
	loadResult, workDir, err := loadConfig(cmd, globals, cliCfg)
	if err != nil {
		return nil, err
	}
	cfg := loadResult.Config

	sess := &session{
		ctx:     commandContext(cmd),
		workDir: workDir,
		cfg:     cfg,
	}

	exec := invoker.NewExec(cfg.Parser.Binary, cfg.Parser.Timeout)
	exec.Args = cfg.Parser.Args
	sess.invoker = exec

	if cfg.CacheEnabled() {
		maxBytes := cfg.Cache.MaxBytes
		if maxBytes <= 0 {
			maxBytes = config.DefaultCacheBytes
		}
		cache, err := invoker.NewCache(exec, int(maxBytes))
		if err != nil {
			return nil, fmt.Errorf("create parser cache: %w", err)
		}
		sess.cache = cache
		sess.invoker = cache
	}

	logging.Default().Debug("parser configured",
		logging.FieldBinary, exec.Binary,
		logging.FieldTimeout, exec.Timeout,
		logging.FieldCache, sess.cache != nil,
	)

	return sess, nil
}

// close releases the cache and logs its statistics.
func (s *session) close() {
	if s.cache == nil {
		return
	}
	stats := s.cache.Stats()
	logging.Default().Debug("parser cache",
		logging.FieldCacheHits, stats.Hits,
		logging.FieldCacheMisses, stats.Misses,
	)
	s.cache.Close()
}

// colorMode returns the effective color mode for output.
func (s *session) colorMode() string {
	if s.cfg.Color == "" {
		return string(config.ColorAuto)
	}
	return string(s.cfg.Color)
}
