package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/phpast/internal/logging"
	"github.com/yaklabco/phpast/pkg/config"
	"github.com/yaklabco/phpast/pkg/reporter"
	"github.com/yaklabco/phpast/pkg/runner"
)

type checkFlags struct {
	format         string
	jobs           int
	ignore         []string
	include        []string
	extensions     []string
	noCache        bool
	detectShebang  bool
	includeVendor  bool
	followSymlinks bool
	noContext      bool
	noSummary      bool
	compact        bool
	verbose        bool
}

func newCheckCommand(globals *globalFlags) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check PHP files for syntax errors",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, globals, flags)
		},
	}

	addCheckFlags(cmd, flags)

	return cmd
}

const checkLongDescription = `Parse PHP files with xhpast and report syntax errors.

By default, checks every .php file below the current directory, skipping
vendor/ and node_modules/. Files named explicitly are always parsed.
Every parsed file also has its token stream checked against the source.

Exit status is 0 when all files parse, 1 when some have syntax errors,
and 70 when the parser could not be run on some file.

Examples:
  phpast check                     # Check current directory
  phpast check src/ tests/         # Check specific directories
  phpast check bin/console         # Check a single extension-less script
  phpast check --format sarif      # Output SARIF for code scanning
  phpast check --jobs 1 --verbose  # Serial run listing every file`

// cliConfig converts the flags the user set into a configuration layer.
func (f *checkFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("format") {
		cfg.Format = config.OutputFormat(f.format)
	}
	if changed("jobs") {
		cfg.Jobs = f.jobs
	}
	cfg.Ignore = f.ignore
	cfg.Include = f.include
	cfg.Extensions = f.extensions
	if f.noCache {
		cfg.Cache.Enabled = config.Bool(false)
	}
	if changed("detect-shebang") {
		cfg.DetectShebang = config.Bool(f.detectShebang)
	}
	if changed("include-vendor") {
		cfg.SkipVendor = config.Bool(!f.includeVendor)
	}
	if changed("follow-symlinks") {
		cfg.FollowSymlinks = config.Bool(f.followSymlinks)
	}

	return cfg
}

func runCheck(cmd *cobra.Command, args []string, globals *globalFlags, flags *checkFlags) error {
	logger := logging.Default()

	sess, err := newSession(cmd, globals, flags.cliConfig(cmd))
	if err != nil {
		return err
	}
	defer sess.close()

	cfg := sess.cfg
	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     sess.workDir,
		Extensions:     cfg.Extensions,
		IncludeGlobs:   cfg.Include,
		ExcludeGlobs:   cfg.Ignore,
		FollowSymlinks: config.IsSet(cfg.FollowSymlinks),
		DetectShebang:  config.IsSet(cfg.DetectShebang),
		SkipVendor:     config.IsSet(cfg.SkipVendor),
		Jobs:           cfg.Jobs,
	}

	logger.Debug("starting check run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(sess.invoker).Run(sess.ctx, runOpts)
	if err != nil {
		return fmt.Errorf("check run failed: %w", err)
	}

	logger.Debug("check run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldSyntaxErrors, result.Stats.FilesWithSyntaxErrors,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
	)

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       sess.colorMode(),
		ShowContext: !flags.noContext,
		ShowSummary: !flags.noSummary,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		ToolVersion: cmd.Root().Version,
		WorkingDir:  sess.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(sess.ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return &ioError{err: fmt.Errorf("report results: %w", err)}
	}

	return errorFromExitCode(ExitCodeFromResult(result))
}

func addCheckFlags(cmd *cobra.Command, flags *checkFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json, sarif")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns to restrict checking to")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions treated as PHP (default .php)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the parser result cache")
	cmd.Flags().BoolVar(&flags.detectShebang, "detect-shebang", false,
		"also check extension-less files with a php shebang")
	cmd.Flags().BoolVar(&flags.includeVendor, "include-vendor", false, "descend into vendor/ and node_modules/")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow directory symlinks")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "omit the summary line")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list files that parsed cleanly")
}
