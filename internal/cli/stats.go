package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yaklabco/phpast/internal/logging"
	"github.com/yaklabco/phpast/internal/ui/pretty"
	"github.com/yaklabco/phpast/pkg/analysis"
	"github.com/yaklabco/phpast/pkg/config"
	"github.com/yaklabco/phpast/pkg/runner"
	"github.com/yaklabco/phpast/pkg/xhpast"
)

type statsFlags struct {
	format        string
	sortBy        string
	ascending     bool
	limit         int
	byFile        bool
	jobs          int
	ignore        []string
	extensions    []string
	includeVendor bool
}

func newStatsCommand(globals *globalFlags) *cobra.Command {
	flags := &statsFlags{}

	cmd := &cobra.Command{
		Use:   "stats [paths...]",
		Short: "Count node types and token kinds across PHP files",
		Long: `Parse PHP files and summarize what their syntax trees are made of.

Files are discovered the same way as check. Files with syntax errors are
counted but contribute no nodes or tokens.

Examples:
  phpast stats                     # Whole project, most common first
  phpast stats --limit 10 src/     # Top ten node types and token kinds
  phpast stats --sort alpha        # Alphabetical listing
  phpast stats --by-file --format json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, globals, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByCount), "sort order: count, alpha")
	cmd.Flags().BoolVar(&flags.ascending, "asc", false, "sort counts ascending")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "show at most this many entries per table (0 = all)")
	cmd.Flags().BoolVar(&flags.byFile, "by-file", false, "include a per-file breakdown")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions treated as PHP (default .php)")
	cmd.Flags().BoolVar(&flags.includeVendor, "include-vendor", false, "descend into vendor/ and node_modules/")

	return cmd
}

func (f *statsFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{
		Ignore:     f.ignore,
		Extensions: f.extensions,
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if cmd.Flags().Changed("include-vendor") {
		cfg.SkipVendor = config.Bool(!f.includeVendor)
	}
	return cfg
}

func (f *statsFlags) options(workDir string) (analysis.Options, error) {
	opts := analysis.DefaultOptions()
	opts.SortBy = analysis.SortField(f.sortBy)
	if !opts.SortBy.IsValid() {
		return opts, fmt.Errorf("unknown sort order %q", f.sortBy)
	}
	if f.limit < 0 {
		return opts, fmt.Errorf("limit must not be negative, got %d", f.limit)
	}
	opts.SortDesc = !f.ascending
	opts.Limit = f.limit
	opts.IncludeByFile = f.byFile
	opts.WorkingDir = workDir
	return opts, nil
}

func runStats(cmd *cobra.Command, args []string, globals *globalFlags, flags *statsFlags) error {
	if flags.format != "text" && flags.format != "json" {
		return usageError(cmd, fmt.Errorf("unknown format %q", flags.format))
	}

	sess, err := newSession(cmd, globals, flags.cliConfig(cmd))
	if err != nil {
		return err
	}
	defer sess.close()

	opts, err := flags.options(sess.workDir)
	if err != nil {
		return usageError(cmd, err)
	}

	cfg := sess.cfg
	run := &runner.Runner{Invoker: sess.invoker, CollectHistograms: true}
	result, err := run.Run(sess.ctx, runner.Options{
		Paths:          args,
		WorkingDir:     sess.workDir,
		Extensions:     cfg.Extensions,
		IncludeGlobs:   cfg.Include,
		ExcludeGlobs:   cfg.Ignore,
		FollowSymlinks: config.IsSet(cfg.FollowSymlinks),
		DetectShebang:  config.IsSet(cfg.DetectShebang),
		SkipVendor:     config.IsSet(cfg.SkipVendor),
		Jobs:           cfg.Jobs,
	})
	if err != nil {
		return fmt.Errorf("stats run failed: %w", err)
	}

	report := analysis.Analyze(result, opts)
	logging.Default().Debug("stats computed",
		logging.FieldFiles, report.Totals.Files,
		logging.FieldNodes, report.Totals.Nodes,
		logging.FieldTokens, report.Totals.Tokens,
	)

	out := cmd.OutOrStdout()
	if flags.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	} else {
		styles := pretty.NewStyles(pretty.IsColorEnabled(sess.colorMode(), out))
		err = writeStatsText(out, styles, report)
	}
	if err != nil {
		return &ioError{err: fmt.Errorf("write stats: %w", err)}
	}

	return errorFromExitCode(ExitCodeFromResult(result))
}

func usageError(cmd *cobra.Command, err error) error {
	return &xhpast.UsageError{Op: cmd.Name(), Err: err}
}

func writeStatsText(w io.Writer, styles *pretty.Styles, report *analysis.Report) error {
	var buf []byte

	section := func(title string, counts []analysis.TypeCount, style func(string) string) {
		buf = append(buf, styles.SummaryTitle.Render(title)...)
		buf = append(buf, '\n')
		width := 0
		for _, entry := range counts {
			width = max(width, len(entry.Name))
		}
		for _, entry := range counts {
			pad := width - len(entry.Name)
			buf = fmt.Appendf(buf, "  %s%*s  %8d  %s\n",
				style(entry.Name), pad, "",
				entry.Count,
				styles.Dim.Render(pluralize(entry.Files, "file")),
			)
		}
		buf = append(buf, '\n')
	}

	section("Node types", report.ByNodeType, func(s string) string { return styles.NodeType.Render(s) })
	section("Token kinds", report.ByTokenKind, func(s string) string { return styles.TokenKind.Render(s) })

	if len(report.ByFile) > 0 {
		buf = append(buf, styles.SummaryTitle.Render("Files")...)
		buf = append(buf, '\n')
		for _, file := range report.ByFile {
			buf = fmt.Appendf(buf, "  %s  nodes=%d tokens=%d lines=%d depth=%d\n",
				styles.FilePath.Render(file.Path), file.Nodes, file.Tokens, file.Lines, file.MaxDepth)
		}
		buf = append(buf, '\n')
	}

	totals := report.Totals
	buf = fmt.Appendf(buf, "%s parsed, %s, %s, %s, max depth %d\n",
		pluralize(totals.FilesParsed, "file"),
		pluralize(totals.Nodes, "node"),
		pluralize(totals.Tokens, "token"),
		pluralize(totals.Lines, "line"),
		totals.MaxDepth,
	)

	_, err := w.Write(buf)
	return err
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
