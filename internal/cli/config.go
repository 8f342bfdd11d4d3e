package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/phpast/internal/configloader"
	"github.com/yaklabco/phpast/internal/ui/pretty"
)

type configFlags struct {
	env   bool
	paths bool
}

func newConfigCommand(globals *globalFlags) *cobra.Command {
	flags := &configFlags{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration phpast would use from the current directory,
after merging system, user, project and explicit config files with
PHPAST_* environment variables and command-line flags.

Examples:
  phpast config                 Show merged configuration as YAML
  phpast config --paths         Show which config files were considered
  phpast config --env           List supported environment variables`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(cmd, globals, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.env, "env", false, "list supported environment variables")
	cmd.Flags().BoolVar(&flags.paths, "paths", false, "show discovered configuration file paths")

	return cmd
}

func runConfig(cmd *cobra.Command, globals *globalFlags, flags *configFlags) error {
	out := cmd.OutOrStdout()

	if flags.env {
		return wrapWrite(writeEnvVars(out, pretty.NewStyles(pretty.IsColorEnabled(globals.color, out))))
	}

	loadResult, _, err := loadConfig(cmd, globals, nil)
	if err != nil {
		return err
	}

	if flags.paths {
		return wrapWrite(writePaths(out, loadResult))
	}

	header := "# Effective phpast configuration\n"
	if len(loadResult.LoadedFrom) > 0 {
		header += "# Loaded from: " + strings.Join(loadResult.LoadedFrom, ", ") + "\n"
	}
	data, err := loadResult.Config.ToYAMLWithHeader(header)
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}

	_, err = out.Write(data)
	return wrapWrite(err)
}

func writeEnvVars(w io.Writer, styles *pretty.Styles) error {
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	width := 0
	for name := range vars {
		names = append(names, name)
		width = max(width, len(name))
	}
	slices.Sort(names)

	for _, name := range names {
		padded := fmt.Sprintf("%-*s", width, name)
		if _, err := fmt.Fprintf(w, "%s  %s\n", styles.Bold.Render(padded), vars[name]); err != nil {
			return err
		}
	}
	return nil
}

func writePaths(w io.Writer, loadResult *configloader.LoadResult) error {
	paths := loadResult.Paths
	rows := []struct{ label, path string }{
		{"system", paths.System},
		{"user", paths.User},
		{"project", paths.Project},
		{"explicit", paths.Explicit},
	}

	for _, row := range rows {
		path := row.path
		if path == "" {
			path = "-"
		} else if slices.Contains(loadResult.LoadedFrom, path) {
			path += " (loaded)"
		}
		if _, err := fmt.Fprintf(w, "%-8s  %s\n", row.label, path); err != nil {
			return err
		}
	}
	return nil
}
