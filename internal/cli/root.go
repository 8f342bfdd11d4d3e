// Package cli provides the Cobra command structure for phpast.
package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/phpast/internal/logging"
	"github.com/yaklabco/phpast/pkg/xhpast"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
	binary     string
	timeout    time.Duration
}

// NewRootCommand creates the root phpast command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "phpast",
		Version: info.Version,
		Short:   "Build and inspect PHP syntax trees with XHPAST",
		Long: `phpast runs the XHPAST PHP parser and turns its output into navigable
syntax trees.

It checks PHP files for syntax errors in parallel, dumps trees and token
streams for debugging, and statically evaluates constant PHP expressions.
The xhpast binary must be installed; point --xhpast at it if it is not on PATH.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if globals.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &xhpast.UsageError{Op: cmd.Name(), Err: err}
	})

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&globals.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&globals.color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&globals.binary, "xhpast", "", "path to the xhpast binary")
	rootCmd.PersistentFlags().DurationVar(&globals.timeout, "timeout", 0, "per-file parser timeout (e.g. 30s)")

	// Add subcommands.
	rootCmd.AddCommand(newCheckCommand(globals))
	rootCmd.AddCommand(newParseCommand(globals))
	rootCmd.AddCommand(newEvalCommand(globals))
	rootCmd.AddCommand(newStatsCommand(globals))
	rootCmd.AddCommand(newConfigCommand(globals))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(globals.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
