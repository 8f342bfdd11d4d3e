package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/phpast/internal/configloader"
	"github.com/yaklabco/phpast/internal/logging"
	"github.com/yaklabco/phpast/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new phpast configuration file",
		Long: `Create a new .phpast.yml configuration file in the current directory.
The minimal template lists every option commented out; --full writes the
defaults as live values.

Examples:
  phpast init                       Create minimal .phpast.yml
  phpast init --full                Create config with all defaults set
  phpast init --output custom.yml   Write to a custom file path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Write every option with its default value")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .phpast.yml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")

	outputPath := flags.output
	if outputPath == "" {
		outputPath = config.ProjectFileName
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return &ioError{err: err}
	}

	backupPath, err := configloader.WriteTemplate(commandContext(cmd), absPath, flags.full, flags.force)
	if err != nil {
		return &ioError{err: err}
	}

	if backupPath != "" {
		logger.Warn("previous configuration saved", logging.FieldPath, backupPath)
	}
	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'phpast config' to see the effective configuration")

	return nil
}
