package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/phpast/pkg/staticeval"
	"github.com/yaklabco/phpast/pkg/xhpast"
)

type evalFlags struct {
	compact bool
}

func newEvalCommand(globals *globalFlags) *cobra.Command {
	flags := &evalFlags{}

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Statically evaluate a constant PHP expression",
		Long: `Parse a PHP expression and print its compile-time value as JSON.

Only literals are understood: strings, numbers, true/false/null, arrays,
unary minus and plus, and concatenation. Anything that needs runtime state
(variables, function calls, interpolated strings) is rejected. INF, -INF
and NAN print as JSON strings.

Examples:
  phpast eval "'a' . 'b'"
  phpast eval "array('x' => 1, 2, 3)"
  phpast eval '[1, -2.5, "tab\t"]' --compact`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args, globals, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify json output")

	return cmd
}

func runEval(cmd *cobra.Command, args []string, globals *globalFlags, flags *evalFlags) error {
	sess, err := newSession(cmd, globals, nil)
	if err != nil {
		return err
	}
	defer sess.close()

	value, err := xhpast.EvalStaticString(sess.ctx, sess.invoker, staticeval.New(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetEscapeHTML(false)
	if !flags.compact {
		encoder.SetIndent("", "  ")
	}
	return wrapWrite(encoder.Encode(staticeval.JSONValue(value)))
}
