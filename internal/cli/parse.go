package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yaklabco/phpast/internal/logging"
	"github.com/yaklabco/phpast/internal/ui/pretty"
	"github.com/yaklabco/phpast/pkg/fsutil"
	"github.com/yaklabco/phpast/pkg/xhpast"
)

// Parse output modes.
const (
	outputTree   = "tree"
	outputTokens = "tokens"
	outputJSON   = "json"
	outputLines  = "lines"
)

type parseFlags struct {
	output  string
	compact bool
}

func newParseCommand(globals *globalFlags) *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse one PHP file and dump its tree",
		Long: `Parse a single PHP file (or stdin) and print the resulting syntax tree.

Output modes:
  tree    indented node types with values and first-token text
  tokens  the token stream with kinds, offsets and line numbers
  json    the node arena as JSON
  lines   each source line with its number

Examples:
  phpast parse index.php
  echo '<?php echo 1;' | phpast parse
  phpast parse --output tokens index.php`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, globals, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", outputTree, "output mode: tree, tokens, json, lines")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify json output")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, globals *globalFlags, flags *parseFlags) error {
	switch flags.output {
	case outputTree, outputTokens, outputJSON, outputLines:
	default:
		return &xhpast.UsageError{
			Op:  "parse",
			Err: fmt.Errorf("unknown output mode %q (expected tree, tokens, json, or lines)", flags.output),
		}
	}

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}

	source, err := readInput(commandContext(cmd), cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	sess, err := newSession(cmd, globals, nil)
	if err != nil {
		return err
	}
	defer sess.close()

	tree, err := xhpast.Parse(sess.ctx, sess.invoker, source)
	if err != nil {
		var syntaxErr *xhpast.SyntaxError
		if errors.As(err, &syntaxErr) {
			styles := pretty.NewStyles(pretty.IsColorEnabled(sess.colorMode(), cmd.ErrOrStderr()))
			line := string(xhpast.NewLineIndex(source).LineContent(syntaxErr.Line))
			fmt.Fprint(cmd.ErrOrStderr(), styles.FormatSyntaxError(path, syntaxErr, true, line))
			return ErrSyntaxErrors
		}
		return err
	}
	defer tree.Dispose()

	logging.Default().Debug("parsed",
		logging.FieldPath, path,
		logging.FieldNodes, tree.NodeCount(),
		logging.FieldTokens, tree.TokenCount(),
	)

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(sess.colorMode(), out))

	switch flags.output {
	case outputTokens:
		tokens, err := tree.Tokens()
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, styles.FormatTokens(tokens))
		return wrapWrite(err)
	case outputJSON:
		return writeTreeJSON(out, tree, flags.compact)
	case outputLines:
		return writeLines(out, tree)
	default:
		root, err := tree.Root()
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, styles.FormatTree(root))
		return wrapWrite(err)
	}
}

// readInput reads path, or r when path is "-".
func readInput(ctx context.Context, r io.Reader, path string) ([]byte, error) {
	if path != "-" {
		data, err := fsutil.ReadSource(ctx, path)
		if err != nil {
			return nil, &ioError{err: err}
		}
		return data, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ioError{err: fmt.Errorf("read stdin: %w", err)}
	}
	return data, nil
}

func wrapWrite(err error) error {
	if err != nil {
		return &ioError{err: fmt.Errorf("write output: %w", err)}
	}
	return nil
}

// jsonNode is the JSON form of one arena node.
type jsonNode struct {
	ID       int     `json:"id"`
	Type     string  `json:"type"`
	Value    *string `json:"value,omitempty"`
	Token    *int    `json:"token,omitempty"`
	Parent   *int    `json:"parent,omitempty"`
	Children []int   `json:"children"`
	Line     int     `json:"line,omitempty"`
	Text     string  `json:"text"`
}

// jsonTree is the JSON form of a parsed tree.
type jsonTree struct {
	Nodes  []jsonNode  `json:"nodes"`
	Tokens []jsonToken `json:"tokens"`
	Lines  int         `json:"lines"`
}

// jsonToken is the JSON form of one token.
type jsonToken struct {
	ID     int    `json:"id"`
	Kind   string `json:"kind"`
	Offset int    `json:"offset"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
}

func writeTreeJSON(w io.Writer, tree *xhpast.Tree, compact bool) error {
	tokens, err := tree.Tokens()
	if err != nil {
		return err
	}

	doc := jsonTree{
		Nodes:  make([]jsonNode, 0, tree.NodeCount()),
		Tokens: make([]jsonToken, 0, len(tokens)),
		Lines:  tree.LineCount(),
	}

	for id := range tree.NodeCount() {
		node := tree.Node(id)
		entry := jsonNode{
			ID:       node.ID,
			Type:     node.Type,
			Children: node.ChildIDs,
			Line:     node.LineNumber(),
			Text:     node.ConcreteString(),
		}
		if entry.Children == nil {
			entry.Children = []int{}
		}
		if node.HasValue {
			value := node.Value
			entry.Value = &value
		}
		if node.TokenIndex != xhpast.NoToken {
			tokenIndex := node.TokenIndex
			entry.Token = &tokenIndex
		}
		if node.ParentID != xhpast.NoParent {
			parentID := node.ParentID
			entry.Parent = &parentID
		}
		doc.Nodes = append(doc.Nodes, entry)
	}

	for i := range tokens {
		tok := &tokens[i]
		doc.Tokens = append(doc.Tokens, jsonToken{
			ID:     tok.ID,
			Kind:   tok.Kind,
			Offset: tok.Offset,
			Line:   tok.LineNumber(),
			Text:   tok.Text(),
		})
	}

	encoder := json.NewEncoder(w)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return wrapWrite(encoder.Encode(doc))
}

func writeLines(w io.Writer, tree *xhpast.Tree) error {
	count := tree.LineCount()
	width := len(strconv.Itoa(count))
	for line := 1; line <= count; line++ {
		if _, err := fmt.Fprintf(w, "%*d  %s\n", width, line, tree.LineContent(line)); err != nil {
			return wrapWrite(err)
		}
	}
	return nil
}
