package xhpast

import (
	"context"
	"fmt"
	"strings"
)

// StatementType is the node type of a PHP statement.
const StatementType = "n_STATEMENT"

// StaticEvaluator computes the compile-time value of a node.
type StaticEvaluator interface {
	EvalStatic(n *Node) (any, error)
}

// StaticEvaluatorFunc adapts a function to StaticEvaluator.
type StaticEvaluatorFunc func(n *Node) (any, error)

// EvalStatic implements StaticEvaluator.
func (f StaticEvaluatorFunc) EvalStatic(n *Node) (any, error) {
	return f(n)
}

// WrapFragment turns an expression or statement into a standalone PHP file:
// trailing semicolons are stripped, then one is re-appended after an open tag.
func WrapFragment(fragment string) string {
	return "<?php " + strings.TrimRight(fragment, ";") + ";"
}

// EvalStaticString parses fragment as a single statement and evaluates it
// with evaluator. The fragment must produce exactly one statement node;
// otherwise a UsageError is returned and evaluator is not called.
func EvalStaticString(ctx context.Context, inv Invoker, evaluator StaticEvaluator, fragment string) (any, error) {
	tree, err := Parse(ctx, inv, []byte(WrapFragment(fragment)))
	if err != nil {
		return nil, err
	}
	defer tree.Dispose()

	root, err := tree.Root()
	if err != nil {
		return nil, err
	}

	statements := root.SelectDescendantsOfType(StatementType)
	if len(statements) != 1 {
		return nil, &UsageError{
			Op:  "eval static",
			Err: fmt.Errorf("%w: got %d", ErrNotOneStatement, len(statements)),
		}
	}

	return evaluator.EvalStatic(statements[0])
}
