package invoker

import (
	"context"

	"github.com/yaklabco/phpast/pkg/xhpast"
)

// Func adapts an in-process producer to xhpast.Invoker.
type Func func(ctx context.Context, source []byte) (xhpast.ExecResult, error)

// Invoke implements xhpast.Invoker.
func (f Func) Invoke(ctx context.Context, source []byte) (xhpast.ExecResult, error) {
	return f(ctx, source)
}
