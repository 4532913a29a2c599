package tool

import "context"

// Executor defines the runtime contract for executable tools. Params and the
// result are opaque to the dispatcher beyond being serializable for caching.
type Executor interface {
	Execute(ctx context.Context, params map[string]any) (any, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, params map[string]any) (any, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, params map[string]any) (any, error) {
	return f(ctx, params)
}
