package logger

import "context"

type ctxKey struct{}

// ContextWith stores a request-scoped logger in ctx.
func ContextWith(ctx context.Context, log Interface) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the request-scoped logger, or fallback when ctx
// carries none.
func FromContext(ctx context.Context, fallback Interface) Interface {
	if log, ok := ctx.Value(ctxKey{}).(Interface); ok && log != nil {
		return log
	}
	return fallback
}
