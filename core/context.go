package core

import "context"

// contextKey is a private type for context keys defined in this package.
type contextKey string

const suppressHeaderKey contextKey = "suppressHeader"

// WithSuppressHeader returns a context that suppresses run header output.
// Used by the MCP server, where stdout carries the protocol stream.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

func shouldSuppressHeader(ctx context.Context) bool {
	v, ok := ctx.Value(suppressHeaderKey).(bool)
	return ok && v
}
