package utils

import (
	"context"
)

type contextKey string

const (
	CallerKey contextKey = "caller"
)

// SetCallerContext records which internal service authenticated the request.
func SetCallerContext(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

func GetCallerFromContext(ctx context.Context) (string, bool) {
	callerVal := ctx.Value(CallerKey)
	if callerVal == nil {
		return "", false
	}

	caller, ok := callerVal.(string)
	return caller, ok
}
