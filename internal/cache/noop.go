package cache

import (
	"context"
	"time"
)

// Noop is the always-absent backend, used when caching is disabled.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) {
	return nil, false
}

func (Noop) Set(context.Context, string, []byte, time.Duration) bool {
	return false
}

func (Noop) Delete(context.Context, string) bool {
	return true
}

func (Noop) Exists(context.Context, string) bool {
	return false
}
