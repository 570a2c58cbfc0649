// Package cache is the fail-open key/value layer in front of the payment store.
//
// Every operation absorbs backend failures: reads degrade to a miss, writes
// report false. Callers must stay correct with the cache entirely down.
package cache

import (
	"context"
	"strconv"
	"time"
)

const DefaultTTL = time.Hour

type Cache interface {
	// Get returns the stored bytes and true, or nil and false on miss or backend error.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool
	// Delete removes key. A missing key is not a failure.
	Delete(ctx context.Context, key string) bool
	Exists(ctx context.Context, key string) bool
}

// PaymentKey is the cache key holding the snapshot of payment id.
func PaymentKey(id int64) string {
	return "payment:" + strconv.FormatInt(id, 10)
}
