package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys so that a retried write is
// rejected instead of applied twice
type IdempotencyStore interface {
	// Claim records key for ttl. It returns false when the key is already
	// held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release forgets key so the request can be retried, e.g. after it failed
	Release(ctx context.Context, key string) error

	// Close releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a key is held. Default: 24 hours
	TTL time.Duration

	// Enabled determines whether Idempotency-Key headers are honoured
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
