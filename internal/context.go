package internal

import (
	"context"
	"time"
)

// WithTimeout returns a context with timeout, defaulting to 2 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 2 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
