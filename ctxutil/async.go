package ctxutil

import (
	"context"
	"time"
)

// DefaultAsyncTimeout bounds work detached from its request.
const DefaultAsyncTimeout = 5 * time.Second

// WithAsyncContext derives a context that keeps the parent's values but not
// its cancellation, bounded by timeout (DefaultAsyncTimeout when zero).
func WithAsyncContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout == 0 {
		timeout = DefaultAsyncTimeout
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
