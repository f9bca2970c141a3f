package session

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-study-platform/internal/adapter"
)

// withRetry repeats fn once when the server could not be reached.
// Answers from the server are never retried.
func withRetry[T any](ctx context.Context, delay time.Duration, fn func(context.Context) (T, error)) (T, error) {
	result, err := fn(ctx)
	if err == nil || !errors.Is(err, adapter.ErrServerUnreachable) {
		return result, err
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return result, err
		case <-timer.C:
		}
	}

	return fn(ctx)
}
