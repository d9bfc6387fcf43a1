package agents

import (
	"context"
	"errors"
)

// DefaultAttempts is how many times an agent tries to get a valid answer
// before degrading.
const DefaultAttempts = 5

// Response is the outcome of a bounded retry loop.
type Response[T any] struct {
	// Value is the validated value, or the fallback when Degraded.
	Value T
	// Degraded is true when every attempt failed.
	Degraded bool
	// Attempts is the number of attempts actually made.
	Attempts int
	// Err is the last failure seen, if any.
	Err error
}

// Retry calls fn up to attempts times until it returns without error.
// When all attempts fail (or ctx is done) the response carries fallback and
// is marked Degraded. Retry never returns an error on its own.
func Retry[T any](ctx context.Context, attempts int, fallback T, fn func(ctx context.Context, attempt int) (T, error)) Response[T] {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	var lastErr error
	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return Response[T]{Value: fallback, Degraded: true, Attempts: i - 1, Err: errors.Join(lastErr, err)}
		}
		v, err := fn(ctx, i)
		if err == nil {
			return Response[T]{Value: v, Attempts: i}
		}
		lastErr = err
	}
	return Response[T]{Value: fallback, Degraded: true, Attempts: attempts, Err: lastErr}
}
