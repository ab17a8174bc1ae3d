// Package task runs units of work under a hard wall-clock deadline.
//
// Work receives a context that is cancelled when the deadline passes, so
// cooperating work (anything built on exec.CommandContext or ctx-aware I/O)
// is actually torn down on timeout instead of abandoned. Work that ignores
// its context still cannot stall the caller; it is left to finish on its own
// goroutine and its result is discarded.
package task

import (
	"context"
	"time"

	"video-catalog/internal/logging"
)

// result pairs a work return value with its error for channel delivery.
type result[T any] struct {
	value T
	err   error
}

// Run executes work with a wall-clock timeout. It returns (true, value) if
// work finished successfully within the deadline, and (false, zero value) if
// work returned an error or the deadline elapsed first.
//
// Callers must treat a false return as "unknown outcome, proceed with a safe
// default": on timeout the context is cancelled but non-cooperating work may
// still be running when Run returns.
func Run[T any](timeout time.Duration, work func(ctx context.Context) (T, error)) (bool, T) {
	var zero T

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		value, err := work(ctx)
		done <- result[T]{value: value, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			logging.Debug("Bounded task failed: %v", res.err)
			return false, zero
		}
		return true, res.value
	case <-ctx.Done():
		logging.Warn("Bounded task exceeded %v deadline, abandoning result", timeout)
		return false, zero
	}
}
