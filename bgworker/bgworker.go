// Package bgworker provides a shared background worker pool with
// graceful lifecycle control. The persistence layer uses it to flush
// debounced writes off the caller's path.
package bgworker

import (
	"log/slog"

	"github.com/alitto/pond/v2"

	"github.com/storefront-labs/ui-common/lazy"
	"github.com/storefront-labs/ui-common/shutdown"
)

const defaultWorkerCount = 4

// workerPool is a lazy-initialized background worker pool.
var workerPool = lazy.New[pond.Pool](func() pond.Pool { //nolint:gochecknoglobals
	slog.Debug("Initializing background worker pool", "count", defaultWorkerCount)

	pool := pond.NewPool(defaultWorkerCount)

	shutdown.BeforeShutdown(func() {
		slog.Debug("Stopping background worker pool")
		pool.StopAndWait()
		slog.Debug("Background worker pool stopped")
	})

	return pool
})

// Submit submits a function to the background worker pool. It returns
// a Task that can be used to wait for the function to complete.
func Submit(f func()) pond.Task { //nolint:ireturn
	return workerPool.Get().Submit(f)
}

// Go submits a function to the background worker pool and returns
// immediately. It returns an error if the pool is stopped.
func Go(f func()) error {
	return workerPool.Get().Go(f)
}
