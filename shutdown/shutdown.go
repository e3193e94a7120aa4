// Package shutdown coordinates teardown of process-wide resources.
// Store teardown hooks (flushing the debounced persistence writer,
// stopping the background pool) register here so that a test harness
// or CLI exit runs them in order.
package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	mut     sync.Mutex     //nolint:gochecknoglobals
	hooks   []func()       //nolint:gochecknoglobals
	channel chan os.Signal //nolint:gochecknoglobals
)

// BeforeShutdown registers a function to run before the shutdown
// process begins. Hooks run in registration order, while the top-level
// context is still alive.
func BeforeShutdown(h func()) {
	mut.Lock()
	defer mut.Unlock()

	hooks = append(hooks, h)
}

// Shutdown triggers the shutdown process programmatically. Normally a
// signal handler kicks it off instead.
func Shutdown() {
	if channel != nil {
		channel <- os.Interrupt
	}
}

// SetupHandler installs a SIGINT/SIGTERM handler and returns a context
// that is canceled once the hooks have run.
func SetupHandler() context.Context {
	channel = make(chan os.Signal, 1)
	signal.Notify(channel, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		for c := range channel {
			slog.Warn("Received " + c.String() + ", shutting down...")
			close(channel)

			channel = nil

			cleanup()
			cancel()
		}
	}()

	return ctx
}

func cleanup() {
	mut.Lock()
	defer mut.Unlock()

	for _, h := range hooks {
		h()
	}

	hooks = nil
}
