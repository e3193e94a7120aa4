// Package lazy provides values that are initialized at most once, on
// first access. The logger and bgworker packages use it for process
// wide singletons that should not be built unless something needs them.
package lazy

import (
	"sync"
	"sync/atomic"
)

// Of is a lazy value that is initialized at most once.
type Of[T any] struct {
	create      func() T
	once        sync.Once
	value       T
	initialized atomic.Bool
}

// New creates a new lazy value. The callback runs later, when the
// value is first accessed.
func New[T any](f func() T) *Of[T] {
	return &Of[T]{create: f}
}

// Get returns the value, initializing it if necessary.
func (t *Of[T]) Get() T { //nolint:ireturn
	defer func() {
		if err := recover(); err != nil {
			// Reset the once state on panic so initialization can be retried
			t.once = sync.Once{}

			panic(err)
		}
	}()

	t.once.Do(func() {
		if t.create != nil {
			t.value = t.create()
			t.initialized.Store(true)
			t.create = nil
		}
	})

	return t.value
}

// Set overrides the value, bypassing the initializer. Prefer Get.
func (t *Of[T]) Set(value T) {
	t.create = nil
	t.value = value
	t.initialized.Store(true)
}

// Initialized reports whether the value has been built yet. Intended
// for tests and debugging, not normal control flow.
func (t *Of[T]) Initialized() bool {
	return t.initialized.Load()
}
