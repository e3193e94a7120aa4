package lazy

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLazy(t *testing.T) {
	t.Parallel()

	count := 0
	value := "menu-defaults"
	ptr := atomic.Pointer[string]{}
	ptr.Store(&value)

	val := New[string](func() string {
		defer func() {
			// Count completed initializations only.
			if err := recover(); err != nil {
				panic(err)
			}

			count++
		}()

		return *ptr.Load() // panics if ptr holds nil
	})

	assert.Equal(t, 0, count)
	assert.False(t, val.Initialized())

	// A panicking initializer does not memoize.
	ptr.Store(nil)

	assert.Panics(t, func() {
		val.Get()
	})

	ptr.Store(&value)
	assert.False(t, val.Initialized())

	// First successful Get runs the callback exactly once.
	assert.Equal(t, "menu-defaults", val.Get())
	assert.Equal(t, 1, count)
	assert.True(t, val.Initialized())

	// Subsequent Gets reuse the value even if the source breaks.
	ptr.Store(nil)

	assert.NotPanics(t, func() {
		assert.Equal(t, "menu-defaults", val.Get())
	})

	assert.Equal(t, 1, count)
}

func TestLazySet(t *testing.T) {
	t.Parallel()

	val := New[int](func() int { return 1 })
	val.Set(42)

	assert.True(t, val.Initialized())
	assert.Equal(t, 42, val.Get())
}
