package shutdown

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBeforeShutdownRunsHooksInOrder(t *testing.T) {
	hooks = nil
	channel = nil

	var order atomic.Value
	order.Store([]int{})

	for i := 1; i <= 3; i++ {
		BeforeShutdown(func() {
			order.Store(append(order.Load().([]int), i))
		})
	}

	cleanup()

	assert.Equal(t, []int{1, 2, 3}, order.Load().([]int))

	mut.Lock()
	assert.Nil(t, hooks)
	mut.Unlock()
}

func TestShutdownCancelsContextAfterHooks(t *testing.T) {
	hooks = nil
	channel = nil

	ctx := SetupHandler()

	var duringHook atomic.Bool

	BeforeShutdown(func() {
		select {
		case <-ctx.Done():
			duringHook.Store(true)
		default:
		}
	})

	Shutdown()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled after Shutdown()")
	}

	assert.False(t, duringHook.Load(), "context cancels after hooks, not during")
	assert.Nil(t, channel)
}

func TestShutdownWithoutSetup(t *testing.T) {
	hooks = nil
	channel = nil

	assert.NotPanics(t, func() {
		Shutdown()
	})
}
