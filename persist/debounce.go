package persist

import (
	"log/slog"
	"sync"
	"time"

	"github.com/storefront-labs/ui-common/bgworker"
)

// DefaultDebounce is the write-coalescing window. Preference updates
// arrive in bursts (a user dragging the sidebar toggles several
// writes); only the last value per key within the window is persisted.
const DefaultDebounce = 250 * time.Millisecond

// DebouncedWriter coalesces writes per key and flushes them to the
// underlying store on the background pool after a quiet period.
type DebouncedWriter struct {
	mu      sync.Mutex
	store   Store
	delay   time.Duration
	pending map[string]string
	timer   *time.Timer
	closed  bool
}

// NewDebouncedWriter creates a writer flushing into store. A
// non-positive delay falls back to DefaultDebounce.
func NewDebouncedWriter(store Store, delay time.Duration) *DebouncedWriter {
	if delay <= 0 {
		delay = DefaultDebounce
	}

	return &DebouncedWriter{
		store:   store,
		delay:   delay,
		pending: make(map[string]string),
	}
}

// Write schedules a value for persistence. Repeated writes to the same
// key within the debounce window keep only the latest value.
func (w *DebouncedWriter) Write(key, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	w.pending[key] = value

	if w.timer == nil {
		w.timer = time.AfterFunc(w.delay, w.flushAsync)

		return
	}

	w.timer.Reset(w.delay)
}

// Flush writes all pending values immediately, on the caller's
// goroutine. Used on store teardown.
func (w *DebouncedWriter) Flush() {
	w.mu.Lock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	batch := w.pending
	w.pending = make(map[string]string)
	w.mu.Unlock()

	w.writeBatch(batch)
}

// Close flushes pending writes and rejects all further ones.
func (w *DebouncedWriter) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.Flush()
}

func (w *DebouncedWriter) flushAsync() {
	err := bgworker.Go(w.Flush)
	if err != nil {
		// Pool is shutting down; flush inline rather than drop writes.
		w.Flush()
	}
}

func (w *DebouncedWriter) writeBatch(batch map[string]string) {
	for key, value := range batch {
		err := w.store.Set(key, value)
		if err != nil {
			// Quota and similar sink failures are the collaborator's
			// concern; the state layer only reports them.
			slog.Warn("Persistence write failed", "key", key, "error", err)
		}
	}
}
