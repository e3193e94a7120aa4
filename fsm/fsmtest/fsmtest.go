// Package fsmtest provides testing utilities for machine-driven UI
// state: a machine wrapper recording a transition trace, declarative
// matchers over the trace, fixture tables and runnable scenarios.
package fsmtest

import (
	"sync"
	"testing"
	"time"

	"github.com/storefront-labs/ui-common/fsm"
)

// TestMachine wraps a Machine with a recorded trace of everything its
// observer saw, including rejected transitions the machine itself does
// not log.
type TestMachine struct {
	*fsm.Machine

	t *testing.T

	mu       sync.Mutex
	trace    []TraceEntry
	rejected []Rejection
}

// TraceEntry records a single applied transition or rollback.
type TraceEntry struct {
	Timestamp time.Time
	From      fsm.Kind
	To        fsm.Kind
	Reason    string
	Rollback  bool
}

// Rejection records a transition the machine refused.
type Rejection struct {
	From fsm.Kind
	To   fsm.Kind
}

// NewTestMachine creates a machine whose observer feeds the trace.
// Extra options are applied after the tracing observer; installing
// another observer replaces tracing, so wrap with fsm.MultiObserver
// if both are needed.
func NewTestMachine(t *testing.T, name string, initial fsm.Kind, table fsm.Table, opts ...fsm.Option) *TestMachine {
	t.Helper()

	tm := &TestMachine{t: t}

	opts = append([]fsm.Option{fsm.WithObserver((*traceObserver)(tm))}, opts...)
	tm.Machine = fsm.New(name, initial, table, opts...)

	return tm
}

// Trace returns a copy of the recorded applied transitions, oldest
// first.
func (tm *TestMachine) Trace() []TraceEntry {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	out := make([]TraceEntry, len(tm.trace))
	copy(out, tm.trace)

	return out
}

// Rejections returns a copy of the recorded rejected transitions.
func (tm *TestMachine) Rejections() []Rejection {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	out := make([]Rejection, len(tm.rejected))
	copy(out, tm.rejected)

	return out
}

// Require asserts that every matcher passes, failing the test with
// each matcher's description otherwise.
func (tm *TestMachine) Require(matchers ...Matcher) {
	tm.t.Helper()

	for _, m := range matchers {
		ok, err := m.Match(tm)
		if !ok {
			tm.t.Errorf("Matcher failed: %s: %v", m.Description(), err)
		}
	}
}

// traceObserver adapts TestMachine to fsm.Observer without exporting
// the observer methods on the wrapper itself.
type traceObserver TestMachine

func (o *traceObserver) TransitionApplied(_ string, rec fsm.Record) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.trace = append(o.trace, TraceEntry{
		Timestamp: rec.Timestamp,
		From:      rec.From,
		To:        rec.To,
		Reason:    rec.Reason,
	})
}

func (o *traceObserver) TransitionRejected(_ string, from, to fsm.Kind) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.rejected = append(o.rejected, Rejection{From: from, To: to})
}

func (o *traceObserver) RolledBack(_ string, rec fsm.Record) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.trace = append(o.trace, TraceEntry{
		Timestamp: rec.Timestamp,
		From:      rec.From,
		To:        rec.To,
		Reason:    rec.Reason,
		Rollback:  true,
	})
}
