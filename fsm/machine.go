package fsm

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
)

// DefaultLogCapacity bounds the transition log. Once the log is full,
// the oldest record is evicted on every append.
const DefaultLogCapacity = 100

// RollbackReason is the reason recorded for rollback transitions.
const RollbackReason = "rollback"

// Machine is a value-plus-transition-table pair with no thread of
// execution of its own; it is purely reactive to external calls.
//
// A transition is applied only if the (current, target) edge exists in
// the table and the guard (if any) allows it. Illegal transitions are
// a hard failure at this layer; soft-fail handling belongs to the
// action layers built on top (see the nav and modal packages).
type Machine struct {
	mu       sync.Mutex
	name     string
	current  Kind
	previous Kind
	hasPrev  bool
	table    Table
	guard    Guard
	log      []Record
	logCap   int
	observer Observer
}

// New creates a machine with the given name, initial kind and table.
// The table is copied; later mutation of the argument has no effect.
func New(name string, initial Kind, table Table, opts ...Option) *Machine {
	m := &Machine{
		name:    name,
		current: initial,
		table:   cloneTable(table),
		logCap:  DefaultLogCapacity,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithGuard installs a guard consulted on every admissibility check.
func WithGuard(g Guard) Option {
	return func(m *Machine) {
		m.guard = g
	}
}

// WithObserver installs an observer for transition events. This
// replaces the ambient global registries of earlier designs: all
// debugging state hangs off an explicit, injectable interface.
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		m.observer = o
	}
}

// WithLogCapacity overrides the transition log bound.
func WithLogCapacity(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.logCap = n
		}
	}
}

// Name returns the machine's name.
func (m *Machine) Name() string {
	return m.name
}

// Current returns the current kind.
func (m *Machine) Current() Kind {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current
}

// Previous returns the kind immediately prior to the last transition,
// and whether such a kind exists yet.
func (m *Machine) Previous() (Kind, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.previous, m.hasPrev
}

// CanTransitionTo reports whether the machine may move to the target
// kind. It consults the table and the guard and never mutates.
//
// Moving to the kind the machine is already in is permitted even when
// the table has no self-edge, unless the guard forbids it; callers use
// self-transitions to represent animation-progress updates.
func (m *Machine) CanTransitionTo(to Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.canTransitionLocked(to)
}

func (m *Machine) canTransitionLocked(to Kind) bool {
	if m.guard != nil && !m.guard(m.current, to) {
		return false
	}

	if to == m.current {
		return true
	}

	return slices.Contains(m.table[m.current], to)
}

// Transition moves the machine to the target kind, recording the edge
// in the transition log. It fails with ErrIllegalTransition (wrapped
// in a TransitionError) when CanTransitionTo is false for the target.
func (m *Machine) Transition(ctx context.Context, to Kind, reason string, metadata map[string]any) error {
	m.mu.Lock()

	if !m.canTransitionLocked(to) {
		from := m.current
		m.mu.Unlock()

		transitionsRejectedTotal.WithLabelValues(
			sanitizeMachine(m.name), string(from), string(to),
		).Inc()

		if m.observer != nil {
			m.observer.TransitionRejected(m.name, from, to)
		}

		return WrapTransitionError(m.name, from, to, ErrIllegalTransition)
	}

	rec := Record{
		From:      m.current,
		To:        to,
		Timestamp: time.Now(),
		Reason:    reason,
		Metadata:  metadata,
	}

	m.previous = m.current
	m.hasPrev = true
	m.current = to
	m.appendLocked(rec)
	m.mu.Unlock()

	m.emitApplied(ctx, rec)

	return nil
}

// Rollback swaps the current and previous kinds, logging the swap as a
// regular transition. It returns false (a no-op) when no previous kind
// exists. Only one level of undo is supported: rolling back twice in a
// row toggles between the same two kinds.
func (m *Machine) Rollback() bool {
	m.mu.Lock()

	if !m.hasPrev {
		m.mu.Unlock()

		return false
	}

	rec := Record{
		From:      m.current,
		To:        m.previous,
		Timestamp: time.Now(),
		Reason:    RollbackReason,
	}

	m.current, m.previous = m.previous, m.current
	m.appendLocked(rec)
	m.mu.Unlock()

	rollbacksTotal.WithLabelValues(sanitizeMachine(m.name)).Inc()

	if m.observer != nil {
		m.observer.RolledBack(m.name, rec)
	}

	return true
}

// Log returns a copy of the transition log, oldest first.
func (m *Machine) Log() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.log)
}

// Reset returns the machine to the given kind, discarding history and
// the transition log. Used on store teardown and in tests.
func (m *Machine) Reset(initial Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = initial
	m.previous = ""
	m.hasPrev = false
	m.log = nil
}

func (m *Machine) appendLocked(rec Record) {
	if len(m.log) >= m.logCap {
		// Evict oldest. The copy keeps the backing array from growing
		// without bound over a long-lived session.
		copy(m.log, m.log[1:])
		m.log = m.log[:len(m.log)-1]
	}

	m.log = append(m.log, rec)
}

func (m *Machine) emitApplied(ctx context.Context, rec Record) {
	_, span := startTransitionSpan(ctx, m.name, rec.From, rec.To)
	span.SetStatus(codes.Ok, "applied")
	span.End()

	transitionsTotal.WithLabelValues(
		sanitizeMachine(m.name), string(rec.From), string(rec.To),
	).Inc()

	if m.observer != nil {
		m.observer.TransitionApplied(m.name, rec)
	}
}

func cloneTable(table Table) Table {
	clone := make(Table, len(table))
	for from, targets := range table {
		clone[from] = slices.Clone(targets)
	}

	return clone
}
