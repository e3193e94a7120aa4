package fsmtest

import (
	"errors"
	"fmt"

	"github.com/storefront-labs/ui-common/fsm"
)

// Matcher errors.
var (
	ErrKindNotVisited     = errors.New("kind was not visited")
	ErrTransitionNotTaken = errors.New("transition was not taken")
	ErrUnexpectedKind     = errors.New("machine ended in unexpected kind")
	ErrRejectionMismatch  = errors.New("rejection count mismatch")
	ErrUnexpectedRollback = errors.New("rollback count mismatch")
)

// Matcher is an assertion over a TestMachine's recorded trace.
type Matcher interface {
	Match(tm *TestMachine) (bool, error)
	Description() string
}

// KindWasVisited matches when the machine passed through the kind at
// any point, including as its initial kind.
func KindWasVisited(kind fsm.Kind) Matcher {
	return &kindVisitedMatcher{kind: kind}
}

type kindVisitedMatcher struct {
	kind fsm.Kind
}

func (m *kindVisitedMatcher) Match(tm *TestMachine) (bool, error) {
	if tm.Current() == m.kind {
		return true, nil
	}

	for _, entry := range tm.Trace() {
		if entry.From == m.kind || entry.To == m.kind {
			return true, nil
		}
	}

	return false, fmt.Errorf("%w: %q", ErrKindNotVisited, m.kind)
}

func (m *kindVisitedMatcher) Description() string {
	return fmt.Sprintf("kind %q should be visited", m.kind)
}

// TransitionWasTaken matches when the exact (from, to) edge appears in
// the trace.
func TransitionWasTaken(from, to fsm.Kind) Matcher {
	return &transitionTakenMatcher{from: from, to: to}
}

type transitionTakenMatcher struct {
	from fsm.Kind
	to   fsm.Kind
}

func (m *transitionTakenMatcher) Match(tm *TestMachine) (bool, error) {
	for _, entry := range tm.Trace() {
		if entry.From == m.from && entry.To == m.to {
			return true, nil
		}
	}

	return false, fmt.Errorf("%w: %q -> %q", ErrTransitionNotTaken, m.from, m.to)
}

func (m *transitionTakenMatcher) Description() string {
	return fmt.Sprintf("transition %q -> %q should be taken", m.from, m.to)
}

// EndedIn matches when the machine's current kind equals the expected
// one.
func EndedIn(kind fsm.Kind) Matcher {
	return &endedInMatcher{kind: kind}
}

type endedInMatcher struct {
	kind fsm.Kind
}

func (m *endedInMatcher) Match(tm *TestMachine) (bool, error) {
	current := tm.Current()
	if current == m.kind {
		return true, nil
	}

	return false, fmt.Errorf("%w: got %q, want %q", ErrUnexpectedKind, current, m.kind)
}

func (m *endedInMatcher) Description() string {
	return fmt.Sprintf("machine should end in %q", m.kind)
}

// RejectionCount matches when exactly n transitions were rejected.
func RejectionCount(n int) Matcher {
	return &rejectionCountMatcher{want: n}
}

type rejectionCountMatcher struct {
	want int
}

func (m *rejectionCountMatcher) Match(tm *TestMachine) (bool, error) {
	got := len(tm.Rejections())
	if got == m.want {
		return true, nil
	}

	return false, fmt.Errorf("%w: got %d, want %d", ErrRejectionMismatch, got, m.want)
}

func (m *rejectionCountMatcher) Description() string {
	return fmt.Sprintf("exactly %d transitions should be rejected", m.want)
}

// RollbackCount matches when exactly n rollbacks were recorded.
func RollbackCount(n int) Matcher {
	return &rollbackCountMatcher{want: n}
}

type rollbackCountMatcher struct {
	want int
}

func (m *rollbackCountMatcher) Match(tm *TestMachine) (bool, error) {
	got := 0

	for _, entry := range tm.Trace() {
		if entry.Rollback {
			got++
		}
	}

	if got == m.want {
		return true, nil
	}

	return false, fmt.Errorf("%w: got %d, want %d", ErrUnexpectedRollback, got, m.want)
}

func (m *rollbackCountMatcher) Description() string {
	return fmt.Sprintf("exactly %d rollbacks should occur", m.want)
}
