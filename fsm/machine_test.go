package fsm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver captures events for assertions.
type recordingObserver struct {
	applied  []Record
	rejected int
	rolled   int
}

func (o *recordingObserver) TransitionApplied(_ string, rec Record) {
	o.applied = append(o.applied, rec)
}

func (o *recordingObserver) TransitionRejected(_ string, _, _ Kind) {
	o.rejected++
}

func (o *recordingObserver) RolledBack(_ string, _ Record) {
	o.rolled++
}

func modalTable() Table {
	return Table{
		"closed":  {"opening"},
		"opening": {"open", "error"},
		"open":    {"closing"},
		"closing": {"closed", "error"},
		"error":   {"closed"},
	}
}

func TestMachineTransition(t *testing.T) {
	t.Parallel()

	m := New("modal", "closed", modalTable())
	ctx := context.Background()

	require.NoError(t, m.Transition(ctx, "opening", "open requested", nil))
	require.NoError(t, m.Transition(ctx, "open", "animation done", nil))

	assert.Equal(t, Kind("open"), m.Current())

	prev, ok := m.Previous()
	require.True(t, ok)
	assert.Equal(t, Kind("opening"), prev)
}

func TestMachineTableClosure(t *testing.T) {
	t.Parallel()

	table := modalTable()
	ctx := context.Background()

	// Every edge in the table must be reachable from its from-state,
	// and every absent edge must be rejected by both the predicate and
	// the transition itself.
	allKinds := []Kind{"closed", "opening", "open", "closing", "error"}

	for from, allowed := range table {
		fresh := New("modal", from, table)

		for _, to := range allKinds {
			inTable := false

			for _, a := range allowed {
				if a == to {
					inTable = true
				}
			}

			if inTable || to == from {
				assert.True(t, fresh.CanTransitionTo(to), "expected %s -> %s to be allowed", from, to)

				continue
			}

			assert.False(t, fresh.CanTransitionTo(to), "expected %s -> %s to be rejected", from, to)

			err := fresh.Transition(ctx, to, "", nil)
			require.ErrorIs(t, err, ErrIllegalTransition)
			assert.Equal(t, from, fresh.Current(), "rejected transition must not move the machine")
		}
	}
}

func TestMachineIllegalTransitionError(t *testing.T) {
	t.Parallel()

	m := New("modal", "closed", modalTable())

	err := m.Transition(context.Background(), "open", "", nil)
	require.Error(t, err)

	var trErr *TransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, "modal", trErr.Machine)
	assert.Equal(t, Kind("closed"), trErr.From)
	assert.Equal(t, Kind("open"), trErr.To)
	assert.Empty(t, m.Log(), "rejected transitions are not logged")
}

func TestMachineSelfTransition(t *testing.T) {
	t.Parallel()

	// No self-edge in the table, yet opening -> opening is permitted;
	// it represents an animation-progress update without a kind change.
	m := New("modal", "opening", modalTable())

	require.NoError(t, m.Transition(context.Background(), "opening", "progress", map[string]any{"pct": 40}))
	assert.Equal(t, Kind("opening"), m.Current())
}

func TestMachineSelfTransitionGuardable(t *testing.T) {
	t.Parallel()

	guard := func(from, to Kind) bool {
		return from != to
	}

	m := New("modal", "opening", modalTable(), WithGuard(guard))

	err := m.Transition(context.Background(), "opening", "", nil)
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestMachineRollbackTogglesBetweenTwoKinds(t *testing.T) {
	t.Parallel()

	m := New("modal", "closed", modalTable())
	ctx := context.Background()

	require.NoError(t, m.Transition(ctx, "opening", "", nil))
	require.NoError(t, m.Transition(ctx, "open", "", nil))

	// First rollback returns to the prior kind.
	require.True(t, m.Rollback())
	assert.Equal(t, Kind("opening"), m.Current())

	// Rollback is its own inverse: a second call returns to the kind
	// that existed before the first rollback, not further back.
	require.True(t, m.Rollback())
	assert.Equal(t, Kind("open"), m.Current())

	require.True(t, m.Rollback())
	assert.Equal(t, Kind("opening"), m.Current())
}

func TestMachineRollbackWithoutHistory(t *testing.T) {
	t.Parallel()

	m := New("modal", "closed", modalTable())

	assert.False(t, m.Rollback(), "rollback with no history is a no-op")
	assert.Equal(t, Kind("closed"), m.Current())
}

func TestMachineRollbackIsLogged(t *testing.T) {
	t.Parallel()

	m := New("modal", "closed", modalTable())
	require.NoError(t, m.Transition(context.Background(), "opening", "", nil))
	require.True(t, m.Rollback())

	log := m.Log()
	require.Len(t, log, 2)
	assert.Equal(t, RollbackReason, log[1].Reason)
	assert.Equal(t, Kind("opening"), log[1].From)
	assert.Equal(t, Kind("closed"), log[1].To)
}

func TestMachineLogEviction(t *testing.T) {
	t.Parallel()

	m := New("ticker", "opening", Table{}, WithLogCapacity(3))
	ctx := context.Background()

	// Self-transitions only; five appends against a capacity of three.
	for range 5 {
		require.NoError(t, m.Transition(ctx, "opening", "tick", nil))
	}

	log := m.Log()
	require.Len(t, log, 3, "log must stay at capacity")
}

func TestMachineObserver(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	m := New("modal", "closed", modalTable(), WithObserver(obs))
	ctx := context.Background()

	require.NoError(t, m.Transition(ctx, "opening", "", nil))
	require.Error(t, m.Transition(ctx, "closed", "", nil))
	require.True(t, m.Rollback())

	assert.Len(t, obs.applied, 1)
	assert.Equal(t, 1, obs.rejected)
	assert.Equal(t, 1, obs.rolled)
}

func TestMachineReset(t *testing.T) {
	t.Parallel()

	m := New("modal", "closed", modalTable())
	require.NoError(t, m.Transition(context.Background(), "opening", "", nil))

	m.Reset("closed")

	assert.Equal(t, Kind("closed"), m.Current())
	assert.Empty(t, m.Log())

	_, ok := m.Previous()
	assert.False(t, ok)
	assert.False(t, m.Rollback())
}

func TestMachineTableIsolation(t *testing.T) {
	t.Parallel()

	table := Table{"closed": {"opening"}}
	m := New("modal", "closed", table)

	// Mutating the caller's table after construction has no effect.
	table["closed"] = append(table["closed"], "open")

	assert.False(t, m.CanTransitionTo("open"))
}
