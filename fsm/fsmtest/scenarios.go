package fsmtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/ui-common/fsm"
)

// Step is one driven transition in a scenario. WantErr marks steps
// that are expected to be rejected.
type Step struct {
	To       fsm.Kind
	Reason   string
	WantErr  bool
	Rollback bool
}

// Scenario drives a machine through a step sequence and checks the
// matchers against the resulting trace.
type Scenario struct {
	Name     string
	Initial  fsm.Kind
	Table    fsm.Table
	Options  []fsm.Option
	Steps    []Step
	Matchers []Matcher
}

// Run executes the scenario as a subtest.
func Run(t *testing.T, scenario Scenario) {
	t.Helper()

	t.Run(scenario.Name, func(t *testing.T) {
		t.Parallel()

		tm := NewTestMachine(t, scenario.Name, scenario.Initial, scenario.Table, scenario.Options...)
		ctx := context.Background()

		for i, step := range scenario.Steps {
			if step.Rollback {
				tm.Rollback()

				continue
			}

			err := tm.Transition(ctx, step.To, step.Reason, nil)
			if step.WantErr {
				require.Error(t, err, "step %d: transition to %q should be rejected", i, step.To)

				continue
			}

			require.NoError(t, err, "step %d: transition to %q", i, step.To)
		}

		tm.Require(scenario.Matchers...)
	})
}

// OpenCloseScenario is the canonical animated open-then-close pass.
func OpenCloseScenario() Scenario {
	return Scenario{
		Name:    "open then close",
		Initial: fsm.KindCollapsed,
		Table:   AnimatedTable(),
		Steps: []Step{
			{To: fsm.KindOpening, Reason: "open requested"},
			{To: fsm.KindExpanded, Reason: "animation complete"},
			{To: fsm.KindClosing, Reason: "close requested"},
			{To: fsm.KindCollapsed, Reason: "animation complete"},
		},
		Matchers: []Matcher{
			KindWasVisited(fsm.KindOpening),
			TransitionWasTaken(fsm.KindClosing, fsm.KindCollapsed),
			EndedIn(fsm.KindCollapsed),
			RejectionCount(0),
		},
	}
}

// InterruptedAnimationScenario aborts an open mid-flight.
func InterruptedAnimationScenario() Scenario {
	return Scenario{
		Name:    "interrupted animation",
		Initial: fsm.KindCollapsed,
		Table:   AnimatedTable(),
		Steps: []Step{
			{To: fsm.KindOpening, Reason: "open requested"},
			{To: fsm.KindClosing, WantErr: true},
			{To: fsm.KindCollapsed, Reason: "aborted"},
		},
		Matchers: []Matcher{
			EndedIn(fsm.KindCollapsed),
			RejectionCount(1),
		},
	}
}

// RollbackScenario exercises the single-level undo.
func RollbackScenario() Scenario {
	return Scenario{
		Name:    "rollback toggles",
		Initial: fsm.KindCollapsed,
		Table:   ToggleTable(),
		Steps: []Step{
			{To: fsm.KindExpanded, Reason: "open"},
			{Rollback: true},
			{Rollback: true},
		},
		Matchers: []Matcher{
			EndedIn(fsm.KindExpanded),
			RollbackCount(2),
		},
	}
}
