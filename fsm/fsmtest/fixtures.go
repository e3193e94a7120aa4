package fsmtest

import "github.com/storefront-labs/ui-common/fsm"

// ToggleTable is a minimal two-state fixture.
func ToggleTable() fsm.Table {
	return fsm.Table{
		fsm.KindCollapsed: {fsm.KindExpanded},
		fsm.KindExpanded:  {fsm.KindCollapsed},
	}
}

// AnimatedTable adds the transitional states of an animated surface.
func AnimatedTable() fsm.Table {
	return fsm.Table{
		fsm.KindCollapsed: {fsm.KindOpening, fsm.KindExpanded},
		fsm.KindOpening:   {fsm.KindExpanded, fsm.KindCollapsed},
		fsm.KindExpanded:  {fsm.KindClosing, fsm.KindCollapsed},
		fsm.KindClosing:   {fsm.KindCollapsed, fsm.KindExpanded},
	}
}

// ToggleConfig builds a loadable Config for the toggle fixture.
func ToggleConfig(name string) *fsm.Config {
	return &fsm.Config{
		Name:    name,
		Initial: fsm.KindCollapsed,
		States:  []fsm.Kind{fsm.KindCollapsed, fsm.KindExpanded},
		Transitions: []fsm.TransitionConfig{
			{From: fsm.KindCollapsed, To: []fsm.Kind{fsm.KindExpanded}},
			{From: fsm.KindExpanded, To: []fsm.Kind{fsm.KindCollapsed}},
		},
	}
}

// AnimatedConfig builds a loadable Config for the animated fixture,
// guarded so mid-animation jumps to anything but the settled states
// are rejected.
func AnimatedConfig(name string) *fsm.Config {
	return &fsm.Config{
		Name:    name,
		Initial: fsm.KindCollapsed,
		States: []fsm.Kind{
			fsm.KindCollapsed, fsm.KindOpening,
			fsm.KindExpanded, fsm.KindClosing,
		},
		Transitions: []fsm.TransitionConfig{
			{From: fsm.KindCollapsed, To: []fsm.Kind{fsm.KindOpening, fsm.KindExpanded}},
			{From: fsm.KindOpening, To: []fsm.Kind{fsm.KindExpanded, fsm.KindCollapsed}},
			{From: fsm.KindExpanded, To: []fsm.Kind{fsm.KindClosing, fsm.KindCollapsed}},
			{From: fsm.KindClosing, To: []fsm.Kind{fsm.KindCollapsed, fsm.KindExpanded}},
		},
		Guard: `from not in ["opening", "closing"] || to in ["expanded", "collapsed"]`,
	}
}
