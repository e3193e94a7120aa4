package fsm

import "time"

// Kind is a symbolic state name, e.g. "collapsed" or "opening".
type Kind string

// Common kinds shared by the UI surfaces built on this package.
// A machine is free to define its own vocabulary; these exist so that
// the navigation and modal packages agree on spelling.
const (
	KindCollapsed Kind = "collapsed"
	KindExpanded  Kind = "expanded"
	KindOpening   Kind = "opening"
	KindClosing   Kind = "closing"
	KindOverlay   Kind = "overlay"
	KindMini      Kind = "mini"
	KindError     Kind = "error"
)

// Table maps a kind to the set of kinds directly reachable from it.
// A table is immutable after machine construction.
type Table map[Kind][]Kind

// Guard decides whether a machine may move between two kinds.
// Guards are pure: they must not mutate anything.
type Guard func(from, to Kind) bool

// Record is a single entry in a machine's transition log.
type Record struct {
	From      Kind
	To        Kind
	Timestamp time.Time
	Reason    string
	Metadata  map[string]any
}

// Rollbackable is implemented by anything that can revert to its
// immediately preceding state. Callers check for this capability via
// interface membership rather than probing method names at runtime.
type Rollbackable interface {
	Rollback() bool
}
