// Package nav owns the navigation chrome state: the mobile menu, the
// desktop sidebar and the dropdown surfaces, each supervised by its
// own finite-state machine with element-kind-specific guard rules.
package nav

import (
	"time"

	"github.com/storefront-labs/ui-common/fsm"
)

// ElementKind identifies a navigation UI surface.
type ElementKind string

const (
	// MobileMenu is the hamburger menu; it alone supports the overlay
	// state with a backdrop.
	MobileMenu ElementKind = "mobile_menu"
	// DesktopSidebar supports the mini (icons-only) state but never
	// overlay.
	DesktopSidebar ElementKind = "desktop_sidebar"
	// UserDropdown supports neither overlay nor mini.
	UserDropdown ElementKind = "user_dropdown"
)

// DefaultAnimationDuration matches the CSS transition the stores
// sequence against.
const DefaultAnimationDuration = 200 * time.Millisecond

// Element is one navigation surface: a machine plus its presentation
// metadata. Elements are created once at store initialization and
// never destroyed during a session.
type Element struct {
	Kind              ElementKind
	ID                string // DOM element id targeted by ARIA writes
	Machine           *fsm.Machine
	AnimationDuration time.Duration
	TrapFocus         bool
	AriaLabel         string
	Persist           bool
}

// InitialKind returns the type-specific initial state: the sidebar
// starts expanded, everything else starts collapsed.
func InitialKind(kind ElementKind) fsm.Kind {
	if kind == DesktopSidebar {
		return fsm.KindExpanded
	}

	return fsm.KindCollapsed
}

// TableFor returns the transition table for an element kind.
func TableFor(kind ElementKind) fsm.Table {
	switch kind {
	case MobileMenu:
		return fsm.Table{
			fsm.KindCollapsed: {fsm.KindOpening, fsm.KindExpanded, fsm.KindOverlay},
			fsm.KindOpening:   {fsm.KindExpanded, fsm.KindCollapsed},
			fsm.KindExpanded:  {fsm.KindClosing, fsm.KindOverlay},
			fsm.KindOverlay:   {fsm.KindExpanded, fsm.KindClosing},
			fsm.KindClosing:   {fsm.KindCollapsed, fsm.KindExpanded},
		}
	case DesktopSidebar:
		return fsm.Table{
			fsm.KindExpanded:  {fsm.KindClosing, fsm.KindCollapsed, fsm.KindMini},
			fsm.KindCollapsed: {fsm.KindOpening, fsm.KindExpanded, fsm.KindMini},
			fsm.KindMini:      {fsm.KindExpanded, fsm.KindCollapsed},
			fsm.KindOpening:   {fsm.KindExpanded, fsm.KindCollapsed},
			fsm.KindClosing:   {fsm.KindCollapsed, fsm.KindExpanded},
		}
	case UserDropdown:
		return dropdownTable()
	}

	return fsm.Table{}
}

func dropdownTable() fsm.Table {
	return fsm.Table{
		fsm.KindCollapsed: {fsm.KindOpening, fsm.KindExpanded},
		fsm.KindOpening:   {fsm.KindExpanded, fsm.KindCollapsed},
		fsm.KindExpanded:  {fsm.KindClosing, fsm.KindCollapsed},
		fsm.KindClosing:   {fsm.KindCollapsed, fsm.KindExpanded},
	}
}

// NewElement builds a surface with its kind-specific machine.
func NewElement(kind ElementKind, opts ...fsm.Option) *Element {
	opts = append([]fsm.Option{fsm.WithGuard(GuardFor(kind))}, opts...)

	elem := &Element{
		Kind:              kind,
		ID:                string(kind),
		Machine:           fsm.New(string(kind), InitialKind(kind), TableFor(kind), opts...),
		AnimationDuration: DefaultAnimationDuration,
	}

	switch kind {
	case MobileMenu:
		elem.TrapFocus = true
		elem.AriaLabel = "Navigation menu"
	case DesktopSidebar:
		elem.AriaLabel = "Sidebar"
		elem.Persist = true
	case UserDropdown:
		elem.AriaLabel = "User menu"
	}

	return elem
}

// newDropdownElement builds an extra mutually-exclusive dropdown
// surface registered at runtime.
func newDropdownElement(id string, opts ...fsm.Option) *Element {
	opts = append([]fsm.Option{fsm.WithGuard(GuardFor(UserDropdown))}, opts...)

	return &Element{
		Kind:              UserDropdown,
		ID:                id,
		Machine:           fsm.New(id, fsm.KindCollapsed, dropdownTable(), opts...),
		AnimationDuration: DefaultAnimationDuration,
		AriaLabel:         "Dropdown",
	}
}

// Settled reports whether the element is in a non-transitional state.
// Only settled states are ever persisted.
func (e *Element) Settled() bool {
	switch e.Machine.Current() {
	case fsm.KindOpening, fsm.KindClosing:
		return false
	default:
		return true
	}
}
