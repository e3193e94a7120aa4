package nav

import "github.com/storefront-labs/ui-common/fsm"

// GuardFor returns the guard rules for an element kind. Guard rules
// are per kind, not global: the menu alone may enter overlay, the
// sidebar alone may enter mini, and dropdowns may do neither.
func GuardFor(kind ElementKind) fsm.Guard {
	switch kind {
	case MobileMenu:
		return fsm.AllOf(noMidAnimationJumps, denyKinds(fsm.KindMini))
	case DesktopSidebar:
		return fsm.AllOf(noMidAnimationJumps, denyKinds(fsm.KindOverlay))
	case UserDropdown:
		return fsm.AllOf(noMidAnimationJumps, denyKinds(fsm.KindOverlay, fsm.KindMini))
	}

	return noMidAnimationJumps
}

// noMidAnimationJumps pins an animating element to its two settled
// targets: from opening or closing, only expanded or collapsed are
// reachable. Self-transitions stay legal so animation progress can be
// reported without a kind change.
func noMidAnimationJumps(from, to fsm.Kind) bool {
	if from != fsm.KindOpening && from != fsm.KindClosing {
		return true
	}

	return to == from || to == fsm.KindExpanded || to == fsm.KindCollapsed
}

// denyKinds forbids a set of target kinds outright.
func denyKinds(kinds ...fsm.Kind) fsm.Guard {
	return func(_, to fsm.Kind) bool {
		for _, k := range kinds {
			if to == k {
				return false
			}
		}

		return true
	}
}
