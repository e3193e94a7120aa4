package nav

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/storefront-labs/ui-common/a11y"
	"github.com/storefront-labs/ui-common/fsm"
	"github.com/storefront-labs/ui-common/persist"
)

// SnapshotVersion is the schema version of the persisted sidebar
// snapshot envelope.
const SnapshotVersion = 1

// KeySidebar is the persistence key for the sidebar snapshot.
const KeySidebar = "nav.sidebar"

// Snapshot is the persisted shape of a navigation element. Only
// settled states are ever written; a transitional state on disk would
// resurrect a half-finished animation on the next session.
type Snapshot struct {
	Kind fsm.Kind `json:"kind"`
}

// Store owns the navigation chrome: one mobile menu, one desktop
// sidebar and any number of mutually exclusive dropdown surfaces.
//
// Like the modal slice, the actions here soft-fail: an action whose
// transition the machine rejects logs a single warning and leaves all
// state untouched. The machines underneath keep their hard-fail
// contract.
type Store struct {
	mu        sync.Mutex
	menu      *Element
	sidebar   *Element
	dropdowns map[string]*Element

	logger    *slog.Logger
	announcer a11y.Announcer
	attrs     a11y.AttributeSink
	motion    a11y.MotionQuery
	writer    *persist.DebouncedWriter
	sink      persist.Store
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger overrides the store logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithAnnouncer installs the screen-reader live-region sink.
func WithAnnouncer(a a11y.Announcer) StoreOption {
	return func(s *Store) {
		s.announcer = a
	}
}

// WithAttributeSink installs the ARIA attribute write sink.
func WithAttributeSink(sink a11y.AttributeSink) StoreOption {
	return func(s *Store) {
		s.attrs = sink
	}
}

// WithMotionQuery installs the prefers-reduced-motion read.
func WithMotionQuery(q a11y.MotionQuery) StoreOption {
	return func(s *Store) {
		s.motion = q
	}
}

// WithPersistence attaches a persistence sink. Settled sidebar states
// are written through a debounced writer; the previous session's
// snapshot is restored during NewStore.
func WithPersistence(sink persist.Store, delay time.Duration) StoreOption {
	return func(s *Store) {
		s.sink = sink
		s.writer = persist.NewDebouncedWriter(sink, delay)
	}
}

// WithAnimationDuration overrides the animation window on every
// element. Tests use a short window to exercise completion timers.
func WithAnimationDuration(d time.Duration) StoreOption {
	return func(s *Store) {
		s.menu.AnimationDuration = d
		s.sidebar.AnimationDuration = d
	}
}

// NewStore builds the navigation store with its three built-in
// surfaces and restores the persisted sidebar snapshot, if any.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		menu:      NewElement(MobileMenu),
		sidebar:   NewElement(DesktopSidebar),
		dropdowns: make(map[string]*Element),
		logger:    slog.Default(),
		announcer: a11y.NopAnnouncer{},
		attrs:     a11y.NopAttributeSink{},
		motion:    a11y.StaticMotion(false),
	}
	s.dropdowns[string(UserDropdown)] = NewElement(UserDropdown)

	for _, opt := range opts {
		opt(s)
	}

	s.restoreSidebar()

	return s
}

// Menu returns the mobile menu element.
func (s *Store) Menu() *Element {
	return s.menu
}

// Sidebar returns the desktop sidebar element.
func (s *Store) Sidebar() *Element {
	return s.sidebar
}

// Dropdown returns the dropdown element with the given id, if
// registered.
func (s *Store) Dropdown(id string) (*Element, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.dropdowns[id]

	return elem, ok
}

// RegisterDropdown adds another mutually exclusive dropdown surface.
// Registering an id twice returns the existing element.
func (s *Store) RegisterDropdown(id string) *Element {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.dropdowns[id]; ok {
		return elem
	}

	elem := newDropdownElement(id)
	s.dropdowns[id] = elem

	return elem
}

// OpenMobileMenu expands the mobile menu, animating through the
// opening state unless reduced motion is preferred.
func (s *Store) OpenMobileMenu(ctx context.Context) {
	s.animate(ctx, s.menu, fsm.KindOpening, fsm.KindExpanded, "menu opened")
}

// CloseMobileMenu collapses the mobile menu.
func (s *Store) CloseMobileMenu(ctx context.Context) {
	s.animate(ctx, s.menu, fsm.KindClosing, fsm.KindCollapsed, "menu closed")
}

// ToggleMobileMenu opens or closes the menu based on its current
// state. Mid-animation toggles are ignored by the guard and warn once.
func (s *Store) ToggleMobileMenu(ctx context.Context) {
	if s.menu.Machine.Current() == fsm.KindCollapsed {
		s.OpenMobileMenu(ctx)

		return
	}

	s.CloseMobileMenu(ctx)
}

// ShowMenuOverlay raises the backdrop overlay. Only the mobile menu
// supports it; the per-kind guard rejects it everywhere else.
func (s *Store) ShowMenuOverlay(ctx context.Context) {
	s.apply(ctx, s.menu, fsm.KindOverlay, "overlay shown")
}

// ExpandSidebar animates the sidebar to its full width.
func (s *Store) ExpandSidebar(ctx context.Context) {
	s.animate(ctx, s.sidebar, fsm.KindOpening, fsm.KindExpanded, "sidebar expanded")
}

// CollapseSidebar animates the sidebar closed.
func (s *Store) CollapseSidebar(ctx context.Context) {
	s.animate(ctx, s.sidebar, fsm.KindClosing, fsm.KindCollapsed, "sidebar collapsed")
}

// ToggleSidebar flips the sidebar between expanded and collapsed.
func (s *Store) ToggleSidebar(ctx context.Context) {
	if s.sidebar.Machine.Current() == fsm.KindExpanded {
		s.CollapseSidebar(ctx)

		return
	}

	s.ExpandSidebar(ctx)
}

// SetSidebarMini switches the sidebar to the icons-only presentation,
// or back to expanded. Mini is a settled state and skips animation.
func (s *Store) SetSidebarMini(ctx context.Context, mini bool) {
	if mini {
		s.apply(ctx, s.sidebar, fsm.KindMini, "sidebar minimized")

		return
	}

	s.apply(ctx, s.sidebar, fsm.KindExpanded, "sidebar expanded")
}

// OpenDropdown expands the dropdown with the given id and closes every
// other open dropdown first. At most one dropdown is expanded at any
// time.
func (s *Store) OpenDropdown(ctx context.Context, id string) {
	s.mu.Lock()
	target, ok := s.dropdowns[id]

	var others []*Element

	for otherID, elem := range s.dropdowns {
		if otherID != id && elem.Machine.Current() != fsm.KindCollapsed {
			others = append(others, elem)
		}
	}
	s.mu.Unlock()

	if !ok {
		s.logger.Warn("Dropdown action ignored",
			"dropdown", id,
			"error", "not registered",
		)

		return
	}

	for _, other := range others {
		s.apply(ctx, other, fsm.KindCollapsed, "dropdown closed")
	}

	s.apply(ctx, target, fsm.KindExpanded, "dropdown opened")
}

// CloseDropdown collapses the dropdown with the given id.
func (s *Store) CloseDropdown(ctx context.Context, id string) {
	s.mu.Lock()
	target, ok := s.dropdowns[id]
	s.mu.Unlock()

	if !ok {
		return
	}

	s.apply(ctx, target, fsm.KindCollapsed, "dropdown closed")
}

// CloseAllDropdowns collapses every open dropdown. Used by the global
// escape-key and outside-click handlers.
func (s *Store) CloseAllDropdowns(ctx context.Context) {
	s.mu.Lock()

	var open []*Element

	for _, elem := range s.dropdowns {
		if elem.Machine.Current() != fsm.KindCollapsed {
			open = append(open, elem)
		}
	}
	s.mu.Unlock()

	for _, elem := range open {
		s.apply(ctx, elem, fsm.KindCollapsed, "dropdown closed")
	}
}

// Reset returns every surface to its initial state and clears the
// rollback history. Test and teardown helper.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.menu.Machine.Reset(InitialKind(MobileMenu))
	s.sidebar.Machine.Reset(InitialKind(DesktopSidebar))

	for _, elem := range s.dropdowns {
		elem.Machine.Reset(fsm.KindCollapsed)
	}
}

// Close flushes any pending persistence writes. Wire it into the
// shutdown hooks of the embedding process.
func (s *Store) Close() {
	if s.writer != nil {
		s.writer.Close()
	}
}

// apply is the direct, non-animated soft-fail transition path.
func (s *Store) apply(ctx context.Context, elem *Element, to fsm.Kind, announce string) {
	err := elem.Machine.Transition(ctx, to, announce, nil)
	if err != nil {
		s.logger.Warn("Navigation action ignored",
			"element", elem.ID,
			"target", to,
			"error", err,
		)

		return
	}

	s.settle(elem, to, announce)
}

// animate drives elem through its transitional state and schedules the
// settle transition after the animation window. Reduced motion skips
// the intermediate state entirely.
//
// The completion timer is fire-and-forget: a second action issued
// mid-animation is not cancelled against it, so the timer may find the
// machine in a state it no longer applies to. The guard rejects the
// stale settle and the store logs it at debug level. This mirrors the
// CSS transition it sequences against, which cannot be cancelled
// either.
func (s *Store) animate(ctx context.Context, elem *Element, via, settled fsm.Kind, announce string) {
	if s.motion.ReducedMotion() || elem.AnimationDuration <= 0 {
		s.apply(ctx, elem, settled, announce)

		return
	}

	err := elem.Machine.Transition(ctx, via, announce, nil)
	if err != nil {
		s.logger.Warn("Navigation action ignored",
			"element", elem.ID,
			"target", via,
			"error", err,
		)

		return
	}

	s.attrs.SetAttribute(elem.ID, "aria-expanded", ariaExpanded(via))

	time.AfterFunc(elem.AnimationDuration, func() {
		err := elem.Machine.Transition(context.Background(), settled, "animation complete", nil)
		if err != nil {
			s.logger.Debug("Stale animation completion dropped",
				"element", elem.ID,
				"target", settled,
				"error", err,
			)

			return
		}

		s.settle(elem, settled, announce)
	})
}

// settle performs the side effects of reaching a settled state: the
// ARIA write, the live-region announcement and the debounced snapshot.
func (s *Store) settle(elem *Element, to fsm.Kind, announce string) {
	s.attrs.SetAttribute(elem.ID, "aria-expanded", ariaExpanded(to))
	s.announcer.Announce(elem.AriaLabel + ": " + announce)

	if elem.Persist && s.writer != nil && elem.Settled() {
		payload, err := persist.Encode(SnapshotVersion, Snapshot{Kind: to})
		if err != nil {
			s.logger.Warn("Snapshot encode failed", "element", elem.ID, "error", err)

			return
		}

		s.writer.Write(KeySidebar, payload)
	}
}

// restoreSidebar resets the sidebar to the previous session's settled
// snapshot. A missing key is the common first-run case; a version
// mismatch or corrupt envelope discards the snapshot.
func (s *Store) restoreSidebar() {
	if s.sink == nil {
		return
	}

	var snap Snapshot

	err := persist.Load(s.sink, KeySidebar, SnapshotVersion, &snap)
	if err != nil {
		if !errors.Is(err, persist.ErrNotFound) {
			s.logger.Warn("Sidebar snapshot discarded", "error", err)
			s.sink.Delete(KeySidebar)
		}

		return
	}

	switch snap.Kind {
	case fsm.KindExpanded, fsm.KindCollapsed, fsm.KindMini:
		s.sidebar.Machine.Reset(snap.Kind)
	default:
		// A transitional kind should never have been written.
		s.logger.Warn("Sidebar snapshot discarded", "kind", snap.Kind)
		s.sink.Delete(KeySidebar)
	}
}

func ariaExpanded(kind fsm.Kind) string {
	switch kind {
	case fsm.KindExpanded, fsm.KindOverlay, fsm.KindOpening:
		return "true"
	default:
		return "false"
	}
}
