package modal

import (
	"context"
	"log/slog"
	"sync"

	"github.com/storefront-labs/ui-common/fsm"
)

// Subscriber is notified with the full new state after every atomic
// replacement. Callbacks run synchronously on the mutating call.
type Subscriber func(State)

// Slice owns exactly one modal State per feature area.
//
// The error contract is deliberately asymmetric: the underlying
// machine hard-fails on illegal transitions, while the Open*/Close
// actions here soft-fail — they log one warning, leave the state
// untouched and return nothing to the caller.
type Slice struct {
	mu         sync.Mutex
	name       string
	state      State
	previous   State
	hasPrev    bool
	supervisor *fsm.Machine
	logger     *slog.Logger
	subs       []Subscriber
}

// SliceOption configures a Slice.
type SliceOption func(*Slice)

// WithSupervisor attaches a lifecycle machine consulted before every
// open/close action.
func WithSupervisor(m *fsm.Machine) SliceOption {
	return func(s *Slice) {
		s.supervisor = m
	}
}

// WithLogger overrides the slice logger.
func WithLogger(logger *slog.Logger) SliceOption {
	return func(s *Slice) {
		s.logger = logger
	}
}

// NewSlice creates an empty modal slice.
func NewSlice(name string, opts ...SliceOption) *Slice {
	s := &Slice{
		name:   name,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// State returns the current modal state.
func (s *Slice) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// OpenCreate opens the create modal for the given entity type.
func (s *Slice) OpenCreate(ctx context.Context, entityType string) {
	s.replace(ctx, State{Type: TypeCreate, EntityType: entityType})
}

// OpenEdit opens the edit modal for the given entity id.
func (s *Slice) OpenEdit(ctx context.Context, id string, isDirty bool) {
	s.replace(ctx, State{Type: TypeEdit, ID: id, IsDirty: isDirty})
}

// OpenDelete opens the delete-confirmation modal for the given id.
func (s *Slice) OpenDelete(ctx context.Context, id string, cascade bool) {
	s.replace(ctx, State{Type: TypeDelete, ID: id, CascadeDelete: cascade})
}

// Close resets the union to its empty value.
func (s *Slice) Close(ctx context.Context) {
	s.replace(ctx, State{})
}

// CloseCreate is a backward-compatible alias for Close.
func (s *Slice) CloseCreate(ctx context.Context) { s.Close(ctx) }

// CloseEdit is a backward-compatible alias for Close.
func (s *Slice) CloseEdit(ctx context.Context) { s.Close(ctx) }

// CloseDelete is a backward-compatible alias for Close.
func (s *Slice) CloseDelete(ctx context.Context) { s.Close(ctx) }

// Rollback restores the state that existed before the last
// replacement. Like the machine's rollback it is one level deep and
// its own inverse. Returns false when there is nothing to restore.
func (s *Slice) Rollback() bool {
	s.mu.Lock()

	if !s.hasPrev {
		s.mu.Unlock()

		return false
	}

	s.state, s.previous = s.previous, s.state

	if s.supervisor != nil {
		s.supervisor.Rollback()
	}

	next := s.state
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, next)

	return true
}

// Subscribe registers a callback invoked after every state change.
func (s *Slice) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subs = append(s.subs, sub)
}

// Reset clears the slice and its rollback history. Test helper.
func (s *Slice) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{}
	s.previous = State{}
	s.hasPrev = false

	if s.supervisor != nil {
		s.supervisor.Reset(KindClosed)
	}
}

// replace swaps in the new union value if the shape invariants and the
// supervising machine allow it. This is the soft-fail tier.
func (s *Slice) replace(ctx context.Context, next State) {
	err := next.Validate()
	if err != nil {
		s.logger.Warn("Modal action ignored",
			"slice", s.name,
			"type", next.Type,
			"error", err,
		)

		return
	}

	target := KindClosed
	if next.Open() {
		target = KindOpen
	}

	s.mu.Lock()

	if s.supervisor != nil {
		err = s.supervisor.Transition(ctx, target, string(next.Type), nil)
		if err != nil {
			s.mu.Unlock()

			s.logger.Warn("Modal transition rejected",
				"slice", s.name,
				"type", next.Type,
				"error", err,
			)

			return
		}
	}

	s.previous = s.state
	s.hasPrev = true
	s.state = next
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, next)
}

func (s *Slice) subscribersLocked() []Subscriber {
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)

	return subs
}

func notify(subs []Subscriber, state State) {
	for _, sub := range subs {
		sub(state)
	}
}
