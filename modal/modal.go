// Package modal holds the single-modal-per-feature state slice. The
// state is one tagged value — "which modal, if any, is open" — rather
// than a bag of independent boolean flags, so impossible combinations
// (two modals open at once) cannot be represented at all.
package modal

import (
	"errors"
	"fmt"

	"github.com/storefront-labs/ui-common/fsm"
)

// Type tags the modal state union.
type Type string

const (
	// TypeNone means no modal is open.
	TypeNone Type = ""
	// TypeCreate is the create-entity modal.
	TypeCreate Type = "create"
	// TypeEdit is the edit-entity modal.
	TypeEdit Type = "edit"
	// TypeDelete is the delete-confirmation modal.
	TypeDelete Type = "delete"
)

// Predefined error types.
var (
	ErrIDRequired         = errors.New("modal state requires an id")
	ErrEntityTypeRequired = errors.New("create modal requires an entity type")
)

// State is the modal tagged union. Every action replaces the whole
// value atomically; subscribers never observe a partially-updated one.
type State struct {
	Type          Type   `json:"type"`
	ID            string `json:"id,omitempty"`
	EntityType    string `json:"entityType,omitempty"`
	IsDirty       bool   `json:"isDirty,omitempty"`
	CascadeDelete bool   `json:"cascadeDelete,omitempty"`
}

// Open reports whether any modal is logically open.
func (s State) Open() bool {
	return s.Type != TypeNone
}

// Validate enforces the union's shape invariants: edit and delete
// variants must carry an id, and create must carry an entity type.
func (s State) Validate() error {
	switch s.Type {
	case TypeEdit, TypeDelete:
		if s.ID == "" {
			return fmt.Errorf("%w: %s", ErrIDRequired, s.Type)
		}
	case TypeCreate:
		if s.EntityType == "" {
			return ErrEntityTypeRequired
		}
	case TypeNone:
	}

	return nil
}

// Machine kinds for the optional supervising machine.
const (
	KindClosed fsm.Kind = "closed"
	KindOpen   fsm.Kind = "open"
)

// NewSupervisor builds the default modal lifecycle machine:
// closed -> opening -> open -> closing -> closed, with an error state
// reachable from both animated phases.
func NewSupervisor(name string, opts ...fsm.Option) *fsm.Machine {
	return fsm.New(name, KindClosed, fsm.Table{
		KindClosed:      {fsm.KindOpening, KindOpen},
		fsm.KindOpening: {KindOpen, fsm.KindError},
		KindOpen:        {fsm.KindClosing, KindClosed},
		fsm.KindClosing: {KindClosed, fsm.KindError},
		fsm.KindError:   {KindClosed},
	}, opts...)
}
