package fsm

import (
	"errors"
	"fmt"
)

// Predefined error types.
var (
	ErrIllegalTransition = errors.New("transition not allowed")
	ErrUnknownState      = errors.New("state not in transition table")
	ErrNoHistory         = errors.New("no previous state to roll back to")

	// ErrConfigNameRequired indicates that a configuration name is required.
	ErrConfigNameRequired = errors.New("config name is required")
	// ErrInitialStateRequired indicates that an initial state is required.
	ErrInitialStateRequired = errors.New("initial state is required")
	// ErrInitialStateUnknown indicates that the initial state is not declared.
	ErrInitialStateUnknown = errors.New("initial state is not a declared state")
	// ErrStateRequired indicates that at least one state is required.
	ErrStateRequired = errors.New("at least one state is required")
	// ErrDuplicateState indicates that a state was declared twice.
	ErrDuplicateState = errors.New("duplicate state")
	// ErrTransitionFromUnknown indicates a transition from an undeclared state.
	ErrTransitionFromUnknown = errors.New("transition from undeclared state")
	// ErrTransitionToUnknown indicates a transition to an undeclared state.
	ErrTransitionToUnknown = errors.New("transition to undeclared state")
	// ErrLogCapacityInvalid indicates a non-positive transition log capacity.
	ErrLogCapacityInvalid = errors.New("log capacity must be positive")
	// ErrGuardExpressionInvalid indicates that a guard expression failed to compile.
	ErrGuardExpressionInvalid = errors.New("invalid guard expression")
	// ErrGuardExpressionNotBool indicates that a guard expression does not yield a boolean.
	ErrGuardExpressionNotBool = errors.New("guard expression must evaluate to a boolean")
)

// TransitionError wraps an error with the attempted edge.
type TransitionError struct {
	Machine string
	From    Kind
	To      Kind
	Err     error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: transition %s -> %s: %v", e.Machine, e.From, e.To, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// WrapTransitionError wraps an error with the attempted edge.
func WrapTransitionError(machine string, from, to Kind, err error) error {
	if err == nil {
		return nil
	}

	return &TransitionError{
		Machine: machine,
		From:    from,
		To:      to,
		Err:     err,
	}
}
