package fsm

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// NewExpressionGuard compiles a guard from an expression over the
// variables `from` and `to`, both strings. Example:
//
//	from != "opening" || to in ["expanded", "collapsed"]
//
// The expression must evaluate to a boolean. A runtime evaluation
// failure denies the transition; guards are admissibility checks, so
// failing closed is the only safe answer.
func NewExpressionGuard(src string) (Guard, error) {
	program, err := expr.Compile(src, expr.Env(guardEnv(Kind(""), Kind(""))), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrGuardExpressionInvalid, src, err)
	}

	return func(from, to Kind) bool {
		return runGuard(program, from, to)
	}, nil
}

func guardEnv(from, to Kind) map[string]any {
	return map[string]any{
		"from": string(from),
		"to":   string(to),
	}
}

func runGuard(program *vm.Program, from, to Kind) bool {
	out, err := expr.Run(program, guardEnv(from, to))
	if err != nil {
		return false
	}

	allowed, ok := out.(bool)

	return ok && allowed
}

// AllOf combines guards; every guard must allow the transition.
func AllOf(guards ...Guard) Guard {
	return func(from, to Kind) bool {
		for _, g := range guards {
			if !g(from, to) {
				return false
			}
		}

		return true
	}
}

// AnyOf combines guards; at least one guard must allow the transition.
func AnyOf(guards ...Guard) Guard {
	return func(from, to Kind) bool {
		for _, g := range guards {
			if g(from, to) {
				return true
			}
		}

		return false
	}
}
