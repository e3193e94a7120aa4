package fsm

import (
	"context"
	"testing"
)

func BenchmarkTransition(b *testing.B) {
	m := New("bench", "closed", Table{
		"closed": {"open"},
		"open":   {"closed"},
	}, WithObserver(NopObserver{}))
	ctx := context.Background()

	b.ReportAllocs()

	for i := 0; b.Loop(); i++ {
		if i%2 == 0 {
			_ = m.Transition(ctx, "open", "", nil)
		} else {
			_ = m.Transition(ctx, "closed", "", nil)
		}
	}
}

func BenchmarkCanTransitionTo(b *testing.B) {
	guard, _ := NewExpressionGuard(`from != "opening" || to in ["expanded", "collapsed"]`)
	m := New("bench", "opening", Table{
		"opening": {"expanded", "collapsed"},
	}, WithGuard(guard))

	b.ReportAllocs()

	for b.Loop() {
		_ = m.CanTransitionTo("expanded")
	}
}

func BenchmarkRollback(b *testing.B) {
	m := New("bench", "closed", Table{"closed": {"open"}})
	_ = m.Transition(context.Background(), "open", "", nil)

	b.ReportAllocs()

	for b.Loop() {
		_ = m.Rollback()
	}
}
