package fsm

import "log/slog"

// Observer receives transition events from a machine. Implementations
// must be fast and non-blocking; they are invoked synchronously on the
// transition path.
//
// The observer replaces the module-level debug registries of the
// previous design. Anything that wants a view of machine activity
// (loggers, recorders, DevTools bridges) implements this interface and
// gets injected at construction.
type Observer interface {
	TransitionApplied(machine string, rec Record)
	TransitionRejected(machine string, from, to Kind)
	RolledBack(machine string, rec Record)
}

// SlogObserver logs transition events with slog.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates an observer backed by the given logger.
// A nil logger falls back to slog.Default.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) TransitionApplied(machine string, rec Record) {
	o.logger.Info("Transition applied",
		"machine", machine,
		"from", rec.From,
		"to", rec.To,
		"reason", rec.Reason,
	)
}

func (o *SlogObserver) TransitionRejected(machine string, from, to Kind) {
	o.logger.Warn("Transition rejected",
		"machine", machine,
		"from", from,
		"to", to,
	)
}

func (o *SlogObserver) RolledBack(machine string, rec Record) {
	o.logger.Info("Rolled back",
		"machine", machine,
		"from", rec.From,
		"to", rec.To,
	)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) TransitionApplied(string, Record)  {}
func (NopObserver) TransitionRejected(string, Kind, Kind) {}
func (NopObserver) RolledBack(string, Record)         {}

// MultiObserver fans events out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) TransitionApplied(machine string, rec Record) {
	for _, o := range m {
		o.TransitionApplied(machine, rec)
	}
}

func (m MultiObserver) TransitionRejected(machine string, from, to Kind) {
	for _, o := range m {
		o.TransitionRejected(machine, from, to)
	}
}

func (m MultiObserver) RolledBack(machine string, rec Record) {
	for _, o := range m {
		o.RolledBack(machine, rec)
	}
}
