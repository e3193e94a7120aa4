// Package devtools captures transition activity for inspection: a
// session-scoped recorder that hangs off the machines' observer hook
// and exports its findings as a JSON (optionally gzipped) report.
package devtools

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"facette.io/natsort"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"

	"github.com/storefront-labs/ui-common/fsm"
)

// EventKind labels a recorded observer callback.
type EventKind string

const (
	EventApplied  EventKind = "applied"
	EventRejected EventKind = "rejected"
	EventRollback EventKind = "rollback"
)

// Event is one recorded transition event.
type Event struct {
	Machine string    `json:"machine"`
	Kind    EventKind `json:"kind"`
	From    fsm.Kind  `json:"from"`
	To      fsm.Kind  `json:"to"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

// Recorder is an fsm.Observer that accumulates a debugging session.
// It is safe for concurrent use by any number of machines.
type Recorder struct {
	sessionID string
	startedAt time.Time

	applied   atomic.Int64
	rejected  atomic.Int64
	rollbacks atomic.Int64

	mu     sync.Mutex
	events []Event
	edges  map[uint64]EdgeCount
	latest map[string]fsm.Kind
}

// EdgeCount is the traversal count of one distinct (machine, from, to)
// edge. Distinct edges are keyed by hash so a long session does not
// store every repetition of a hot edge twice.
type EdgeCount struct {
	Machine string   `json:"machine"`
	From    fsm.Kind `json:"from"`
	To      fsm.Kind `json:"to"`
	Count   int64    `json:"count"`
}

// NewRecorder creates an empty recorder with a fresh session id.
func NewRecorder() *Recorder {
	return &Recorder{
		sessionID: uuid.NewString(),
		startedAt: time.Now(),
		edges:     make(map[uint64]EdgeCount),
		latest:    make(map[string]fsm.Kind),
	}
}

// SessionID returns the unique id of this recording session.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// TransitionApplied implements fsm.Observer.
func (r *Recorder) TransitionApplied(machine string, rec fsm.Record) {
	r.applied.Inc()
	r.record(Event{
		Machine: machine,
		Kind:    EventApplied,
		From:    rec.From,
		To:      rec.To,
		Reason:  rec.Reason,
		At:      rec.Timestamp,
	})
}

// TransitionRejected implements fsm.Observer.
func (r *Recorder) TransitionRejected(machine string, from, to fsm.Kind) {
	r.rejected.Inc()
	r.record(Event{
		Machine: machine,
		Kind:    EventRejected,
		From:    from,
		To:      to,
		At:      time.Now(),
	})
}

// RolledBack implements fsm.Observer.
func (r *Recorder) RolledBack(machine string, rec fsm.Record) {
	r.rollbacks.Inc()
	r.record(Event{
		Machine: machine,
		Kind:    EventRollback,
		From:    rec.From,
		To:      rec.To,
		Reason:  rec.Reason,
		At:      rec.Timestamp,
	})
}

func (r *Recorder) record(ev Event) {
	key := edgeKey(ev.Machine, ev.From, ev.To)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)

	edge := r.edges[key]
	if edge.Count == 0 {
		edge = EdgeCount{Machine: ev.Machine, From: ev.From, To: ev.To}
	}

	edge.Count++
	r.edges[key] = edge

	if ev.Kind != EventRejected {
		r.latest[ev.Machine] = ev.To
	}
}

// Counters returns the running applied/rejected/rollback totals.
func (r *Recorder) Counters() (applied, rejected, rollbacks int64) {
	return r.applied.Load(), r.rejected.Load(), r.rollbacks.Load()
}

// Events returns a copy of the recorded events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)

	return out
}

// Report is the exported shape of a recording session.
type Report struct {
	SessionID string              `json:"session_id"`
	StartedAt time.Time           `json:"started_at"`
	Duration  time.Duration       `json:"duration_ns"`
	Applied   int64               `json:"applied"`
	Rejected  int64               `json:"rejected"`
	Rollbacks int64               `json:"rollbacks"`
	Machines  map[string]fsm.Kind `json:"machines"`
	Edges     []EdgeCount         `json:"edges"`
	Events    []Event             `json:"events"`
}

// Snapshot builds the report for the session so far. Edges are listed
// in natural sort order of machine name, then source, then target, so
// "dropdown_2" sorts before "dropdown_10" in exported reports.
func (r *Recorder) Snapshot() Report {
	applied, rejected, rollbacks := r.Counters()

	r.mu.Lock()

	startedAt := r.startedAt
	events := make([]Event, len(r.events))
	copy(events, r.events)

	machines := make(map[string]fsm.Kind, len(r.latest))
	for name, kind := range r.latest {
		machines[name] = kind
	}

	edges := make([]EdgeCount, 0, len(r.edges))
	for _, edge := range r.edges {
		edges = append(edges, edge)
	}
	r.mu.Unlock()

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Machine != edges[j].Machine {
			return natsort.Compare(edges[i].Machine, edges[j].Machine)
		}

		if edges[i].From != edges[j].From {
			return natsort.Compare(string(edges[i].From), string(edges[j].From))
		}

		return natsort.Compare(string(edges[i].To), string(edges[j].To))
	})

	return Report{
		SessionID: r.sessionID,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Applied:   applied,
		Rejected:  rejected,
		Rollbacks: rollbacks,
		Machines:  machines,
		Edges:     edges,
		Events:    events,
	}
}

// Export writes the session report as indented JSON.
func (r *Recorder) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(r.Snapshot())
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}

// ExportGzip writes the session report as gzipped JSON, the format the
// support tooling ingests.
func (r *Recorder) ExportGzip(w io.Writer) error {
	gz := gzip.NewWriter(w)

	err := r.Export(gz)
	if err != nil {
		gz.Close() //nolint:errcheck,gosec // already failing

		return err
	}

	err = gz.Close()
	if err != nil {
		return fmt.Errorf("close gzip writer: %w", err)
	}

	return nil
}

// Reset discards recorded state but keeps the session id.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
	r.edges = make(map[uint64]EdgeCount)
	r.latest = make(map[string]fsm.Kind)
	r.applied.Store(0)
	r.rejected.Store(0)
	r.rollbacks.Store(0)
	r.startedAt = time.Now()
}

func edgeKey(machine string, from, to fsm.Kind) uint64 {
	return xxh3.HashString(machine + "\x00" + string(from) + "\x00" + string(to))
}
