package devtools

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/ui-common/fsm"
)

func newRecordedMachine(t *testing.T, rec *Recorder) *fsm.Machine {
	t.Helper()

	table := fsm.Table{
		fsm.KindCollapsed: {fsm.KindExpanded},
		fsm.KindExpanded:  {fsm.KindCollapsed},
	}

	return fsm.New("menu", fsm.KindCollapsed, table, fsm.WithObserver(rec))
}

func TestRecorderCounters(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	m := newRecordedMachine(t, rec)
	ctx := context.Background()

	require.NoError(t, m.Transition(ctx, fsm.KindExpanded, "open", nil))
	require.Error(t, m.Transition(ctx, fsm.KindOverlay, "", nil))
	require.True(t, m.Rollback())

	applied, rejected, rollbacks := rec.Counters()
	assert.Equal(t, int64(1), applied)
	assert.Equal(t, int64(1), rejected)
	assert.Equal(t, int64(1), rollbacks)
}

func TestRecorderEdgeDedup(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	m := newRecordedMachine(t, rec)
	ctx := context.Background()

	for range 5 {
		require.NoError(t, m.Transition(ctx, fsm.KindExpanded, "", nil))
		require.NoError(t, m.Transition(ctx, fsm.KindCollapsed, "", nil))
	}

	report := rec.Snapshot()
	require.Len(t, report.Edges, 2, "repeated edges collapse into counts")

	for _, edge := range report.Edges {
		assert.Equal(t, int64(5), edge.Count)
	}

	assert.Len(t, report.Events, 10, "the event stream keeps every occurrence")
}

func TestRecorderSnapshotTracksLatestKind(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	m := newRecordedMachine(t, rec)
	ctx := context.Background()

	require.NoError(t, m.Transition(ctx, fsm.KindExpanded, "", nil))
	require.Error(t, m.Transition(ctx, fsm.KindMini, "", nil))

	report := rec.Snapshot()
	assert.Equal(t, fsm.KindExpanded, report.Machines["menu"], "rejections do not move the machine")
	assert.NotEmpty(t, report.SessionID)
}

func TestRecorderEdgeOrderingIsNatural(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()

	// Machine names with numeric suffixes sort numerically, not
	// lexically.
	rec.TransitionApplied("dropdown_10", fsm.Record{From: fsm.KindCollapsed, To: fsm.KindExpanded})
	rec.TransitionApplied("dropdown_2", fsm.Record{From: fsm.KindCollapsed, To: fsm.KindExpanded})

	report := rec.Snapshot()
	require.Len(t, report.Edges, 2)
	assert.Equal(t, "dropdown_2", report.Edges[0].Machine)
	assert.Equal(t, "dropdown_10", report.Edges[1].Machine)
}

func TestRecorderExportGzipRoundTrip(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	m := newRecordedMachine(t, rec)
	require.NoError(t, m.Transition(context.Background(), fsm.KindExpanded, "open", nil))

	var buf bytes.Buffer

	require.NoError(t, rec.ExportGzip(&buf))

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)

	var report Report

	require.NoError(t, json.NewDecoder(gz).Decode(&report))
	require.NoError(t, gz.Close())

	assert.Equal(t, rec.SessionID(), report.SessionID)
	assert.Equal(t, int64(1), report.Applied)
	require.Len(t, report.Events, 1)
	assert.Equal(t, EventApplied, report.Events[0].Kind)
}

func TestRecorderReset(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	id := rec.SessionID()

	rec.TransitionApplied("menu", fsm.Record{From: fsm.KindCollapsed, To: fsm.KindExpanded})
	rec.Reset()

	applied, _, _ := rec.Counters()
	assert.Zero(t, applied)
	assert.Empty(t, rec.Events())
	assert.Equal(t, id, rec.SessionID(), "reset keeps the session id")
}
