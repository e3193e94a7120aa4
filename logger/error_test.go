package logger

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSnapshotWrite = errors.New("snapshot write failed")

func TestAnnotateErrorNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, AnnotateError(nil, "key", "value"))
}

func TestAnnotateErrorUnwraps(t *testing.T) {
	t.Parallel()

	err := AnnotateError(errSnapshotWrite, "element", "sidebar")

	require.ErrorIs(t, err, errSnapshotWrite)
	assert.Equal(t, errSnapshotWrite.Error(), err.Error())
}

func TestAnnotateErrorSurvivesWrapping(t *testing.T) {
	t.Parallel()

	annotated := AnnotateError(errSnapshotWrite, "element", "sidebar")
	wrapped := fmt.Errorf("flush: %w", annotated)

	require.ErrorIs(t, wrapped, errSnapshotWrite)
}

func TestAnnotatedAttributesAppearInLogOutput(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Surface: "persist",
		Output:  &buf,
	})

	err := AnnotateError(errSnapshotWrite, "element", "sidebar", "key", "nav.sidebar")

	Get().Error("Write failed", "error", err)

	out := buf.String()
	assert.Contains(t, out, "element=sidebar")
	assert.Contains(t, out, "key=nav.sidebar")
	assert.Contains(t, out, "snapshot write failed")
}

func TestAnnotatedAttributesThroughWrapping(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Surface: "persist",
		Output:  &buf,
	})

	annotated := AnnotateError(errSnapshotWrite, "element", "sidebar")
	wrapped := fmt.Errorf("flush: %w", annotated)

	Get().Error("Write failed", "error", wrapped)

	assert.Contains(t, buf.String(), "element=sidebar")
}

func TestPlainErrorsPassThrough(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Surface: "persist",
		Output:  &buf,
	})

	Get().Error("Write failed", "error", errSnapshotWrite)

	assert.Contains(t, buf.String(), "snapshot write failed")
}

func TestErrorHandlerPreservesLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Surface:  "persist",
		MinLevel: slog.LevelWarn,
		Output:   &buf,
	})

	Get().Info("Below threshold", "error", AnnotateError(errSnapshotWrite))

	assert.Empty(t, buf.String())
}
