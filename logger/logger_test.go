package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLoggingWithOptionsText(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Surface:  "nav",
		MinLevel: slog.LevelDebug,
		Output:   &buf,
	})

	Get().Info("Sidebar collapsed")

	out := buf.String()
	assert.Contains(t, out, "Sidebar collapsed")
	assert.Contains(t, out, "surface=nav")
}

func TestGetCarriesSessionID(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Surface: "nav",
		Output:  &buf,
	})

	ctx := WithSessionID(context.Background(), "sess-123")

	Get(ctx).Info("Menu opened")

	assert.Contains(t, buf.String(), "session_id=sess-123")
}

func TestSurfaceOverride(t *testing.T) {
	ctx := WithSurface(context.Background(), "modal")
	assert.Equal(t, "modal", GetSurface(ctx))
}

func TestMutedContextSuppressesOutput(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Surface: "nav",
		Output:  &buf,
	})

	ctx := WithMuted(context.Background(), true)

	Get(ctx).Info("Animation progress")

	assert.Empty(t, buf.String())
}

func TestWithValues(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Surface: "nav",
		Output:  &buf,
	})

	ctx := With(context.Background(), "element", "mobile_menu")

	Get(ctx).Info("Menu opened")

	assert.Contains(t, buf.String(), "element=mobile_menu")
}

func TestGetWithNilContext(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Surface: "nav",
		Output:  &buf,
	})

	require.NotPanics(t, func() {
		Get(nil).Info("No context")
	})

	assert.Contains(t, buf.String(), "No context")
}

func TestConfigureLoggingJSON(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLogging("nav", WithJSON(), WithOutput(&buf), WithMinLevel(slog.LevelInfo))

	Get().Info("Dropdown opened")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{"), "JSON handler emits objects")
	assert.Contains(t, out, `"surface":"nav"`)
}
