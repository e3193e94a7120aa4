// Package logger configures slog for the UI state layer and carries
// per-interaction logging context: the session id, the UI surface that
// triggered an action and a mute flag for high-frequency paths such as
// animation-progress updates.
package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/storefront-labs/ui-common/lazy"
	"github.com/storefront-labs/ui-common/shutdown"
)

// surface names the part of the UI currently generating logs. Stored
// as the process-wide default; override per-context with WithSurface.
var surface atomic.Value //nolint:gochecknoglobals

// configMutex serializes ConfigureLoggingWithOptions, which mutates
// global state (slog.SetDefault and log.Default).
var configMutex sync.Mutex //nolint:gochecknoglobals

// Unexported context key type avoids collisions with other packages.
type contextKey string

// Fatal logs an error message, runs the shutdown hooks and exits.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)

	shutdown.Shutdown()

	time.Sleep(time.Second)

	os.Exit(1)
}

// Options is used to configure logging.
type Options struct {
	Surface     string
	JSON        bool
	MinLevel    slog.Level
	LegacyLevel slog.Level
	Output      io.Writer
}

// Option is a functional option for ConfigureLogging.
type Option func(*Options)

// WithJSON switches the handler to JSON output.
func WithJSON() Option {
	return func(o *Options) {
		o.JSON = true
	}
}

// WithMinLevel sets the minimum level.
func WithMinLevel(level slog.Level) Option {
	return func(o *Options) {
		o.MinLevel = level
	}
}

// WithOutput redirects log output.
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
	}
}

// ConfigureLogging configures logging for the surface with defaults
// (text handler, info level, stdout) and returns the default logger.
func ConfigureLogging(surface string, opts ...Option) *slog.Logger {
	options := Options{
		Surface:     surface,
		MinLevel:    slog.LevelInfo,
		LegacyLevel: slog.LevelInfo,
	}

	for _, o := range opts {
		o(&options)
	}

	return ConfigureLoggingWithOptions(options)
}

// ConfigureLoggingWithOptions configures logging for the application
// and returns the default logger. Thread-safe; concurrent calls are
// serialized.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	var handler slog.Handler

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	} else {
		handler = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	}

	// Annotated errors (see AnnotateError) surface their attributes in
	// every record that carries them.
	handler = &slogErrorLogger{inner: handler}

	logger := slog.New(handler)

	slog.SetDefault(logger)

	// Redirect the legacy log package into slog for third-party code.
	// The old package has no levels, so one is picked for it.
	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	surface.Store(opts.Surface)

	return logger
}

// WithMuted adds a muted flag to the context. When muted, all logging
// through Get on this context is suppressed. Used on high-frequency
// paths like animation-progress self-transitions.
func WithMuted(ctx context.Context, muted bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("mute"), muted)
}

func isMuted(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	val := ctx.Value(contextKey("mute"))
	if val == nil {
		return false
	}

	muted, ok := val.(bool)

	return ok && muted
}

// WithSessionID adds a session id to the context. Every browser-tab
// analogue gets one at startup; it ties log lines to a recording
// session in the devtools export.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("session_id"), sessionID)
}

// GetSessionID returns the session id from the context, and whether
// one was set.
func GetSessionID(ctx context.Context) (string, bool) { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	sid := ctx.Value(contextKey("session_id"))
	if sid != nil {
		val, ok := sid.(string)
		if ok {
			return val, true
		}
	}

	return "", false
}

// WithSurface overrides the surface name for this context. Without an
// override the default surface set by ConfigureLogging is used.
func WithSurface(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("surface"), name)
}

// GetSurface returns the surface from the context, falling back to
// the configured default.
func GetSurface(ctx context.Context) string { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	sub := ctx.Value(contextKey("surface"))
	if sub != nil {
		val, ok := sub.(string)
		if ok {
			return val
		}
	}

	if def := surface.Load(); def != nil {
		if val, ok := def.(string); ok {
			return val
		}
	}

	return ""
}

// hostname is the machine name, resolved once.
// nolint:gochecknoglobals
var hostname = lazy.New[string](func() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	return h
})

// getRealContext extracts the first non-nil context from a variadic
// list, defaulting to context.Background().
func getRealContext(ctx ...context.Context) context.Context {
	var realCtx context.Context

	for _, c := range ctx {
		if c != nil {
			realCtx = c //nolint:fatcontext

			break
		}
	}

	if realCtx == nil {
		realCtx = context.Background()
	}

	return realCtx
}

// nullHandler discards all log output; it backs the muted feature.
type nullHandler struct{}

func (n *nullHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (n *nullHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (n *nullHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return n
}

func (n *nullHandler) WithGroup(_ string) slog.Handler {
	return n
}

var nullLogger = slog.New(&nullHandler{}) //nolint:gochecknoglobals

// Get returns a logger carrying the context's surface, session id and
// any values added via With. A muted context returns a logger that
// outputs nothing.
func Get(ctx ...context.Context) *slog.Logger {
	realCtx := getRealContext(ctx...)
	if isMuted(realCtx) {
		return nullLogger
	}

	logger := slog.Default().With(
		"surface", GetSurface(realCtx),
		"host", hostname.Get())

	sessionID, found := GetSessionID(realCtx)
	if found {
		logger = logger.With("session_id", sessionID)
	}

	vals := getValues(realCtx)
	if vals != nil {
		logger = logger.With(vals...)
	}

	return logger
}

// With returns a new context with the given key-value pairs added;
// they are attached to every logger returned by Get for this context.
func With(ctx context.Context, values ...any) context.Context {
	if len(values) == 0 && ctx != nil {
		return ctx
	}

	vals := append(getValues(ctx), values...)

	return context.WithValue(ctx, contextKey("loggerValues"), vals)
}

func getValues(ctx context.Context) []any { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	vals := ctx.Value(contextKey("loggerValues"))
	if vals != nil {
		val, ok := vals.([]any)
		if ok {
			return val
		}

		return nil
	}

	return nil
}
