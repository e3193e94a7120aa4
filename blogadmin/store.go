// Package blogadmin is the blog administration feature store: it owns
// the admin area's modal slice, tracks which post drafts carry unsaved
// edits and keeps the editor preferences across sessions. It is the
// worked example of how a feature store composes the modal and persist
// packages.
package blogadmin

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/storefront-labs/ui-common/fsm"
	"github.com/storefront-labs/ui-common/modal"
	"github.com/storefront-labs/ui-common/persist"
)

// PrefsVersion is the schema version of the persisted editor
// preferences envelope.
const PrefsVersion = 1

// KeyEditorPrefs is the persistence key for the editor preferences.
const KeyEditorPrefs = "blogadmin.editor_prefs"

// EntityPost is the entity type carried by the create modal.
const EntityPost = "post"

// EditorPrefs are the persisted editor settings.
type EditorPrefs struct {
	AutoSave    bool `json:"auto_save"`
	PreviewPane bool `json:"preview_pane"`
	SpellCheck  bool `json:"spell_check"`
}

// DefaultEditorPrefs are the first-run editor settings.
func DefaultEditorPrefs() EditorPrefs {
	return EditorPrefs{AutoSave: true, SpellCheck: true}
}

// Store is the blog admin UI state.
type Store struct {
	mu     sync.Mutex
	drafts map[string]bool
	prefs  EditorPrefs

	modals     *modal.Slice
	supervisor *fsm.Machine
	logger     *slog.Logger
	writer     *persist.DebouncedWriter
	sink       persist.Store
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger overrides the store logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithPersistence attaches a persistence sink for the editor
// preferences, restored during NewStore and written back debounced.
func WithPersistence(sink persist.Store, delay time.Duration) StoreOption {
	return func(s *Store) {
		s.sink = sink
		s.writer = persist.NewDebouncedWriter(sink, delay)
	}
}

// NewStore builds the admin store with a supervised modal slice.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		drafts: make(map[string]bool),
		prefs:  DefaultEditorPrefs(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.supervisor = modal.NewSupervisor("blog_admin_modal")
	s.modals = modal.NewSlice("blog_admin",
		modal.WithSupervisor(s.supervisor),
		modal.WithLogger(s.logger),
	)

	s.restorePrefs()

	return s
}

// Modals returns the admin area's modal slice.
func (s *Store) Modals() *modal.Slice {
	return s.modals
}

// NewPost opens the create-post modal.
func (s *Store) NewPost(ctx context.Context) {
	s.modals.OpenCreate(ctx, EntityPost)
}

// EditPost opens the edit modal for a post. The dirty flag carried by
// the modal state reflects the tracked draft.
func (s *Store) EditPost(ctx context.Context, id string) {
	s.mu.Lock()
	dirty := s.drafts[id]
	s.mu.Unlock()

	s.modals.OpenEdit(ctx, id, dirty)
}

// DeletePost opens the delete-confirmation modal for a post.
func (s *Store) DeletePost(ctx context.Context, id string, cascade bool) {
	s.modals.OpenDelete(ctx, id, cascade)
}

// CloseModal closes whatever modal is open. A dirty edit survives as a
// tracked draft; closing is never destructive.
func (s *Store) CloseModal(ctx context.Context) {
	state := s.modals.State()
	if state.Type == modal.TypeEdit && state.IsDirty {
		s.MarkDraftDirty(state.ID)
	}

	s.modals.Close(ctx)
}

// MarkDraftDirty records unsaved edits for a post. If that post's edit
// modal is currently open, the modal state is refreshed so subscribers
// see the dirty flag.
func (s *Store) MarkDraftDirty(id string) {
	s.mu.Lock()
	s.drafts[id] = true
	s.mu.Unlock()

	state := s.modals.State()
	if state.Type == modal.TypeEdit && state.ID == id && !state.IsDirty {
		s.modals.OpenEdit(context.Background(), id, true)
	}
}

// ClearDraft forgets the unsaved edits of a post, after a save or an
// explicit discard.
func (s *Store) ClearDraft(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, id)
}

// DirtyDrafts returns the ids of posts with unsaved edits.
func (s *Store) DirtyDrafts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.drafts))
	for id := range s.drafts {
		out = append(out, id)
	}

	return out
}

// HasDirtyDraft reports whether a post has unsaved edits.
func (s *Store) HasDirtyDraft(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.drafts[id]
}

// Prefs returns the current editor preferences.
func (s *Store) Prefs() EditorPrefs {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.prefs
}

// UpdatePrefs applies fn to the editor preferences and schedules the
// debounced write-back.
func (s *Store) UpdatePrefs(fn func(*EditorPrefs)) {
	s.mu.Lock()
	fn(&s.prefs)
	prefs := s.prefs
	s.mu.Unlock()

	if s.writer == nil {
		return
	}

	payload, err := persist.Encode(PrefsVersion, prefs)
	if err != nil {
		s.logger.Warn("Editor preferences encode failed", "error", err)

		return
	}

	s.writer.Write(KeyEditorPrefs, payload)
}

// Close flushes pending preference writes.
func (s *Store) Close() {
	if s.writer != nil {
		s.writer.Close()
	}
}

func (s *Store) restorePrefs() {
	if s.sink == nil {
		return
	}

	var prefs EditorPrefs

	err := persist.Load(s.sink, KeyEditorPrefs, PrefsVersion, &prefs)
	if err != nil {
		// Missing or stale preferences fall back to the defaults.
		return
	}

	s.mu.Lock()
	s.prefs = prefs
	s.mu.Unlock()
}
