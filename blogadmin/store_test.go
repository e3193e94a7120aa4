package blogadmin

import (
	"context"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/ui-common/modal"
	"github.com/storefront-labs/ui-common/persist"
)

func TestEditPostCarriesDraftState(t *testing.T) {
	t.Parallel()

	store := NewStore(WithLogger(slogt.New(t)))
	ctx := context.Background()

	store.MarkDraftDirty("post-7")
	store.EditPost(ctx, "post-7")

	state := store.Modals().State()
	assert.Equal(t, modal.TypeEdit, state.Type)
	assert.Equal(t, "post-7", state.ID)
	assert.True(t, state.IsDirty)
}

func TestCloseModalKeepsDirtyDraft(t *testing.T) {
	t.Parallel()

	store := NewStore(WithLogger(slogt.New(t)))
	ctx := context.Background()

	store.EditPost(ctx, "post-1")
	store.MarkDraftDirty("post-1")
	store.CloseModal(ctx)

	assert.Equal(t, modal.TypeNone, store.Modals().State().Type)
	assert.True(t, store.HasDirtyDraft("post-1"))
}

func TestMarkDraftDirtyRefreshesOpenModal(t *testing.T) {
	t.Parallel()

	store := NewStore(WithLogger(slogt.New(t)))
	ctx := context.Background()

	var last modal.State

	store.Modals().Subscribe(func(s modal.State) {
		last = s
	})

	store.EditPost(ctx, "post-3")
	require.False(t, last.IsDirty)

	store.MarkDraftDirty("post-3")
	assert.True(t, last.IsDirty, "subscribers observe the refreshed dirty flag")
}

func TestClearDraft(t *testing.T) {
	t.Parallel()

	store := NewStore(WithLogger(slogt.New(t)))

	store.MarkDraftDirty("post-1")
	store.MarkDraftDirty("post-2")
	store.ClearDraft("post-1")

	assert.False(t, store.HasDirtyDraft("post-1"))
	assert.Equal(t, []string{"post-2"}, store.DirtyDrafts())
}

func TestNewPost(t *testing.T) {
	t.Parallel()

	store := NewStore(WithLogger(slogt.New(t)))

	store.NewPost(context.Background())

	state := store.Modals().State()
	assert.Equal(t, modal.TypeCreate, state.Type)
	assert.Equal(t, EntityPost, state.EntityType)
}

func TestDeletePostCascade(t *testing.T) {
	t.Parallel()

	store := NewStore(WithLogger(slogt.New(t)))

	store.DeletePost(context.Background(), "post-9", true)

	state := store.Modals().State()
	assert.Equal(t, modal.TypeDelete, state.Type)
	assert.True(t, state.CascadeDelete)
}

func TestPrefsPersistedAndRestored(t *testing.T) {
	t.Parallel()

	sink := persist.NewMemory()
	store := NewStore(
		WithLogger(slogt.New(t)),
		WithPersistence(sink, time.Millisecond),
	)

	store.UpdatePrefs(func(p *EditorPrefs) {
		p.PreviewPane = true
		p.AutoSave = false
	})

	require.Eventually(t, func() bool {
		_, ok := sink.Get(KeyEditorPrefs)

		return ok
	}, time.Second, time.Millisecond)

	restored := NewStore(
		WithLogger(slogt.New(t)),
		WithPersistence(sink, time.Millisecond),
	)

	prefs := restored.Prefs()
	assert.True(t, prefs.PreviewPane)
	assert.False(t, prefs.AutoSave)
	assert.True(t, prefs.SpellCheck, "untouched settings keep their defaults")
}

func TestPrefsVersionMismatchFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	sink := persist.NewMemory()
	require.NoError(t, persist.Save(sink, KeyEditorPrefs, PrefsVersion+1, EditorPrefs{PreviewPane: true}))

	store := NewStore(
		WithLogger(slogt.New(t)),
		WithPersistence(sink, time.Millisecond),
	)

	assert.Equal(t, DefaultEditorPrefs(), store.Prefs())
}

func TestCloseFlushesPrefs(t *testing.T) {
	t.Parallel()

	sink := persist.NewMemory()
	store := NewStore(
		WithLogger(slogt.New(t)),
		WithPersistence(sink, time.Hour),
	)

	store.UpdatePrefs(func(p *EditorPrefs) {
		p.PreviewPane = true
	})
	store.Close()

	_, ok := sink.Get(KeyEditorPrefs)
	assert.True(t, ok)
}
