package pipeline

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/persona-studio/internal/types"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	missing, err := store.GetSubmission(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	sub := &types.Submission{ID: uuid.New(), Status: types.StatusRunning, Personas: []types.Persona{{ID: "p1"}}}
	require.NoError(t, store.SaveSubmission(ctx, sub))

	sub.Status = types.StatusCompleted
	sub.Personas[0].ID = "mutated"

	got, err := store.GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusRunning, got.Status)
	assert.Equal(t, "p1", got.Personas[0].ID)
}

func TestMemoryStore_NewerGenerationReplacesSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	first := &types.Submission{ID: uuid.New(), SessionKey: "s", Generation: 1, Personas: []types.Persona{{ID: "p1"}}}
	other := &types.Submission{ID: uuid.New(), SessionKey: "t", Generation: 2}
	second := &types.Submission{ID: uuid.New(), SessionKey: "s", Generation: 3}
	for _, sub := range []*types.Submission{first, other, second} {
		require.NoError(t, store.SaveSubmission(ctx, sub))
	}

	got, err := store.GetSubmission(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "the older submission of the session is discarded")

	for _, id := range []uuid.UUID{other.ID, second.ID} {
		got, err := store.GetSubmission(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, got)
	}

	// A late save from the superseded generation does not bring it back.
	first.Status = types.StatusStale
	require.NoError(t, store.SaveSubmission(ctx, first))
	got, err = store.GetSubmission(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = store.GetSubmission(ctx, second.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2)

	a := &types.Submission{ID: uuid.New(), SessionKey: "a", Generation: 1}
	b := &types.Submission{ID: uuid.New(), SessionKey: "b", Generation: 2}
	c := &types.Submission{ID: uuid.New(), SessionKey: "c", Generation: 3}
	require.NoError(t, store.SaveSubmission(ctx, a))
	require.NoError(t, store.SaveSubmission(ctx, b))

	// Reading a makes b the eviction candidate.
	got, err := store.GetSubmission(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NoError(t, store.SaveSubmission(ctx, c))

	got, err = store.GetSubmission(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Len(t, store.latest, 2, "evicted sessions are forgotten")

	// An evicted session can start over.
	b2 := &types.Submission{ID: uuid.New(), SessionKey: "b", Generation: 4}
	require.NoError(t, store.SaveSubmission(ctx, b2))
	got, err = store.GetSubmission(ctx, b2.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
