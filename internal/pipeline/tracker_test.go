package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_NewerGenerationSupersedes(t *testing.T) {
	tr := NewTracker()

	first, firstCtx := tr.Begin(context.Background(), "s")
	assert.True(t, tr.IsCurrent(first))

	second, secondCtx := tr.Begin(context.Background(), "s")
	assert.Greater(t, second.Number, first.Number)
	assert.False(t, tr.IsCurrent(first))
	assert.True(t, tr.IsCurrent(second))
	assert.ErrorIs(t, firstCtx.Err(), context.Canceled)
	assert.NoError(t, secondCtx.Err())

	tr.Finish(second)
	assert.ErrorIs(t, secondCtx.Err(), context.Canceled)
	assert.True(t, tr.IsCurrent(second), "finishing keeps the generation current")
	tr.Finish(first)
}

func TestTracker_SessionsAreIndependent(t *testing.T) {
	tr := NewTracker()

	a, aCtx := tr.Begin(context.Background(), "a")
	b, _ := tr.Begin(context.Background(), "b")
	assert.True(t, tr.IsCurrent(a))
	assert.True(t, tr.IsCurrent(b))
	assert.NoError(t, aCtx.Err())

	tr.Finish(a)
	tr.Finish(b)
}

func TestTracker_AnonymousGenerationsNeverStale(t *testing.T) {
	tr := NewTracker()

	first, firstCtx := tr.Begin(context.Background(), "")
	second, _ := tr.Begin(context.Background(), "")
	assert.True(t, tr.IsCurrent(first))
	assert.True(t, tr.IsCurrent(second))
	assert.NoError(t, firstCtx.Err())

	tr.Finish(first)
	tr.Finish(second)
}

func TestTracker_ParentCancellation(t *testing.T) {
	tr := NewTracker()
	parent, cancel := context.WithCancel(context.Background())

	token, ctx := tr.Begin(parent, "s")
	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.True(t, tr.IsCurrent(token))
	tr.Finish(token)
}

func tracked(tr *Tracker) int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return len(tr.current)
}

func TestTracker_FinishedSessionsAreReleased(t *testing.T) {
	tr := NewTracker()

	for _, session := range []string{"a", "b", "c"} {
		token, _ := tr.Begin(context.Background(), session)
		tr.Finish(token)
	}
	assert.Equal(t, 0, tracked(tr))

	// A superseded generation finishing late must not release its successor.
	first, _ := tr.Begin(context.Background(), "s")
	second, _ := tr.Begin(context.Background(), "s")
	tr.Finish(first)
	assert.Equal(t, 1, tracked(tr))
	assert.False(t, tr.IsCurrent(first))
	assert.True(t, tr.IsCurrent(second))

	tr.Finish(second)
	assert.Equal(t, 0, tracked(tr))
	assert.True(t, tr.IsCurrent(second))
}

func TestTracker_SupersededStaysStaleAfterSuccessorFinishes(t *testing.T) {
	tr := NewTracker()

	first, _ := tr.Begin(context.Background(), "s")
	second, _ := tr.Begin(context.Background(), "s")
	tr.Finish(second)

	assert.False(t, tr.IsCurrent(first), "the older result arrives after the newer one finished")
	tr.Finish(first)
	assert.Equal(t, 0, tracked(tr))
}
