package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/persona-studio/internal/llm"
)

type fakeText struct {
	mu       sync.Mutex
	response string
	err      error
	fn       func(ctx context.Context) (string, error)
	calls    int
	prompts  []string
}

func (f *fakeText) GenerateStructured(ctx context.Context, prompt string, _ llm.ExtractionSchema, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	fn := f.fn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return f.response, f.err
}

func (f *fakeText) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeText) Close() error                 { return nil }

func (f *fakeText) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// barrierImages releases image calls in batches of four, so a batch only completes when four
// calls are in flight at once.
type barrierImages struct {
	mu          sync.Mutex
	waiting     []chan struct{}
	inFlight    int
	maxInFlight int
	calls       int
	events      []string
	failPrompts map[string]bool
}

func newBarrierImages(fail ...string) *barrierImages {
	b := &barrierImages{failPrompts: make(map[string]bool)}
	for _, p := range fail {
		b.failPrompts[p] = true
	}
	return b
}

func (b *barrierImages) GenerateImage(ctx context.Context, prompt string, aspect llm.AspectRatio) (string, error) {
	b.mu.Lock()
	b.calls++
	b.inFlight++
	if b.inFlight > b.maxInFlight {
		b.maxInFlight = b.inFlight
	}
	b.events = append(b.events, "start:"+prompt)
	ch := make(chan struct{})
	b.waiting = append(b.waiting, ch)
	if len(b.waiting) == 4 {
		for _, w := range b.waiting {
			close(w)
		}
		b.waiting = nil
	}
	b.mu.Unlock()

	var err error
	select {
	case <-ch:
	case <-ctx.Done():
		err = ctx.Err()
	case <-time.After(2 * time.Second):
		err = errors.New("barrier timeout")
	}

	b.mu.Lock()
	b.inFlight--
	b.events = append(b.events, "end:"+prompt)
	b.mu.Unlock()

	if err != nil {
		return "", err
	}
	if b.failPrompts[prompt] {
		return "", errors.New("quota exceeded")
	}
	return "data:image/jpeg;base64," + strings.ReplaceAll(prompt, " ", "_") + "_" + string(aspect), nil
}

func (b *barrierImages) snapshot() (calls, maxInFlight int, events []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls, b.maxInFlight, append([]string(nil), b.events...)
}
