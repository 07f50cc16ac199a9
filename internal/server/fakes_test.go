package server

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/persona-studio/internal/db"
	"github.com/jonathan/persona-studio/internal/llm"
	"github.com/jonathan/persona-studio/internal/pipeline"
	"github.com/jonathan/persona-studio/internal/types"
)

const onePersona = `[
  {"id":"p1","name":"Anna Lee","age":30,"occupation":"Designer","demographics":"Urban",
   "goals":["g"],"challenges":["c"],"motivations":["m"],"communicationChannels":["LinkedIn"],
   "detailedDescription":"d","googleAds":[{"headline1":"h1","headline2":"h2","description1":"d1"}],
   "socialMediaAdText":"Buy now",
   "imagePrompts":{"storyboard":["a1","a2","a3"],"socialMediaAd":"a-social"}}
]`

type fakeText struct {
	mu       sync.Mutex
	response string
	err      error
	fn       func(ctx context.Context) (string, error)
	prompts  []string
}

func (f *fakeText) GenerateStructured(ctx context.Context, prompt string, _ llm.ExtractionSchema, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
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

func (f *fakeText) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeExporter struct {
	err   error
	calls int
}

func (f *fakeExporter) ExportPersona(_ context.Context, p types.Persona, w io.Writer) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if _, err := w.Write([]byte("%PDF-1.4 " + p.Name)); err != nil {
		return "", err
	}
	return "persona_anna_lee.pdf", nil
}

// dbStore adds listing and deletion to the in-memory store.
type dbStore struct {
	*pipeline.MemoryStore
	mu      sync.Mutex
	deleted []uuid.UUID
	empty   bool
}

func (s *dbStore) ListSubmissions(_ context.Context, limit int) ([]db.SubmissionSummary, error) {
	if s.empty {
		return nil, nil
	}
	return []db.SubmissionSummary{{ID: uuid.New(), CompanyName: "Acme", Status: types.StatusCompleted, PersonaCount: limit}}, nil
}

func (s *dbStore) DeleteSubmission(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return nil
}
