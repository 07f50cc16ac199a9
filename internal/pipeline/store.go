package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/jonathan/persona-studio/internal/types"
)

// DefaultMemoryStoreSize is the number of submissions a MemoryStore keeps when no size is given.
const DefaultMemoryStoreSize = 256

// Store persists submissions. GetSubmission returns nil, nil when the submission does not exist.
type Store interface {
	SaveSubmission(ctx context.Context, s *types.Submission) error
	GetSubmission(ctx context.Context, id uuid.UUID) (*types.Submission, error)
}

// MemoryStore is a process-local Store used when no database is configured.
// It keeps only the latest generation of each session and at most size submissions overall,
// evicting the least recently used first.
type MemoryStore struct {
	mu          sync.Mutex
	submissions *simplelru.LRU[uuid.UUID, types.Submission]
	// latest maps a session key to the submission of its newest generation.
	latest map[string]uuid.UUID
}

// NewMemoryStore creates an empty MemoryStore holding up to size submissions.
// A size of zero or less uses DefaultMemoryStoreSize.
func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = DefaultMemoryStoreSize
	}
	m := &MemoryStore{latest: make(map[string]uuid.UUID)}
	submissions, err := simplelru.NewLRU[uuid.UUID, types.Submission](size, m.evicted)
	if err != nil {
		// only returned for a non-positive size
		panic(fmt.Sprintf("pipeline: memory store: %v", err))
	}
	m.submissions = submissions
	return m
}

// SaveSubmission stores a copy of s, replacing any earlier version. Saving a newer generation
// of a session discards the session's previous submission; saving an older one is a no-op.
func (m *MemoryStore) SaveSubmission(_ context.Context, s *types.Submission) error {
	cp := *s
	cp.Personas = append([]types.Persona(nil), s.Personas...)

	m.mu.Lock()
	defer m.mu.Unlock()

	if s.SessionKey != "" {
		if prevID, ok := m.latest[s.SessionKey]; ok && prevID != s.ID {
			if prev, ok := m.submissions.Peek(prevID); ok && prev.Generation > s.Generation {
				return nil
			}
			m.submissions.Remove(prevID)
		}
		m.latest[s.SessionKey] = s.ID
	}
	m.submissions.Add(s.ID, cp)
	return nil
}

// GetSubmission returns a copy of the stored submission.
func (m *MemoryStore) GetSubmission(_ context.Context, id uuid.UUID) (*types.Submission, error) {
	m.mu.Lock()
	s, ok := m.submissions.Get(id)
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	s.Personas = append([]types.Persona(nil), s.Personas...)
	return &s, nil
}

// evicted runs with m.mu held, from inside Add or Remove.
func (m *MemoryStore) evicted(id uuid.UUID, s types.Submission) {
	if s.SessionKey != "" && m.latest[s.SessionKey] == id {
		delete(m.latest, s.SessionKey)
	}
}
