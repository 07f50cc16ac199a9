package pipeline

import (
	"context"
	"sync"
)

// Tracker hands out generation numbers per session so that a newer submission supersedes
// every earlier one from the same session. Starting a generation cancels the context of the
// generation it replaces. Generations without a session never supersede each other.
// A session is only tracked while one of its generations is running.
type Tracker struct {
	mu      sync.Mutex
	next    uint64
	current map[string]*generation
}

type generation struct {
	number     uint64
	cancel     context.CancelFunc
	superseded bool
}

// Token identifies one generation of one session.
type Token struct {
	Session string
	Number  uint64
	gen     *generation
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{current: make(map[string]*generation)}
}

// Begin starts a new generation for session and returns its token and a context that is
// cancelled when a later generation of the session begins or Finish is called.
func (t *Tracker) Begin(ctx context.Context, session string) (Token, context.Context) {
	genCtx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	gen := &generation{number: t.next, cancel: cancel}
	token := Token{Session: session, Number: t.next, gen: gen}
	if session == "" {
		return token, genCtx
	}
	if prev, ok := t.current[session]; ok {
		prev.superseded = true
		prev.cancel()
	}
	t.current[session] = gen
	return token, genCtx
}

// IsCurrent reports whether no later generation of the token's session has begun.
// A finished generation stays current.
func (t *Tracker) IsCurrent(token Token) bool {
	if token.Session == "" || token.gen == nil {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return !token.gen.superseded
}

// Finish releases the generation's context and stops tracking its session if it is still
// the latest generation there.
func (t *Tracker) Finish(token Token) {
	if token.gen == nil {
		return
	}
	token.gen.cancel()

	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.current[token.Session]; ok && cur == token.gen {
		delete(t.current, token.Session)
	}
}
