package search

import (
	"sync"

	"github.com/google/uuid"
)

// Token identifies one issued search request generation.
type Token struct {
	id uuid.UUID
}

// Tracker issues request generation tokens so a slow earlier search cannot
// overwrite a more recent query's results. There is no hard cancellation;
// late results are simply discarded once superseded.
type Tracker struct {
	mu      sync.Mutex
	current uuid.UUID
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin issues a new token and makes it the latest generation.
func (t *Tracker) Begin() Token {
	id := uuid.New()
	t.mu.Lock()
	t.current = id
	t.mu.Unlock()
	return Token{id: id}
}

// IsCurrent reports whether the token still belongs to the latest issued
// generation.
func (t *Tracker) IsCurrent(token Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current == token.id
}
