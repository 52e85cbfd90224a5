package presence

import (
	"sync"

	"github.com/cwrk-planet/board-service/internal/domain"
)

// Tracker keeps the last-known cursor per connected user. Updates overwrite
// unconditionally; there is no versioning and nothing is persisted.
type Tracker struct {
	mu      sync.RWMutex
	cursors map[string]domain.CursorState
}

func NewTracker() *Tracker {
	return &Tracker{cursors: make(map[string]domain.CursorState)}
}

func (t *Tracker) Update(userID string, c domain.CursorState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursors[userID] = c
}

func (t *Tracker) Get(userID string) (domain.CursorState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.cursors[userID]
	return c, ok
}

func (t *Tracker) Remove(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.cursors, userID)
}

func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.cursors)
}
