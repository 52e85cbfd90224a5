package session

import (
	"sync"

	"github.com/cwrk-planet/board-service/internal/domain"

	"github.com/google/uuid"
)

// Identity is what a live connection resolves to. It exists only for the
// lifetime of the connection and is never persisted.
type Identity struct {
	UserID   string
	UserName string
	Color    string
	RoomID   string
}

// Registry maps connection ids to identities, one entry per live connection.
// It is process-local; a multi-process deployment needs a shared store behind
// the same contract.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Identity
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Identity)}
}

// NewUserID mints a session-scoped user id.
func NewUserID() string {
	return uuid.New().String()
}

func (r *Registry) Register(connID string, id Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connID] = id
}

func (r *Registry) Lookup(connID string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.sessions[connID]
	if !ok {
		return Identity{}, domain.ErrSessionNotFound
	}
	return id, nil
}

// Remove deletes the session and returns the identity it held.
func (r *Registry) Remove(connID string) (Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.sessions[connID]
	if !ok {
		return Identity{}, domain.ErrSessionNotFound
	}
	delete(r.sessions, connID)
	return id, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
