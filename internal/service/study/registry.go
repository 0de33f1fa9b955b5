package study

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Registry keeps at most one live session per deck.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// Start starts a new session for the deck through svc and registers it.
//
// A deck whose current session is still in progress, or was saved with
// failed writes, is not restarted: ErrSessionInProgress is returned instead.
func (r *Registry) Start(ctx context.Context, svc Service, deckID uuid.UUID, mode Mode) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[deckID]; ok && isBusy(current) {
		return nil, ErrSessionInProgress
	}

	session, err := svc.Startup(ctx, deckID, mode)
	if err != nil {
		return nil, err
	}
	r.sessions[deckID] = session
	return session, nil
}

// Get returns the registered session for the deck.
func (r *Registry) Get(deckID uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[deckID]
	return session, ok
}

// Remove forgets the deck's session.
func (r *Registry) Remove(deckID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, deckID)
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func isBusy(s *Session) bool {
	switch s.State() {
	case StateInProgress:
		return true
	case StateCompleted:
		return s.HasPendingChanges()
	default:
		return false
	}
}
