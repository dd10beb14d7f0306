// Package memory stores search sessions in process memory. Sessions hold
// uploaded data and coordinate caches and are dropped on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"locator/internal/domain/repository"
	"locator/internal/errors"
)

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*repository.Session
}

// NewSessionRepository creates an empty session store.
func NewSessionRepository() repository.SessionRepository {
	return &sessionRepository{
		sessions: make(map[uuid.UUID]*repository.Session),
	}
}

func (r *sessionRepository) CreateSession(_ context.Context, session *repository.Session, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit > 0 && len(r.sessions) >= limit {
		return errors.WithStack(repository.ErrSessionLimitReached)
	}
	if _, exists := r.sessions[session.ID]; exists {
		return errors.Errorf("session %s already exists", session.ID)
	}
	r.sessions[session.ID] = session

	return nil
}

func (r *sessionRepository) FindSessionByID(_ context.Context, id uuid.UUID) (*repository.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, errors.WithStack(repository.ErrSessionNotFound)
	}

	return session, nil
}

func (r *sessionRepository) DeleteSession(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return errors.WithStack(repository.ErrSessionNotFound)
	}
	delete(r.sessions, id)

	return nil
}

func (r *sessionRepository) DeleteIdleSessions(_ context.Context, cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if session.LastActive().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}

	return removed
}

func (r *sessionRepository) CountSessions(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
