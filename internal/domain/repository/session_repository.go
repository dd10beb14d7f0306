// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"sync/atomic"
	"time"

	"locator/internal/domain/entity"
	"locator/internal/domain/service"
	"locator/internal/errors"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionLimitReached is returned when storing a session would exceed the limit.
	ErrSessionLimitReached = errors.New("session limit reached")
)

// Session is one operator's workspace: the loaded dataset and the coordinate
// cache that backs it. Nothing in a Session is shared with other sessions.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Resolver  service.CoordinateResolver

	dataset    atomic.Pointer[entity.Dataset]
	lastActive atomic.Int64
}

// NewSession creates a session owning the given resolver.
func NewSession(id uuid.UUID, resolver service.CoordinateResolver, now time.Time) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: now,
		Resolver:  resolver,
	}
	s.Touch(now)

	return s
}

// Dataset returns the current dataset, or nil before the first load.
func (s *Session) Dataset() *entity.Dataset {
	return s.dataset.Load()
}

// ReplaceDataset swaps in a freshly loaded dataset.
func (s *Session) ReplaceDataset(ds *entity.Dataset) {
	s.dataset.Store(ds)
}

// Touch records activity for idle eviction.
func (s *Session) Touch(now time.Time) {
	s.lastActive.Store(now.UnixNano())
}

// LastActive returns the time of the most recent Touch.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// SessionRepository stores live sessions for the lifetime of the process.
type SessionRepository interface {
	// CreateSession stores a new session unless limit sessions are already
	// live, in which case it returns ErrSessionLimitReached. A limit of zero
	// or less means unlimited.
	CreateSession(ctx context.Context, session *Session, limit int) error

	// FindSessionByID returns ErrSessionNotFound for unknown ids.
	FindSessionByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// DeleteSession removes a session; deleting an unknown id returns ErrSessionNotFound.
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// DeleteIdleSessions removes sessions inactive since before cutoff and returns how many.
	DeleteIdleSessions(ctx context.Context, cutoff time.Time) int

	// CountSessions returns the number of live sessions.
	CountSessions(ctx context.Context) int
}
