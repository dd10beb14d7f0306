package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locator/internal/domain/repository"
	"locator/internal/errors"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	now := time.Now()

	session := repository.NewSession(uuid.New(), nil, now)
	require.NoError(t, repo.CreateSession(ctx, session, 0))
	assert.Error(t, repo.CreateSession(ctx, session, 0), "duplicate id")
	assert.Equal(t, 1, repo.CountSessions(ctx))

	found, err := repo.FindSessionByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Same(t, session, found)

	require.NoError(t, repo.DeleteSession(ctx, session.ID))
	assert.Equal(t, 0, repo.CountSessions(ctx))

	_, err = repo.FindSessionByID(ctx, session.ID)
	assert.True(t, errors.Is(err, repository.ErrSessionNotFound))

	err = repo.DeleteSession(ctx, session.ID)
	assert.True(t, errors.Is(err, repository.ErrSessionNotFound))
}

func TestSessionRepository_DeleteIdleSessions(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	now := time.Now()

	stale := repository.NewSession(uuid.New(), nil, now.Add(-3*time.Hour))
	fresh := repository.NewSession(uuid.New(), nil, now.Add(-time.Minute))
	touched := repository.NewSession(uuid.New(), nil, now.Add(-5*time.Hour))
	touched.Touch(now)

	for _, s := range []*repository.Session{stale, fresh, touched} {
		require.NoError(t, repo.CreateSession(ctx, s, 0))
	}

	removed := repo.DeleteIdleSessions(ctx, now.Add(-2*time.Hour))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, repo.CountSessions(ctx))

	_, err := repo.FindSessionByID(ctx, stale.ID)
	assert.True(t, errors.Is(err, repository.ErrSessionNotFound))
}

func TestSessionRepository_CreateSessionLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	now := time.Now()

	require.NoError(t, repo.CreateSession(ctx, repository.NewSession(uuid.New(), nil, now), 1))
	err := repo.CreateSession(ctx, repository.NewSession(uuid.New(), nil, now), 1)
	assert.True(t, errors.Is(err, repository.ErrSessionLimitReached))
	assert.Equal(t, 1, repo.CountSessions(ctx))
}

func TestSessionRepository_ConcurrentCreateRespectsLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	now := time.Now()

	const limit = 3
	var (
		wg       sync.WaitGroup
		created  atomic.Int64
		rejected atomic.Int64
	)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.CreateSession(ctx, repository.NewSession(uuid.New(), nil, now), limit)
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, repository.ErrSessionLimitReached):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), created.Load())
	assert.Equal(t, int64(32-limit), rejected.Load())
	assert.Equal(t, limit, repo.CountSessions(ctx))
}
