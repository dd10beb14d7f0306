// Package worker runs background maintenance alongside the API server.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"locator/config"
	"locator/internal/delivery"
	"locator/internal/domain/lifecycle"
	"locator/internal/usecase"

	"go.uber.org/fx"
)

type sweeper struct {
	interval  time.Duration
	logger    *slog.Logger
	sessionUC usecase.SessionUsecase

	stopOnce sync.Once
	done     chan struct{}
	stopped  chan struct{}
}

// ServerParams holds dependencies for the session sweeper
type ServerParams struct {
	fx.In

	Lc        fx.Lifecycle
	Cfg       *config.Config
	Logger    *slog.Logger
	SessionUC usecase.SessionUsecase
}

// NewServer creates the worker that evicts idle search sessions
func NewServer(params ServerParams) (delivery.Delivery, error) {
	params.Cfg.ApplyDefaults()

	srv := &sweeper{
		interval:  params.Cfg.Session.SweepInterval,
		logger:    params.Logger,
		sessionUC: params.SessionUC,
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// Serve sweeps idle sessions until ctx is cancelled or the worker is stopped
func (s *sweeper) Serve(ctx context.Context) error {
	defer close(s.stopped)

	s.logger.Info("Starting session sweeper", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-ticker.C:
			s.sessionUC.EvictIdleSessions(ctx)
		}
	}
}

// stop signals Serve to return and waits for it, bounded by the shutdown timeout
func (s *sweeper) stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.done) })

	s.logger.Info("Shutting down session sweeper")

	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	select {
	case <-s.stopped:
	case <-shutdownCtx.Done():
	}

	return nil
}
