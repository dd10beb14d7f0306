// Package api serves the ATM locator HTTP API.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"locator/config"
	"locator/internal/delivery"
	apimiddleware "locator/internal/delivery/api/middleware"
	"locator/internal/delivery/api/router"
	"locator/internal/delivery/api/validator"
	deliverycontext "locator/internal/delivery/context"
	"locator/internal/delivery/middleware"
	"locator/internal/domain/lifecycle"
	"locator/internal/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

// exposedHeaders lets browser clients read download names and request IDs.
var exposedHeaders = []string{
	echo.HeaderContentDisposition,
	deliverycontext.HeaderXRequestID,
}

type apiServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for HTTP server, injected by Fx.
type ServerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	RouterParams router.RouterParams
}

// NewServer builds the API server and registers its shutdown hook.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	params.Cfg.ApplyDefaults()

	srv := &apiServer{
		cfg:    params.Cfg,
		logger: params.Logger,
		server: newEcho(params.Cfg),
	}
	srv.useMiddleware()

	srv.server.HTTPErrorHandler = apimiddleware.NewErrorMiddleware(params.Logger).HandleHTTPError
	srv.server.Validator = validator.New()

	router.NewRouter(params.RouterParams).RegisterRoutes(srv.server)

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

func newEcho(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.HTTP.Timeouts.ReadTimeout
	e.Server.ReadHeaderTimeout = cfg.HTTP.Timeouts.ReadHeaderTimeout
	e.Server.WriteTimeout = cfg.HTTP.Timeouts.WriteTimeout
	e.Server.IdleTimeout = cfg.HTTP.Timeouts.IdleTimeout

	return e
}

// useMiddleware installs the global chain. Order matters: recovery wraps
// everything and the request ID has to exist before the access log runs.
func (s *apiServer) useMiddleware() {
	s.server.Use(echomiddleware.Recover())
	s.server.Use(middleware.NewRequestIDMiddleware(s.logger).Process)
	s.server.Use(middleware.NewLoggerMiddleware(s.logger, s.cfg).Handle)
	s.server.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		ExposeHeaders: exposedHeaders,
	}))
	// Uploads are capped again per file by the handler; this bounds the whole body.
	s.server.Use(echomiddleware.BodyLimit(s.cfg.HTTP.MaxRequestBodySize))
}

func (s *apiServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting API HTTP server", slog.String("host_port", hostPort))

	h2Server := &http2.Server{
		IdleTimeout: s.cfg.HTTP.Timeouts.IdleTimeout,
	}
	if err := s.server.StartH2CServer(hostPort, h2Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *apiServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down API HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
