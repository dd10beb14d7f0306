// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"locator/config"
	"locator/internal/delivery/api/middleware"
	"locator/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	SessionHandler    *handler.SessionHandler
	SessionMiddleware *middleware.SessionMiddleware
	Config            *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	sessionHandler    *handler.SessionHandler
	sessionMiddleware *middleware.SessionMiddleware
	config            *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		sessionHandler:    params.SessionHandler,
		sessionMiddleware: params.SessionMiddleware,
		config:            params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	apiV1 := e.Group("/api/v1")
	apiV1.GET("/search/options", r.sessionHandler.SearchOptions)
	apiV1.POST("/sessions", r.sessionHandler.CreateSession)

	// Session scoped routes
	sessionGroup := apiV1.Group("/sessions/:" + middleware.SessionParam)
	sessionGroup.Use(r.sessionMiddleware.Process)
	{
		sessionGroup.DELETE("", r.sessionHandler.DeleteSession)

		sessionGroup.POST("/dataset", r.sessionHandler.UploadDataset)
		sessionGroup.GET("/dataset", r.sessionHandler.GetDataset)

		sessionGroup.GET("/search", r.sessionHandler.Search)
		sessionGroup.GET("/search/export", r.sessionHandler.ExportSearch)
		sessionGroup.GET("/invalid/export", r.sessionHandler.ExportInvalid)
	}
}
