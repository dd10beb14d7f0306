// Package context carries request-scoped values (request id, session id and
// a logger tagged with both) between the HTTP layer and the use cases.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// KeyRequestID is the key for storing request ID in context.
	KeyRequestID ContextKey = "request_id"

	// KeySessionID is the key for storing the search session ID.
	KeySessionID ContextKey = "session_id"

	// KeyLogger is the key for storing request-scoped logger in context.
	KeyLogger ContextKey = "logger"

	// HeaderXRequestID is the HTTP header name for request ID.
	HeaderXRequestID = "X-Request-Id"
)

// GetRequestID returns the request ID stored by the request ID middleware,
// or a fresh UUID when the middleware did not run.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(KeyRequestID)).(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}

// SetRequestID sets the request ID in echo.Context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// GetSessionID returns the search session of the current route, if any.
func GetSessionID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(string(KeySessionID)).(uuid.UUID)

	return id, ok
}

// SetSessionID stores the search session of the current route.
func SetSessionID(c echo.Context, sessionID uuid.UUID) {
	c.Set(string(KeySessionID), sessionID)
}

// WithRequestID returns a new context with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetRequestIDFromContext returns "" when no request ID was set.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)

	return id
}

// WithLogger returns a new context with the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}

// GetLoggerOrDefault returns the request-scoped logger, or fallback outside a request.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

// AddLoggerAttrs tags the request-scoped logger with more attributes and
// stores it back on the request.
func AddLoggerAttrs(c echo.Context, fallback *slog.Logger, attrs ...any) {
	req := c.Request()
	logger := GetLoggerOrDefault(req.Context(), fallback).With(attrs...)
	c.SetRequest(req.WithContext(WithLogger(req.Context(), logger)))
}
