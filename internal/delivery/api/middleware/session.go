package middleware

import (
	"log/slog"

	"locator/internal/delivery/api/response"
	deliverycontext "locator/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionParam is the route parameter holding the search session ID.
const SessionParam = "sessionId"

// SessionMiddleware parses the session path parameter and tags the request
// logger with it.
type SessionMiddleware struct {
	logger *slog.Logger
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(logger *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{logger: logger}
}

// Process rejects malformed session IDs before they reach a handler.
func (m *SessionMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID, err := uuid.Parse(c.Param(SessionParam))
		if err != nil {
			return response.BadRequest(c, "INVALID_SESSION_ID", "Session ID must be a UUID")
		}

		deliverycontext.SetSessionID(c, sessionID)
		deliverycontext.AddLoggerAttrs(c, m.logger, slog.String("session_id", sessionID.String()))

		return next(c)
	}
}

// GetSessionID returns the session ID parsed by SessionMiddleware.
func GetSessionID(c echo.Context) (uuid.UUID, bool) {
	return deliverycontext.GetSessionID(c)
}
