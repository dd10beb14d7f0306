package response

import (
	"mime"
	"net/http"

	deliverycontext "locator/internal/delivery/context"
	domainerrors "locator/internal/domain/errors"
	"locator/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func meta(c echo.Context) *domainerrors.MetaInfo {
	m := &domainerrors.MetaInfo{RequestID: deliverycontext.GetRequestID(c)}
	if id, ok := deliverycontext.GetSessionID(c); ok {
		m.SessionID = id.String()
	}

	return m
}

// Success returns a successful response
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, domainerrors.SuccessResponse{
		Data: data,
		Meta: meta(c),
	})
}

// Error returns an error response. Details are dropped for 5xx responses.
func Error(c echo.Context, statusCode int, errorCode string, message string, details any) error {
	if statusCode >= http.StatusInternalServerError {
		details = nil
	}

	return c.JSON(statusCode, domainerrors.ErrorResponse{
		Error: &domainerrors.ErrorInfo{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
		Meta: meta(c),
	})
}

// BadRequest returns a 400 error
func BadRequest(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

// InternalServerError returns a 500 error
func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, nil)
}

// Attachment streams a rendered export as a file download.
func Attachment(c echo.Context, file *usecase.ExportFile) error {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": file.FileName})
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)

	return c.Blob(http.StatusOK, file.ContentType, file.Content)
}

// HandleAppError converts domain errors to their HTTP response; anything else
// is returned for the central error handler.
func HandleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
