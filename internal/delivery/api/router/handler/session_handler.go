package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"locator/config"
	"locator/internal/delivery/api/middleware"
	"locator/internal/delivery/api/response"
	"locator/internal/delivery/api/validator"
	domainerrors "locator/internal/domain/errors"
	"locator/internal/usecase"
	"locator/internal/util"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// uploadField is the multipart field carrying the spreadsheet.
const uploadField = "file"

// SessionHandlerParams holds dependencies for SessionHandler, injected by Fx.
type SessionHandlerParams struct {
	fx.In

	SessionUC usecase.SessionUsecase
	Config    *config.Config
	Logger    *slog.Logger
}

// SessionHandler serves search sessions: upload, search and export.
type SessionHandler struct {
	sessionUC usecase.SessionUsecase
	config    *config.Config
	logger    *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler
func NewSessionHandler(params SessionHandlerParams) *SessionHandler {
	params.Config.ApplyDefaults()

	return &SessionHandler{
		sessionUC: params.SessionUC,
		config:    params.Config,
		logger:    params.Logger,
	}
}

// SearchRequest represents the query of a radius search
type SearchRequest struct {
	Zip    string  `query:"zip" validate:"required,len=5,number"`
	Radius float64 `query:"radius" validate:"gt=0"`
	Format string  `query:"format" validate:"omitempty,oneof=xlsx csv"`
}

// ExportRequest represents the query of an invalid-records export
type ExportRequest struct {
	Format string `query:"format" validate:"omitempty,oneof=xlsx csv"`
}

// CreateSessionResponse is returned when a session is opened
type CreateSessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
}

// CreateSession opens a new search session
func (h *SessionHandler) CreateSession(c echo.Context) error {
	session, err := h.sessionUC.CreateSession(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, CreateSessionResponse{SessionID: session.ID})
}

// DeleteSession closes a session and drops its data
func (h *SessionHandler) DeleteSession(c echo.Context) error {
	sessionID, _ := middleware.GetSessionID(c)

	if err := h.sessionUC.DeleteSession(c.Request().Context(), sessionID); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadDataset loads a spreadsheet into the session
func (h *SessionHandler) UploadDataset(c echo.Context) error {
	sessionID, _ := middleware.GetSessionID(c)

	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		return response.BadRequest(c, "MISSING_FILE", "Multipart field 'file' is required")
	}

	limit := h.config.Upload.MaxFileBytes
	if fileHeader.Size > limit {
		return response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Uploaded file is too large", map[string]string{
			"size":  util.FormatBytes(fileHeader.Size),
			"limit": util.FormatBytes(limit),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.HandleAppError(c, domainerrors.ErrUnreadableFile)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return response.HandleAppError(c, domainerrors.ErrUnreadableFile)
	}

	// Geocoding is paced, so a large dataset can outlive the server's write
	// timeout. Writers that cannot lift the deadline keep it.
	_ = http.NewResponseController(c.Response()).SetWriteDeadline(time.Time{})

	summary, err := h.sessionUC.LoadDataset(c.Request().Context(), sessionID, &usecase.UploadInput{
		FileName: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, summary)
}

// GetDataset returns the summary of the loaded dataset
func (h *SessionHandler) GetDataset(c echo.Context) error {
	sessionID, _ := middleware.GetSessionID(c)

	summary, err := h.sessionUC.GetDatasetSummary(c.Request().Context(), sessionID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, summary)
}

// Search runs a radius search
func (h *SessionHandler) Search(c echo.Context) error {
	sessionID, _ := middleware.GetSessionID(c)

	input, err := h.bindSearch(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	result, err := h.sessionUC.Search(c.Request().Context(), sessionID, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}

// ExportSearch downloads a radius search as xlsx or csv
func (h *SessionHandler) ExportSearch(c echo.Context) error {
	sessionID, _ := middleware.GetSessionID(c)

	input, err := h.bindSearch(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	file, err := h.sessionUC.ExportSearch(c.Request().Context(), sessionID, input, c.QueryParam("format"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Attachment(c, file)
}

// ExportInvalid downloads the records rejected for their zip code
func (h *SessionHandler) ExportInvalid(c echo.Context) error {
	sessionID, _ := middleware.GetSessionID(c)

	req := ExportRequest{Format: c.QueryParam("format")}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, domainerrors.ErrValidationFailed.WithDetails(validator.Details(err)))
	}

	file, err := h.sessionUC.ExportInvalid(c.Request().Context(), sessionID, req.Format)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Attachment(c, file)
}

// SearchOptions returns the radius choices and limits
func (h *SessionHandler) SearchOptions(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.sessionUC.SearchOptions())
}

// bindSearch reads and validates the search query. Radius falls back to the
// configured default when omitted.
func (h *SessionHandler) bindSearch(c echo.Context) (*usecase.SearchInput, error) {
	req := SearchRequest{Radius: h.config.Search.DefaultRadiusMiles}
	err := echo.QueryParamsBinder(c).
		String("zip", &req.Zip).
		Float64("radius", &req.Radius).
		String("format", &req.Format).
		BindError()
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(map[string]string{"query": err.Error()})
	}
	req.Zip = strings.TrimSpace(req.Zip)

	if err := c.Validate(&req); err != nil {
		details := validator.Details(err)
		if _, badZip := details["zip"]; badZip {
			return nil, domainerrors.ErrInvalidTargetCode.WithDetails(map[string]string{"zip": req.Zip})
		}

		return nil, domainerrors.ErrValidationFailed.WithDetails(details)
	}

	if req.Radius > h.config.Search.MaxRadiusMiles {
		return nil, domainerrors.ErrValidationFailed.WithDetails(map[string]string{
			"radius": "lte=" + util.FormatMiles(h.config.Search.MaxRadiusMiles),
		})
	}

	return &usecase.SearchInput{PostalCode: req.Zip, RadiusMiles: req.Radius}, nil
}
