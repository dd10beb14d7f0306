// Package impl contains the application-specific business rules implementations.
package impl

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"locator/config"
	deliverycontext "locator/internal/delivery/context"
	"locator/internal/domain/entity"
	domainerrors "locator/internal/domain/errors"
	"locator/internal/domain/repository"
	"locator/internal/domain/service"
	"locator/internal/usecase"
	"locator/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// SessionServiceParams holds the dependencies of sessionService.
type SessionServiceParams struct {
	fx.In

	SessionRepo     repository.SessionRepository
	ResolverFactory service.CoordinateResolverFactory
	TableReader     service.TableReader
	TableWriter     service.TableWriter
	Loader          usecase.DatasetLoader
	Searcher        usecase.RadiusSearcher
	Config          *config.Config
	Logger          *slog.Logger
}

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	sessionRepo     repository.SessionRepository
	resolverFactory service.CoordinateResolverFactory
	reader          service.TableReader
	writer          service.TableWriter
	loader          usecase.DatasetLoader
	searcher        usecase.RadiusSearcher
	config          *config.Config
	logger          *slog.Logger
	now             func() time.Time
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	params.Config.ApplyDefaults()

	return &sessionService{
		sessionRepo:     params.SessionRepo,
		resolverFactory: params.ResolverFactory,
		reader:          params.TableReader,
		writer:          params.TableWriter,
		loader:          params.Loader,
		searcher:        params.Searcher,
		config:          params.Config,
		logger:          params.Logger,
		now:             time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateSession opens a session with an empty dataset and coordinate cache.
func (srv *sessionService) CreateSession(ctx context.Context) (*repository.Session, error) {
	srv.EvictIdleSessions(ctx)

	limit := srv.config.Session.MaxSessions
	session := repository.NewSession(uuid.New(), srv.resolverFactory.NewResolver(), srv.now())
	if err := srv.sessionRepo.CreateSession(ctx, session, limit); err != nil {
		if errors.Is(err, repository.ErrSessionLimitReached) {
			return nil, domainerrors.ErrSessionLimitExceeded.WithDetails(map[string]any{
				"max_sessions": limit,
			})
		}
		return nil, errors.Wrap(err, "failed to create session")
	}

	srv.log(ctx).Info("Session created",
		slog.String("session_id", session.ID.String()),
		slog.Int("live_sessions", srv.sessionRepo.CountSessions(ctx)),
	)

	return session, nil
}

// DeleteSession drops a session together with its dataset and cache.
func (srv *sessionService) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	session, err := srv.findSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := srv.sessionRepo.DeleteSession(ctx, sessionID); err != nil {
		return srv.mapSessionError(err)
	}

	srv.log(ctx).Info("Session deleted",
		slog.String("session_id", sessionID.String()),
		slog.String("age", util.FormatDuration(srv.now().Sub(session.CreatedAt))),
	)

	return nil
}

// LoadDataset decodes an upload and replaces the session's dataset.
func (srv *sessionService) LoadDataset(ctx context.Context, sessionID uuid.UUID, input *usecase.UploadInput) (*entity.LoadSummary, error) {
	session, err := srv.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// 1. Decode the spreadsheet
	format, ok := service.TableFormatFromFilename(input.FileName)
	if !ok {
		return nil, domainerrors.ErrUnsupportedFileFormat.WithDetails(map[string]any{
			"file_name": input.FileName,
			"accepted":  []string{".xlsx", ".csv", ".dbf"},
		})
	}

	table, err := srv.reader.Read(format, bytes.NewReader(input.Data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", input.FileName)
	}

	// 2. Build the dataset with this session's resolver
	dataset, err := srv.loader.Load(ctx, session.Resolver, &usecase.LoadInput{
		FileName: input.FileName,
		Checksum: util.ChecksumBytes(input.Data),
		Table:    table,
	})
	if err != nil {
		return nil, err
	}

	// 3. Swap it in
	session.ReplaceDataset(dataset)

	return &dataset.Summary, nil
}

// GetDatasetSummary returns the summary of the loaded dataset.
func (srv *sessionService) GetDatasetSummary(ctx context.Context, sessionID uuid.UUID) (*entity.LoadSummary, error) {
	_, dataset, err := srv.findDataset(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &dataset.Summary, nil
}

// Search runs a radius search over the session's dataset.
func (srv *sessionService) Search(ctx context.Context, sessionID uuid.UUID, input *usecase.SearchInput) (*entity.SearchResult, error) {
	session, dataset, err := srv.findDataset(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return srv.searcher.Search(ctx, session.Resolver, dataset, input.PostalCode, input.RadiusMiles)
}

// ExportSearch renders a search result as a download.
func (srv *sessionService) ExportSearch(ctx context.Context, sessionID uuid.UUID, input *usecase.SearchInput, format string) (*usecase.ExportFile, error) {
	tableFormat, err := parseExportFormat(format)
	if err != nil {
		return nil, err
	}

	session, dataset, err := srv.findDataset(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := srv.searcher.Search(ctx, session.Resolver, dataset, input.PostalCode, input.RadiusMiles)
	if err != nil {
		return nil, err
	}

	return srv.render(tableFormat, searchResultsSheet, searchExportName(input.PostalCode, input.RadiusMiles, tableFormat),
		searchResultTable(dataset.Columns, result))
}

// ExportInvalid renders the rejected records as a download.
func (srv *sessionService) ExportInvalid(ctx context.Context, sessionID uuid.UUID, format string) (*usecase.ExportFile, error) {
	tableFormat, err := parseExportFormat(format)
	if err != nil {
		return nil, err
	}

	_, dataset, err := srv.findDataset(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(dataset.Invalid) == 0 {
		return nil, errors.WithStack(domainerrors.ErrNoInvalidRecords)
	}

	return srv.render(tableFormat, invalidRecordsSheet, invalidExportName(tableFormat), invalidRecordTable(dataset))
}

// SearchOptions returns the configured radius choices.
func (srv *sessionService) SearchOptions() *usecase.SearchOptions {
	cfg := srv.config.Search

	return &usecase.SearchOptions{
		RadiusOptions:      cfg.RadiusOptions,
		DefaultRadiusMiles: cfg.DefaultRadiusMiles,
		MaxRadiusMiles:     cfg.MaxRadiusMiles,
	}
}

// EvictIdleSessions removes sessions idle for longer than the configured TTL.
func (srv *sessionService) EvictIdleSessions(ctx context.Context) int {
	removed := srv.sessionRepo.DeleteIdleSessions(ctx, srv.idleCutoff())
	if removed > 0 {
		srv.log(ctx).Info("Evicted idle sessions", slog.Int("count", removed))
	}

	return removed
}

func (srv *sessionService) idleCutoff() time.Time {
	return srv.now().Add(-srv.config.Session.IdleTTL)
}

// findSession loads a live session and records activity on it.
func (srv *sessionService) findSession(ctx context.Context, sessionID uuid.UUID) (*repository.Session, error) {
	session, err := srv.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, srv.mapSessionError(err)
	}

	if session.LastActive().Before(srv.idleCutoff()) {
		_ = srv.sessionRepo.DeleteSession(ctx, sessionID)

		return nil, errors.Wrap(domainerrors.ErrSessionNotFound, "session expired")
	}
	session.Touch(srv.now())

	return session, nil
}

func (srv *sessionService) findDataset(ctx context.Context, sessionID uuid.UUID) (*repository.Session, *entity.Dataset, error) {
	session, err := srv.findSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	dataset := session.Dataset()
	if dataset == nil {
		return nil, nil, errors.WithStack(domainerrors.ErrDatasetNotLoaded)
	}

	return session, dataset, nil
}

func (srv *sessionService) mapSessionError(err error) error {
	if errors.Is(err, repository.ErrSessionNotFound) {
		return errors.Wrap(domainerrors.ErrSessionNotFound, err.Error())
	}

	return errors.Wrap(err, "session repository")
}

func (srv *sessionService) render(format service.TableFormat, sheet, fileName string, table *entity.Table) (*usecase.ExportFile, error) {
	var buf bytes.Buffer
	if err := srv.writer.Write(&buf, format, sheet, table); err != nil {
		return nil, errors.Wrapf(err, "failed to render %s", fileName)
	}

	return &usecase.ExportFile{
		FileName:    fileName,
		ContentType: contentTypes[format],
		Content:     buf.Bytes(),
	}, nil
}

func parseExportFormat(format string) (service.TableFormat, error) {
	tableFormat, ok := service.ParseExportFormat(format)
	if !ok {
		return "", domainerrors.ErrValidationFailed.WithDetails(map[string]any{
			"format":   format,
			"accepted": []string{"xlsx", "csv"},
		})
	}

	return tableFormat, nil
}
