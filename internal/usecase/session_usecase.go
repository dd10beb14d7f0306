// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"locator/internal/domain/entity"
	"locator/internal/domain/repository"

	"github.com/google/uuid"
)

// UploadInput is a spreadsheet upload as received from a client.
type UploadInput struct {
	FileName string
	Data     []byte
}

// SearchInput identifies one radius search.
type SearchInput struct {
	PostalCode  string
	RadiusMiles float64
}

// ExportFile is a rendered download.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// SessionUsecase defines the operations available on a search session.
type SessionUsecase interface {
	CreateSession(ctx context.Context) (*repository.Session, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
	LoadDataset(ctx context.Context, sessionID uuid.UUID, input *UploadInput) (*entity.LoadSummary, error)
	GetDatasetSummary(ctx context.Context, sessionID uuid.UUID) (*entity.LoadSummary, error)
	Search(ctx context.Context, sessionID uuid.UUID, input *SearchInput) (*entity.SearchResult, error)
	ExportSearch(ctx context.Context, sessionID uuid.UUID, input *SearchInput, format string) (*ExportFile, error)
	ExportInvalid(ctx context.Context, sessionID uuid.UUID, format string) (*ExportFile, error)
	SearchOptions() *SearchOptions
	EvictIdleSessions(ctx context.Context) int
}
