package usecase

import (
	"context"

	"locator/internal/domain/entity"
	"locator/internal/domain/service"
)

// LoadInput is a decoded spreadsheet plus the upload metadata reported back
// in the load summary.
type LoadInput struct {
	FileName string
	Checksum string
	Table    *entity.Table
}

// DatasetLoader turns a raw table into a searchable dataset.
type DatasetLoader interface {
	// Load maps headers, partitions rows by postal code validity and resolves
	// coordinates through the session's resolver. Only missing columns fail.
	Load(ctx context.Context, resolver service.CoordinateResolver, input *LoadInput) (*entity.Dataset, error)
}
