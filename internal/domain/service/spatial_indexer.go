package service

import "locator/internal/domain/entity"

// SpatialIndexer builds a bounding-box prefilter over resolved records.
// Records whose coordinate is Absent are left out of the index.
type SpatialIndexer interface {
	Build(records []entity.Record) entity.SpatialIndex
}
