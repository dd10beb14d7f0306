package usecase

import (
	"context"

	"locator/internal/domain/entity"
	"locator/internal/domain/service"
)

// RadiusSearcher finds records within a radius of a postal code.
type RadiusSearcher interface {
	// Search returns matches nearest first. An empty result is not an error.
	Search(ctx context.Context, resolver service.CoordinateResolver, dataset *entity.Dataset, targetPostalCode string, radiusMiles float64) (*entity.SearchResult, error)
}

// SearchOptions describes the radius choices offered to clients.
type SearchOptions struct {
	RadiusOptions      []float64 `json:"radius_options"`
	DefaultRadiusMiles float64   `json:"default_radius_miles"`
	MaxRadiusMiles     float64   `json:"max_radius_miles"`
}
