package service

import (
	"context"

	"locator/internal/domain/entity"
)

// Geocoder performs a single external postal-code lookup.
// Implementations return an error for every kind of failure (non-2xx status,
// timeout, malformed body); callers decide how failures degrade.
type Geocoder interface {
	// Lookup resolves a canonical postal code within a country ("us").
	Lookup(ctx context.Context, country, postalCode string) (entity.Coordinate, error)
}
