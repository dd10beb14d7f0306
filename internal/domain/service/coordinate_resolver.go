package service

import (
	"context"

	"locator/internal/domain/entity"
)

// ResolveReport summarizes a batch resolution over distinct postal codes.
type ResolveReport struct {
	Coordinates map[string]entity.Coordinate // One entry per distinct input code.
	Unresolved  []string                     // Codes that resolved Absent, in first-seen order.
	Lookups     int                          // External lookups issued (cache misses).
}

// CoordinateResolver maps canonical postal codes to coordinates with
// memoization. Failures are never returned as errors: they resolve to
// entity.AbsentCoordinate and are cached like successes.
type CoordinateResolver interface {
	// Resolve returns the cached coordinate for a code, looking it up on a miss.
	Resolve(ctx context.Context, postalCode string) entity.Coordinate

	// ResolveAll resolves each distinct code once, pacing external lookups.
	ResolveAll(ctx context.Context, postalCodes []string) ResolveReport

	// CacheSize returns the number of memoized codes, Absent ones included.
	CacheSize() int
}

// CoordinateResolverFactory creates resolvers with an empty, private cache.
// Each search session owns the resolver it gets.
type CoordinateResolverFactory interface {
	NewResolver() CoordinateResolver
}
