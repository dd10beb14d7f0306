package geocoding

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"locator/config"
	"locator/internal/domain/entity"
	"locator/internal/domain/postal"
	"locator/internal/domain/service"
)

// progressEvery controls how often ResolveAll logs progress.
const progressEvery = 100

// Resolver is the per-session coordinate cache in front of a Geocoder.
// Every attempted lookup is memoized, failures included, so each distinct
// code reaches the external service at most once per session.
type Resolver struct {
	geocoder service.Geocoder
	country  string
	pacer    *Pacer
	logger   *slog.Logger

	mu      sync.RWMutex
	cache   map[string]entity.Coordinate
	group   singleflight.Group
	lookups atomic.Int64
}

var _ service.CoordinateResolver = (*Resolver)(nil)

// NewResolver creates a resolver with an empty cache and its own pacer.
func NewResolver(geocoder service.Geocoder, cfg *config.GeocodingConfig, logger *slog.Logger) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		country:  cfg.Country,
		pacer:    NewPacer(cfg.RequestsPerSecond, cfg.Burst),
		logger:   logger,
		cache:    make(map[string]entity.Coordinate),
	}
}

// Resolve returns the coordinate for a canonical postal code. Codes that are
// not canonical resolve Absent without a lookup and are not cached.
func (r *Resolver) Resolve(ctx context.Context, postalCode string) entity.Coordinate {
	if !postal.IsCanonical(postalCode) {
		return entity.AbsentCoordinate
	}
	if coord, ok := r.cached(postalCode); ok {
		return coord
	}

	if ctx.Err() != nil {
		return entity.AbsentCoordinate
	}

	// The shared lookup outlives any single caller; each caller stops waiting
	// on its own context and a cancelled wait is never cached.
	lookupCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(postalCode, func() (any, error) {
		if coord, ok := r.cached(postalCode); ok {
			return coord, nil
		}
		if err := r.pacer.Wait(lookupCtx); err != nil {
			return entity.AbsentCoordinate, err
		}

		r.lookups.Add(1)
		coord, err := r.geocoder.Lookup(lookupCtx, r.country, postalCode)
		if err != nil {
			r.logger.Debug("Postal code lookup failed",
				slog.String("postal_code", postalCode),
				slog.Any("error", err),
			)
			coord = entity.AbsentCoordinate
		}
		r.store(postalCode, coord)

		return coord, nil
	})

	select {
	case <-ctx.Done():
		return entity.AbsentCoordinate
	case res := <-ch:
		return res.Val.(entity.Coordinate)
	}
}

// ResolveAll resolves each distinct code once, in first-seen order.
func (r *Resolver) ResolveAll(ctx context.Context, postalCodes []string) service.ResolveReport {
	before := r.lookups.Load()
	distinct := distinctCodes(postalCodes)

	report := service.ResolveReport{
		Coordinates: make(map[string]entity.Coordinate, len(distinct)),
		Unresolved:  []string{},
	}

	for i, code := range distinct {
		coord := r.Resolve(ctx, code)
		report.Coordinates[code] = coord
		if coord.IsAbsent() {
			report.Unresolved = append(report.Unresolved, code)
		}

		if (i+1)%progressEvery == 0 {
			r.logger.Info("Resolving postal codes",
				slog.Int("done", i+1),
				slog.Int("total", len(distinct)),
			)
		}
	}
	report.Lookups = int(r.lookups.Load() - before)

	return report
}

// CacheSize returns the number of memoized codes.
func (r *Resolver) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.cache)
}

func (r *Resolver) cached(postalCode string) (entity.Coordinate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coord, ok := r.cache[postalCode]

	return coord, ok
}

func (r *Resolver) store(postalCode string, coord entity.Coordinate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache[postalCode] = coord
}

func distinctCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}

	return out
}

// ResolverFactory hands each new session a resolver with an empty cache.
type ResolverFactory struct {
	geocoder service.Geocoder
	cfg      *config.GeocodingConfig
	logger   *slog.Logger
}

// NewResolverFactory creates a factory sharing one Geocoder across sessions.
func NewResolverFactory(geocoder service.Geocoder, cfg *config.Config, logger *slog.Logger) service.CoordinateResolverFactory {
	return &ResolverFactory{
		geocoder: geocoder,
		cfg:      cfg.Geocoding,
		logger:   logger,
	}
}

// NewResolver implements service.CoordinateResolverFactory.
func (f *ResolverFactory) NewResolver() service.CoordinateResolver {
	return NewResolver(f.geocoder, f.cfg, f.logger)
}
