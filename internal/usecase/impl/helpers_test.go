package impl

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"locator/config"
	"locator/internal/domain/distance"
	"locator/internal/domain/entity"
	"locator/internal/domain/service"
	mocksvc "locator/internal/mocks/service"

	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Session: &config.SessionConfig{MaxSessions: 2},
	}
	cfg.ApplyDefaults()

	return cfg
}

// northOf returns the coordinate exactly miles due north of origin.
func northOf(origin entity.Coordinate, miles float64) entity.Coordinate {
	deg := miles / distance.EarthRadiusMiles * 180 / math.Pi

	return entity.NewCoordinate(origin.Lat()+deg, origin.Lng())
}

// newMapResolver returns a resolver mock answering from coords; unknown codes
// resolve Absent.
func newMapResolver(t *testing.T, coords map[string]entity.Coordinate) *mocksvc.MockCoordinateResolver {
	t.Helper()

	resolver := mocksvc.NewMockCoordinateResolver(t)
	resolver.EXPECT().Resolve(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, code string) entity.Coordinate {
			return coords[code]
		}).Maybe()
	resolver.EXPECT().ResolveAll(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, codes []string) service.ResolveReport {
			report := service.ResolveReport{Coordinates: map[string]entity.Coordinate{}, Unresolved: []string{}}
			for _, code := range codes {
				if _, seen := report.Coordinates[code]; seen {
					continue
				}
				report.Coordinates[code] = coords[code]
				report.Lookups++
				if coords[code].IsAbsent() {
					report.Unresolved = append(report.Unresolved, code)
				}
			}
			return report
		}).Maybe()
	resolver.EXPECT().CacheSize().Return(len(coords)).Maybe()

	return resolver
}

type resolverFactoryFunc func() service.CoordinateResolver

func (f resolverFactoryFunc) NewResolver() service.CoordinateResolver {
	return f()
}
