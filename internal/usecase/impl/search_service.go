package impl

import (
	"context"
	"log/slog"
	"math"
	"sort"

	deliverycontext "locator/internal/delivery/context"
	"locator/internal/domain/distance"
	"locator/internal/domain/entity"
	domainerrors "locator/internal/domain/errors"
	"locator/internal/domain/postal"
	"locator/internal/domain/service"
	"locator/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// boundPadding widens the prefilter box so records on the circle's edge are
// always candidates.
const boundPadding = 1.05

// radiusSearcher implements the RadiusSearcher interface.
type radiusSearcher struct {
	logger *slog.Logger
}

// NewRadiusSearcher is the constructor for radiusSearcher.
func NewRadiusSearcher(logger *slog.Logger) usecase.RadiusSearcher {
	return &radiusSearcher{logger: logger}
}

func (srv *radiusSearcher) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

type scoredRecord struct {
	position int
	miles    float64
}

// Search finds valid records within radiusMiles of the target postal code.
func (srv *radiusSearcher) Search(
	ctx context.Context,
	resolver service.CoordinateResolver,
	dataset *entity.Dataset,
	targetPostalCode string,
	radiusMiles float64,
) (*entity.SearchResult, error) {
	// 1. Validate target
	if !postal.IsCanonical(targetPostalCode) {
		return nil, domainerrors.ErrInvalidTargetCode.WithDetails(map[string]any{"zip": targetPostalCode})
	}

	// 2. Resolve target
	origin := resolver.Resolve(ctx, targetPostalCode)
	if origin.IsAbsent() {
		return nil, domainerrors.ErrUnresolvableTarget.WithDetails(map[string]any{"zip": targetPostalCode})
	}

	result := &entity.SearchResult{
		TargetPostalCode: targetPostalCode,
		TargetLatitude:   origin.Lat(),
		TargetLongitude:  origin.Lng(),
		RadiusMiles:      radiusMiles,
		Matches:          []entity.SearchMatch{},
	}
	if math.IsNaN(radiusMiles) || radiusMiles < 0 {
		return result, nil
	}

	// 3-4. Exact distance on candidates, keep those inside the radius
	candidates := candidatePositions(dataset, origin.Point, radiusMiles)
	scored := make([]scoredRecord, 0, len(candidates))
	for _, pos := range candidates {
		rec := &dataset.Valid[pos]
		if !rec.Searchable() {
			continue
		}

		miles := distance.MilesBetween(origin.Point, rec.Coordinate.Point)
		if miles <= radiusMiles {
			scored = append(scored, scoredRecord{position: pos, miles: miles})
		}
	}

	// 5. Nearest first; candidates are in ingestion order so ties keep it
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].miles < scored[j].miles
	})

	// 6. Rounded view
	for _, s := range scored {
		result.Matches = append(result.Matches, entity.SearchMatch{
			Record:        dataset.Valid[s.position],
			DistanceMiles: distance.Round2(s.miles),
		})
	}

	srv.log(ctx).Debug("Radius search",
		slog.String("zip", targetPostalCode),
		slog.Float64("radius_miles", radiusMiles),
		slog.Int("candidates", len(candidates)),
		slog.Int("matches", len(result.Matches)),
	)

	return result, nil
}

// candidatePositions narrows Valid to records near origin using the dataset's
// spatial index, in ascending position order.
func candidatePositions(dataset *entity.Dataset, origin orb.Point, radiusMiles float64) []int {
	if dataset.Index != nil {
		meters := radiusMiles / distance.EarthRadiusMiles * orb.EarthRadius * boundPadding
		bound := geo.NewBoundAroundPoint(origin, meters)
		if usableBound(bound) {
			return dataset.Index.Search(bound)
		}
	}

	all := make([]int, len(dataset.Valid))
	for i := range all {
		all[i] = i
	}

	return all
}

// usableBound rejects boxes that wrap the antimeridian, reach a pole, or came
// out non-finite.
func usableBound(b orb.Bound) bool {
	for _, v := range []float64{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if b.Max.Lat() >= 90 || b.Min.Lat() <= -90 {
		return false
	}

	return b.Min.Lon() <= b.Max.Lon() && b.Min.Lat() <= b.Max.Lat()
}
