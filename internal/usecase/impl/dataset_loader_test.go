package impl

import (
	"context"
	"testing"

	"locator/internal/domain/entity"
	domainerrors "locator/internal/domain/errors"
	"locator/internal/infra/spatial"
	mocksvc "locator/internal/mocks/service"
	"locator/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadInput(columns []string, rows ...[]string) *usecase.LoadInput {
	return &usecase.LoadInput{
		FileName: "atms.csv",
		Checksum: "abc",
		Table:    &entity.Table{Columns: columns, Rows: rows},
	}
}

func TestDatasetLoader_MissingRequiredColumns(t *testing.T) {
	loader := NewDatasetLoader(nil, newDiscardLogger())
	resolver := mocksvc.NewMockCoordinateResolver(t)

	_, err := loader.Load(context.Background(), resolver, loadInput(
		[]string{"Terminal", "Location", "Address", "ST", "Zip"},
		[]string{"T1", "Mall", "1 Main", "NY", "10001"},
	))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrMissingRequiredColumns))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	details, ok := appErr.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"city"}, details["missing_columns"])
}

func TestDatasetLoader_NoPostalColumn(t *testing.T) {
	loader := NewDatasetLoader(nil, newDiscardLogger())
	resolver := mocksvc.NewMockCoordinateResolver(t)

	_, err := loader.Load(context.Background(), resolver, loadInput(
		[]string{"terminal", "location", "address", "city", "state", "zip long"},
		[]string{"T1", "Mall", "1 Main", "New York", "NY", "100011234"},
	))

	assert.True(t, errors.Is(err, domainerrors.ErrNoPostalColumn))
}

func TestDatasetLoader_PartitionsAndResolves(t *testing.T) {
	nyc := entity.NewCoordinate(40.7506, -73.9972)
	holtsville := entity.NewCoordinate(40.8154, -73.0451)

	resolver := newMapResolver(t, map[string]entity.Coordinate{
		"10001": nyc,
		"00501": holtsville,
	})
	loader := NewDatasetLoader(spatial.NewRTreeIndexer(), newDiscardLogger())

	ds, err := loader.Load(context.Background(), resolver, loadInput(
		[]string{" Terminal ", "LOCATION", "Address", "City", "ST", "Zip", "Zip Short", "Make", "Notes"},
		[]string{"T1", "Mall", "1 Main", "New York", "ny", "ignored", "10001-1234", "NCR", "a"},
		[]string{"T2", "Deli", "2 Main", "Holtsville", "NY", "", "501", "Diebold", "b"},
		[]string{"T3", "Gas", "3 Main", "Nowhere", "NJ", "", "", "NCR", "c"},
		[]string{"T4", "Bank", "4 Main", "Newark", "NJ", "", "abc", "NCR", "d"},
		[]string{"T5", "Bar", "5 Main", "Trenton", "NJ", "", "08", "NCR", "e"},
		[]string{"T6", "Cafe", "6 Main", "Hoboken", "NJ", "", "1234567", "NCR", "f"},
		[]string{"T7", "Shop", "7 Main", "New York", "NY", "", "100010000", "NCR", "g"},
	))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"terminal", "location", "address", "city", "state", "zip", "zip_short", "make", "notes"},
		ds.Columns)

	// Valid: T1, T2, T5 (padded, unresolved), T7
	require.Len(t, ds.Valid, 4)
	assert.Equal(t, []string{"10001", "00501", "00008", "10001"},
		[]string{ds.Valid[0].PostalCode, ds.Valid[1].PostalCode, ds.Valid[2].PostalCode, ds.Valid[3].PostalCode})
	assert.Equal(t, nyc, ds.Valid[0].Coordinate)
	assert.Equal(t, holtsville, ds.Valid[1].Coordinate)
	assert.True(t, ds.Valid[2].Coordinate.IsAbsent())
	assert.True(t, ds.Valid[1].Padded)
	assert.Equal(t, "10001", ds.Valid[0].Fields[entity.ColumnZip])
	assert.Equal(t, "10001-1234", ds.Valid[0].RawPostalCode)
	assert.Equal(t, "a", ds.Valid[0].Fields["notes"])
	assert.Equal(t, 6, ds.Valid[3].Index)

	// Invalid: T3 missing, T4 no digits, T6 unusual length
	require.Len(t, ds.Invalid, 3)
	assert.Equal(t, entity.PostalIssueMissingOrEmpty, ds.Invalid[0].Diagnosis.Issue)
	assert.Equal(t, entity.PostalIssueNoDigits, ds.Invalid[1].Diagnosis.Issue)
	assert.Equal(t, entity.PostalIssueUnusualLength, ds.Invalid[2].Diagnosis.Issue)
	assert.Empty(t, ds.Invalid[0].PostalCode)

	s := ds.Summary
	assert.Equal(t, "zip_short", s.PostalSource)
	assert.Equal(t, "atms.csv", s.FileName)
	assert.Equal(t, 7, s.TotalRecords)
	assert.Equal(t, 4, s.ValidRecords)
	assert.Equal(t, 3, s.InvalidRecords)
	assert.Equal(t, 2, s.PaddedRecords)
	assert.Equal(t, 3, s.DistinctPostal)
	assert.Equal(t, []string{"00008"}, s.UnresolvedPostal)
	assert.InDelta(t, 75.0, s.CoordinateCoverage, 1e-9)
	assert.Equal(t, 2, s.StatesCovered)
	assert.Equal(t, "geocoder", s.CoordinatesFrom)
	assert.Equal(t, map[string]int{
		"Missing/Empty zip code":        1,
		"No digits in zip code":         1,
		"Unusual zip length (7 digits)": 1,
	}, s.IssueCounts)

	require.NotNil(t, ds.Index)
	assert.Equal(t, 3, ds.Index.Len())
}

func TestDatasetLoader_ZipFallbackAndSingleResolveBatch(t *testing.T) {
	resolver := newMapResolver(t, map[string]entity.Coordinate{
		"10001": entity.NewCoordinate(40.7506, -73.9972),
		"90210": entity.NewCoordinate(34.0901, -118.4065),
	})
	loader := NewDatasetLoader(nil, newDiscardLogger())

	ds, err := loader.Load(context.Background(), resolver, loadInput(
		[]string{"terminal", "location", "address", "city", "state", "zip"},
		[]string{"T1", "A", "1", "NYC", "NY", "10001"},
		[]string{"T2", "B", "2", "NYC", "NY", "10001"},
		[]string{"T3", "C", "3", "LA", "CA", "90210"},
	))
	require.NoError(t, err)

	assert.Equal(t, "zip", ds.Summary.PostalSource)
	assert.Equal(t, 2, ds.Summary.DistinctPostal)
	assert.Empty(t, ds.Summary.UnresolvedPostal)
	assert.InDelta(t, 100.0, ds.Summary.CoordinateCoverage, 1e-9)
	assert.Nil(t, ds.Index)
	resolver.AssertNumberOfCalls(t, "ResolveAll", 1)
}

func TestDatasetLoader_CoordinatesFromTable(t *testing.T) {
	// No resolver expectations: geocoding must not happen.
	resolver := mocksvc.NewMockCoordinateResolver(t)
	loader := NewDatasetLoader(spatial.NewRTreeIndexer(), newDiscardLogger())

	ds, err := loader.Load(context.Background(), resolver, loadInput(
		[]string{"terminal", "location", "address", "city", "state", "zip", "latitude", "longitude"},
		[]string{"T1", "A", "1", "NYC", "NY", "10001", "40.75", "-73.99"},
		[]string{"T2", "B", "2", "NYC", "NY", "10001", "", ""},
		[]string{"T3", "C", "3", "LA", "CA", "90210", "north", "-118.4"},
	))
	require.NoError(t, err)

	assert.Equal(t, "table", ds.Summary.CoordinatesFrom)
	assert.False(t, ds.Valid[0].Coordinate.IsAbsent())
	assert.InDelta(t, 40.75, ds.Valid[0].Coordinate.Lat(), 1e-9)
	assert.True(t, ds.Valid[1].Coordinate.IsAbsent())
	assert.True(t, ds.Valid[2].Coordinate.IsAbsent())
	assert.Equal(t, []string{"90210"}, ds.Summary.UnresolvedPostal)
	assert.Equal(t, 1, ds.Index.Len())
}

func TestDatasetLoader_CancelledContext(t *testing.T) {
	resolver := newMapResolver(t, nil)
	loader := NewDatasetLoader(nil, newDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, resolver, loadInput(
		[]string{"terminal", "location", "address", "city", "state", "zip"},
		[]string{"T1", "A", "1", "NYC", "NY", "10001"},
	))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMapColumns(t *testing.T) {
	layout := mapColumns([]string{
		"Customer Code",
		"St",
		"state",
		"",
		"Permanent or Tenmp (Perm 1, Temp 0)",
		"avg_cash_dispensed",
		"Inside or Outside ( 1 Inside, 0 Outside)",
	})

	assert.Equal(t, []string{
		"customer_code",
		"state",
		"unnamed_3",
		"permanent_or_temp",
		"avg_cash_dispensed",
		"inside_or_outside",
	}, layout.names)
	assert.Equal(t, 1, layout.position["state"], "first duplicate wins")
	assert.Equal(t, []string{"terminal", "location", "address", "city"}, layout.missing(requiredColumns))
}
