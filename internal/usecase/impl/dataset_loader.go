package impl

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	deliverycontext "locator/internal/delivery/context"
	"locator/internal/domain/entity"
	domainerrors "locator/internal/domain/errors"
	"locator/internal/domain/postal"
	"locator/internal/domain/service"
	"locator/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	coordinatesFromGeocoder = "geocoder"
	coordinatesFromTable    = "table"
)

// datasetLoader implements the DatasetLoader interface.
type datasetLoader struct {
	indexer service.SpatialIndexer
	logger  *slog.Logger
}

// NewDatasetLoader is the constructor for datasetLoader. indexer may be nil,
// in which case searches scan every record.
func NewDatasetLoader(indexer service.SpatialIndexer, logger *slog.Logger) usecase.DatasetLoader {
	return &datasetLoader{
		indexer: indexer,
		logger:  logger,
	}
}

func (srv *datasetLoader) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Load builds a Dataset from a raw table.
func (srv *datasetLoader) Load(ctx context.Context, resolver service.CoordinateResolver, input *usecase.LoadInput) (*entity.Dataset, error) {
	start := time.Now()
	table := input.Table

	// 1. Map headers onto canonical names
	layout := mapColumns(table.Columns)

	// 2. Required columns
	if missing := layout.missing(requiredColumns); len(missing) > 0 {
		return nil, domainerrors.ErrMissingRequiredColumns.WithDetails(map[string]any{
			"missing_columns": missing,
			"found_columns":   layout.names,
		})
	}

	// 3. Postal source column
	source := entity.ColumnZipShort
	if !layout.has(source) {
		source = entity.ColumnZip
	}
	if !layout.has(source) {
		return nil, errors.WithStack(domainerrors.ErrNoPostalColumn)
	}

	// 4. Normalize and partition
	ds := &entity.Dataset{
		ID:       uuid.New(),
		Columns:  layout.names,
		Valid:    make([]entity.Record, 0, len(table.Rows)),
		Invalid:  []entity.Record{},
		LoadedAt: start,
	}
	if !layout.has(entity.ColumnZip) {
		ds.Columns = append(ds.Columns, entity.ColumnZip)
	}

	summary := entity.LoadSummary{
		FileName:     input.FileName,
		Checksum:     input.Checksum,
		PostalSource: source,
		TotalRecords: len(table.Rows),
		IssueCounts:  map[string]int{},
	}

	for i := range table.Rows {
		rec := newRecord(table, layout, i, source)

		res := postal.Normalize(rec.RawPostalCode)
		if !res.Valid() {
			rec.Diagnosis = res.Diagnosis
			summary.IssueCounts[res.Diagnosis.String()]++
			ds.Invalid = append(ds.Invalid, rec)

			continue
		}

		rec.PostalCode = res.Code
		rec.Padded = res.Padded
		rec.Fields[entity.ColumnZip] = res.Code
		if res.Padded {
			summary.PaddedRecords++
		}
		ds.Valid = append(ds.Valid, rec)
	}

	// 5. Coordinates
	if layout.has(entity.ColumnLatitude) && layout.has(entity.ColumnLongitude) {
		summary.CoordinatesFrom = coordinatesFromTable
		summary.UnresolvedPostal = coordinatesFromColumns(ds.Valid)
	} else {
		summary.CoordinatesFrom = coordinatesFromGeocoder
		report := resolver.ResolveAll(ctx, postalCodes(ds.Valid))
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "dataset load cancelled")
		}
		for i := range ds.Valid {
			ds.Valid[i].Coordinate = report.Coordinates[ds.Valid[i].PostalCode]
		}
		summary.UnresolvedPostal = report.Unresolved

		srv.log(ctx).Debug("Resolved postal codes",
			slog.Int("distinct", len(report.Coordinates)),
			slog.Int("lookups", report.Lookups),
			slog.Int("cache_size", resolver.CacheSize()),
		)
	}

	// 6. Index and summary
	if srv.indexer != nil {
		ds.Index = srv.indexer.Build(ds.Valid)
	}
	fillSummary(&summary, ds)
	summary.Duration = time.Since(start).Round(time.Millisecond).String()
	ds.Summary = summary

	logger := srv.log(ctx)
	logger.Info("Dataset loaded",
		slog.String("file_name", summary.FileName),
		slog.String("postal_source", summary.PostalSource),
		slog.Int("valid", summary.ValidRecords),
		slog.Int("invalid", summary.InvalidRecords),
		slog.Int("distinct_postal_codes", summary.DistinctPostal),
		slog.String("duration", summary.Duration),
	)
	if n := len(summary.UnresolvedPostal); n > 0 {
		logger.Warn("Postal codes without coordinates", slog.Int("count", n))
	}

	return ds, nil
}

func newRecord(table *entity.Table, layout *columnLayout, row int, source string) entity.Record {
	fields := make(map[string]string, len(layout.names))
	for _, name := range layout.names {
		fields[name] = strings.TrimSpace(table.Cell(row, layout.position[name]))
	}

	return entity.Record{
		Index:         row,
		Terminal:      fields[entity.ColumnTerminal],
		Location:      fields[entity.ColumnLocation],
		Address:       fields[entity.ColumnAddress],
		City:          fields[entity.ColumnCity],
		State:         fields[entity.ColumnState],
		RawPostalCode: fields[source],
		Fields:        fields,
	}
}

// coordinatesFromColumns reads coordinates the table already carries and
// returns the distinct codes left without one.
func coordinatesFromColumns(records []entity.Record) []string {
	resolved := map[string]bool{}
	order := []string{}

	for i := range records {
		rec := &records[i]
		rec.Coordinate = entity.NewCoordinate(
			parseDegrees(rec.Fields[entity.ColumnLatitude]),
			parseDegrees(rec.Fields[entity.ColumnLongitude]),
		)

		if _, seen := resolved[rec.PostalCode]; !seen {
			order = append(order, rec.PostalCode)
		}
		resolved[rec.PostalCode] = resolved[rec.PostalCode] || !rec.Coordinate.IsAbsent()
	}

	unresolved := []string{}
	for _, code := range order {
		if !resolved[code] {
			unresolved = append(unresolved, code)
		}
	}

	return unresolved
}

func parseDegrees(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}

	return v
}

func postalCodes(records []entity.Record) []string {
	codes := make([]string, len(records))
	for i := range records {
		codes[i] = records[i].PostalCode
	}

	return codes
}

func fillSummary(summary *entity.LoadSummary, ds *entity.Dataset) {
	summary.ValidRecords = len(ds.Valid)
	summary.InvalidRecords = len(ds.Invalid)

	distinct := map[string]struct{}{}
	states := map[string]struct{}{}
	located := 0
	for i := range ds.Valid {
		rec := &ds.Valid[i]
		distinct[rec.PostalCode] = struct{}{}
		if st := strings.ToUpper(rec.State); st != "" {
			states[st] = struct{}{}
		}
		if rec.Searchable() {
			located++
		}
	}

	summary.DistinctPostal = len(distinct)
	summary.StatesCovered = len(states)
	if len(ds.Valid) > 0 {
		summary.CoordinateCoverage = math.Round(float64(located)/float64(len(ds.Valid))*10000) / 100
	}
}
