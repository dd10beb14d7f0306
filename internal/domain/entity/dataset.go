package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// SpatialIndex narrows a dataset's valid records to those whose coordinates
// fall inside a bounding box. Returned values are indexes into Dataset.Valid.
type SpatialIndex interface {
	Search(bound orb.Bound) []int
	Len() int
}

// Dataset is the immutable result of loading one spreadsheet.
type Dataset struct {
	ID       uuid.UUID    `json:"id"`
	Columns  []string     `json:"columns"` // Canonical column names in ingestion order.
	Valid    []Record     `json:"-"`
	Invalid  []Record     `json:"-"`
	Summary  LoadSummary  `json:"summary"`
	LoadedAt time.Time    `json:"loaded_at"`
	Index    SpatialIndex `json:"-"` // Optional prefilter over Valid; nil means full scan.
}

// LoadSummary holds the counts reported to the caller after a load.
type LoadSummary struct {
	FileName           string         `json:"file_name,omitempty"`
	Checksum           string         `json:"checksum,omitempty"`
	PostalSource       string         `json:"postal_source"`
	TotalRecords       int            `json:"total_records"`
	ValidRecords       int            `json:"valid_records"`
	InvalidRecords     int            `json:"invalid_records"`
	IssueCounts        map[string]int `json:"issue_counts,omitempty"`
	PaddedRecords      int            `json:"padded_records"`
	DistinctPostal     int            `json:"distinct_postal_codes"`
	UnresolvedPostal   []string       `json:"unresolved_postal_codes"`
	CoordinateCoverage float64        `json:"coordinate_coverage_percent"`
	StatesCovered      int            `json:"states_covered"`
	CoordinatesFrom    string         `json:"coordinates_from"` // "geocoder" or "table".
	Duration           string         `json:"duration,omitempty"`
}
