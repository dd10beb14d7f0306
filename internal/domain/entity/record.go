package entity

import "encoding/json"

// Canonical column names produced by the dataset loader.
const (
	ColumnTerminal        = "terminal"
	ColumnLocation        = "location"
	ColumnAddress         = "address"
	ColumnCity            = "city"
	ColumnState           = "state"
	ColumnZip             = "zip"
	ColumnZipShort        = "zip_short"
	ColumnLatitude        = "latitude"
	ColumnLongitude       = "longitude"
	ColumnDistanceMiles   = "distance_miles"
	ColumnZipIssue        = "zip_issue"
	ColumnMake            = "make"
	ColumnModel           = "model"
	ColumnAvgTransactions = "avg_transactions"
	ColumnAvgCash         = "avg_cash_dispensed"
	ColumnPermanentOrTemp = "permanent_or_temp"
	ColumnInsideOrOutside = "inside_or_outside"
)

// Record is one ATM terminal row after ingestion.
type Record struct {
	Index         int               `json:"index"`                 // Zero-based ingestion order, used as the stable tie-breaker.
	Terminal      string            `json:"terminal"`              // Terminal identifier.
	Location      string            `json:"location"`              // Location name or description.
	Address       string            `json:"address"`               // Street address.
	City          string            `json:"city"`                  // City name.
	State         string            `json:"state"`                 // State abbreviation.
	RawPostalCode string            `json:"raw_postal_code"`       // Postal value exactly as ingested.
	PostalCode    string            `json:"postal_code,omitempty"` // Canonical 5-digit code, empty when invalid.
	Padded        bool              `json:"padded,omitempty"`      // Canonical code was produced by zero padding a short value.
	Coordinate    Coordinate        `json:"-"`                     // Resolved coordinate, Absent when resolution failed.
	Diagnosis     *PostalDiagnosis  `json:"diagnosis,omitempty"`   // Set only for invalid records.
	Fields        map[string]string `json:"fields"`                // Every ingested column keyed by canonical name.
}

// Searchable reports whether the record can ever appear in a radius search.
func (r *Record) Searchable() bool {
	return r.PostalCode != "" && r.Coordinate.Valid
}

// Field returns the ingested value for a canonical column name.
func (r *Record) Field(name string) (string, bool) {
	v, ok := r.Fields[name]

	return v, ok
}

// MarshalJSON adds latitude and longitude when the coordinate was resolved.
func (r Record) MarshalJSON() ([]byte, error) {
	type record Record
	out := struct {
		record
		Latitude  *float64 `json:"latitude,omitempty"`
		Longitude *float64 `json:"longitude,omitempty"`
	}{record: record(r)}
	if r.Coordinate.Valid {
		lat, lng := r.Coordinate.Lat(), r.Coordinate.Lng()
		out.Latitude, out.Longitude = &lat, &lng
	}

	return json.Marshal(out)
}
