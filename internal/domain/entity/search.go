package entity

// SearchMatch is a record within the requested radius.
type SearchMatch struct {
	Record        Record  `json:"record"`
	DistanceMiles float64 `json:"distance_miles"` // Rounded to 2 decimals.
}

// SearchResult is the ordered outcome of a radius search, nearest first.
type SearchResult struct {
	TargetPostalCode string        `json:"target_postal_code"`
	TargetLatitude   float64       `json:"target_latitude"`
	TargetLongitude  float64       `json:"target_longitude"`
	RadiusMiles      float64       `json:"radius_miles"`
	Matches          []SearchMatch `json:"matches"`
}

// Len returns the number of matches.
func (r *SearchResult) Len() int {
	return len(r.Matches)
}
