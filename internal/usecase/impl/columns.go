package impl

import (
	"strconv"
	"strings"

	"locator/internal/domain/entity"
)

// columnSynonyms maps trimmed, lowercased spreadsheet headers onto canonical
// column names. Canonical names also map to themselves (see init) so an
// exported file can be uploaded again.
var columnSynonyms = map[string]string{
	"terminal":                            entity.ColumnTerminal,
	"customer code":                       "customer_code",
	"ownership":                           "ownership",
	"location":                            entity.ColumnLocation,
	"address":                             entity.ColumnAddress,
	"city":                                entity.ColumnCity,
	"st":                                  entity.ColumnState,
	"state":                               entity.ColumnState,
	"zip":                                 entity.ColumnZip,
	"zip long":                            "zip_long",
	"zip short":                           entity.ColumnZipShort,
	"dma code":                            "dma_code",
	"dma description":                     "dma_description",
	"make":                                entity.ColumnMake,
	"model":                               entity.ColumnModel,
	"parent chain business":               "parent_chain_business",
	"naics category":                      "naics_category",
	"naics sector":                        "naics_sector",
	"lob":                                 "lob",
	"cbm category":                        "cbm_category",
	"cbm level":                           "cbm_level",
	"avg transactions":                    entity.ColumnAvgTransactions,
	"avg cash dispensed":                  entity.ColumnAvgCash,
	"most recent month trx":               "most_recent_month_trx",
	"most recent month cd":                "most_recent_month_cd",
	"machine style code (3 digit code)":   "machine_style_code",
	"display surfaces code (lcr)":         "display_surfaces_code",
	"location type code (2 digits)":       "location_type_code",
	"permanent or tenmp (perm 1, temp 0)": entity.ColumnPermanentOrTemp,
	"inside or outside ( 1 inside, 0 outside)": entity.ColumnInsideOrOutside,
}

func init() {
	canonical := make([]string, 0, len(columnSynonyms))
	for _, name := range columnSynonyms {
		canonical = append(canonical, name)
	}
	for _, name := range canonical {
		columnSynonyms[name] = name
	}
}

var requiredColumns = []string{
	entity.ColumnTerminal,
	entity.ColumnLocation,
	entity.ColumnAddress,
	entity.ColumnCity,
	entity.ColumnState,
}

// resultColumns is the export layout for search results. Columns the
// dataset does not have are skipped.
var resultColumns = []string{
	entity.ColumnTerminal,
	entity.ColumnLocation,
	entity.ColumnAddress,
	entity.ColumnCity,
	entity.ColumnState,
	entity.ColumnZip,
	entity.ColumnDistanceMiles,
	entity.ColumnMake,
	entity.ColumnModel,
	entity.ColumnAvgTransactions,
	entity.ColumnAvgCash,
	entity.ColumnPermanentOrTemp,
	entity.ColumnInsideOrOutside,
}

// columnLayout is the result of mapping a header row.
type columnLayout struct {
	names    []string       // Canonical names in header order, duplicates dropped.
	position map[string]int // Canonical name to source column index; first occurrence wins.
}

func (l *columnLayout) has(name string) bool {
	_, ok := l.position[name]

	return ok
}

func canonicalColumnName(header string, index int) string {
	key := strings.ToLower(strings.TrimSpace(header))
	if key == "" {
		return "unnamed_" + strconv.Itoa(index)
	}
	if name, ok := columnSynonyms[key]; ok {
		return name
	}

	return key
}

func mapColumns(headers []string) *columnLayout {
	layout := &columnLayout{
		names:    make([]string, 0, len(headers)),
		position: make(map[string]int, len(headers)),
	}

	for i, header := range headers {
		name := canonicalColumnName(header, i)
		if layout.has(name) {
			continue
		}
		layout.position[name] = i
		layout.names = append(layout.names, name)
	}

	return layout
}

func (l *columnLayout) missing(required []string) []string {
	var out []string
	for _, name := range required {
		if !l.has(name) {
			out = append(out, name)
		}
	}

	return out
}
