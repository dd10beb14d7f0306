package impl

import (
	"slices"

	"locator/internal/domain/entity"
	"locator/internal/domain/service"
	"locator/internal/util"
)

const (
	searchResultsSheet  = "ATM_Search_Results"
	invalidRecordsSheet = "Invalid_Zip_Codes"
)

var contentTypes = map[service.TableFormat]string{
	service.TableFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	service.TableFormatCSV:  "text/csv; charset=utf-8",
}

// searchResultTable lays out matches with the result columns the dataset has.
func searchResultTable(datasetColumns []string, result *entity.SearchResult) *entity.Table {
	columns := make([]string, 0, len(resultColumns))
	for _, col := range resultColumns {
		if col == entity.ColumnDistanceMiles || slices.Contains(datasetColumns, col) {
			columns = append(columns, col)
		}
	}

	table := &entity.Table{Columns: columns, Rows: make([][]string, 0, len(result.Matches))}
	for _, m := range result.Matches {
		row := make([]string, len(columns))
		for i, col := range columns {
			if col == entity.ColumnDistanceMiles {
				row[i] = util.FormatMiles(m.DistanceMiles)
				continue
			}
			row[i] = m.Record.Fields[col]
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

// invalidRecordTable lists rejected records with every ingested column and
// the diagnosis label.
func invalidRecordTable(dataset *entity.Dataset) *entity.Table {
	columns := make([]string, 0, len(dataset.Columns)+1)
	columns = append(columns, dataset.Columns...)
	columns = append(columns, entity.ColumnZipIssue)

	table := &entity.Table{Columns: columns, Rows: make([][]string, 0, len(dataset.Invalid))}
	for i := range dataset.Invalid {
		rec := &dataset.Invalid[i]
		row := make([]string, len(columns))
		for j, col := range dataset.Columns {
			row[j] = rec.Fields[col]
		}
		if rec.Diagnosis != nil {
			row[len(columns)-1] = rec.Diagnosis.String()
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

func searchExportName(zip string, radiusMiles float64, format service.TableFormat) string {
	return "atm_search_" + zip + "_" + util.FormatMiles(radiusMiles) + "miles." + string(format)
}

func invalidExportName(format service.TableFormat) string {
	return "invalid_zip_codes." + string(format)
}
