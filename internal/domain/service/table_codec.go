package service

import (
	"io"
	"path/filepath"
	"strings"

	"locator/internal/domain/entity"
)

// TableFormat identifies a spreadsheet encoding.
type TableFormat string

const (
	TableFormatXLSX TableFormat = "xlsx"
	TableFormatCSV  TableFormat = "csv"
	TableFormatDBF  TableFormat = "dbf"
)

// TableReader decodes an uploaded spreadsheet into a header plus rows.
type TableReader interface {
	Read(format TableFormat, r io.Reader) (*entity.Table, error)
}

// TableWriter encodes a table for download. sheet names the worksheet for
// formats that have one and is ignored otherwise.
type TableWriter interface {
	Write(w io.Writer, format TableFormat, sheet string, table *entity.Table) error
}

// TableFormatFromFilename picks the format from a file extension. The second
// result is false for extensions no reader handles.
func TableFormatFromFilename(name string) (TableFormat, bool) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "xlsx", "xlsm":
		return TableFormatXLSX, true
	case "csv", "txt":
		return TableFormatCSV, true
	case "dbf":
		return TableFormatDBF, true
	default:
		return "", false
	}
}

// ParseExportFormat accepts the formats downloads can be produced in.
// An empty value means xlsx.
func ParseExportFormat(s string) (TableFormat, bool) {
	switch TableFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", TableFormatXLSX:
		return TableFormatXLSX, true
	case TableFormatCSV:
		return TableFormatCSV, true
	default:
		return "", false
	}
}
