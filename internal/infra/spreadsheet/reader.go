// Package spreadsheet decodes uploaded ATM tables (xlsx, csv, dBase) and
// encodes search results back to xlsx or csv.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"locator/internal/domain/entity"
	domainerrors "locator/internal/domain/errors"
	"locator/internal/domain/service"
	"locator/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader implements service.TableReader.
type Reader struct{}

var _ service.TableReader = (*Reader)(nil)

// NewReader creates a reader. dBase uploads are spooled to the OS temp dir.
func NewReader() service.TableReader {
	return &Reader{}
}

// Read decodes r according to format. The first non-empty row is the header.
func (Reader) Read(format service.TableFormat, r io.Reader) (*entity.Table, error) {
	var (
		rows [][]string
		err  error
	)

	switch format {
	case service.TableFormatXLSX:
		rows, err = readXLSX(r)
	case service.TableFormatCSV:
		rows, err = readCSV(r)
	case service.TableFormatDBF:
		rows, err = readDBF(r)
	default:
		return nil, errors.Wrapf(domainerrors.ErrUnsupportedFileFormat, "format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return buildTable(rows)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrapf(domainerrors.ErrUnreadableFile, "open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Wrap(domainerrors.ErrEmptyTable, "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(domainerrors.ErrUnreadableFile, "read sheet %s: %v", sheets[0], err)
	}

	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(domainerrors.ErrUnreadableFile, "read csv: %v", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(domainerrors.ErrUnreadableFile, "parse csv: %v", err)
	}

	return rows, nil
}

// buildTable trims header names, drops blank rows and pads short rows so
// every row has one cell per column.
func buildTable(rows [][]string) (*entity.Table, error) {
	start := -1
	for i, row := range rows {
		if !isBlank(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, errors.WithStack(domainerrors.ErrEmptyTable)
	}

	header := make([]string, len(rows[start]))
	for i, name := range rows[start] {
		header[i] = strings.TrimSpace(name)
	}

	table := &entity.Table{Columns: header, Rows: make([][]string, 0, len(rows)-start-1)}
	for _, row := range rows[start+1:] {
		if isBlank(row) {
			continue
		}

		cells := make([]string, len(header))
		copy(cells, row)
		table.Rows = append(table.Rows, cells)
	}

	return table, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
