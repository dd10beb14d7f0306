package spreadsheet

import (
	"encoding/csv"
	"io"

	"github.com/xuri/excelize/v2"

	"locator/internal/domain/entity"
	domainerrors "locator/internal/domain/errors"
	"locator/internal/domain/service"
	"locator/internal/errors"
)

// maxSheetName is the longest worksheet name Excel accepts.
const maxSheetName = 31

// Writer implements service.TableWriter for xlsx and csv.
type Writer struct{}

var _ service.TableWriter = (*Writer)(nil)

// NewWriter creates the writer used by exports.
func NewWriter() service.TableWriter {
	return &Writer{}
}

// Write encodes table to w.
func (Writer) Write(w io.Writer, format service.TableFormat, sheet string, table *entity.Table) error {
	switch format {
	case service.TableFormatXLSX:
		return writeXLSX(w, sheet, table)
	case service.TableFormatCSV:
		return writeCSV(w, table)
	default:
		return errors.Wrapf(domainerrors.ErrUnsupportedFileFormat, "cannot export %q", format)
	}
}

func writeXLSX(w io.Writer, sheet string, table *entity.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if len(sheet) > maxSheetName {
		sheet = sheet[:maxSheetName]
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}

	if err := setRow(f, sheet, 1, table.Columns); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}

	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}

	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "write row %d", rowNum)
	}

	return nil
}

func writeCSV(w io.Writer, table *entity.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return errors.Wrap(err, "write csv rows")
	}

	return nil
}
