package spreadsheet

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/Valentin-Kaiser/go-dbase/dbase"

	domainerrors "locator/internal/domain/errors"
	"locator/internal/errors"
)

// dbfTableFlagsOffset locates the table flags byte in the dBase file header.
const dbfTableFlagsOffset = 28

// errMemoUnsupported is returned for tables whose data lives partly in a
// companion memo file, which a single-file upload cannot carry.
var errMemoUnsupported = domainerrors.ErrUnreadableFile.WithDetails(map[string]string{
	"reason": "dBase memo fields are not supported",
})

// readDBF spools the upload to disk because the dBase driver opens tables by
// file name.
func readDBF(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	if hdr, _ := br.Peek(dbfTableFlagsOffset + 1); len(hdr) > dbfTableFlagsOffset &&
		hdr[dbfTableFlagsOffset]&byte(dbase.MemoFlag) != 0 {
		return nil, errors.WithStack(errMemoUnsupported)
	}

	tmp, err := os.CreateTemp("", "upload-*.dbf")
	if err != nil {
		return nil, errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, br); err != nil {
		tmp.Close()
		return nil, errors.Wrapf(domainerrors.ErrUnreadableFile, "spool dbf: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrap(err, "close temp file")
	}

	table, err := dbase.OpenTable(&dbase.Config{
		Filename:   tmp.Name(),
		TrimSpaces: true,
		Untested:   true,
		ReadOnly:   true,
	})
	if err != nil {
		return nil, errors.Wrapf(domainerrors.ErrUnreadableFile, "open dbf: %v", err)
	}
	defer table.Close()

	columns := table.Columns()
	header := make([]string, len(columns))
	for i, col := range columns {
		if isMemoColumn(col) {
			return nil, errors.WithStack(errMemoUnsupported)
		}
		header[i] = col.Name()
	}

	rows := [][]string{header}
	for !table.EOF() {
		row, err := table.Next()
		if err != nil {
			return nil, errors.Wrapf(domainerrors.ErrUnreadableFile, "read dbf row: %v", err)
		}
		if row == nil || row.Deleted {
			continue
		}

		values := row.Values()
		cells := make([]string, len(header))
		for i := 0; i < len(values) && i < len(cells); i++ {
			cells[i] = formatDBFValue(values[i])
		}
		rows = append(rows, cells)
	}

	return rows, nil
}

func isMemoColumn(col *dbase.Column) bool {
	switch dbase.DataType(col.DataType) {
	case dbase.Memo, dbase.General, dbase.Picture, dbase.Blob:
		return true
	default:
		return false
	}
}

func formatDBFValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(time.DateOnly)
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
