package csvimport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// readXLSX reads the first worksheet of a workbook. Cells are read as raw
// values so numeric prices keep no display formatting.
func readXLSX(r io.Reader, o readOptions) ([]*Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	iter, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	defer func() { _ = iter.Close() }()

	var (
		headers []string
		rows    []*Row
		line    int
	)
	for iter.Next() {
		line++
		record, err := iter.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", line, err)
		}

		if headers == nil {
			headers = normalizeHeaders(record)
			if !hasAnyHeader(headers) {
				return nil, ErrMissingHeader
			}
			continue
		}

		row := newRow(line, headers, record)
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
		if o.maxRows > 0 && len(rows) > o.maxRows {
			return nil, ErrTooManyRows
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	if headers == nil {
		return nil, ErrEmptyFile
	}
	return rows, nil
}
