package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// encodingSample is how much of the file is checked for valid UTF-8
const encodingSample = 4096

// readCSV reads a UTF-8 CSV export. A leading BOM is dropped and the
// delimiter is taken from the header line, so semicolon separated exports
// read the same as comma separated ones.
func readCSV(r io.Reader, o readOptions) ([]*Row, error) {
	br := bufio.NewReaderSize(r, encodingSample)

	sample, err := br.Peek(encodingSample)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	truncated := len(sample) == encodingSample
	if bytes.HasPrefix(sample, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
		sample = sample[len(utf8BOM):]
	}
	if len(bytes.TrimSpace(sample)) == 0 {
		return nil, ErrEmptyFile
	}
	if truncated {
		sample = trimPartialRune(sample)
	}
	if !utf8.Valid(sample) {
		return nil, ErrInvalidEncoding
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(sample)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	record, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	headers := normalizeHeaders(record)
	if !hasAnyHeader(headers) {
		return nil, ErrMissingHeader
	}

	var rows []*Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}
		line, _ := cr.FieldPos(0)

		row := newRow(line, headers, record)
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
		if o.maxRows > 0 && len(rows) > o.maxRows {
			return nil, ErrTooManyRows
		}
	}
	return rows, nil
}

// sniffDelimiter picks ';' when the header line has more semicolons than
// commas, and ',' otherwise.
func sniffDelimiter(sample []byte) rune {
	header := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		header = sample[:i]
	}
	if bytes.Count(header, []byte{';'}) > bytes.Count(header, []byte{','}) {
		return ';'
	}
	return ','
}

// trimPartialRune drops a multi-byte rune cut off at the end of a sample
func trimPartialRune(sample []byte) []byte {
	start := len(sample) - 1
	for start > 0 && len(sample)-start < utf8.UTFMax && !utf8.RuneStart(sample[start]) {
		start--
	}
	if start >= 0 && !utf8.FullRune(sample[start:]) {
		return sample[:start]
	}
	return sample
}
