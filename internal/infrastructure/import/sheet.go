// Package csvimport reads CSV and XLSX spreadsheets into header-keyed rows
// for bulk import.
package csvimport

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Supported spreadsheet formats
const (
	FormatCSV  = ".csv"
	FormatXLSX = ".xlsx"
)

// Row represents a parsed spreadsheet row keyed by normalized header
type Row struct {
	LineNumber int
	Data       map[string]string
	RawFields  []string
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// GetOrDefault returns the value for a column, or default if not present
func (r *Row) GetOrDefault(header, defaultVal string) string {
	if val, ok := r.Data[header]; ok && val != "" {
		return val
	}
	return defaultVal
}

// Has reports whether the row has a non-empty value for header
func (r *Row) Has(header string) bool {
	return r.Data[header] != ""
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// NormalizeKey lower-cases and trims a header and collapses inner whitespace
// runs to a single underscore, so "Tokped  URL" becomes "tokped_url".
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}

// ReadOption configures ReadSheet
type ReadOption func(*readOptions)

type readOptions struct {
	maxRows  int
	maxBytes int64
}

// WithMaxRows rejects sheets with more than n data rows
func WithMaxRows(n int) ReadOption {
	return func(o *readOptions) {
		o.maxRows = n
	}
}

// WithMaxBytes rejects files larger than n bytes
func WithMaxBytes(n int64) ReadOption {
	return func(o *readOptions) {
		o.maxBytes = n
	}
}

// IsSupportedFile reports whether filename has a readable spreadsheet extension
func IsSupportedFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case FormatCSV, FormatXLSX:
		return true
	}
	return false
}

// ReadSheet reads every non-empty data row of a CSV file or of the first
// worksheet of an XLSX workbook. The format is chosen by filename extension.
func ReadSheet(filename string, r io.Reader, opts ...ReadOption) ([]*Row, error) {
	o := readOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != FormatCSV && ext != FormatXLSX {
		return nil, ErrUnsupportedFormat
	}

	if o.maxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, o.maxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		if int64(len(data)) > o.maxBytes {
			return nil, ErrFileTooLarge
		}
		r = bytes.NewReader(data)
	}

	var (
		rows []*Row
		err  error
	)
	if ext == FormatXLSX {
		rows, err = readXLSX(r, o)
	} else {
		rows, err = readCSV(r, o)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	return rows, nil
}

// newRow maps a record onto headers. Columns without a header are dropped and
// the first column wins when two headers normalize to the same key.
func newRow(line int, headers, record []string) *Row {
	row := &Row{
		LineNumber: line,
		Data:       make(map[string]string, len(headers)),
		RawFields:  record,
	}
	for i, header := range headers {
		if header == "" {
			continue
		}
		value := ""
		if i < len(record) {
			value = strings.TrimSpace(record[i])
		}
		if existing, ok := row.Data[header]; ok && existing != "" {
			continue
		}
		row.Data[header] = value
	}
	return row
}

func normalizeHeaders(record []string) []string {
	headers := make([]string, len(record))
	for i, h := range record {
		headers[i] = NormalizeKey(h)
	}
	return headers
}

func hasAnyHeader(headers []string) bool {
	for _, h := range headers {
		if h != "" {
			return true
		}
	}
	return false
}
