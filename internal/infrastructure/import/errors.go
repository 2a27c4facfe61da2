package csvimport

import (
	"errors"
	"fmt"
)

// File level codes reject the whole upload
const (
	ErrCodeImportInvalidFile       = "INVALID_FILE"
	ErrCodeImportEmptyFile         = "EMPTY_FILE"
	ErrCodeImportFileTooLarge      = "FILE_TOO_LARGE"
	ErrCodeImportTooManyRows       = "TOO_MANY_ROWS"
	ErrCodeImportUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeImportInvalidEncoding   = "INVALID_ENCODING"
	ErrCodeImportMissingHeader     = "MISSING_HEADER"
	ErrCodeImportMalformedRow      = "MALFORMED_ROW"
)

// Row level codes skip a single row
const (
	ErrCodeImportValidation    = "VALIDATION_ERROR"
	ErrCodeImportRequiredField = "REQUIRED_FIELD"
	ErrCodeImportInvalidType   = "INVALID_TYPE"
	ErrCodeImportInvalidLength = "INVALID_LENGTH"
	ErrCodeImportSaveFailed    = "SAVE_FAILED"
)

var (
	ErrEmptyFile         = errors.New("spreadsheet is empty")
	ErrNoDataRows        = errors.New("spreadsheet contains no data rows")
	ErrMissingHeader     = errors.New("spreadsheet missing header row")
	ErrInvalidEncoding   = errors.New("invalid file encoding, expected UTF-8")
	ErrMalformedRow      = errors.New("spreadsheet contains a malformed row")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrTooManyRows       = errors.New("spreadsheet exceeds maximum allowed rows")
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .csv or .xlsx")
)

// FileErrorCode maps a file level error to its import error code
func FileErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrNoDataRows):
		return ErrCodeImportEmptyFile
	case errors.Is(err, ErrInvalidEncoding):
		return ErrCodeImportInvalidEncoding
	case errors.Is(err, ErrMissingHeader):
		return ErrCodeImportMissingHeader
	case errors.Is(err, ErrFileTooLarge):
		return ErrCodeImportFileTooLarge
	case errors.Is(err, ErrTooManyRows):
		return ErrCodeImportTooManyRows
	case errors.Is(err, ErrMalformedRow):
		return ErrCodeImportMalformedRow
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeImportUnsupportedFormat
	default:
		return ErrCodeImportInvalidFile
	}
}

// RowError is one problem with one row. Row is the 1-based line number in
// the uploaded file.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
}

func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}

// NewRowErrorWithValue also echoes the rejected cell back to the admin
func NewRowErrorWithValue(row int, column, code, message, value string) RowError {
	e := NewRowError(row, column, code, message)
	e.Value = value
	return e
}

const defaultReportedErrors = 100

// ErrorCollection keeps the first errors of an import for the report and
// counts the rest.
type ErrorCollection struct {
	kept  []RowError
	limit int
	total int
	codes map[string]int
}

// NewErrorCollection keeps at most limit errors, 100 when limit is not positive
func NewErrorCollection(limit int) *ErrorCollection {
	if limit <= 0 {
		limit = defaultReportedErrors
	}
	return &ErrorCollection{limit: limit, codes: make(map[string]int)}
}

func (ec *ErrorCollection) Add(errs ...RowError) {
	for _, err := range errs {
		ec.total++
		ec.codes[err.Code]++
		if len(ec.kept) < ec.limit {
			ec.kept = append(ec.kept, err)
		}
	}
}

// Errors returns the kept errors, never nil
func (ec *ErrorCollection) Errors() []RowError {
	if ec.kept == nil {
		return []RowError{}
	}
	return ec.kept
}

// TotalCount counts every added error, kept or not
func (ec *ErrorCollection) TotalCount() int {
	return ec.total
}

// IsTruncated reports whether errors were dropped from the report
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.total > ec.limit
}

// CountByCode counts every added error per code
func (ec *ErrorCollection) CountByCode() map[string]int {
	return ec.codes
}
