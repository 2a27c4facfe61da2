package dto

import (
	"net/http"
	"strings"
)

// HTTP level error codes. Domain errors keep their own code.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeAlreadyExists   = "ALREADY_EXISTS"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeAlreadyExists:   http.StatusConflict,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Auth
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,

	// Business rules -> 422 Unprocessable Entity
	"NAVBAR_BOUNDARY": http.StatusUnprocessableEntity,
	"INVALID_STATE":   http.StatusUnprocessableEntity,
	"IMPORT_FAILED":   http.StatusUnprocessableEntity,

	// Uploads and import files
	"IMAGE_TOO_LARGE":    http.StatusRequestEntityTooLarge,
	"FILE_TOO_LARGE":     http.StatusRequestEntityTooLarge,
	"TOO_MANY_ROWS":      http.StatusBadRequest,
	"EMPTY_FILE":         http.StatusBadRequest,
	"UNSUPPORTED_FORMAT": http.StatusBadRequest,
	"MISSING_HEADER":     http.StatusBadRequest,
	"UPLOAD_FAILED":      http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted INVALID_* codes are client errors; anything else is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
