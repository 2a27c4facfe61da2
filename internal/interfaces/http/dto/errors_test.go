package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	byStatus := map[int][]string{
		http.StatusBadRequest:            {ErrCodeValidation, "INVALID_PRICE", "INVALID_MARKETPLACE"},
		http.StatusUnauthorized:          {ErrCodeUnauthorized, "INVALID_CREDENTIALS"},
		http.StatusNotFound:              {ErrCodeNotFound},
		http.StatusConflict:              {ErrCodeAlreadyExists},
		http.StatusRequestEntityTooLarge: {"IMAGE_TOO_LARGE"},
		http.StatusUnprocessableEntity:   {"NAVBAR_BOUNDARY", "IMPORT_FAILED"},
		http.StatusTooManyRequests:       {ErrCodeRateLimited},
		http.StatusInternalServerError:   {ErrCodeInternal, "SOMETHING_ELSE"},
		http.StatusBadGateway:            {"UPLOAD_FAILED"},
	}

	for status, codes := range byStatus {
		for _, code := range codes {
			assert.Equal(t, status, GetHTTPStatus(code), code)
		}
	}
}

func TestActionResultJSON(t *testing.T) {
	body, err := json.Marshal(ActionSuccess("Product created", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","message":"Product created"}`, string(body))

	body, err = json.Marshal(ActionError(ErrCodeAlreadyExists, "Product with this slug already exists"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","code":"ALREADY_EXISTS","message":"Product with this slug already exists"}`, string(body))
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "name", Message: "This field is required"},
	})

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}
