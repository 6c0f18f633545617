package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidPassword, http.StatusUnauthorized},
		{ErrCodeSessionExpired, http.StatusUnauthorized},
		{ErrCodeAccountLocked, http.StatusLocked},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInUse, http.StatusConflict},
		{ErrCodeDuplicateRequest, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeCustomerNotFound, http.StatusUnprocessableEntity},
		{ErrCodeCategoryImmutable, http.StatusUnprocessableEntity},
		{ErrCodeConfirmationMismatch, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeDisallowedContentType, http.StatusUnsupportedMediaType},
		{ErrCodeStorageDisabled, http.StatusServiceUnavailable},
		{ErrCodeUploadURLFailed, http.StatusBadGateway},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Field validation codes fall back to 400
		{"ERR_INVALID_EMAIL", http.StatusBadRequest},
		{"ERR_INVALID_DEPARTMENT", http.StatusBadRequest},
		// Missing resources fall back to 404
		{"ERR_PROFILE_IMAGE_NOT_FOUND", http.StatusNotFound},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"INSUFFICIENT_STOCK", ErrCodeInsufficientStock},
		{"ACCOUNT_LOCKED", ErrCodeAccountLocked},
		{"SESSION_EXPIRED", ErrCodeSessionExpired},
		{"IN_USE", ErrCodeInUse},
		{"INVALID_EMAIL", "ERR_INVALID_EMAIL"},
		// Explicit mappings
		{"NO_ITEMS", ErrCodeValidationRequired},
		{"DUPLICATE_PRODUCT", ErrCodeInvalidInput},
		{"VERSION_CONFLICT", ErrCodeConflict},
		// Already standardized
		{ErrCodeRateLimited, ErrCodeRateLimited},
		{"", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestNormalizedDomainCodesHaveStatus(t *testing.T) {
	codes := []string{
		"CUSTOMER_NOT_FOUND", "EMPLOYEE_NOT_FOUND", "EMPLOYEE_NOT_ELIGIBLE",
		"PRODUCT_NOT_FOUND", "PRODUCT_UNAVAILABLE", "INSUFFICIENT_STOCK",
		"DUPLICATE_REQUEST", "INVALID_STATE", "NO_ITEMS", "DUPLICATE_PRODUCT",
		"INVALID_QUANTITY", "INVALID_CATEGORY", "CATEGORY_IMMUTABLE", "IN_USE",
		"DISALLOWED_CONTENT_TYPE", "UPLOAD_URL_FAILED", "INVALID_STORAGE_KEY",
		"STORAGE_CHECK_FAILED", "UPLOAD_NOT_FOUND", "PROFILE_IMAGE_NOT_FOUND",
		"STORAGE_DISABLED", "INVALID_PASSWORD", "ACCOUNT_LOCKED",
		"SESSION_EXPIRED", "CONFIRMATION_MISMATCH", "INVALID_NAME",
	}
	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			assert.NotEqual(t, http.StatusInternalServerError, GetHTTPStatus(NormalizeErrorCode(code)))
		})
	}
}

func TestResponseEnvelope(t *testing.T) {
	t.Run("error carries the request ID", func(t *testing.T) {
		body, err := json.Marshal(NewErrorResponseWithRequestID(ErrCodeNotFound, "missing", "req-1"))
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"missing","request_id":"req-1"}}`,
			string(body))
	})

	t.Run("validation details", func(t *testing.T) {
		resp := NewValidationErrorResponse("Request validation failed", "req-2", []ValidationDetail{
			{Field: "email", Message: "email must be a valid email address", Tag: "email"},
		})
		assert.False(t, resp.Success)
		assert.Equal(t, ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "email", resp.Error.Details[0].Field)
	})

	t.Run("pagination meta", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]int{1, 2}, 41, 2, 20)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("zero page size", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta(nil, 5, 1, 0)
		assert.Equal(t, 0, resp.Meta.TotalPages)
	})
}
