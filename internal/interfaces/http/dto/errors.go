package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeTimeout is used when a request exceeds its deadline
	ErrCodeTimeout = "ERR_TIMEOUT"
	// ErrCodeServiceUnavailable is used when a backing service is not configured or down
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
	// ErrCodeValidationLength is used when a field length is invalid
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
)

// Session error codes
const (
	// ErrCodeUnauthorized is used when a session is required but missing
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeInvalidPassword is used when the submitted password is wrong
	ErrCodeInvalidPassword = "ERR_INVALID_PASSWORD"
	// ErrCodeAccountLocked is used while the client is locked out
	ErrCodeAccountLocked = "ERR_ACCOUNT_LOCKED"
	// ErrCodeSessionExpired is used when the session ended through inactivity
	ErrCodeSessionExpired = "ERR_SESSION_EXPIRED"
	// ErrCodeForbidden is used when the caller's address is not allowed
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeInUse is used when a record is still referenced by others
	ErrCodeInUse = "ERR_IN_USE"
	// ErrCodeDuplicateRequest is used when an idempotency key is replayed
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeProductUnavailable is used when an ordered product is not for sale
	ErrCodeProductUnavailable = "ERR_PRODUCT_UNAVAILABLE"
	// ErrCodeEmployeeNotEligible is used when the processor may not handle orders
	ErrCodeEmployeeNotEligible = "ERR_EMPLOYEE_NOT_ELIGIBLE"
	// ErrCodeCategoryImmutable is used when an update tries to change a product category
	ErrCodeCategoryImmutable = "ERR_CATEGORY_IMMUTABLE"
	// ErrCodeCustomerNotFound is used when an order references an unknown customer
	ErrCodeCustomerNotFound = "ERR_CUSTOMER_NOT_FOUND"
	// ErrCodeEmployeeNotFound is used when an order references an unknown employee
	ErrCodeEmployeeNotFound = "ERR_EMPLOYEE_NOT_FOUND"
	// ErrCodeProductNotFound is used when an order references an unknown product
	ErrCodeProductNotFound = "ERR_PRODUCT_NOT_FOUND"
	// ErrCodeUploadNotFound is used when a confirmed upload is missing from storage
	ErrCodeUploadNotFound = "ERR_UPLOAD_NOT_FOUND"
	// ErrCodeConfirmationMismatch is used when a destructive action is not confirmed
	ErrCodeConfirmationMismatch = "ERR_CONFIRMATION_MISMATCH"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeDisallowedContentType is used for disallowed upload content types
	ErrCodeDisallowedContentType = "ERR_DISALLOWED_CONTENT_TYPE"
)

// Storage error codes
const (
	// ErrCodeStorageDisabled is used when object storage is not configured
	ErrCodeStorageDisabled = "ERR_STORAGE_DISABLED"
	// ErrCodeUploadURLFailed is used when a presigned URL cannot be created
	ErrCodeUploadURLFailed = "ERR_UPLOAD_URL_FAILED"
	// ErrCodeStorageCheckFailed is used when object storage cannot be queried
	ErrCodeStorageCheckFailed = "ERR_STORAGE_CHECK_FAILED"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeTooManyRequests is an alias for rate limiting
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:            http.StatusInternalServerError,
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Session errors
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeInvalidPassword: http.StatusUnauthorized,
	ErrCodeAccountLocked:   http.StatusLocked,
	ErrCodeSessionExpired:  http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodeInUse:            http.StatusConflict,
	ErrCodeDuplicateRequest: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:         http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:    http.StatusUnprocessableEntity,
	ErrCodeProductUnavailable:   http.StatusUnprocessableEntity,
	ErrCodeEmployeeNotEligible:  http.StatusUnprocessableEntity,
	ErrCodeCategoryImmutable:    http.StatusUnprocessableEntity,
	ErrCodeCustomerNotFound:     http.StatusUnprocessableEntity,
	ErrCodeEmployeeNotFound:     http.StatusUnprocessableEntity,
	ErrCodeProductNotFound:      http.StatusUnprocessableEntity,
	ErrCodeUploadNotFound:       http.StatusUnprocessableEntity,
	ErrCodeConfirmationMismatch: http.StatusBadRequest,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:            http.StatusBadRequest,
	ErrCodeInvalidInput:          http.StatusBadRequest,
	ErrCodeInvalidJSON:           http.StatusBadRequest,
	ErrCodeRequestTooLarge:       http.StatusRequestEntityTooLarge,
	ErrCodeDisallowedContentType: http.StatusUnsupportedMediaType,

	// Storage errors
	ErrCodeStorageDisabled:    http.StatusServiceUnavailable,
	ErrCodeUploadURLFailed:    http.StatusBadGateway,
	ErrCodeStorageCheckFailed: http.StatusBadGateway,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unmapped ERR_INVALID_* codes are field validation failures (400) and
// unmapped ERR_*_NOT_FOUND codes are missing resources (404).
// Anything else returns 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "ERR_INVALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "ERR_") && strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes whose name differs from
// the standardized code
var LegacyErrorCodeMapping = map[string]string{
	"CONCURRENCY_CONFLICT": ErrCodeConflict,
	"VERSION_CONFLICT":     ErrCodeConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"INTERNAL_ERROR":       ErrCodeInternal,
	"NO_ITEMS":             ErrCodeValidationRequired,
	"DUPLICATE_PRODUCT":    ErrCodeInvalidInput,
	"INVALID_STORAGE_KEY":  ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// Codes already carrying the ERR_ prefix are returned as-is; other codes
// gain the prefix unless they have an explicit mapping.
func NormalizeErrorCode(code string) string {
	if code == "" {
		return ErrCodeUnknown
	}
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}
