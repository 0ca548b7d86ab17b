package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Container configuration errors. These indicate a wiring bug in the
// composition root and are never retryable.
const (
	// ErrCodeMissingProvider indicates a holder was read before its dependency provider was set.
	ErrCodeMissingProvider ErrorCode = "MISSING_DEPENDENCY_PROVIDER"
	// ErrCodeCyclicDependency indicates a holder was re-entered while it was being built.
	ErrCodeCyclicDependency ErrorCode = "CYCLIC_DEPENDENCY"
	// ErrCodeBuildFailed indicates the provider or factory of a holder failed.
	ErrCodeBuildFailed ErrorCode = "COMPONENT_BUILD_FAILED"
	// ErrCodeTypeMismatch indicates the built component does not implement the public API.
	ErrCodeTypeMismatch ErrorCode = "COMPONENT_TYPE_MISMATCH"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeConflict indicates a conflict with the current state of the resource.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Authentication errors
const (
	// ErrCodeUnauthorized indicates the request is unauthorized.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInvalidToken indicates the authentication token is invalid.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeInternal:           false,
	ErrCodeMissingProvider:    false,
	ErrCodeCyclicDependency:   false,
	ErrCodeBuildFailed:        false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
