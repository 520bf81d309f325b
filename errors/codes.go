package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Storage errors
const (
	// ErrCodeConfiguration indicates the storage configuration is unusable.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeStorageUnavailable indicates a backend network or service failure.
	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
)

// Lookup and input errors
const (
	// ErrCodeNotFound indicates the requested blob does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates a malformed key, kind or argument.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)
