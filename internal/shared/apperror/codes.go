package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput     = "INVALID_INPUT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeConcurrentUpdate = "CONCURRENT_UPDATE"
	CodeInvalidState     = "INVALID_STATE"

	// Server errors (5xx)
	CodeInternalError        = "INTERNAL_ERROR"
	CodeStorageInconsistency = "STORAGE_INCONSISTENCY"
	CodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
)
