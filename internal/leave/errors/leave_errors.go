package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID    = apperror.Validation("INVALID_LEAVE_ID", "invalid leave id")
	ErrInvalidLeaveType  = apperror.Validation("INVALID_LEAVE_TYPE", "leave type does not exist or is inactive")
	ErrInvalidAgent      = apperror.Validation("INVALID_AGENT", "agent is not a valid employee")
	ErrAgentIsOwner      = apperror.Validation("INVALID_AGENT", "agent cannot be the requester")
	ErrInvalidInterval   = apperror.Validation("INVALID_INTERVAL", "start and end must be YYYY-MM-DDTHH:MM with end after start")
	ErrIntervalTooLong   = apperror.Validation("INTERVAL_TOO_LONG", "leave interval exceeds the storable number of hours")
	ErrInvalidStatus     = apperror.Validation("INVALID_STATUS", "status must be APPROVED or REJECTED")
	ErrInvalidDateFilter = apperror.Validation("INVALID_DATE_FILTER", "date filters must be YYYY-MM-DD")
	ErrMissingFile       = apperror.Validation("MISSING_FILE", "file is required")

	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to act on this leave request",
		http.StatusForbidden,
	)
	ErrSelfReview = apperror.New(
		apperror.CodeForbidden,
		"you cannot review your own leave request",
		http.StatusForbidden,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been reviewed",
		http.StatusConflict,
	)
	ErrVersionMismatch = apperror.New(
		apperror.CodeConcurrentUpdate,
		"leave request was changed by someone else, reload and retry",
		http.StatusConflict,
	)
)
