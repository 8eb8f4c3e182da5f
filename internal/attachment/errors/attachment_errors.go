package attachmenterrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrTooManyFiles   = apperror.Validation("TOO_MANY_FILES", "a leave request holds at most 5 attachments")
	ErrTotalSizeLimit = apperror.Validation("TOTAL_SIZE_EXCEEDED", "attachments of a leave request may not exceed 50 MiB in total")
	ErrEmptyFile      = apperror.Validation("EMPTY_FILE", "attachment file is empty")

	ErrAttachmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"attachment not found",
		http.StatusNotFound,
	)
	ErrStorageInconsistency = apperror.New(
		apperror.CodeStorageInconsistency,
		"attachment storage is out of sync",
		http.StatusInternalServerError,
	)
)
