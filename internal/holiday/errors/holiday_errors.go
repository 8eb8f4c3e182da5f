package holidayerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrUnknownSource    = apperror.Validation("UNKNOWN_SOURCE", "holiday source must be one of ICS, XLS, API, MANUAL")
	ErrInvalidYear      = apperror.Validation("INVALID_YEAR", "year is out of range")
	ErrInvalidDateRange = apperror.Validation("INVALID_DATE_RANGE", "start and end must be YYYY-MM-DD with start <= end")
	ErrDateOutsideYear  = apperror.Validation("DATE_OUTSIDE_YEAR", "holiday date does not belong to the import year")
	ErrInvalidCategory  = apperror.Validation("INVALID_CATEGORY", "holiday category must be upper snake case")
	ErrEmptyName        = apperror.Validation("EMPTY_NAME", "holiday name is required")
	ErrDuplicateEntry   = apperror.Validation("DUPLICATE_ENTRY", "holiday entry already exists for date and category")
	ErrEmptyPayload     = apperror.Validation("EMPTY_PAYLOAD", "holiday import needs a url, a file or entries")
	ErrMalformedSource  = apperror.Validation("MALFORMED_SOURCE", "holiday source could not be parsed")

	ErrSourceUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"holiday source is unreachable",
		http.StatusBadGateway,
	)
)
