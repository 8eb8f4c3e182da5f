package middleware

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrTokenNotFound = apperror.New(apperror.CodeUnauthorized, "Token not found", http.StatusUnauthorized)
	ErrInvalidToken  = apperror.New("INVALID_TOKEN", "Invalid token", http.StatusUnauthorized)
	ErrTokenExpired  = apperror.New("TOKEN_EXPIRED", "Token has expired", http.StatusUnauthorized)
	ErrMissingActor  = apperror.New(apperror.CodeUnauthorized, "missing auth context", http.StatusUnauthorized)
	ErrRequestInProgress = apperror.New(
		"PROCESSING",
		"The same request is still being processed",
		http.StatusConflict,
	)
)
