package handler

import (
	"net/http"

	"github.com/quizforge/mathduel/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeInvalidDifficulty  = apierr.CodeInvalidDifficulty
	CodeUnauthorized       = apierr.CodeUnauthorized
	CodePlayerNotFound     = apierr.CodePlayerNotFound
	CodeSessionNotFound    = apierr.CodeSessionNotFound
	CodeResultsNotFound    = apierr.CodeResultsNotFound
	CodeSessionNotActive   = apierr.CodeSessionNotActive
	CodeSessionStarted     = apierr.CodeSessionStarted
	CodeSessionAbandoned   = apierr.CodeSessionAbandoned
	CodeGameComplete       = apierr.CodeGameComplete
	CodeNoProblemActive    = apierr.CodeNoProblemActive
	CodeNotEnoughPlayers   = apierr.CodeNotEnoughPlayers
	CodeTooManyPlayers     = apierr.CodeTooManyPlayers
	CodeNotInSession       = apierr.CodeNotInSession
	CodePlayerEliminated   = apierr.CodePlayerEliminated
	CodeAlreadyAnswered    = apierr.CodeAlreadyAnswered
	CodeUsernameExists     = apierr.CodeUsernameExists
	CodeInvalidCredentials = apierr.CodeInvalidCredentials
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
