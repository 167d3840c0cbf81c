package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizforge/mathduel/internal/model"
	"github.com/quizforge/mathduel/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidDifficulty  = "INVALID_DIFFICULTY"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeResultsNotFound    = "RESULTS_NOT_FOUND"
	CodeSessionNotActive   = "SESSION_NOT_ACTIVE"
	CodeSessionStarted     = "SESSION_STARTED"
	CodeSessionAbandoned   = "SESSION_ABANDONED"
	CodeGameComplete       = "GAME_COMPLETE"
	CodeNoProblemActive    = "NO_PROBLEM_ACTIVE"
	CodeNotEnoughPlayers   = "NOT_ENOUGH_PLAYERS"
	CodeTooManyPlayers     = "TOO_MANY_PLAYERS"
	CodeNotInSession       = "NOT_IN_SESSION"
	CodePlayerEliminated   = "PLAYER_ELIMINATED"
	CodeAlreadyAnswered    = "ALREADY_ANSWERED"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Game session not found"}}
	case errors.Is(err, model.ErrSummaryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeResultsNotFound, "Results are not available yet"}}
	case errors.Is(err, model.ErrSessionNotActive):
		return &httpError{http.StatusConflict, APIError{CodeSessionNotActive, "No round is in progress"}}
	case errors.Is(err, model.ErrSessionStarted):
		return &httpError{http.StatusConflict, APIError{CodeSessionStarted, "Game has already started"}}
	case errors.Is(err, model.ErrSessionAbandoned):
		return &httpError{http.StatusConflict, APIError{CodeSessionAbandoned, "Game was abandoned"}}
	case errors.Is(err, model.ErrGameComplete):
		return &httpError{http.StatusConflict, APIError{CodeGameComplete, "Game is already over"}}
	case errors.Is(err, model.ErrNoProblemActive):
		return &httpError{http.StatusConflict, APIError{CodeNoProblemActive, "No question is active"}}
	case errors.Is(err, model.ErrNotEnoughPlayers):
		return &httpError{http.StatusBadRequest, APIError{CodeNotEnoughPlayers, "Not enough players for a game"}}
	case errors.Is(err, model.ErrTooManyPlayers):
		return &httpError{http.StatusBadRequest, APIError{CodeTooManyPlayers, "Too many players for a game"}}
	case errors.Is(err, model.ErrNotInSession):
		return &httpError{http.StatusForbidden, APIError{CodeNotInSession, "Player is not in this game"}}
	case errors.Is(err, model.ErrPlayerEliminated):
		return &httpError{http.StatusForbidden, APIError{CodePlayerEliminated, "Player has no lives remaining"}}
	case errors.Is(err, model.ErrAlreadyAnswered):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyAnswered, "Already answered this question"}}
	case errors.Is(err, model.ErrInvalidDifficulty):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDifficulty, "Difficulty must be between 1 and 3"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
