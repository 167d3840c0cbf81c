package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Problem generation errors
	ErrInvalidOperation = errors.New("unknown arithmetic operation")
	ErrInvalidLevel     = errors.New("invalid difficulty level")

	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSummaryNotFound   = errors.New("game summary not found")
	ErrSessionNotActive  = errors.New("session is not active")
	ErrSessionStarted    = errors.New("session has already started")
	ErrSessionAbandoned  = errors.New("session has been abandoned")
	ErrGameComplete      = errors.New("game is already complete")
	ErrNoProblemActive   = errors.New("no problem is active")
	ErrNotEnoughPlayers  = errors.New("not enough players for a session")
	ErrTooManyPlayers    = errors.New("too many players for a session")
	ErrNotInSession      = errors.New("player is not in this session")
	ErrPlayerEliminated  = errors.New("player has been eliminated")
	ErrAlreadyAnswered   = errors.New("player has already answered this round")
	ErrInvalidDifficulty = errors.New("difficulty must be easy, medium or hard")
)
