package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventProblemReady     EventType = "problem_ready"
	EventAnswerSubmitted  EventType = "answer_submitted"
	EventRoundEvaluated   EventType = "round_evaluated"
	EventPlayerEliminated EventType = "player_eliminated"
	EventGameOver         EventType = "game_over"
	EventSessionAbandoned EventType = "session_abandoned"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	SessionID SessionID
	PlayerID  PlayerID // The player who triggered or is affected, if any
	Payload   any      // Type-specific data
}

// ProblemReadyPayload contains data for problem ready events
type ProblemReadyPayload struct {
	QuestionNumber int
	Level          int
	Text           string
}

// AnswerSubmittedPayload contains data for answer submitted events.
// Correctness is deliberately withheld until the round is evaluated.
type AnswerSubmittedPayload struct {
	PlayerID     PlayerID
	ResponseTime time.Duration
}

// RoundEvaluatedPayload contains data for round evaluated events
type RoundEvaluatedPayload struct {
	QuestionNumber int
	CorrectAnswer  int
	Results        []Answer
	Standings      []Standing
}

// PlayerEliminatedPayload contains data for player eliminated events
type PlayerEliminatedPayload struct {
	PlayerID    PlayerID
	DisplayName string
}

// GameOverPayload contains data for game over events
type GameOverPayload struct {
	Summary GameSummary
}

// SessionAbandonedPayload contains data for session abandoned events
type SessionAbandonedPayload struct {
	Reason string
}
