package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a game participant
type Player struct {
	ID          PlayerID
	DisplayName string
	Avatar      string
	IsGuest     bool // true for unregistered players
	IsBot       bool
	BotStrategy string // strategy name, empty for humans
	CreatedAt   time.Time
}

// RegisteredPlayer extends Player with authentication data
// Stored separately for security (password never in memory with session)
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Contestant is a player's per-session state: score, lives, and timing
// of their last answer. Created at session setup, discarded with it.
type Contestant struct {
	PlayerID       PlayerID
	DisplayName    string
	Avatar         string
	IsBot          bool
	BotStrategy    string
	Score          int
	Lives          int
	CorrectAnswers int
	LastResponse   time.Duration // time taken to answer the last problem
}

// Eliminated reports whether the contestant has run out of lives
func (c *Contestant) Eliminated() bool {
	return c.Lives <= 0
}

// LoseLife decrements lives, clamping at zero
func (c *Contestant) LoseLife() {
	if c.Lives > 0 {
		c.Lives--
	}
}
