package model

import "time"

// SessionID uniquely identifies a quiz session
type SessionID string

// SessionState represents the current phase of a session
type SessionState string

const (
	SessionStateSetup      SessionState = "setup"      // Created, not yet started
	SessionStateInRound    SessionState = "in_round"   // Problem active, collecting answers
	SessionStateEvaluating SessionState = "evaluating" // All answers in, scoring the round
	SessionStateGameOver   SessionState = "game_over"  // Terminal, results available
	SessionStateAbandoned  SessionState = "abandoned"  // Cancelled by the host
)

// Difficulty controls operand ranges and the operation mix
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// String returns the human-readable difficulty name
func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// GameMode distinguishes all-human sessions from human-versus-bot ones
type GameMode string

const (
	ModeMultiplayer GameMode = "multiplayer"
	ModeVersusBot   GameMode = "versus_bot"
)

// Answer records one contestant's submission for the current round
type Answer struct {
	PlayerID     PlayerID
	Raw          string // the submitted text, as received
	Value        float64
	Parsed       bool // false when Raw was not numeric
	Correct      bool
	TimedOut     bool
	ResponseTime time.Duration
	SubmittedAt  time.Time
}

// SessionConfig holds the settings fixed at session creation
type SessionConfig struct {
	Difficulty    Difficulty
	Mode          GameMode
	QuestionLimit int
	StartingLives int
	RoundTimeout  time.Duration
	// Progressive makes the problem level advance with the question index
	// (one level every five questions, capped at hard) instead of staying
	// at the configured difficulty.
	Progressive bool
}

// DefaultSessionConfig returns the default session configuration
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Difficulty:    DifficultyEasy,
		Mode:          ModeMultiplayer,
		QuestionLimit: 15,
		StartingLives: 3,
		RoundTimeout:  30 * time.Second,
		Progressive:   true,
	}
}

// Session is the single mutable aggregate for one quiz game: roster,
// round bookkeeping, and the active problem. Owned and mutated only by
// the session controller.
type Session struct {
	ID     SessionID
	State  SessionState
	Config SessionConfig

	Contestants []*Contestant

	QuestionNumber int // 1-indexed once the first round starts
	CurrentProblem *Problem
	Answers        map[PlayerID]*Answer // current round only

	RoundStartedAt time.Time
	StartedAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GetContestant returns the contestant with the given player ID, or nil
func (s *Session) GetContestant(playerID PlayerID) *Contestant {
	for _, c := range s.Contestants {
		if c.PlayerID == playerID {
			return c
		}
	}
	return nil
}

// LiveContestants returns all contestants that still have lives
func (s *Session) LiveContestants() []*Contestant {
	var live []*Contestant
	for _, c := range s.Contestants {
		if !c.Eliminated() {
			live = append(live, c)
		}
	}
	return live
}

// AllLiveAnswered reports whether every live contestant has answered the
// current problem
func (s *Session) AllLiveAnswered() bool {
	for _, c := range s.Contestants {
		if c.Eliminated() {
			continue
		}
		if _, ok := s.Answers[c.PlayerID]; !ok {
			return false
		}
	}
	return true
}

// CurrentLevel returns the problem level for the current question.
// With progressive difficulty the level climbs one step every five
// questions; otherwise it is pinned to the configured difficulty.
func (s *Session) CurrentLevel() int {
	if !s.Config.Progressive {
		return int(s.Config.Difficulty)
	}
	if s.QuestionNumber < 1 {
		return 1
	}
	level := (s.QuestionNumber-1)/5 + 1
	if level > int(DifficultyHard) {
		level = int(DifficultyHard)
	}
	return level
}

// Finished reports whether the session has reached a terminal state
func (s *Session) Finished() bool {
	return s.State == SessionStateGameOver || s.State == SessionStateAbandoned
}

// Standing is one row of a final or in-progress leaderboard
type Standing struct {
	PlayerID    PlayerID
	DisplayName string
	Score       int
	Lives       int
	Correct     int
}

// GameSummary is a lightweight record of a completed session
type GameSummary struct {
	SessionID   SessionID
	FinalScores map[PlayerID]int
	Winner      PlayerID // Empty if tie
	Standings   []Standing
	Questions   int
	CompletedAt time.Time
}
