package response

import (
	"time"

	"github.com/quizforge/mathduel/internal/model"
	"github.com/quizforge/mathduel/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
	IsGuest     bool   `json:"is_guest"`
	IsBot       bool   `json:"is_bot,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		Avatar:      p.Avatar,
		IsGuest:     p.IsGuest,
		IsBot:       p.IsBot,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// Contestant represents a game participant with their score and lives
type Contestant struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
	IsBot       bool   `json:"is_bot,omitempty"`
	Score       int    `json:"score"`
	Lives       int    `json:"lives"`
	Correct     int    `json:"correct"`
	Eliminated  bool   `json:"eliminated,omitempty"`
}

// ContestantFromModel converts a model.Contestant
func ContestantFromModel(c *model.Contestant) Contestant {
	return Contestant{
		PlayerID:    string(c.PlayerID),
		DisplayName: c.DisplayName,
		Avatar:      c.Avatar,
		IsBot:       c.IsBot,
		Score:       c.Score,
		Lives:       c.Lives,
		Correct:     c.CorrectAnswers,
		Eliminated:  c.Eliminated(),
	}
}

// Problem is the active question as shown to contestants.
// The answer is never included.
type Problem struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// SessionConfig represents the fixed session settings
type SessionConfig struct {
	Difficulty     int    `json:"difficulty"`
	DifficultyName string `json:"difficulty_name"`
	Mode           string `json:"mode"`
	QuestionLimit  int    `json:"question_limit"`
	StartingLives  int    `json:"starting_lives"`
	RoundTimeoutMS int    `json:"round_timeout_ms"`
	Progressive    bool   `json:"progressive"`
}

// GameState represents the current game state
type GameState struct {
	ID             string        `json:"id"`
	State          string        `json:"state"`
	Config         SessionConfig `json:"config"`
	Contestants    []Contestant  `json:"contestants"`
	QuestionNumber int           `json:"question_number"`
	Problem        *Problem      `json:"problem,omitempty"`
	Answered       []string      `json:"answered,omitempty"`
	RoundStartedAt *time.Time    `json:"round_started_at,omitempty"`
}

// GameStateFromModel converts model.Session to response GameState
func GameStateFromModel(s *model.Session) GameState {
	contestants := make([]Contestant, len(s.Contestants))
	for i, c := range s.Contestants {
		contestants[i] = ContestantFromModel(c)
	}

	var problem *Problem
	if s.CurrentProblem != nil && s.State == model.SessionStateInRound {
		problem = &Problem{
			Text:  s.CurrentProblem.Text,
			Level: s.CurrentProblem.Level,
		}
	}

	var answered []string
	for pid := range s.Answers {
		answered = append(answered, string(pid))
	}

	var roundStartedAt *time.Time
	if !s.RoundStartedAt.IsZero() {
		t := s.RoundStartedAt
		roundStartedAt = &t
	}

	return GameState{
		ID:    string(s.ID),
		State: string(s.State),
		Config: SessionConfig{
			Difficulty:     int(s.Config.Difficulty),
			DifficultyName: s.Config.Difficulty.String(),
			Mode:           string(s.Config.Mode),
			QuestionLimit:  s.Config.QuestionLimit,
			StartingLives:  s.Config.StartingLives,
			RoundTimeoutMS: int(s.Config.RoundTimeout.Milliseconds()),
			Progressive:    s.Config.Progressive,
		},
		Contestants:    contestants,
		QuestionNumber: s.QuestionNumber,
		Problem:        problem,
		Answered:       answered,
		RoundStartedAt: roundStartedAt,
	}
}

// Standing is one leaderboard row
type Standing struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
	Lives       int    `json:"lives"`
	Correct     int    `json:"correct"`
}

// StandingFromModel converts model.Standing
func StandingFromModel(s model.Standing) Standing {
	return Standing{
		PlayerID:    string(s.PlayerID),
		DisplayName: s.DisplayName,
		Score:       s.Score,
		Lives:       s.Lives,
		Correct:     s.Correct,
	}
}

// GameSummary represents a completed game summary
type GameSummary struct {
	SessionID   string         `json:"session_id"`
	FinalScores map[string]int `json:"final_scores"`
	Winner      *string        `json:"winner"`
	Standings   []Standing     `json:"standings"`
	Questions   int            `json:"questions"`
	CompletedAt time.Time      `json:"completed_at"`
}

// GameSummaryFromModel converts model.GameSummary
func GameSummaryFromModel(g model.GameSummary) GameSummary {
	scores := make(map[string]int, len(g.FinalScores))
	for pid, score := range g.FinalScores {
		scores[string(pid)] = score
	}
	var winner *string
	if g.Winner != "" {
		w := string(g.Winner)
		winner = &w
	}
	standings := make([]Standing, len(g.Standings))
	for i, s := range g.Standings {
		standings[i] = StandingFromModel(s)
	}
	return GameSummary{
		SessionID:   string(g.SessionID),
		FinalScores: scores,
		Winner:      winner,
		Standings:   standings,
		Questions:   g.Questions,
		CompletedAt: g.CompletedAt,
	}
}
