package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case GameState:
		o.printGameState(v)
	case GameSummary:
		o.printGameSummary(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
	IsGuest     bool   `json:"is_guest"`
	IsBot       bool   `json:"is_bot,omitempty"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// Contestant response type
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

// Problem response type
type Problem struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// SessionConfig response type
type SessionConfig struct {
	Difficulty     int    `json:"difficulty"`
	DifficultyName string `json:"difficulty_name"`
	Mode           string `json:"mode"`
	QuestionLimit  int    `json:"question_limit"`
	StartingLives  int    `json:"starting_lives"`
	RoundTimeoutMS int    `json:"round_timeout_ms"`
	Progressive    bool   `json:"progressive"`
}

// GameState response type
type GameState struct {
	ID             string        `json:"id"`
	State          string        `json:"state"`
	Config         SessionConfig `json:"config"`
	Contestants    []Contestant  `json:"contestants"`
	QuestionNumber int           `json:"question_number"`
	Problem        *Problem      `json:"problem,omitempty"`
	Answered       []string      `json:"answered,omitempty"`
}

// Standing response type
type Standing struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
	Lives       int    `json:"lives"`
	Correct     int    `json:"correct"`
}

// GameSummary response type
type GameSummary struct {
	SessionID   string         `json:"session_id"`
	FinalScores map[string]int `json:"final_scores"`
	Winner      *string        `json:"winner"`
	Standings   []Standing     `json:"standings"`
	Questions   int            `json:"questions"`
	CompletedAt string         `json:"completed_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	name := p.DisplayName
	if p.Avatar != "" {
		name = p.Avatar + " " + name
	}
	fmt.Printf("Player: %s (%s)\n", name, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printGameState(g GameState) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("State: %s\n", g.State)
	fmt.Printf("Difficulty: %s\n", g.Config.DifficultyName)
	fmt.Printf("Mode: %s\n", g.Config.Mode)
	if g.QuestionNumber > 0 {
		fmt.Printf("Question: %d/%d\n", g.QuestionNumber, g.Config.QuestionLimit)
	}

	if g.Problem != nil {
		fmt.Printf("\n  %s = ?\n\n", g.Problem.Text)
	}

	fmt.Printf("Contestants (%d):\n", len(g.Contestants))
	for _, c := range g.Contestants {
		name := c.DisplayName
		if c.Avatar != "" {
			name = c.Avatar + " " + name
		}
		status := ""
		if c.Eliminated {
			status = " [out]"
		} else if contains(g.Answered, c.PlayerID) {
			status = " [answered]"
		}
		fmt.Printf("  - %s: %d pts, %s%s\n", name, c.Score, livesDisplay(c.Lives), status)
	}
}

func (o *Output) printGameSummary(s GameSummary) {
	fmt.Printf("Game: %s\n", s.SessionID)
	fmt.Printf("Questions played: %d\n", s.Questions)

	if s.Winner != nil {
		for _, row := range s.Standings {
			if row.PlayerID == *s.Winner {
				fmt.Printf("Winner: %s\n", row.DisplayName)
			}
		}
	} else {
		fmt.Println("Result: tie")
	}

	fmt.Println("\nFinal standings:")
	for i, row := range s.Standings {
		fmt.Printf("  %d. %s: %d pts (%d correct, %s)\n",
			i+1, row.DisplayName, row.Score, row.Correct, livesDisplay(row.Lives))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

// livesDisplay renders remaining lives as hearts
func livesDisplay(lives int) string {
	if lives <= 0 {
		return "no lives"
	}
	return strings.Repeat("❤️", lives)
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
