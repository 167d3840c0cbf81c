package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateSessionRequest is the request body for creating a game session
type CreateSessionRequest struct {
	Difficulty     int      `json:"difficulty,omitempty"`
	Mode           string   `json:"mode,omitempty"`
	QuestionLimit  int      `json:"question_limit,omitempty"`
	StartingLives  int      `json:"starting_lives,omitempty"`
	RoundTimeoutMS int      `json:"round_timeout_ms,omitempty"`
	Progressive    *bool    `json:"progressive,omitempty"`
	Opponents      []string `json:"opponents,omitempty"`
	Bots           int      `json:"bots,omitempty"`
	BotStrategy    string   `json:"bot_strategy,omitempty"`
}

// SubmitAnswerRequest is the request body for answering the current question
type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}
