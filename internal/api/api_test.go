package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/quizforge/mathduel/internal/api/apierr"
	"github.com/quizforge/mathduel/internal/api/response"
	"github.com/quizforge/mathduel/internal/factory"
	"github.com/quizforge/mathduel/internal/testutil"
)

type APISuite struct {
	suite.Suite
	app    *factory.App
	router http.Handler
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	app, err := factory.New(factory.Config{Logger: testutil.NopLogger()})
	s.Require().NoError(err)
	s.app = app

	s.router = NewRouter(RouterConfig{
		Logger:            testutil.NopLogger(),
		AuthService:       app.AuthService,
		SessionController: app.SessionController,
		BotService:        app.BotService,
		Storage:           app.Storage,
		HubManager:        app.HubManager,
	})
}

func (s *APISuite) TearDownTest() {
	s.NoError(s.app.Close())
}

// doJSON performs a request with an optional bearer token and JSON body
func (s *APISuite) doJSON(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(out))
}

func (s *APISuite) decodeError(rec *httptest.ResponseRecorder) apierr.APIError {
	var resp apierr.ErrorResponse
	s.decode(rec, &resp)
	return resp.Error
}

// createGuest creates a guest player and returns its token and player ID
func (s *APISuite) createGuest(name string) (token, playerID string) {
	rec := s.doJSON(http.MethodPost, "/api/v1/players/guest", "", map[string]string{
		"display_name": name,
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var auth response.AuthResponse
	s.decode(rec, &auth)
	return auth.SessionToken, auth.Player.ID
}

// createSession creates a session as the token's player and returns its ID
func (s *APISuite) createSession(token string, body map[string]any) string {
	rec := s.doJSON(http.MethodPost, "/api/v1/sessions", token, body)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var state response.GameState
	s.decode(rec, &state)
	return state.ID
}

func (s *APISuite) TestHealth() {
	rec := s.doJSON(http.MethodGet, "/api/v1/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (s *APISuite) TestCreateGuest() {
	rec := s.doJSON(http.MethodPost, "/api/v1/players/guest", "", map[string]string{
		"display_name": "Alice",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var auth response.AuthResponse
	s.decode(rec, &auth)
	s.NotEmpty(auth.SessionToken)
	s.NotEmpty(auth.Player.ID)
	s.Equal("Alice", auth.Player.DisplayName)
	s.True(auth.Player.IsGuest)
}

func (s *APISuite) TestCreateGuestRequiresDisplayName() {
	rec := s.doJSON(http.MethodPost, "/api/v1/players/guest", "", map[string]string{})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(apierr.CodeInvalidRequest, s.decodeError(rec).Code)
}

func (s *APISuite) TestCreateGuestTrimsDisplayName() {
	rec := s.doJSON(http.MethodPost, "/api/v1/players/guest", "", map[string]string{
		"display_name": "  Alice  ",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var auth response.AuthResponse
	s.decode(rec, &auth)
	s.Equal("Alice", auth.Player.DisplayName)
}

func (s *APISuite) TestRegisterValidationBounds() {
	cases := map[string]map[string]string{
		"short username": {"username": "al", "password": "hunter22", "display_name": "Alice"},
		"short password": {"username": "alice", "password": "short", "display_name": "Alice"},
		"long display name": {
			"username":     "alice",
			"password":     "hunter22",
			"display_name": strings.Repeat("A", 33),
		},
	}
	for name, body := range cases {
		rec := s.doJSON(http.MethodPost, "/api/v1/players/register", "", body)
		s.Equal(http.StatusBadRequest, rec.Code, name)
		s.Equal(apierr.CodeInvalidRequest, s.decodeError(rec).Code, name)
	}
}

func (s *APISuite) TestRegisterAndLogin() {
	rec := s.doJSON(http.MethodPost, "/api/v1/players/register", "", map[string]string{
		"username":     "alice",
		"password":     "hunter22",
		"display_name": "Alice",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var registered response.AuthResponse
	s.decode(rec, &registered)
	s.False(registered.Player.IsGuest)

	rec = s.doJSON(http.MethodPost, "/api/v1/players/login", "", map[string]string{
		"username": "alice",
		"password": "hunter22",
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	var loggedIn response.AuthResponse
	s.decode(rec, &loggedIn)
	s.Equal(registered.Player.ID, loggedIn.Player.ID)
}

func (s *APISuite) TestRegisterDuplicateUsername() {
	body := map[string]string{
		"username":     "alice",
		"password":     "hunter22",
		"display_name": "Alice",
	}
	rec := s.doJSON(http.MethodPost, "/api/v1/players/register", "", body)
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.doJSON(http.MethodPost, "/api/v1/players/register", "", body)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(apierr.CodeUsernameExists, s.decodeError(rec).Code)
}

func (s *APISuite) TestLoginBadPassword() {
	rec := s.doJSON(http.MethodPost, "/api/v1/players/register", "", map[string]string{
		"username":     "alice",
		"password":     "hunter22",
		"display_name": "Alice",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.doJSON(http.MethodPost, "/api/v1/players/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(apierr.CodeInvalidCredentials, s.decodeError(rec).Code)
}

func (s *APISuite) TestGetMe() {
	token, playerID := s.createGuest("Alice")

	rec := s.doJSON(http.MethodGet, "/api/v1/players/me", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var player response.Player
	s.decode(rec, &player)
	s.Equal(playerID, player.ID)
}

func (s *APISuite) TestAuthRequired() {
	rec := s.doJSON(http.MethodGet, "/api/v1/players/me", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(apierr.CodeUnauthorized, s.decodeError(rec).Code)

	rec = s.doJSON(http.MethodPost, "/api/v1/sessions", "sess_bogus", map[string]any{})
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APISuite) TestCreateSessionAppliesConfig() {
	token, playerID := s.createGuest("Alice")

	rec := s.doJSON(http.MethodPost, "/api/v1/sessions", token, map[string]any{
		"difficulty":       2,
		"question_limit":   10,
		"starting_lives":   2,
		"round_timeout_ms": 10000,
		"progressive":      false,
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var state response.GameState
	s.decode(rec, &state)
	s.Equal("setup", state.State)
	s.Equal(2, state.Config.Difficulty)
	s.Equal("medium", state.Config.DifficultyName)
	s.Equal(10, state.Config.QuestionLimit)
	s.Equal(2, state.Config.StartingLives)
	s.Equal(10000, state.Config.RoundTimeoutMS)
	s.False(state.Config.Progressive)
	s.Require().Len(state.Contestants, 1)
	s.Equal(playerID, state.Contestants[0].PlayerID)
	s.Equal(2, state.Contestants[0].Lives)
	s.Nil(state.Problem)
}

func (s *APISuite) TestCreateSessionInvalidDifficulty() {
	token, _ := s.createGuest("Alice")

	rec := s.doJSON(http.MethodPost, "/api/v1/sessions", token, map[string]any{
		"difficulty": 5,
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(apierr.CodeInvalidDifficulty, s.decodeError(rec).Code)
}

func (s *APISuite) TestCreateSessionUnknownMode() {
	token, _ := s.createGuest("Alice")

	rec := s.doJSON(http.MethodPost, "/api/v1/sessions", token, map[string]any{
		"mode": "battle_royale",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(apierr.CodeInvalidRequest, s.decodeError(rec).Code)
}

func (s *APISuite) TestSoloGameLifecycle() {
	token, playerID := s.createGuest("Alice")
	id := s.createSession(token, map[string]any{
		"question_limit": 5,
		"starting_lives": 2,
	})

	// The first round opens on start
	rec := s.doJSON(http.MethodPost, "/api/v1/sessions/"+id+"/start", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var state response.GameState
	s.decode(rec, &state)
	s.Equal("in_round", state.State)
	s.Equal(1, state.QuestionNumber)
	s.Require().NotNil(state.Problem)
	s.NotEmpty(state.Problem.Text)

	// A wrong answer costs a life and the game moves on
	rec = s.doJSON(http.MethodPost, "/api/v1/sessions/"+id+"/answer", token, map[string]string{
		"answer": "banana",
	})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &state)
	s.Equal("in_round", state.State)
	s.Equal(2, state.QuestionNumber)
	s.Equal(1, state.Contestants[0].Lives)

	// Results are not available while the game is running
	rec = s.doJSON(http.MethodGet, "/api/v1/sessions/"+id+"/results", token, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(apierr.CodeResultsNotFound, s.decodeError(rec).Code)

	// Losing the last life ends the game
	rec = s.doJSON(http.MethodPost, "/api/v1/sessions/"+id+"/answer", token, map[string]string{
		"answer": "banana",
	})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &state)
	s.Equal("game_over", state.State)
	s.Equal(0, state.Contestants[0].Lives)
	s.True(state.Contestants[0].Eliminated)

	rec = s.doJSON(http.MethodGet, "/api/v1/sessions/"+id+"/results", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var summary response.GameSummary
	s.decode(rec, &summary)
	s.Equal(id, summary.SessionID)
	s.Require().NotNil(summary.Winner)
	s.Equal(playerID, *summary.Winner)
	s.Contains(summary.FinalScores, playerID)

	// No more answers after the game ends
	rec = s.doJSON(http.MethodPost, "/api/v1/sessions/"+id+"/answer", token, map[string]string{
		"answer": "7",
	})
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(apierr.CodeGameComplete, s.decodeError(rec).Code)
}

func (s *APISuite) TestVersusBotGame() {
	token, playerID := s.createGuest("Alice")

	rec := s.doJSON(http.MethodPost, "/api/v1/sessions", token, map[string]any{
		"bots": 1,
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var state response.GameState
	s.decode(rec, &state)
	s.Equal("versus_bot", state.Config.Mode)
	s.Require().Len(state.Contestants, 2)

	var botID string
	for _, c := range state.Contestants {
		if c.IsBot {
			botID = c.PlayerID
		}
	}
	s.Require().NotEmpty(botID)
	s.NotEqual(playerID, botID)

	// On start the bot answers the opening question immediately
	rec = s.doJSON(http.MethodPost, "/api/v1/sessions/"+state.ID+"/start", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &state)
	s.Equal("in_round", state.State)
	s.Contains(state.Answered, botID)
	s.NotContains(state.Answered, playerID)
}

func (s *APISuite) TestAnswerBeforeStart() {
	token, _ := s.createGuest("Alice")
	id := s.createSession(token, map[string]any{})

	rec := s.doJSON(http.MethodPost, "/api/v1/sessions/"+id+"/answer", token, map[string]string{
		"answer": "7",
	})
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(apierr.CodeSessionNotActive, s.decodeError(rec).Code)
}

func (s *APISuite) TestStartByOutsiderForbidden() {
	token, _ := s.createGuest("Alice")
	id := s.createSession(token, map[string]any{})

	outsider, _ := s.createGuest("Mallory")
	rec := s.doJSON(http.MethodPost, "/api/v1/sessions/"+id+"/start", outsider, nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal(apierr.CodeNotInSession, s.decodeError(rec).Code)
}

func (s *APISuite) TestGetUnknownSession() {
	token, _ := s.createGuest("Alice")

	rec := s.doJSON(http.MethodGet, "/api/v1/sessions/game-missing", token, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(apierr.CodeSessionNotFound, s.decodeError(rec).Code)
}

func (s *APISuite) TestAbandonSession() {
	token, _ := s.createGuest("Alice")
	id := s.createSession(token, map[string]any{})

	rec := s.doJSON(http.MethodPost, "/api/v1/sessions/"+id+"/start", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.doJSON(http.MethodPost, "/api/v1/sessions/"+id+"/abandon", token, nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.doJSON(http.MethodPost, "/api/v1/sessions/"+id+"/answer", token, map[string]string{
		"answer": "7",
	})
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(apierr.CodeSessionAbandoned, s.decodeError(rec).Code)
}
