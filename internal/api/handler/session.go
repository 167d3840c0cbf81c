package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/quizforge/mathduel/internal/api/middleware"
	"github.com/quizforge/mathduel/internal/api/request"
	"github.com/quizforge/mathduel/internal/api/response"
	"github.com/quizforge/mathduel/internal/api/sse"
	"github.com/quizforge/mathduel/internal/model"
	"github.com/quizforge/mathduel/internal/services/bot"
	"github.com/quizforge/mathduel/internal/services/session"
	"github.com/quizforge/mathduel/internal/storage"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	sessions   session.ControllerInterface
	botService *bot.Service
	store      storage.Storage
	hubManager *sse.HubManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(
	sessions session.ControllerInterface,
	botService *bot.Service,
	store storage.Storage,
	hubManager *sse.HubManager,
) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		botService: botService,
		store:      store,
		hubManager: hubManager,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	cfg, err := h.buildConfig(&req)
	if err != nil {
		WriteError(w, err)
		return
	}

	roster, err := h.buildRoster(r.Context(), player, &req)
	if err != nil {
		WriteError(w, err)
		return
	}

	s, err := h.sessions.CreateSession(r.Context(), cfg, roster)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameStateFromModel(s))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	s, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(s))
}

// Start handles POST /api/v1/sessions/{id}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.SessionID(mux.Vars(r)["id"])

	if err := h.requireParticipant(r.Context(), id, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	s, err := h.sessions.Start(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Bots answer the opening question straight away
	h.processBotAnswers(r.Context(), id)

	s, err = h.sessions.GetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(s))
}

// Answer handles POST /api/v1/sessions/{id}/answer
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.sessions.SubmitAnswer(r.Context(), id, player.ID, req.Answer); err != nil {
		WriteError(w, err)
		return
	}

	// The round may have advanced; bots answer any new question
	h.processBotAnswers(r.Context(), id)

	s, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(s))
}

// Abandon handles POST /api/v1/sessions/{id}/abandon
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.SessionID(mux.Vars(r)["id"])

	if err := h.requireParticipant(r.Context(), id, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.sessions.Abandon(r.Context(), id, "abandoned by player"); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Results handles GET /api/v1/sessions/{id}/results
func (h *SessionHandler) Results(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	summary, err := h.sessions.GetResults(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameSummaryFromModel(*summary))
}

// Events handles GET /api/v1/sessions/{id}/events (SSE)
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.SessionID(mux.Vars(r)["id"])

	// Confirm the session exists before holding a stream open
	if _, err := h.sessions.GetSession(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(id)
	sse.ServeSSE(w, r, hub, player.ID)
}

// buildConfig translates the request into a session config.
// Zero-valued fields keep their defaults.
func (h *SessionHandler) buildConfig(req *request.CreateSessionRequest) (model.SessionConfig, error) {
	cfg := model.DefaultSessionConfig()

	if req.Difficulty != 0 {
		cfg.Difficulty = model.Difficulty(req.Difficulty)
	}
	if req.QuestionLimit != 0 {
		cfg.QuestionLimit = req.QuestionLimit
	}
	if req.StartingLives != 0 {
		cfg.StartingLives = req.StartingLives
	}
	if req.RoundTimeoutMS != 0 {
		cfg.RoundTimeout = time.Duration(req.RoundTimeoutMS) * time.Millisecond
	}
	if req.Progressive != nil {
		cfg.Progressive = *req.Progressive
	}

	switch req.Mode {
	case "":
		if req.Bots > 0 {
			cfg.Mode = model.ModeVersusBot
		}
	case string(model.ModeMultiplayer):
		cfg.Mode = model.ModeMultiplayer
	case string(model.ModeVersusBot):
		cfg.Mode = model.ModeVersusBot
	default:
		return cfg, NewInvalidRequestError("unknown mode: " + req.Mode)
	}

	return cfg, nil
}

// buildRoster assembles the game roster: the creator, any named
// opponents, and any requested bots.
func (h *SessionHandler) buildRoster(ctx context.Context, creator *model.Player, req *request.CreateSessionRequest) ([]model.Player, error) {
	roster := []model.Player{*creator}

	for _, opponentID := range req.Opponents {
		opponent, err := h.store.GetPlayer(ctx, model.PlayerID(opponentID))
		if err != nil {
			return nil, err
		}
		roster = append(roster, *opponent)
	}

	for i := 0; i < req.Bots; i++ {
		name := ""
		if req.Bots > 1 {
			name = fmt.Sprintf("Math Bot %d", i+1)
		}
		botPlayer, err := h.botService.CreateBotPlayer(ctx, name, req.BotStrategy)
		if err != nil {
			return nil, err
		}
		roster = append(roster, *botPlayer)
	}

	return roster, nil
}

// requireParticipant rejects players that are not in the session roster
func (h *SessionHandler) requireParticipant(ctx context.Context, id model.SessionID, playerID model.PlayerID) error {
	s, err := h.sessions.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if s.GetContestant(playerID) == nil {
		return model.ErrNotInSession
	}
	return nil
}

// processBotAnswers lets bots take their turns after a state change
func (h *SessionHandler) processBotAnswers(ctx context.Context, id model.SessionID) {
	if h.botService == nil {
		return
	}
	_, _ = h.botService.ProcessBotAnswers(ctx, id)
}
