package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/quizforge/mathduel/internal/api/middleware"
	"github.com/quizforge/mathduel/internal/api/request"
	"github.com/quizforge/mathduel/internal/api/response"
	"github.com/quizforge/mathduel/internal/services/auth"
)

const (
	maxDisplayNameLen = 32
	minUsernameLen    = 3
	maxUsernameLen    = 24
	minPasswordLen    = 8
)

// PlayerHandler handles player account endpoints
type PlayerHandler struct {
	authService *auth.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService *auth.Service) *PlayerHandler {
	return &PlayerHandler{
		authService: authService,
	}
}

// validDisplayName trims the submitted name and checks its length
func validDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewInvalidRequestError("display_name is required")
	}
	if len(name) > maxDisplayNameLen {
		return "", NewInvalidRequestError(fmt.Sprintf("display_name must be at most %d characters", maxDisplayNameLen))
	}
	return name, nil
}

func validUsername(username string) error {
	if username == "" {
		return NewInvalidRequestError("username is required")
	}
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return NewInvalidRequestError(fmt.Sprintf("username must be %d to %d characters", minUsernameLen, maxUsernameLen))
	}
	return nil
}

// CreateGuest handles POST /api/v1/players/guest
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	name, err := validDisplayName(req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.authService.CreateGuestPlayer(r.Context(), name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := validUsername(req.Username); err != nil {
		WriteError(w, err)
		return
	}
	if len(req.Password) < minPasswordLen {
		WriteError(w, NewInvalidRequestError(fmt.Sprintf("password must be at least %d characters", minPasswordLen)))
		return
	}
	name, err := validDisplayName(req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.authService.RegisterPlayer(r.Context(), req.Username, req.Password, name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/players/login. Credentials get only a
// presence check here; anything else is the auth service's call.
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}
