package memory

import (
	"context"
	"sync"

	"github.com/quizforge/mathduel/internal/model"
	"github.com/quizforge/mathduel/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on save and get: callers never share state with the
// store, so a session mutated under the controller lock cannot race a
// handler reading it. This mirrors the isolation the Redis backend gets
// from its JSON round-trip.
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	sessions          map[model.SessionID]*model.Session
	summaries         map[model.SessionID]*model.GameSummary
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		sessions:          make(map[model.SessionID]*model.Session),
		summaries:         make(map[model.SessionID]*model.GameSummary),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = clonePlayer(player)
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return clonePlayer(player), nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredPlayers[rp.PlayerID] = cloneRegisteredPlayer(rp)
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return cloneRegisteredPlayer(rp), nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return cloneRegisteredPlayer(rp), nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Summary operations

func (s *Storage) SaveSummary(ctx context.Context, summary *model.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[summary.SessionID] = cloneSummary(summary)
	return nil
}

func (s *Storage) GetSummary(ctx context.Context, sessionID model.SessionID) (*model.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.summaries[sessionID]
	if !ok {
		return nil, model.ErrSummaryNotFound
	}
	return cloneSummary(summary), nil
}

// Clone helpers

func clonePlayer(p *model.Player) *model.Player {
	cp := *p
	return &cp
}

func cloneRegisteredPlayer(rp *model.RegisteredPlayer) *model.RegisteredPlayer {
	cp := *rp
	return &cp
}

func cloneSession(s *model.Session) *model.Session {
	cp := *s
	if s.Contestants != nil {
		cp.Contestants = make([]*model.Contestant, len(s.Contestants))
		for i, c := range s.Contestants {
			cc := *c
			cp.Contestants[i] = &cc
		}
	}
	if s.CurrentProblem != nil {
		p := *s.CurrentProblem
		cp.CurrentProblem = &p
	}
	if s.Answers != nil {
		cp.Answers = make(map[model.PlayerID]*model.Answer, len(s.Answers))
		for id, a := range s.Answers {
			aa := *a
			cp.Answers[id] = &aa
		}
	}
	return &cp
}

func cloneSummary(g *model.GameSummary) *model.GameSummary {
	cp := *g
	if g.FinalScores != nil {
		cp.FinalScores = make(map[model.PlayerID]int, len(g.FinalScores))
		for id, score := range g.FinalScores {
			cp.FinalScores[id] = score
		}
	}
	if g.Standings != nil {
		cp.Standings = append([]model.Standing(nil), g.Standings...)
	}
	return &cp
}
