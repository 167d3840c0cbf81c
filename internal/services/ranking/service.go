package ranking

import (
	"sort"

	"github.com/quizforge/mathduel/internal/model"
)

// Service ranks contestants and applies the winner rule
type Service struct{}

// New creates a new ranking Service
func New() *Service {
	return &Service{}
}

// Standings returns a leaderboard sorted by score, then remaining lives,
// then display name for a stable order
func (s *Service) Standings(contestants []*model.Contestant) []model.Standing {
	standings := make([]model.Standing, 0, len(contestants))
	for _, c := range contestants {
		standings = append(standings, model.Standing{
			PlayerID:    c.PlayerID,
			DisplayName: c.DisplayName,
			Score:       c.Score,
			Lives:       c.Lives,
			Correct:     c.CorrectAnswers,
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		if standings[i].Lives != standings[j].Lives {
			return standings[i].Lives > standings[j].Lives
		}
		return standings[i].DisplayName < standings[j].DisplayName
	})

	return standings
}

// DetermineWinner returns the winner's PlayerID, or empty string if tied.
// Highest score wins; a score tie is broken by most remaining lives.
func (s *Service) DetermineWinner(standings []model.Standing) model.PlayerID {
	if len(standings) == 0 {
		return ""
	}

	top := standings[0]
	tied := 0
	for _, st := range standings {
		if st.Score == top.Score && st.Lives == top.Lives {
			tied++
		}
	}

	if tied > 1 {
		return "" // Tie
	}

	return top.PlayerID
}

// Summarize builds the completed-game record for a session
func (s *Service) Summarize(session *model.Session) *model.GameSummary {
	standings := s.Standings(session.Contestants)

	finalScores := make(map[model.PlayerID]int, len(standings))
	for _, st := range standings {
		finalScores[st.PlayerID] = st.Score
	}

	return &model.GameSummary{
		SessionID:   session.ID,
		FinalScores: finalScores,
		Winner:      s.DetermineWinner(standings),
		Standings:   standings,
		Questions:   session.QuestionNumber,
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	Standings(contestants []*model.Contestant) []model.Standing
	DetermineWinner(standings []model.Standing) model.PlayerID
	Summarize(session *model.Session) *model.GameSummary
}

var _ ServiceInterface = (*Service)(nil)
