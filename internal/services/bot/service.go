package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/quizforge/mathduel/internal/dependencies/clock"
	"github.com/quizforge/mathduel/internal/dependencies/random"
	"github.com/quizforge/mathduel/internal/model"
	"github.com/quizforge/mathduel/internal/services/session"
	"github.com/quizforge/mathduel/internal/storage"
)

const (
	// PlayerIDAlphabet is the character set for generating bot player IDs
	PlayerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// PlayerIDLength is the length of generated bot player IDs
	PlayerIDLength = 16
	// MaxBotRounds is a safety limit for the ProcessBotAnswers loop; an
	// all-bot session can cascade through many rounds in one call
	MaxBotRounds = 1000

	// DefaultStrategy is used when a bot has no strategy recorded
	DefaultStrategy = "skill"

	botAvatar = "🤖"
)

// BotAnswer records one answer submitted on behalf of a bot
type BotAnswer struct {
	PlayerID       model.PlayerID
	QuestionNumber int
	Value          int
	ResponseTime   string // human-readable, e.g. "1.3s"
}

// Service drives bot players: it creates them and submits their answers
// whenever a round is waiting on one
type Service struct {
	storage           storage.Storage
	sessionController *session.Controller
	strategies        map[string]Strategy
	clock             clock.Clock
	random            random.Random
	logger            *slog.Logger
}

// NewService creates a new bot Service
func NewService(
	store storage.Storage,
	sessionController *session.Controller,
	strategies map[string]Strategy,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:           store,
		sessionController: sessionController,
		strategies:        strategies,
		clock:             clk,
		random:            rnd,
		logger:            logger.With(slog.String("component", "bot-service")),
	}
}

// CreateBotPlayer creates a new bot player and saves it to storage
func (s *Service) CreateBotPlayer(ctx context.Context, displayName string, strategy string) (*model.Player, error) {
	if strategy == "" {
		strategy = DefaultStrategy
	}
	if _, ok := s.strategies[strategy]; !ok {
		return nil, fmt.Errorf("unknown bot strategy: %s", strategy)
	}
	if displayName == "" {
		displayName = "Math Bot"
	}

	player := &model.Player{
		ID:          model.PlayerID("bot-" + s.random.String(PlayerIDLength, PlayerIDAlphabet)),
		DisplayName: displayName,
		Avatar:      botAvatar,
		IsGuest:     true,
		IsBot:       true,
		BotStrategy: strategy,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	return player, nil
}

// ProcessBotAnswers submits answers for every live bot that has not yet
// answered the current problem. Because a round evaluates as soon as the
// last live player answers, one call can cascade through several rounds
// when only bots remain; the loop stops once a human is being waited on
// or the session finishes. Returns all answers submitted so handlers can
// report them.
func (s *Service) ProcessBotAnswers(ctx context.Context, sessionID model.SessionID) ([]BotAnswer, error) {
	var answers []BotAnswer

	for round := 0; round < MaxBotRounds; round++ {
		sess, err := s.sessionController.GetSession(ctx, sessionID)
		if err != nil {
			return answers, err
		}

		if sess.State != model.SessionStateInRound || sess.CurrentProblem == nil {
			break
		}

		questionNumber := sess.QuestionNumber
		anySubmitted := false
		for _, contestant := range sess.LiveContestants() {
			if !contestant.IsBot {
				continue
			}
			if _, ok := sess.Answers[contestant.PlayerID]; ok {
				continue
			}

			strategy := s.strategyFor(contestant)
			value, think := strategy.Answer(sess.CurrentProblem.Answer, sess.CurrentProblem.Level)

			err := s.sessionController.SubmitTimedAnswer(ctx, sessionID, contestant.PlayerID, strconv.Itoa(value), think)
			if err != nil {
				return answers, err
			}

			answers = append(answers, BotAnswer{
				PlayerID:       contestant.PlayerID,
				QuestionNumber: questionNumber,
				Value:          value,
				ResponseTime:   think.String(),
			})
			anySubmitted = true
		}

		if !anySubmitted {
			break // Waiting on humans
		}

		// Re-read to see whether the round advanced; if it did and bots
		// are still the only live players, keep cascading
		sess, err = s.sessionController.GetSession(ctx, sessionID)
		if err != nil {
			return answers, err
		}
		if sess.Finished() {
			break
		}
		if sess.QuestionNumber == questionNumber {
			break // Round still open, humans outstanding
		}
	}

	if len(answers) > 0 {
		s.logger.Info("bot answers submitted",
			slog.String("session_id", string(sessionID)),
			slog.Int("count", len(answers)),
		)
	}

	return answers, nil
}

// strategyFor returns the strategy for a bot contestant, falling back to
// the default strategy if the recorded one is not registered
func (s *Service) strategyFor(contestant *model.Contestant) Strategy {
	if st, ok := s.strategies[contestant.BotStrategy]; ok {
		return st
	}
	if st, ok := s.strategies[DefaultStrategy]; ok {
		return st
	}
	for _, st := range s.strategies {
		return st
	}
	return nil
}
