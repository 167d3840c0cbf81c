package session

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/mathduel/internal/dependencies/clock"
	"github.com/quizforge/mathduel/internal/dependencies/random"
	"github.com/quizforge/mathduel/internal/model"
	"github.com/quizforge/mathduel/internal/services/question"
	"github.com/quizforge/mathduel/internal/services/ranking"
	"github.com/quizforge/mathduel/internal/storage"
)

const (
	// MinPlayers and MaxPlayers bound the roster size
	MinPlayers = 1
	MaxPlayers = 8

	// answerTolerance absorbs float formatting noise in submissions
	// ("12.0" for 12); answers themselves are always integers
	answerTolerance = 0.01
)

// Notifier receives session events as they happen. The API layer bridges
// these to SSE streams; tests use a recording sink.
type Notifier interface {
	Publish(event model.Event)
}

// Scheduler arms and disarms the per-round timeout. At most one timer is
// armed per session; arming replaces any previous one.
type Scheduler interface {
	Arm(id model.SessionID, d time.Duration, fn func())
	Disarm(id model.SessionID)
}

// Controller owns the session state machine and turn flow: it starts
// rounds, records answers, scores them, and evaluates end conditions.
type Controller struct {
	storage   storage.Storage
	questions question.GeneratorInterface
	ranking   *ranking.Service
	clock     clock.Clock
	random    random.Random
	notifier  Notifier
	scheduler Scheduler
	logger    *slog.Logger

	// Serializes gameplay mutation; round timeouts fire on a timer
	// goroutine and contend with HTTP submissions.
	mu sync.Mutex
}

// NewController creates a new session Controller. Notifier and scheduler
// may be nil.
func NewController(
	store storage.Storage,
	questions question.GeneratorInterface,
	rankingService *ranking.Service,
	clk clock.Clock,
	rnd random.Random,
	notifier Notifier,
	scheduler Scheduler,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   store,
		questions: questions,
		ranking:   rankingService,
		clock:     clk,
		random:    rnd,
		notifier:  notifier,
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "session-controller")),
	}
}

// CreateSession builds a session in the Setup state from a roster of
// players and a config. Zero-valued config fields fall back to defaults;
// difficulty is fixed for the life of the session.
func (c *Controller) CreateSession(ctx context.Context, cfg model.SessionConfig, players []model.Player) (*model.Session, error) {
	if len(players) < MinPlayers {
		return nil, model.ErrNotEnoughPlayers
	}
	if len(players) > MaxPlayers {
		return nil, model.ErrTooManyPlayers
	}

	defaults := model.DefaultSessionConfig()
	if cfg.Difficulty == 0 {
		cfg.Difficulty = defaults.Difficulty
	}
	if cfg.Difficulty < model.DifficultyEasy || cfg.Difficulty > model.DifficultyHard {
		return nil, model.ErrInvalidDifficulty
	}
	if cfg.Mode == "" {
		cfg.Mode = defaults.Mode
	}
	if cfg.QuestionLimit <= 0 {
		cfg.QuestionLimit = defaults.QuestionLimit
	}
	if cfg.StartingLives <= 0 {
		cfg.StartingLives = defaults.StartingLives
	}
	if cfg.RoundTimeout <= 0 {
		cfg.RoundTimeout = defaults.RoundTimeout
	}

	now := c.clock.Now()
	session := &model.Session{
		ID:        model.SessionID(uuid.NewString()),
		State:     model.SessionStateSetup,
		Config:    cfg,
		Answers:   make(map[model.PlayerID]*model.Answer),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, p := range players {
		session.Contestants = append(session.Contestants, &model.Contestant{
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			Avatar:      p.Avatar,
			IsBot:       p.IsBot,
			BotStrategy: p.BotStrategy,
			Lives:       cfg.StartingLives,
		})
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(session.ID)),
		slog.Int("players", len(players)),
		slog.String("difficulty", cfg.Difficulty.String()),
		slog.String("mode", string(cfg.Mode)),
	)

	return session, nil
}

// GetSession retrieves a session by ID
func (c *Controller) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// Start moves a session from Setup to InRound and generates the first
// problem
func (c *Controller) Start(ctx context.Context, id model.SessionID) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.State != model.SessionStateSetup {
		if session.Finished() {
			return nil, model.ErrGameComplete
		}
		return nil, model.ErrSessionStarted
	}

	session.StartedAt = c.clock.Now()
	if err := c.nextProblem(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session started", slog.String("session_id", string(id)))
	return session, nil
}

// SubmitAnswer records one player's answer for the current round, with the
// response time measured from the round start. Malformed input is scored
// as incorrect, never returned as an error.
func (c *Controller) SubmitAnswer(ctx context.Context, id model.SessionID, playerID model.PlayerID, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return err
	}

	elapsed := c.clock.Now().Sub(session.RoundStartedAt)
	return c.submit(ctx, session, playerID, raw, elapsed, false)
}

// SubmitTimedAnswer records an answer with an externally measured response
// time. Used for bot players, whose think time is simulated.
func (c *Controller) SubmitTimedAnswer(ctx context.Context, id model.SessionID, playerID model.PlayerID, raw string, responseTime time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return err
	}

	return c.submit(ctx, session, playerID, raw, responseTime, false)
}

// TimeoutRound scores every unanswered live contestant as incorrect and
// evaluates the round. questionNumber identifies the round the timer was
// armed for: a timeout that fires after that round has already been
// evaluated, or after the session ended, is a no-op.
func (c *Controller) TimeoutRound(ctx context.Context, id model.SessionID, questionNumber int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return err
	}

	if session.State != model.SessionStateInRound {
		return nil
	}
	if session.QuestionNumber != questionNumber {
		return nil
	}

	now := c.clock.Now()
	for _, contestant := range session.LiveContestants() {
		if _, ok := session.Answers[contestant.PlayerID]; ok {
			continue
		}
		session.Answers[contestant.PlayerID] = &model.Answer{
			PlayerID:     contestant.PlayerID,
			TimedOut:     true,
			ResponseTime: session.Config.RoundTimeout,
			SubmittedAt:  now,
		}
		contestant.LastResponse = session.Config.RoundTimeout
	}

	c.logger.Info("round timed out",
		slog.String("session_id", string(id)),
		slog.Int("question", session.QuestionNumber),
	)

	return c.evaluateRound(ctx, session)
}

// Abandon cancels a session prematurely
func (c *Controller) Abandon(ctx context.Context, id model.SessionID, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return err
	}

	if session.Finished() {
		return nil // Already finished
	}

	if c.scheduler != nil {
		c.scheduler.Disarm(id)
	}

	session.State = model.SessionStateAbandoned
	session.CurrentProblem = nil
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	c.logger.Info("session abandoned",
		slog.String("session_id", string(id)),
		slog.String("reason", reason),
	)

	c.publish(session, model.EventSessionAbandoned, "", model.SessionAbandonedPayload{Reason: reason})
	return nil
}

// GetResults returns the completed-game summary for a finished session
func (c *Controller) GetResults(ctx context.Context, id model.SessionID) (*model.GameSummary, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State != model.SessionStateGameOver {
		return nil, model.ErrSummaryNotFound
	}
	return c.storage.GetSummary(ctx, id)
}

// submit validates and records one answer, evaluating the round once every
// live contestant has answered. Caller holds the lock.
func (c *Controller) submit(ctx context.Context, session *model.Session, playerID model.PlayerID, raw string, responseTime time.Duration, timedOut bool) error {
	switch session.State {
	case model.SessionStateGameOver:
		return model.ErrGameComplete
	case model.SessionStateAbandoned:
		return model.ErrSessionAbandoned
	case model.SessionStateInRound:
	default:
		return model.ErrSessionNotActive
	}

	contestant := session.GetContestant(playerID)
	if contestant == nil {
		return model.ErrNotInSession
	}
	if contestant.Eliminated() {
		return model.ErrPlayerEliminated
	}
	if _, ok := session.Answers[playerID]; ok {
		return model.ErrAlreadyAnswered
	}
	if session.CurrentProblem == nil {
		return model.ErrNoProblemActive
	}

	answer := &model.Answer{
		PlayerID:     playerID,
		Raw:          raw,
		TimedOut:     timedOut,
		ResponseTime: responseTime,
		SubmittedAt:  c.clock.Now(),
	}

	if value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		answer.Parsed = true
		answer.Value = value
		answer.Correct = math.Abs(value-float64(session.CurrentProblem.Answer)) < answerTolerance
	}

	session.Answers[playerID] = answer
	contestant.LastResponse = responseTime
	session.UpdatedAt = c.clock.Now()

	c.publish(session, model.EventAnswerSubmitted, playerID, model.AnswerSubmittedPayload{
		PlayerID:     playerID,
		ResponseTime: responseTime,
	})

	if session.AllLiveAnswered() {
		return c.evaluateRound(ctx, session)
	}

	return c.storage.SaveSession(ctx, session)
}

// evaluateRound scores the collected answers, applies life loss, then
// either finishes the game or starts the next round. Caller holds the lock.
func (c *Controller) evaluateRound(ctx context.Context, session *model.Session) error {
	session.State = model.SessionStateEvaluating
	if c.scheduler != nil {
		c.scheduler.Disarm(session.ID)
	}

	results := make([]model.Answer, 0, len(session.Answers))
	for _, contestant := range session.Contestants {
		answer, ok := session.Answers[contestant.PlayerID]
		if !ok {
			continue
		}
		if answer.Correct {
			contestant.Score++
			contestant.CorrectAnswers++
		} else {
			contestant.LoseLife()
			if contestant.Eliminated() {
				c.publish(session, model.EventPlayerEliminated, contestant.PlayerID, model.PlayerEliminatedPayload{
					PlayerID:    contestant.PlayerID,
					DisplayName: contestant.DisplayName,
				})
			}
		}
		results = append(results, *answer)
	}

	c.publish(session, model.EventRoundEvaluated, "", model.RoundEvaluatedPayload{
		QuestionNumber: session.QuestionNumber,
		CorrectAnswer:  session.CurrentProblem.Answer,
		Results:        results,
		Standings:      c.ranking.Standings(session.Contestants),
	})

	if c.gameOver(session) {
		return c.finishGame(ctx, session)
	}

	return c.nextProblem(ctx, session)
}

// gameOver checks the end conditions: question limit reached, or too few
// live contestants to keep playing
func (c *Controller) gameOver(session *model.Session) bool {
	if session.QuestionNumber >= session.Config.QuestionLimit {
		return true
	}

	required := 2
	if len(session.Contestants) == 1 {
		required = 1
	}
	return len(session.LiveContestants()) < required
}

// nextProblem advances the question index, generates a problem at the
// current level, and opens a new round. Caller holds the lock.
func (c *Controller) nextProblem(ctx context.Context, session *model.Session) error {
	session.QuestionNumber++

	problem, err := c.questions.Generate(session.CurrentLevel())
	if err != nil {
		return err
	}

	now := c.clock.Now()
	session.State = model.SessionStateInRound
	session.CurrentProblem = problem
	session.Answers = make(map[model.PlayerID]*model.Answer)
	session.RoundStartedAt = now
	session.UpdatedAt = now

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	c.publish(session, model.EventProblemReady, "", model.ProblemReadyPayload{
		QuestionNumber: session.QuestionNumber,
		Level:          problem.Level,
		Text:           problem.Text,
	})

	if c.scheduler != nil {
		id := session.ID
		qn := session.QuestionNumber
		c.scheduler.Arm(id, session.Config.RoundTimeout, func() {
			if err := c.TimeoutRound(context.Background(), id, qn); err != nil {
				c.logger.Error("round timeout failed",
					slog.String("session_id", string(id)),
					slog.String("error", err.Error()),
				)
			}
		})
	}

	return nil
}

// finishGame moves the session to GameOver and persists the summary.
// Caller holds the lock.
func (c *Controller) finishGame(ctx context.Context, session *model.Session) error {
	now := c.clock.Now()
	session.State = model.SessionStateGameOver
	session.CurrentProblem = nil
	session.UpdatedAt = now

	summary := c.ranking.Summarize(session)
	summary.CompletedAt = now

	if err := c.storage.SaveSummary(ctx, summary); err != nil {
		return err
	}
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	c.logger.Info("game over",
		slog.String("session_id", string(session.ID)),
		slog.Int("questions", session.QuestionNumber),
		slog.String("winner", string(summary.Winner)),
	)

	c.publish(session, model.EventGameOver, "", model.GameOverPayload{Summary: *summary})
	return nil
}

// publish forwards an event to the notifier, if one is configured
func (c *Controller) publish(session *model.Session, eventType model.EventType, playerID model.PlayerID, payload any) {
	if c.notifier == nil {
		return
	}
	c.notifier.Publish(model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		SessionID: session.ID,
		PlayerID:  playerID,
		Payload:   payload,
	})
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateSession(ctx context.Context, cfg model.SessionConfig, players []model.Player) (*model.Session, error)
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	Start(ctx context.Context, id model.SessionID) (*model.Session, error)
	SubmitAnswer(ctx context.Context, id model.SessionID, playerID model.PlayerID, raw string) error
	SubmitTimedAnswer(ctx context.Context, id model.SessionID, playerID model.PlayerID, raw string, responseTime time.Duration) error
	TimeoutRound(ctx context.Context, id model.SessionID, questionNumber int) error
	Abandon(ctx context.Context, id model.SessionID, reason string) error
	GetResults(ctx context.Context, id model.SessionID) (*model.GameSummary, error)
}

var _ ControllerInterface = (*Controller)(nil)
