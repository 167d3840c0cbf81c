package bot

import (
	"time"

	"github.com/quizforge/mathduel/internal/dependencies/random"
)

// SkillConfig tunes a SkillStrategy. Accuracy and think-time windows are
// per level (1-3); the exact curve is a tunable, not a contract.
type SkillConfig struct {
	// Accuracy is the probability of a correct answer per level
	Accuracy map[int]float64
	// ThinkTimeMin and ThinkTimeMax bound the simulated latency per level
	ThinkTimeMin map[int]time.Duration
	ThinkTimeMax map[int]time.Duration
}

// DefaultSkillConfig returns the default tuning: accuracy drops as the
// level climbs, keeping harder games competitive against humans, and
// think time grows with the level.
func DefaultSkillConfig() SkillConfig {
	return SkillConfig{
		Accuracy: map[int]float64{
			1: 0.92,
			2: 0.80,
			3: 0.65,
		},
		ThinkTimeMin: map[int]time.Duration{
			1: 500 * time.Millisecond,
			2: 900 * time.Millisecond,
			3: 1400 * time.Millisecond,
		},
		ThinkTimeMax: map[int]time.Duration{
			1: 2 * time.Second,
			2: 3500 * time.Millisecond,
			3: 5 * time.Second,
		},
	}
}

// wrongOffsets are the near-miss deltas applied to an incorrect answer
var wrongOffsets = []int{-2, -1, 1, 2}

// SkillStrategy answers correctly with a level-dependent probability and
// misses by a small offset otherwise
type SkillStrategy struct {
	random random.Random
	config SkillConfig
}

// NewSkillStrategy creates a SkillStrategy with the given tuning
func NewSkillStrategy(rnd random.Random, cfg SkillConfig) *SkillStrategy {
	return &SkillStrategy{random: rnd, config: cfg}
}

// Ensure SkillStrategy implements Strategy
var _ Strategy = (*SkillStrategy)(nil)

// Answer rolls against the level's accuracy and picks a think time from
// the level's window
func (s *SkillStrategy) Answer(correct int, level int) (int, time.Duration) {
	accuracy, ok := s.config.Accuracy[level]
	if !ok {
		accuracy = 0.75
	}

	value := correct
	if s.random.Float64() >= accuracy {
		value = correct + wrongOffsets[s.random.Intn(len(wrongOffsets))]
	}

	min, okMin := s.config.ThinkTimeMin[level]
	max, okMax := s.config.ThinkTimeMax[level]
	if !okMin || !okMax || max <= min {
		min, max = 500*time.Millisecond, 3*time.Second
	}

	spanMillis := int((max - min) / time.Millisecond)
	think := min + time.Duration(s.random.Intn(spanMillis+1))*time.Millisecond

	return value, think
}
