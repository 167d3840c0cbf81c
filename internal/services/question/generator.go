package question

import (
	"github.com/quizforge/mathduel/internal/dependencies/random"
	"github.com/quizforge/mathduel/internal/model"
	"github.com/quizforge/mathduel/internal/services/operation"
)

// ProblemGenerator produces one problem per call. Implementations are
// stateless and reentrant; successive calls are independent.
type ProblemGenerator interface {
	Generate() (*model.Problem, error)
}

// Generator selects the problem generator matching a difficulty level
type Generator struct {
	levels map[int]ProblemGenerator
}

// New creates a Generator with the standard easy/medium/hard levels
func New(rnd random.Random) *Generator {
	factory := operation.NewFactory(rnd)
	return &Generator{
		levels: map[int]ProblemGenerator{
			1: &easyGenerator{factory: factory, random: rnd},
			2: &mediumGenerator{factory: factory, random: rnd},
			3: &hardGenerator{factory: factory, random: rnd},
		},
	}
}

// ForLevel returns the generator for the given level (1-3).
// Levels outside the range fail with ErrInvalidLevel.
func (g *Generator) ForLevel(level int) (ProblemGenerator, error) {
	pg, ok := g.levels[level]
	if !ok {
		return nil, model.ErrInvalidLevel
	}
	return pg, nil
}

// Generate produces one problem at the given level
func (g *Generator) Generate(level int) (*model.Problem, error) {
	pg, err := g.ForLevel(level)
	if err != nil {
		return nil, err
	}
	return pg.Generate()
}

// Interface for dependency injection
type GeneratorInterface interface {
	ForLevel(level int) (ProblemGenerator, error)
	Generate(level int) (*model.Problem, error)
}

var _ GeneratorInterface = (*Generator)(nil)
