package question

import (
	"strconv"
	"strings"
	"testing"

	"github.com/quizforge/mathduel/internal/dependencies/mocks"
	"github.com/quizforge/mathduel/internal/dependencies/random"
	"github.com/quizforge/mathduel/internal/model"
	"github.com/stretchr/testify/suite"
)

type GeneratorSuite struct {
	suite.Suite
	random    *mocks.MockRandom
	generator *Generator
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorSuite))
}

func (s *GeneratorSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.generator = New(s.random)
}

func (s *GeneratorSuite) TestEasyAddition() {
	s.random.QueueIntn(0) // pick '+'
	s.random.QueueBetween(12, 7)

	p, err := s.generator.Generate(1)
	s.Require().NoError(err)

	s.Equal("12 + 7", p.Text)
	s.Equal(19, p.Answer)
	s.Equal(1, p.Level)
}

func (s *GeneratorSuite) TestEasySubtraction() {
	s.random.QueueIntn(1) // pick '-'
	s.random.QueueBetween(4, 18)

	p, err := s.generator.Generate(1)
	s.Require().NoError(err)

	// Operands reorder so the answer is non-negative
	s.Equal("18 - 4", p.Text)
	s.Equal(14, p.Answer)
}

func (s *GeneratorSuite) TestMediumCompoundForm() {
	s.random.QueueIntn(3) // the extra slot past the three symbols
	s.random.QueueBetween(4, 6, 9)

	p, err := s.generator.Generate(2)
	s.Require().NoError(err)

	s.Equal("4 × 6 + 9", p.Text)
	s.Equal(33, p.Answer)
	s.Equal(2, p.Level)
}

func (s *GeneratorSuite) TestMediumMultiplicationUsesNarrowRange() {
	s.random.QueueIntn(2) // pick '×'
	s.random.QueueBetween(11, 3)

	p, err := s.generator.Generate(2)
	s.Require().NoError(err)

	s.Equal("11 × 3", p.Text)
	s.Equal(33, p.Answer)
}

func (s *GeneratorSuite) TestHardDivideAddForm() {
	s.random.QueueIntn(6) // hardDivideAdd
	s.random.QueueBetween(4, 13, 8)

	p, err := s.generator.Generate(3)
	s.Require().NoError(err)

	s.Equal("(52 ÷ 4) + 8", p.Text)
	s.Equal(21, p.Answer)
	s.Equal(3, p.Level)
}

func (s *GeneratorSuite) TestHardMultiplySubtractStaysPositive() {
	s.random.QueueIntn(5) // hardMultiplySubtract
	s.random.QueueBetween(5, 5, 15)

	p, err := s.generator.Generate(3)
	s.Require().NoError(err)

	s.Equal("(5 × 5) - 15", p.Text)
	s.Equal(10, p.Answer)
	s.Positive(p.Answer)
}

func (s *GeneratorSuite) TestInvalidLevelFails() {
	_, err := s.generator.Generate(4)
	s.ErrorIs(err, model.ErrInvalidLevel)

	_, err = s.generator.Generate(0)
	s.ErrorIs(err, model.ErrInvalidLevel)
}

func (s *GeneratorSuite) TestForLevelReturnsDistinctGenerators() {
	easy, err := s.generator.ForLevel(1)
	s.Require().NoError(err)
	hard, err := s.generator.ForLevel(3)
	s.Require().NoError(err)
	s.NotEqual(easy, hard)
}

// TestGeneratedTextEvaluatesToAnswer cross-checks the rendered expression
// against the stored answer over many draws with a real random source.
func TestGeneratedTextEvaluatesToAnswer(t *testing.T) {
	generator := New(random.New())

	for level := 1; level <= 3; level++ {
		for i := 0; i < 500; i++ {
			p, err := generator.Generate(level)
			if err != nil {
				t.Fatalf("level %d: %v", level, err)
			}
			if p.Answer < 0 {
				t.Fatalf("level %d: negative answer %d for %q", level, p.Answer, p.Text)
			}
			got := evalExpression(t, p.Text)
			if got != p.Answer {
				t.Fatalf("level %d: %q evaluates to %d, answer recorded as %d",
					level, p.Text, got, p.Answer)
			}
		}
	}
}

// evalExpression computes the value of a rendered problem. All generated
// forms are flat expressions where × and ÷ bind tighter than + and -.
func evalExpression(t *testing.T, text string) int {
	t.Helper()

	cleaned := strings.NewReplacer("(", "", ")", "").Replace(text)
	fields := strings.Fields(cleaned)

	// First pass: collapse × and ÷
	var values []int
	var ops []string
	v, err := strconv.Atoi(fields[0])
	if err != nil {
		t.Fatalf("bad operand in %q: %v", text, err)
	}
	values = append(values, v)
	for i := 1; i < len(fields); i += 2 {
		op := fields[i]
		operand, err := strconv.Atoi(fields[i+1])
		if err != nil {
			t.Fatalf("bad operand in %q: %v", text, err)
		}
		switch op {
		case "×":
			values[len(values)-1] *= operand
		case "÷":
			if operand == 0 || values[len(values)-1]%operand != 0 {
				t.Fatalf("non-integer division in %q", text)
			}
			values[len(values)-1] /= operand
		default:
			ops = append(ops, op)
			values = append(values, operand)
		}
	}

	// Second pass: + and -
	result := values[0]
	for i, op := range ops {
		if op == "+" {
			result += values[i+1]
		} else {
			result -= values[i+1]
		}
	}
	return result
}
