package question

import (
	"fmt"

	"github.com/quizforge/mathduel/internal/dependencies/random"
	"github.com/quizforge/mathduel/internal/model"
	"github.com/quizforge/mathduel/internal/services/operation"
)

// easyGenerator produces single addition or subtraction facts with small
// operands
type easyGenerator struct {
	factory *operation.Factory
	random  random.Random
}

var easySymbols = []rune{operation.SymbolAdd, operation.SymbolSubtract}

func (g *easyGenerator) Generate() (*model.Problem, error) {
	symbol := easySymbols[g.random.Intn(len(easySymbols))]
	r := operation.Range{Low: 1, High: 20}
	op, err := g.factory.Get(symbol, r, r)
	if err != nil {
		return nil, err
	}
	text, answer := op.Problem()
	return &model.Problem{Text: text, Answer: answer, Level: 1}, nil
}

// mediumGenerator widens the ranges, adds multiplication, and mixes in the
// compound a×b+c form
type mediumGenerator struct {
	factory *operation.Factory
	random  random.Random
}

var mediumSymbols = []rune{operation.SymbolAdd, operation.SymbolSubtract, operation.SymbolMultiply}

func (g *mediumGenerator) Generate() (*model.Problem, error) {
	// One extra slot for the compound form
	pick := g.random.Intn(len(mediumSymbols) + 1)
	if pick == len(mediumSymbols) {
		a := g.random.Between(2, 10)
		b := g.random.Between(2, 10)
		c := g.random.Between(2, 10)
		return &model.Problem{
			Text:   fmt.Sprintf("%d × %d + %d", a, b, c),
			Answer: a*b + c,
			Level:  2,
		}, nil
	}

	symbol := mediumSymbols[pick]
	r := operation.Range{Low: 1, High: 50}
	if symbol == operation.SymbolMultiply {
		r = operation.Range{Low: 2, High: 12}
	}
	op, err := g.factory.Get(symbol, r, r)
	if err != nil {
		return nil, err
	}
	text, answer := op.Problem()
	return &model.Problem{Text: text, Answer: answer, Level: 2}, nil
}

// hardGenerator uses all four operations at the widest ranges plus
// compound two-step forms; every division is derived so the answer stays
// an integer
type hardGenerator struct {
	factory *operation.Factory
	random  random.Random
}

type hardForm int

const (
	hardSingleAdd hardForm = iota
	hardSingleSubtract
	hardSingleMultiply
	hardSingleDivide
	hardMultiplyAdd
	hardMultiplySubtract
	hardDivideAdd
	hardFormCount
)

func (g *hardGenerator) Generate() (*model.Problem, error) {
	switch hardForm(g.random.Intn(int(hardFormCount))) {
	case hardSingleAdd, hardSingleSubtract:
		symbol := operation.SymbolAdd
		if g.random.Intn(2) == 1 {
			symbol = operation.SymbolSubtract
		}
		r := operation.Range{Low: 1, High: 100}
		return g.single(symbol, r, r)

	case hardSingleMultiply:
		r := operation.Range{Low: 3, High: 15}
		return g.single(operation.SymbolMultiply, r, r)

	case hardSingleDivide:
		return g.single(operation.SymbolDivide,
			operation.Range{Low: 10, High: 20}, operation.Range{Low: 2, High: 10})

	case hardMultiplyAdd:
		a := g.random.Between(5, 15)
		b := g.random.Between(5, 15)
		c := g.random.Between(5, 15)
		return &model.Problem{
			Text:   fmt.Sprintf("(%d × %d) + %d", a, b, c),
			Answer: a*b + c,
			Level:  3,
		}, nil

	case hardMultiplySubtract:
		// a*b is at least 25 and c at most 15, so the answer stays positive
		a := g.random.Between(5, 15)
		b := g.random.Between(5, 15)
		c := g.random.Between(5, 15)
		return &model.Problem{
			Text:   fmt.Sprintf("(%d × %d) - %d", a, b, c),
			Answer: a*b - c,
			Level:  3,
		}, nil

	default: // hardDivideAdd
		divisor := g.random.Between(2, 10)
		quotient := g.random.Between(10, 20)
		dividend := divisor * quotient
		c := g.random.Between(5, 15)
		return &model.Problem{
			Text:   fmt.Sprintf("(%d ÷ %d) + %d", dividend, divisor, c),
			Answer: quotient + c,
			Level:  3,
		}, nil
	}
}

func (g *hardGenerator) single(symbol rune, rangeA, rangeB operation.Range) (*model.Problem, error) {
	op, err := g.factory.Get(symbol, rangeA, rangeB)
	if err != nil {
		return nil, err
	}
	text, answer := op.Problem()
	return &model.Problem{Text: text, Answer: answer, Level: 3}, nil
}
