package operation

import (
	"github.com/quizforge/mathduel/internal/dependencies/random"
	"github.com/quizforge/mathduel/internal/model"
)

// Symbols for the supported operations
const (
	SymbolAdd      = '+'
	SymbolSubtract = '-'
	SymbolMultiply = '*'
	SymbolDivide   = '/'
)

// constructor builds an operation bound to the given operand ranges
type constructor func(rnd random.Random, rangeA, rangeB Range) Operation

// operations maps a symbol to its operation constructor. Supporting a new
// operation means adding an entry here; consumers are unaffected.
var operations = map[rune]constructor{
	SymbolAdd: func(rnd random.Random, a, b Range) Operation {
		return &Addition{random: rnd, rangeA: a, rangeB: b}
	},
	SymbolSubtract: func(rnd random.Random, a, b Range) Operation {
		return &Subtraction{random: rnd, rangeA: a, rangeB: b}
	},
	SymbolMultiply: func(rnd random.Random, a, b Range) Operation {
		return &Multiplication{random: rnd, rangeA: a, rangeB: b}
	},
	SymbolDivide: func(rnd random.Random, a, b Range) Operation {
		return &Division{random: rnd, rangeA: a, rangeB: b}
	},
}

// Factory builds operations bound to a random source
type Factory struct {
	random random.Random
}

// NewFactory creates a new operation Factory
func NewFactory(rnd random.Random) *Factory {
	return &Factory{random: rnd}
}

// Get returns an operation for the given symbol bound to the given ranges.
// Unknown symbols fail with ErrInvalidOperation.
func (f *Factory) Get(symbol rune, rangeA, rangeB Range) (Operation, error) {
	build, ok := operations[symbol]
	if !ok {
		return nil, model.ErrInvalidOperation
	}
	return build(f.random, rangeA, rangeB), nil
}
