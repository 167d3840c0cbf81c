package operation

import (
	"fmt"

	"github.com/quizforge/mathduel/internal/dependencies/random"
)

// Range is an inclusive operand range
type Range struct {
	Low  int
	High int
}

// Operation produces one arithmetic fact: a textual expression and its value
type Operation interface {
	Problem() (text string, answer int)
}

// Addition draws both operands from its ranges and sums them
type Addition struct {
	random         random.Random
	rangeA, rangeB Range
}

// Problem returns an addition fact
func (o *Addition) Problem() (string, int) {
	a := o.random.Between(o.rangeA.Low, o.rangeA.High)
	b := o.random.Between(o.rangeB.Low, o.rangeB.High)
	return fmt.Sprintf("%d + %d", a, b), a + b
}

// Subtraction orders its operands so the result is never negative
type Subtraction struct {
	random         random.Random
	rangeA, rangeB Range
}

// Problem returns a subtraction fact with a non-negative answer
func (o *Subtraction) Problem() (string, int) {
	a := o.random.Between(o.rangeA.Low, o.rangeA.High)
	b := o.random.Between(o.rangeB.Low, o.rangeB.High)
	if b > a {
		a, b = b, a
	}
	return fmt.Sprintf("%d - %d", a, b), a - b
}

// Multiplication draws both operands from its ranges and multiplies them
type Multiplication struct {
	random         random.Random
	rangeA, rangeB Range
}

// Problem returns a multiplication fact
func (o *Multiplication) Problem() (string, int) {
	a := o.random.Between(o.rangeA.Low, o.rangeA.High)
	b := o.random.Between(o.rangeB.Low, o.rangeB.High)
	return fmt.Sprintf("%d × %d", a, b), a * b
}

// Division picks the divisor and quotient first and derives the dividend,
// so the answer is always integer-clean
type Division struct {
	random         random.Random
	rangeA, rangeB Range
}

// Problem returns a division fact with an integer answer
func (o *Division) Problem() (string, int) {
	quotient := o.random.Between(o.rangeA.Low, o.rangeA.High)
	divisor := o.random.Between(o.rangeB.Low, o.rangeB.High)
	if divisor == 0 {
		divisor = 1
	}
	dividend := divisor * quotient
	return fmt.Sprintf("%d ÷ %d", dividend, divisor), quotient
}
