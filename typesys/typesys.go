package typesys

import (
	"golang.org/x/exp/constraints"
)

// Number is any type that supports +.
type Number interface {
	constraints.Integer | constraints.Float
}

// Add returns a + b for any numeric type.
func Add[T Number](a, b T) T {
	return a + b
}

// Narrow converts a floating point value to an integer type, truncating
// toward zero.
func Narrow[I constraints.Integer, F constraints.Float](f F) I {
	return I(f)
}

// Counter holds a running count. The method value c.Advance is a closure
// over c, so every call through it sees the same count.
type Counter struct {
	n int
}

// Advance increments the count and returns the new value.
func (c *Counter) Advance() int {
	c.n++
	return c.n
}
