package typesys

import (
	"github.com/wippyai/lang-concepts/console"
)

// Demo prints the static typing walkthrough.
func Demo(p *console.Printer) {
	// Static typing: the declared type is fixed for the variable's lifetime.
	x := 5
	p.Printf("x is %d, type: %T", x, x)

	// x = "Hello" does not compile; a new variable is needed.
	var y string = "Hello"
	p.Printf("y is %s, type: %T", y, y)

	p.Printf("add(5, 3): %d", Add[int](5, 3))
	p.Printf("add(5.5, 3.2): %s", console.Float(Add[float64](5.5, 3.2)))

	pi := 3.14159
	roundedPi := Narrow[int](pi)
	p.Printf("Rounded pi: %d", roundedPi)

	var c Counter
	increment := c.Advance
	p.Printf("Counter: %d", increment())
	p.Printf("Counter: %d", increment())
}
