package mind

import "math/rand"

// Rand is the randomness the heuristics consume. Production wraps the
// locked top-level math/rand functions; tests inject scripted sources.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// systemRand delegates to the top-level math/rand functions, which are
// safe for concurrent use. The engine's rnd is shared between event
// handlers and the spontaneous task.
type systemRand struct{}

func (systemRand) Float64() float64 { return rand.Float64() }
func (systemRand) Intn(n int) int   { return rand.Intn(n) }

func NewRand() Rand {
	return systemRand{}
}

// pick returns a uniformly chosen element.
func pick[T any](rnd Rand, items []T) T {
	return items[rnd.Intn(len(items))]
}
