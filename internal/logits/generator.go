package logits

import "math/rand"

// Generator is the per-sequence deterministic random source. The scheduler
// owns one Generator per in-flight sequence and threads it through
// successive sampling steps; its state advances exactly once per draw,
// which is what makes multi-step generation replayable from a seed.
//
// A Generator must not be shared between concurrent sampling calls.
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// NewGenerator returns a generator in its initial state for the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() int64 { return g.seed }

// Float64 draws the next value in [0, 1) and advances the state.
func (g *Generator) Float64() float64 { return g.rng.Float64() }

// Reset rewinds the generator to its initial state, replaying the sequence
// of draws from the beginning.
func (g *Generator) Reset() {
	g.rng = rand.New(rand.NewSource(g.seed))
}
