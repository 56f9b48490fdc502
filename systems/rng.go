package systems

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// RNG is the single random stream read by every phase of a year. Feeding
// order, birth, migration, death and kill draws and birth weights all come
// from it, so the call order fixes the outcome of a seeded run.
type RNG struct {
	*rand.Rand
	src rand.Source
}

// NewRNG creates a seeded stream.
func NewRNG(seed uint64) *RNG {
	return NewRNGFromSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRNGFromSource wraps an existing source. Tests use it to force draws.
func NewRNGFromSource(src rand.Source) *RNG {
	return &RNG{Rand: rand.New(src), src: src}
}

// Normal samples N(mu, sigma) from the shared stream.
func (r *RNG) Normal(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: r.src}.Rand()
}
