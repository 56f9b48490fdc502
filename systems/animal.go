// Package systems implements the island population engine: the animal
// lifecycle, the per-cell yearly events, and the island-wide cycle.
package systems

import (
	"math"

	"github.com/pthm-cable/biosim/components"
)

// Animal is one agent. Its parameters point at the shared species table, so
// a parameter override reaches every animal of the species.
type Animal struct {
	species components.Species
	params  *components.AnimalParams

	age     int
	weight  float64
	fitness float64
	dirty   bool // fitness must be recomputed before use
	alive   bool
	staged  bool // in a neighbour's incoming buffer this year
}

// NewAnimal creates an animal with fitness computed from age and weight.
func NewAnimal(species components.Species, params *components.AnimalParams, age int, weight float64) *Animal {
	a := &Animal{
		species: species,
		params:  params,
		age:     age,
		weight:  weight,
		alive:   true,
		dirty:   true,
	}
	a.UpdateFitness()
	return a
}

// Species returns the animal's species.
func (a *Animal) Species() components.Species { return a.species }

// Age returns the age in years.
func (a *Animal) Age() int { return a.age }

// Weight returns the current weight. It may be zero or negative.
func (a *Animal) Weight() float64 { return a.weight }

// Alive reports whether the animal has not died.
func (a *Animal) Alive() bool { return a.alive }

// Fitness returns the fitness, recomputing it first if age or weight changed.
func (a *Animal) Fitness() float64 {
	a.UpdateFitness()
	return a.fitness
}

// UpdateFitness recomputes fitness if it is stale.
//
//	fitness = 0                                  if weight <= 0
//	fitness = q(+phi_age, age, a_half) * q(-phi_weight, weight, w_half) otherwise
//
// where q(phi, x, half) = 1 / (1 + e^(phi*(x-half))).
func (a *Animal) UpdateFitness() {
	if !a.dirty {
		return
	}
	a.dirty = false
	if a.weight <= 0 {
		a.fitness = 0
		return
	}
	p := a.params
	a.fitness = sigmoid(p.PhiAge*(float64(a.age)-p.AHalf)) *
		sigmoid(-p.PhiWeight*(a.weight-p.WHalf))
}

// sigmoid returns 1/(1+e^x), saturating cleanly for large |x|.
func sigmoid(x float64) float64 {
	e := math.Exp(x)
	if math.IsInf(e, 1) {
		return 0
	}
	return 1 / (1 + e)
}

// Eat adds beta*amount to the weight. Capping intake is the caller's job.
func (a *Animal) Eat(amount float64) {
	a.weight += a.params.Beta * amount
	a.dirty = true
}

// LoseWeight applies the yearly metabolic decay.
func (a *Animal) LoseWeight() {
	a.weight -= a.params.Eta * a.weight
	a.dirty = true
}

// AgeOneYear increments the age.
func (a *Animal) AgeOneYear() {
	a.age++
	a.dirty = true
}

// BirthProbability returns the chance of giving birth among n animals of the
// same species on the cell. It is zero below the weight threshold
// zeta*(w_birth+sigma_birth).
func (a *Animal) BirthProbability(n int) float64 {
	p := a.params
	if a.weight < p.Zeta*(p.WBirth+p.SigmaBirth) {
		return 0
	}
	return math.Min(1, p.Gamma*a.Fitness()*float64(n-1))
}

// AttemptBirth draws once against BirthProbability. On success the child
// weight is sampled from N(w_birth, sigma_birth); a non-positive sample
// means no birth and no cost. Otherwise the parent pays xi times the child
// weight and the child is returned at age 0.
func (a *Animal) AttemptBirth(n int, rng *RNG) *Animal {
	prob := a.BirthProbability(n)
	if rng.Float64() >= prob {
		return nil
	}
	p := a.params
	childWeight := rng.Normal(p.WBirth, p.SigmaBirth)
	if childWeight <= 0 {
		return nil
	}
	a.weight -= p.Xi * childWeight
	a.dirty = true
	return NewAnimal(a.species, a.params, 0, childWeight)
}

// AttemptMigrate reports whether the animal wants to move this year, with
// probability mu*fitness. It does not move the animal.
func (a *Animal) AttemptMigrate(rng *RNG) bool {
	return rng.Float64() < a.params.Mu*a.Fitness()
}

// AttemptDeath kills the animal when its weight is non-positive, and
// otherwise with probability omega*(1-fitness).
func (a *Animal) AttemptDeath(rng *RNG) bool {
	if a.weight <= 0 {
		a.alive = false
		return true
	}
	if rng.Float64() < a.params.Omega*(1-a.Fitness()) {
		a.alive = false
		return true
	}
	return false
}

// DecideKill reports whether a predator kills prey of the given fitness.
// A predator never kills fitter or equally fit prey; at a fitness lead of
// DeltaPhiMax or more the kill is certain; between the two the chance is
// the lead divided by DeltaPhiMax.
func (a *Animal) DecideKill(preyFitness float64, rng *RNG) bool {
	own := a.Fitness()
	if own <= preyFitness {
		return false
	}
	lead := own - preyFitness
	if lead >= a.params.DeltaPhiMax {
		return true
	}
	return rng.Float64() < lead/a.params.DeltaPhiMax
}

func (a *Animal) kill() {
	a.alive = false
}
