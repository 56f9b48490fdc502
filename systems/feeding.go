package systems

import (
	"math"
	"sort"

	"github.com/pthm-cable/biosim/components"
)

// feed runs the feeding phase of the cell: herbivores graze the yearly
// fodder, then carnivores hunt. It returns the number of herbivores killed.
func (c *Cell) feed(rng *RNG) int {
	if c.terrain.HasFood {
		c.graze(c.terrain.MaxFood)
	}
	return c.hunt(rng)
}

// graze serves fodder to herbivores in descending fitness order. Each takes
// its appetite F or whatever is left, whichever is smaller.
func (c *Cell) graze(fodder float64) {
	herbs := c.residents[components.Herbivore]
	sort.SliceStable(herbs, func(i, j int) bool {
		return herbs[i].Fitness() > herbs[j].Fitness()
	})

	for _, h := range herbs {
		if fodder <= 0 {
			break
		}
		amount := math.Min(h.params.F, fodder)
		h.Eat(amount)
		h.UpdateFitness()
		fodder -= amount
	}
}

// hunt lets carnivores, in random order, attack herbivores from the weakest
// up. A carnivore stops when its appetite is filled or when the next prey is
// fitter than it is; its fitness is refreshed after every kill. Carcasses
// are cleared after each carnivore's pass.
func (c *Cell) hunt(rng *RNG) int {
	carns := c.residents[components.Carnivore]
	if len(carns) == 0 || len(c.residents[components.Herbivore]) == 0 {
		return 0
	}

	rng.Shuffle(len(carns), func(i, j int) {
		carns[i], carns[j] = carns[j], carns[i]
	})

	herbs := c.residents[components.Herbivore]
	sort.SliceStable(herbs, func(i, j int) bool {
		return herbs[i].Fitness() < herbs[j].Fitness()
	})

	killed := 0
	for _, carn := range carns {
		remaining := c.residents[components.Herbivore]
		if len(remaining) == 0 {
			break
		}

		kills := carn.prey(remaining, rng)
		if kills > 0 {
			killed += kills
			c.residents[components.Herbivore] = filterAnimals(remaining, (*Animal).Alive)
		}
	}
	return killed
}

// prey runs one carnivore's pass over herbivores sorted weakest first and
// returns the number it killed.
func (a *Animal) prey(herbs []*Animal, rng *RNG) int {
	appetite := a.params.F
	eaten := 0.0
	kills := 0

	for _, h := range herbs {
		if eaten >= appetite {
			break
		}
		hf := h.Fitness()
		if a.Fitness() < hf {
			break
		}
		if !a.DecideKill(hf, rng) {
			continue
		}

		h.kill()
		kills++
		meal := math.Min(h.weight, appetite-eaten)
		if meal > 0 {
			a.Eat(meal)
			a.UpdateFitness()
			eaten += meal
		}
	}
	return kills
}
