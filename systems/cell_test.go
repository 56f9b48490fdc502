package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/biosim/components"
)

func testCell(kind components.Terrain, maxFood float64) *Cell {
	t := &components.TerrainType{Kind: kind, MaxFood: maxFood, Crossable: kind != components.Water, HasFood: maxFood > 0}
	return newCell(2, 2, t)
}

func TestGraze_FittestFirst(t *testing.T) {
	p := herbParams()
	c := testCell(components.Lowland, 15)
	lean := NewAnimal(components.Herbivore, p, 0, 5)
	fat := NewAnimal(components.Herbivore, p, 0, 30)
	c.add(lean)
	c.add(fat)

	c.graze(c.terrain.MaxFood)

	// fat is fitter: takes a full F=10, lean gets the remaining 5
	if math.Abs(fat.Weight()-(30+p.Beta*10)) > 1e-9 {
		t.Errorf("fat weight = %v", fat.Weight())
	}
	if math.Abs(lean.Weight()-(5+p.Beta*5)) > 1e-9 {
		t.Errorf("lean weight = %v", lean.Weight())
	}
}

func TestGraze_FodderExhausted(t *testing.T) {
	p := herbParams()
	c := testCell(components.Highland, 10)
	first := NewAnimal(components.Herbivore, p, 0, 30)
	second := NewAnimal(components.Herbivore, p, 0, 5)
	c.add(second)
	c.add(first)

	c.graze(c.terrain.MaxFood)

	if second.Weight() != 5 {
		t.Errorf("second herbivore ate after fodder ran out: weight %v", second.Weight())
	}
}

func TestFeed_DesertHasNoFodder(t *testing.T) {
	c := testCell(components.Desert, 0)
	h := NewAnimal(components.Herbivore, herbParams(), 0, 20)
	c.add(h)
	if kills := c.feed(lowRNG()); kills != 0 {
		t.Errorf("kills = %d", kills)
	}
	if h.Weight() != 20 {
		t.Errorf("herbivore ate in the desert: weight %v", h.Weight())
	}
}

func TestHunt_AppetiteCap(t *testing.T) {
	hp, cp := herbParams(), carnParams()
	c := testCell(components.Desert, 0)
	carn := NewAnimal(components.Carnivore, cp, 0, 50)
	c.add(carn)
	for i := 0; i < 4; i++ {
		// very old prey has fitness ~0
		c.add(NewAnimal(components.Herbivore, hp, 200, 20))
	}

	kills := c.hunt(lowRNG())

	// meals of 20, 20 and 10 fill F=50
	if kills != 3 {
		t.Fatalf("kills = %d, want 3", kills)
	}
	if n := c.Count(components.Herbivore); n != 1 {
		t.Errorf("herbivores left = %d, want 1", n)
	}
	want := 50 + cp.Beta*cp.F
	if math.Abs(carn.Weight()-want) > 1e-9 {
		t.Errorf("carnivore weight = %v, want %v", carn.Weight(), want)
	}
	for _, h := range c.Herbivores() {
		if !h.Alive() {
			t.Error("dead herbivore left in resident list")
		}
	}
}

func TestHunt_StopsAtFitterPrey(t *testing.T) {
	c := testCell(components.Desert, 0)
	// old and light predator, young and heavy prey
	carn := NewAnimal(components.Carnivore, carnParams(), 100, 1)
	prey := NewAnimal(components.Herbivore, herbParams(), 0, 60)
	c.add(carn)
	c.add(prey)

	if kills := c.hunt(lowRNG()); kills != 0 {
		t.Errorf("kills = %d, want 0", kills)
	}
	if !prey.Alive() || c.Count(components.Herbivore) != 1 {
		t.Error("fitter prey was taken")
	}
}

func TestHunt_ZeroWeightPreyYieldsNoMeal(t *testing.T) {
	c := testCell(components.Desert, 0)
	carn := NewAnimal(components.Carnivore, carnParams(), 0, 50)
	c.add(carn)
	c.add(NewAnimal(components.Herbivore, herbParams(), 0, 0))

	if kills := c.hunt(lowRNG()); kills != 1 {
		t.Fatalf("kills = %d, want 1", kills)
	}
	if carn.Weight() != 50 {
		t.Errorf("carnivore gained weight from an empty carcass: %v", carn.Weight())
	}
}

func TestBreed_HeadCountFixed(t *testing.T) {
	c := testCell(components.Lowland, 800)
	p := herbParams()
	for i := 0; i < 10; i++ {
		c.add(NewAnimal(components.Herbivore, p, 5, 100))
	}

	births := c.breed(lowRNG())

	if births[components.Herbivore] != 10 {
		t.Fatalf("births = %d, want 10", births[components.Herbivore])
	}
	if n := c.Count(components.Herbivore); n != 20 {
		t.Errorf("herbivores = %d, want 20", n)
	}
	newborns := 0
	for _, a := range c.Herbivores() {
		if a.Age() == 0 {
			newborns++
		}
	}
	if newborns != 10 {
		t.Errorf("newborns = %d, want 10", newborns)
	}
}

func TestBreed_SpeciesCountedSeparately(t *testing.T) {
	c := testCell(components.Lowland, 800)
	c.add(NewAnimal(components.Herbivore, herbParams(), 5, 100))
	c.add(NewAnimal(components.Carnivore, carnParams(), 5, 100))

	// each is alone among its own species
	births := c.breed(lowRNG())
	if births.Total() != 0 {
		t.Errorf("births = %v, want none", births)
	}
}

func TestDie_RemovesDead(t *testing.T) {
	c := testCell(components.Lowland, 800)
	c.add(NewAnimal(components.Herbivore, herbParams(), 5, 0))
	c.add(NewAnimal(components.Herbivore, herbParams(), 5, 30))

	deaths := c.die(highRNG())

	if deaths[components.Herbivore] != 1 || c.Count(components.Herbivore) != 1 {
		t.Errorf("deaths = %v, left = %d", deaths, c.Count(components.Herbivore))
	}
}

func TestFilterAnimals_ClearsTail(t *testing.T) {
	p := herbParams()
	a, b, d := NewAnimal(components.Herbivore, p, 0, 1), NewAnimal(components.Herbivore, p, 0, 1), NewAnimal(components.Herbivore, p, 0, 1)
	b.kill()
	list := []*Animal{a, b, d}
	out := filterAnimals(list, (*Animal).Alive)
	if len(out) != 2 || out[0] != a || out[1] != d {
		t.Fatalf("filtered = %v", out)
	}
	if list[2] != nil {
		t.Error("tail slot not cleared")
	}
}
