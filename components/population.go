package components

// AnimalSpec describes one animal of the initial population.
type AnimalSpec struct {
	Species string  `yaml:"species"`
	Age     int     `yaml:"age"`
	Weight  float64 `yaml:"weight"`
}

// Placement puts a group of animals on one cell. Loc is (row, col), 1-indexed.
type Placement struct {
	Loc [2]int       `yaml:"loc"`
	Pop []AnimalSpec `yaml:"pop"`
}

// Counts holds a number per species, indexed by Species.
type Counts [NumSpecies]int

// Total returns the sum over species.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
