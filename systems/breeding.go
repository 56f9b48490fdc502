package systems

import "github.com/pthm-cable/biosim/components"

// breed gives every resident one birth attempt. The head count is read once
// at the start, so newborns neither breed nor count towards the odds.
func (c *Cell) breed(rng *RNG) components.Counts {
	var births components.Counts
	for s := range c.residents {
		n := len(c.residents[s])
		for i := 0; i < n; i++ {
			parent := c.residents[s][i]
			parent.UpdateFitness()
			if child := parent.AttemptBirth(n, rng); child != nil {
				c.residents[s] = append(c.residents[s], child)
				births[s]++
			}
		}
	}
	return births
}
