// Package mutate applies the registered mutator strategy to every
// individual of the next generation in place.
package mutate

import (
	"github.com/parallelga/pga/kernel"
	"github.com/parallelga/pga/population"
	"github.com/parallelga/pga/strategy"
)

// Run rewrites pop.Next() in place via mu, one call per individual.
func Run(grid kernel.Grid, pop *population.Population, mu strategy.MutatorFunc) error {
	return kernel.Launch(grid, pop.Size(), func(i int) {
		mu(pop.NextGenome(i), pop.RandStrip(i))
	})
}
