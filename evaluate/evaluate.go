// Package evaluate applies the registered objective strategy to every
// individual in a population's current generation, writing Score. It is a
// one-line wrapper around kernel.Launch; the package exists
// so the generation pipeline reads as a sequence of named stages rather
// than a sequence of kernel.Launch calls with inline closures.
package evaluate

import (
	"github.com/parallelga/pga/kernel"
	"github.com/parallelga/pga/population"
	"github.com/parallelga/pga/strategy"
)

// Run scores every individual in pop.Current() using obj, writing pop.Score().
// No ordering guarantee across individuals.
func Run(grid kernel.Grid, pop *population.Population, obj strategy.ObjectiveFunc) error {
	score := pop.Score()
	return kernel.Launch(grid, pop.Size(), func(i int) {
		score[i] = obj(pop.Genome(i))
	})
}
