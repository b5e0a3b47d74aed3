// Package pga is the engine: it wires randsrc, population, kernel,
// strategy, evaluate, selection, mutate and migration into the two driver
// operations a caller actually needs, Run and RunIslands, plus the
// lifecycle and setter calls around them.
package pga

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/parallelga/pga/evaluate"
	"github.com/parallelga/pga/internal/idgen"
	"github.com/parallelga/pga/internal/logging"
	"github.com/parallelga/pga/kernel"
	"github.com/parallelga/pga/migration"
	"github.com/parallelga/pga/mutate"
	"github.com/parallelga/pga/population"
	"github.com/parallelga/pga/randsrc"
	"github.com/parallelga/pga/selection"
	"github.com/parallelga/pga/strategy"
)

var (
	// ErrCapacity is returned by CreatePopulation once an engine already
	// holds EngineConfig.MaxPopulations populations.
	ErrCapacity = errors.New("pga: engine population capacity exceeded")
	// ErrGenomeTooShort is returned by CreatePopulation for a genome
	// length below population.MinGenomeLength.
	ErrGenomeTooShort = errors.New("pga: genome length below minimum")
	// ErrAlloc is returned by CreatePopulation when the underlying
	// buffers cannot be allocated.
	ErrAlloc = errors.New("pga: allocation failed")
	// ErrEmpty is returned by GetBest for a zero-size population.
	ErrEmpty = errors.New("pga: population has zero individuals")
)

// EngineConfig configures an Engine at Init time.
type EngineConfig struct {
	// MaxPopulations bounds how many populations one Engine can hold
	// concurrently. Defaults to 1 if zero.
	MaxPopulations int
	// GridBlocks and GridThreads size the worker grid every kernel.Launch
	// call uses. If either is below 1, the grid defaults to one worker
	// per available CPU.
	GridBlocks  int
	GridThreads int
	// Transport is the migration transport for RunIslands. Leave nil for
	// single-process use; RunIslands then runs its generation loop with
	// migration ticks skipped.
	Transport migration.Transport
	// Logger overrides the engine's structured logger. Defaults to
	// logging.Default("pga").
	Logger *logging.Logger
}

// IslandOptions configures one RunIslands call.
type IslandOptions struct {
	Generations int
	// TargetScore, if non-nil, ends the run early once the population's
	// best score reaches or exceeds it.
	TargetScore *float32
	// MigrationInterval is how often, in generations, migration ticks
	// run. Defaults to 1 if below 1.
	MigrationInterval int
	// MigrantsPct is the percentage of population size exchanged per
	// boat; converted once to a migrant count k = max(1, pct/100*size).
	MigrantsPct float32
}

// Engine binds one random source, one worker grid, one strategy registry,
// and an optional migration transport to a bounded set of populations.
type Engine struct {
	cfg EngineConfig
	id  string
	log *logging.Logger

	rng    *randsrc.Source
	migRng *randsrc.Source

	grid       kernel.Grid
	strategies *strategy.Registry

	objectiveTag string
	mutateTag    string
	crossoverTag string

	populations []*population.Population

	migration *migration.Engine

	emigrationFn  func(*population.Population, []float32)
	immigrationFn func(*population.Population, []float32)
}

// Init constructs an Engine from cfg: seeds the pipeline's random source
// from the current time (Non-goal: cross-run reproducibility), gives
// migration its own independent random source so peer selection never
// contends with the pipeline's draws, and installs the default
// objective/mutate/crossover tags.
func Init(cfg EngineConfig) (*Engine, error) {
	if cfg.MaxPopulations <= 0 {
		cfg.MaxPopulations = 1
	}

	grid := kernel.Grid{Blocks: cfg.GridBlocks, Threads: cfg.GridThreads}
	if cfg.GridBlocks < 1 || cfg.GridThreads < 1 {
		grid = kernel.DefaultGrid(runtime.NumCPU())
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Default("pga")
	}
	id := idgen.New()

	e := &Engine{
		cfg:          cfg,
		id:           id,
		log:          log.With(fmt.Sprintf("pga-%s", id)),
		rng:          randsrc.NewFromTime(time.Now().UnixNano()),
		migRng:       randsrc.NewFromTime(time.Now().UnixNano() ^ 0x5bd1e995),
		grid:         grid,
		strategies:   strategy.NewRegistry(),
		objectiveTag: "sum",
		mutateTag:    "point-mutation",
		crossoverTag: "uniform-crossover",
	}

	if cfg.Transport != nil {
		e.migration = migration.NewEngine(cfg.Transport, e.migRng)
	}

	e.log.Info("engine initialized",
		logging.Int("grid-width", grid.Width()),
		logging.Bool("migration", e.migration != nil),
	)
	return e, nil
}

// Strategies exposes the engine's strategy registry so callers can
// register additional native or WASM objective/mutate/crossover tags
// before selecting them with SetObjective/SetMutate/SetCrossover.
func (e *Engine) Strategies() *strategy.Registry {
	return e.strategies
}

// CreatePopulation allocates a new population owned by e, up to
// EngineConfig.MaxPopulations.
func (e *Engine) CreatePopulation(size, genomeLen int, init population.InitKind) (*population.Population, error) {
	if len(e.populations) >= e.cfg.MaxPopulations {
		return nil, fmt.Errorf("%w: limit %d", ErrCapacity, e.cfg.MaxPopulations)
	}

	pop, err := population.Create(size, genomeLen, init, e.rng)
	if err != nil {
		switch {
		case errors.Is(err, population.ErrGenomeTooShort):
			return nil, fmt.Errorf("%w: %v", ErrGenomeTooShort, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrAlloc, err)
		}
	}

	e.populations = append(e.populations, pop)
	e.log.Debug("population created", logging.Int("size", size), logging.Int("genome-len", genomeLen))
	return pop, nil
}

// SetObjective selects the registered objective strategy for Run/RunIslands.
func (e *Engine) SetObjective(tag string) error {
	if _, err := e.strategies.Objective(tag); err != nil {
		return err
	}
	e.objectiveTag = tag
	return nil
}

// SetMutate selects the registered mutator strategy for Run/RunIslands.
func (e *Engine) SetMutate(tag string) error {
	if _, err := e.strategies.Mutator(tag); err != nil {
		return err
	}
	e.mutateTag = tag
	return nil
}

// SetCrossover selects the registered crossover strategy for Run/RunIslands.
func (e *Engine) SetCrossover(tag string) error {
	if _, err := e.strategies.Crossover(tag); err != nil {
		return err
	}
	e.crossoverTag = tag
	return nil
}

// SetEmigrationFn binds the callback RunIslands calls to fill an outbound
// migration buffer from the running population. Valid for the engine's
// remaining lifetime; calling it again replaces the previous callback.
func (e *Engine) SetEmigrationFn(fn func(*population.Population, []float32)) {
	e.emigrationFn = fn
}

// SetImmigrationFn binds the callback RunIslands calls to integrate a
// completed inbound migration buffer into the running population.
func (e *Engine) SetImmigrationFn(fn func(*population.Population, []float32)) {
	e.immigrationFn = fn
}

// Run executes exactly generations ticks of the generation pipeline
// (refresh random strip, evaluate, select+crossover, mutate, swap) against
// pop, stopping early if targetScore is non-nil and reached, then runs one
// final evaluate pass so Score reflects the returned population.
func (e *Engine) Run(ctx context.Context, pop *population.Population, generations int, targetScore *float32) error {
	obj, mu, cx, err := e.resolveStrategies()
	if err != nil {
		return err
	}

	for gen := 0; gen < generations; gen++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.runGeneration(pop, obj, mu, cx); err != nil {
			return err
		}
		if targetScore != nil && bestScore(pop) >= *targetScore {
			break
		}
	}

	return evaluate.Run(e.grid, pop, obj)
}

// RunIslands runs the generation pipeline the same way Run does, polling
// migration every opts.MigrationInterval generations: an immigration tick
// into a dedicated inbound buffer followed by an emigration tick out of a
// dedicated outbound buffer, each sized to opts.MigrantsPct percent of
// pop.Size() individuals. With no transport configured, migration ticks
// are skipped and this behaves like Run.
func (e *Engine) RunIslands(ctx context.Context, pop *population.Population, opts IslandOptions) error {
	obj, mu, cx, err := e.resolveStrategies()
	if err != nil {
		return err
	}

	interval := opts.MigrationInterval
	if interval < 1 {
		interval = 1
	}

	var inBuf, outBuf []float32
	if e.migration != nil {
		k := migrantCount(opts.MigrantsPct, pop.Size())
		bufLen := k * pop.GenomeLen()
		inBuf = make([]float32, bufLen)
		outBuf = make([]float32, bufLen)

		e.migration.SetOnArrival(func(buf []float32) {
			if e.immigrationFn != nil {
				e.immigrationFn(pop, buf)
			}
		})
		e.migration.SetOnDeparture(func(buf []float32) {
			if e.emigrationFn != nil {
				e.emigrationFn(pop, buf)
			}
		})
	}

	for gen := 0; gen < opts.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.runGeneration(pop, obj, mu, cx); err != nil {
			return err
		}

		if opts.TargetScore != nil && bestScore(pop) >= *opts.TargetScore {
			break
		}

		if e.migration != nil && gen%interval == 0 {
			if err := e.migration.ImmigrationTick(ctx, inBuf); err != nil {
				e.log.Error("immigration tick failed", logging.Err(err))
			}
			if err := e.migration.EmigrationTick(ctx, outBuf); err != nil {
				e.log.Error("emigration tick failed", logging.Err(err))
			}
		}
	}

	return evaluate.Run(e.grid, pop, obj)
}

// GetBest linearly scans pop's scores for the maximum, first-seen wins on
// ties, and returns a copy of the corresponding genome.
func (e *Engine) GetBest(pop *population.Population) (genome []float32, score float32, err error) {
	size := pop.Size()
	if size == 0 {
		return nil, 0, ErrEmpty
	}

	scores := pop.Score()
	best := 0
	for i := 1; i < size; i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}

	src := pop.Genome(best)
	out := make([]float32, len(src))
	copy(out, src)
	return out, scores[best], nil
}

// Deinit destroys every population the engine holds and, if the configured
// transport implements io.Closer, closes it.
func (e *Engine) Deinit() error {
	for _, p := range e.populations {
		p.Destroy()
	}
	e.populations = nil

	if closer, ok := e.cfg.Transport.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("pga: closing transport: %w", err)
		}
	}

	e.log.Info("engine deinitialized")
	return nil
}

func (e *Engine) resolveStrategies() (strategy.ObjectiveFunc, strategy.MutatorFunc, strategy.CrossoverFunc, error) {
	obj, err := e.strategies.Objective(e.objectiveTag)
	if err != nil {
		return nil, nil, nil, err
	}
	mu, err := e.strategies.Mutator(e.mutateTag)
	if err != nil {
		return nil, nil, nil, err
	}
	cx, err := e.strategies.Crossover(e.crossoverTag)
	if err != nil {
		return nil, nil, nil, err
	}
	return obj, mu, cx, nil
}

func (e *Engine) runGeneration(pop *population.Population, obj strategy.ObjectiveFunc, mu strategy.MutatorFunc, cx strategy.CrossoverFunc) error {
	pop.RefreshRand(e.rng)
	if err := evaluate.Run(e.grid, pop, obj); err != nil {
		return err
	}
	if err := selection.Run(e.grid, pop, cx); err != nil {
		return err
	}
	if err := mutate.Run(e.grid, pop, mu); err != nil {
		return err
	}
	pop.Swap()
	return nil
}

func bestScore(pop *population.Population) float32 {
	scores := pop.Score()
	best := scores[0]
	for _, s := range scores[1:] {
		if s > best {
			best = s
		}
	}
	return best
}

func migrantCount(pct float32, size int) int {
	k := int(pct / 100 * float32(size))
	if k < 1 {
		k = 1
	}
	return k
}
