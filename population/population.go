// Package population owns the four flat buffers that make up one evolving
// population: the live generation, the scratch next generation, per
// individual scores, and the per-individual random strip refreshed each
// generation. Buffers are plain Go slices — there is no separate
// accelerator address space to manage here, so Create/Destroy exist as a
// matched pair purely so callers keep writing a paired create/destroy
// lifecycle even though Destroy only drops the buffer references and leaves
// the freeing to the garbage collector.
package population

import (
	"errors"
	"fmt"

	"github.com/parallelga/pga/randsrc"
)

// MinGenomeLength is the shortest genome the store will accept.
const MinGenomeLength = 4

var (
	// ErrGenomeTooShort is returned by Create when genomeLen < MinGenomeLength.
	ErrGenomeTooShort = errors.New("population: genome length below minimum")
	// ErrAlloc is returned by Create if the requested buffers cannot be
	// allocated: a non-positive size, or an unknown init kind.
	ErrAlloc = errors.New("population: allocation failed")
)

// InitKind selects how Current is populated on Create.
type InitKind int

const (
	// RandomInit fills Current by drawing from the engine's random source.
	RandomInit InitKind = iota
)

// Population is one evolving pool of fixed-length genomes.
type Population struct {
	size      int
	genomeLen int

	current []float32
	next    []float32
	score   []float32
	rnd     []float32
}

// Create allocates a population of size individuals with the given genome
// length, populating Current per init. Returns ErrGenomeTooShort if
// genomeLen < MinGenomeLength, or ErrAlloc for a non-positive size or an
// unknown init kind.
func Create(size, genomeLen int, init InitKind, rng *randsrc.Source) (*Population, error) {
	if genomeLen < MinGenomeLength {
		return nil, fmt.Errorf("%w: got %d, minimum %d", ErrGenomeTooShort, genomeLen, MinGenomeLength)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: population size must be positive, got %d", ErrAlloc, size)
	}

	total := size * genomeLen
	p := &Population{
		size:      size,
		genomeLen: genomeLen,
		current:   make([]float32, total),
		next:      make([]float32, total),
		score:     make([]float32, size),
		rnd:       make([]float32, total),
	}

	switch init {
	case RandomInit:
		rng.Fill(p.current)
	default:
		return nil, fmt.Errorf("%w: unknown init kind %d", ErrAlloc, init)
	}

	return p, nil
}

// Destroy releases the population's buffers. Go's garbage collector does
// the actual work; this exists so callers can keep writing the paired
// create/destroy lifecycle the design specifies, and so a later native
// accelerator backend has a place to free device memory without changing
// call sites.
func (p *Population) Destroy() {
	p.current, p.next, p.score, p.rnd = nil, nil, nil, nil
}

// Size returns the number of individuals.
func (p *Population) Size() int { return p.size }

// GenomeLen returns the fixed genome length.
func (p *Population) GenomeLen() int { return p.genomeLen }

// Current returns the live generation's flat buffer (size*genomeLen).
func (p *Population) Current() []float32 { return p.current }

// Next returns the scratch generation's flat buffer.
func (p *Population) Next() []float32 { return p.next }

// Score returns the per-individual score buffer.
func (p *Population) Score() []float32 { return p.score }

// Rand returns the per-individual random strip buffer.
func (p *Population) Rand() []float32 { return p.rnd }

// Genome returns the slice of Current belonging to individual i.
func (p *Population) Genome(i int) []float32 {
	return p.current[i*p.genomeLen : (i+1)*p.genomeLen]
}

// NextGenome returns the slice of Next belonging to individual i.
func (p *Population) NextGenome(i int) []float32 {
	return p.next[i*p.genomeLen : (i+1)*p.genomeLen]
}

// RandStrip returns the random strip belonging to individual i (genomeLen
// floats, refreshed once per generation and shared by selection, crossover
// and mutation at stable, possibly overlapping offsets).
func (p *Population) RandStrip(i int) []float32 {
	return p.rnd[i*p.genomeLen : (i+1)*p.genomeLen]
}

// RefreshRand refills the entire random strip buffer for one generation.
func (p *Population) RefreshRand(rng *randsrc.Source) {
	rng.Fill(p.rnd)
}

// Swap exchanges Current and Next by swapping slice headers only — no
// genome data is copied.
func (p *Population) Swap() {
	p.current, p.next = p.next, p.current
}
