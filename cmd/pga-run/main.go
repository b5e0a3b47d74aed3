// pga-run is the minimal CLI driver: parse flags, build one engine and one
// population, run either the single-process or island path, print the
// best score found and the first few genes of its genome. No cobra or
// viper, just the stdlib flag package.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/parallelga/pga"
	"github.com/parallelga/pga/migration/memtransport"
	"github.com/parallelga/pga/population"
)

func main() {
	size := flag.Int("size", 100, "population size")
	genomeLen := flag.Int("genome-len", 100, "genome length")
	generations := flag.Int("generations", 100, "number of generations")
	islands := flag.Bool("islands", false, "run the island migration path instead of a single population")
	migrationInterval := flag.Int("migration-interval", 3, "generations between migration polls, islands only")
	migrantsPct := flag.Float64("migrants-pct", 30, "percentage of population exchanged per migration boat, islands only")
	targetScore := flag.Float64("target-score", 0, "best-score termination threshold; 0 disables it")
	flag.Parse()

	fmt.Println("pga-run starting...")

	cfg := pga.EngineConfig{MaxPopulations: 1}
	var sb *memtransport.Switchboard
	if *islands {
		sb = memtransport.NewSwitchboard(1)
		cfg.Transport = memtransport.New(sb, 0)
	}

	engine, err := pga.Init(cfg)
	if err != nil {
		fmt.Println("init failed:", err)
		os.Exit(1)
	}
	defer engine.Deinit()

	pop, err := engine.CreatePopulation(*size, *genomeLen, population.RandomInit)
	if err != nil {
		fmt.Println("create population failed:", err)
		os.Exit(1)
	}

	engine.SetEmigrationFn(elitistEmigration)
	engine.SetImmigrationFn(elitistImmigration)

	var target *float32
	if *targetScore != 0 {
		t := float32(*targetScore)
		target = &t
	}

	ctx := context.Background()
	if *islands {
		err = engine.RunIslands(ctx, pop, pga.IslandOptions{
			Generations:       *generations,
			TargetScore:       target,
			MigrationInterval: *migrationInterval,
			MigrantsPct:       float32(*migrantsPct),
		})
	} else {
		err = engine.Run(ctx, pop, *generations, target)
	}
	if err != nil {
		fmt.Println("run failed:", err)
		os.Exit(1)
	}

	genome, score, err := engine.GetBest(pop)
	if err != nil {
		fmt.Println("get best failed:", err)
		os.Exit(1)
	}
	fmt.Printf("best score=%v genome[:%d]=%v\n", score, min(4, len(genome)), genome[:min(4, len(genome))])

	if sb != nil {
		sb.Close()
	}
}

// elitistEmigration fills an outbound migration buffer with the
// highest-scoring genomes in pop.
func elitistEmigration(pop *population.Population, buf []float32) {
	genomeLen := pop.GenomeLen()
	k := len(buf) / genomeLen
	for slot, i := range rankedIndices(pop, k, true) {
		copy(buf[slot*genomeLen:(slot+1)*genomeLen], pop.Genome(i))
	}
}

// elitistImmigration overwrites pop's lowest-scoring genomes with the
// contents of a completed inbound migration buffer.
func elitistImmigration(pop *population.Population, buf []float32) {
	genomeLen := pop.GenomeLen()
	k := len(buf) / genomeLen
	for slot, i := range rankedIndices(pop, k, false) {
		copy(pop.Genome(i), buf[slot*genomeLen:(slot+1)*genomeLen])
	}
}

// rankedIndices returns the k individual indices with the highest (desc)
// or lowest (!desc) score, clamped to pop.Size().
func rankedIndices(pop *population.Population, k int, desc bool) []int {
	size := pop.Size()
	if k > size {
		k = size
	}
	scores := pop.Score()
	order := make([]int, size)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if desc {
			return scores[order[a]] > scores[order[b]]
		}
		return scores[order[a]] < scores[order[b]]
	})
	return order[:k]
}
