package engine

import (
	"math/rand"
	"slices"
	"sort"

	"github.com/piwi3910/tilepack/internal/model"
)

// OrderGenetic names the ordering produced by the genetic search.
const OrderGenetic = "genetic"

// chromosome is a candidate ordering: a permutation of item indices.
type chromosome struct {
	genes   []int
	fitness int
}

// geneticSearch evolves an item ordering whose bin search yields the
// smallest bin.
type geneticSearch struct {
	config   model.GeneticSettings
	ws       *Workspace
	in       Input
	items    []*model.Item
	sequence []*model.Item
	maxArea  int
	rng      *rand.Rand
}

func newGeneticSearch(ws *Workspace, items []*model.Item, in Input, config model.GeneticSettings) *geneticSearch {
	config.PopulationSize = max(1, config.PopulationSize)
	config.TournamentSize = max(1, config.TournamentSize)
	config.EliteCount = max(0, config.EliteCount)
	return &geneticSearch{
		config:   config,
		ws:       ws,
		in:       in,
		items:    items,
		sequence: make([]*model.Item, len(items)),
		maxArea:  in.MaxBinSide * in.MaxBinSide,
		rng:      rand.New(rand.NewSource(config.Seed)),
	}
}

// EvolveOrder runs the genetic search and returns the best ordering it found
// as a fixed Order over items. The workspace root is reset many times in the
// process.
func EvolveOrder(ws *Workspace, items []*model.Item, in Input, config model.GeneticSettings) (Order, error) {
	if err := in.validate(items); err != nil {
		return Order{}, err
	}
	if err := ws.prepare(in); err != nil {
		return Order{}, err
	}

	g := newGeneticSearch(ws, items, in, config)
	best := g.evolve()

	seq := make([]*model.Item, len(best.genes))
	for i, idx := range best.genes {
		seq[i] = items[idx]
	}
	return fixedOrder(OrderGenetic, seq), nil
}

func (g *geneticSearch) evolve() chromosome {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sortByFitness(population)

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		eliteCount := min(g.config.EliteCount, len(population))
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sortByFitness(population)
	return population[0]
}

// sortByFitness sorts best first. Ties keep their position so runs with the
// same seed are reproducible.
func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// initPopulation creates random permutations plus one seeded with the area
// ordering.
func (g *geneticSearch) initPopulation() []chromosome {
	n := len(g.items)
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		population[i] = chromosome{genes: g.rng.Perm(n)}
	}
	population[0] = g.areaChromosome()
	return population
}

func (g *geneticSearch) areaChromosome() chromosome {
	area, _ := LookupOrder("area")
	indices := make([]int, len(g.items))
	for i := range indices {
		indices[i] = i
	}
	slices.SortStableFunc(indices, func(a, b int) int {
		return area.Compare(g.items[a], g.items[b])
	})
	return chromosome{genes: indices}
}

// evaluate scores a chromosome by the bin its ordering needs. A fit scores
// minus the bin area. An ordering that fits no bin scores below every fit,
// ranked by the area it managed to place.
func (g *geneticSearch) evaluate(c chromosome) int {
	for i, idx := range c.genes {
		g.sequence[i] = g.items[idx]
	}

	maxBin := model.NewSize(g.in.MaxBinSide, g.in.MaxBinSide)
	switch res := bestBinFor(g.ws.root, g.sequence, maxBin, g.in.DiscardStep, g.in.MaxBinSide).(type) {
	case binFit:
		return -res.bin.Area()
	case insertedArea:
		return -2*g.maxArea - 1 + res.area
	}
	return -2*g.maxArea - 1
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticSearch) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1): a slice of parent1 is
// kept in place and the gaps are filled with the remaining genes in the
// order they appear in parent2.
func (g *geneticSearch) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}

	inSegment := make([]bool, n)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate swaps two genes and occasionally reverses a segment.
func (g *geneticSearch) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func (g *geneticSearch) copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
