package opt

import (
	"math/rand"

	"github.com/cwbudde/beamopt/internal/beam"
)

// Individual pairs a design with its evaluation. The evaluation is always
// current: every constructor evaluates the design it stores.
type Individual struct {
	Design beam.Design
	Eval   beam.Evaluation
}

// Result holds the output of an optimization run.
type Result struct {
	Best        Individual
	History     []float64 // population minimum objective after each iteration
	InitialBest float64   // minimum objective of the random starting population
	Iterations  int
}

// IterationFunc observes the population after an iteration's replacement
// step has been committed. iter counts from 1. The slice is the live
// population; callers must not retain or modify it.
type IterationFunc func(iter int, pop []Individual)

// BestOf returns the population member with the lowest objective, ties
// broken by first occurrence.
func BestOf(pop []Individual) Individual {
	return pop[bestIndex(pop)]
}

func newPopulation(n int, bounds beam.Bounds, rng *rand.Rand) []Individual {
	pop := make([]Individual, n)
	for i := range pop {
		d := bounds.Random(rng)
		pop[i] = Individual{Design: d, Eval: beam.Evaluate(d)}
	}
	return pop
}

func bestIndex(pop []Individual) int {
	best := 0
	for i := 1; i < len(pop); i++ {
		if pop[i].Eval.F < pop[best].Eval.F {
			best = i
		}
	}
	return best
}

func worstIndex(pop []Individual) int {
	worst := 0
	for i := 1; i < len(pop); i++ {
		if pop[i].Eval.F > pop[worst].Eval.F {
			worst = i
		}
	}
	return worst
}
