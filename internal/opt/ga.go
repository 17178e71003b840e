package opt

import (
	"log/slog"
	"math/rand"

	"github.com/cwbudde/beamopt/internal/beam"
)

// GAConfig parameterizes a genetic algorithm run.
type GAConfig struct {
	PopSize     int
	Generations int
	Bounds      beam.Bounds

	// CrossoverRate is the probability that a selected parent pair is
	// blended instead of copied.
	CrossoverRate float64

	// MutationRate is the per-variable probability of Gaussian mutation;
	// MutationSigma scales the standard normal noise.
	MutationRate  float64
	MutationSigma float64

	// OnIteration, when non-nil, is called sequentially after each
	// generation has replaced its predecessor.
	OnIteration IterationFunc
}

// DefaultGAConfig returns the reference settings for the I-beam problem.
func DefaultGAConfig() GAConfig {
	return GAConfig{
		PopSize:       30,
		Generations:   10000,
		Bounds:        beam.DefaultBounds(),
		CrossoverRate: 0.9,
		MutationRate:  0.1,
		MutationSigma: 0.5,
	}
}

// RunGA minimizes the deflection proxy with a generational genetic
// algorithm: binary tournament selection, per-variable arithmetic blend
// crossover, and per-variable Gaussian mutation. Each generation is built to
// the configured population size and unconditionally replaces the previous
// one; there is no elitism, so the population minimum may regress between
// generations. The run always exhausts its fixed generation budget.
func RunGA(cfg GAConfig, rng *rand.Rand) *Result {
	pop := newPopulation(cfg.PopSize, cfg.Bounds, rng)
	initial := pop[bestIndex(pop)].Eval.F

	history := make([]float64, 0, cfg.Generations)

	for gen := 1; gen <= cfg.Generations; gen++ {
		next := make([]Individual, 0, cfg.PopSize)

		for len(next) < cfg.PopSize {
			p1 := tournament(pop, rng)
			p2 := tournament(pop, rng)

			c1, c2 := p1.Design, p2.Design
			if rng.Float64() < cfg.CrossoverRate {
				c1, c2 = blend(p1.Design, p2.Design, rng)
			}

			c1 = mutate(c1, cfg, rng)
			next = append(next, Individual{Design: c1, Eval: beam.Evaluate(c1)})

			// With an odd population size the second child of the
			// final pairing is dropped, keeping the size constant.
			if len(next) < cfg.PopSize {
				c2 = mutate(c2, cfg, rng)
				next = append(next, Individual{Design: c2, Eval: beam.Evaluate(c2)})
			}
		}

		pop = next

		history = append(history, pop[bestIndex(pop)].Eval.F)
		if cfg.OnIteration != nil {
			cfg.OnIteration(gen, pop)
		}
	}

	final := pop[bestIndex(pop)]
	slog.Info("GA run complete",
		"generations", cfg.Generations,
		"initial_best", initial,
		"final_best", final.Eval.F,
	)

	return &Result{
		Best:        final,
		History:     history,
		InitialBest: initial,
		Iterations:  cfg.Generations,
	}
}

// tournament returns the fitter of two members drawn with replacement.
// When both draws land on the same index, or the objectives tie, the first
// draw wins; the choice is arbitrary but fixed.
func tournament(pop []Individual, rng *rand.Rand) Individual {
	a := rng.Intn(len(pop))
	b := rng.Intn(len(pop))
	if pop[b].Eval.F < pop[a].Eval.F {
		return pop[b]
	}
	return pop[a]
}

// blend produces two children by per-variable arithmetic crossover. One
// alpha is drawn per variable and mirrored between the children, so the
// children's variables sum to the parents'.
func blend(p1, p2 beam.Design, rng *rand.Rand) (beam.Design, beam.Design) {
	mix := func(a, b float64) (float64, float64) {
		alpha := rng.Float64()
		return alpha*a + (1-alpha)*b, alpha*b + (1-alpha)*a
	}
	var c1, c2 beam.Design
	c1.H, c2.H = mix(p1.H, p2.H)
	c1.B, c2.B = mix(p1.B, p2.B)
	c1.TW, c2.TW = mix(p1.TW, p2.TW)
	c1.TF, c2.TF = mix(p1.TF, p2.TF)
	return c1, c2
}

// mutate perturbs each variable independently with probability MutationRate
// and clamps the result to the bounds.
func mutate(d beam.Design, cfg GAConfig, rng *rand.Rand) beam.Design {
	gene := func(v float64) float64 {
		if rng.Float64() < cfg.MutationRate {
			v += rng.NormFloat64() * cfg.MutationSigma
		}
		return v
	}
	d.H = gene(d.H)
	d.B = gene(d.B)
	d.TW = gene(d.TW)
	d.TF = gene(d.TF)
	return cfg.Bounds.Clamp(d)
}
