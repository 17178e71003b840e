package opt

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/cwbudde/beamopt/internal/beam"
)

// JayaConfig parameterizes a Jaya run. The config is immutable for the
// duration of the run; the random generator is passed separately so tests
// can substitute a fixed seed.
type JayaConfig struct {
	PopSize    int
	Iterations int
	Bounds     beam.Bounds

	// OnIteration, when non-nil, is called sequentially after each
	// iteration's replacements are committed.
	OnIteration IterationFunc
}

// DefaultJayaConfig returns the reference settings for the I-beam problem.
func DefaultJayaConfig() JayaConfig {
	return JayaConfig{
		PopSize:    15,
		Iterations: 200,
		Bounds:     beam.DefaultBounds(),
	}
}

// RunJaya minimizes the deflection proxy with the Jaya algorithm: every
// member moves toward the current best and away from the current worst, with
// no explicit selection, crossover, or mutation operators. A member is
// replaced only when its candidate strictly improves on it, so no slot ever
// regresses and the population minimum is non-increasing over iterations.
// The run always exhausts its fixed iteration budget; there is no early stop.
func RunJaya(cfg JayaConfig, rng *rand.Rand) *Result {
	pop := newPopulation(cfg.PopSize, cfg.Bounds, rng)
	initial := pop[bestIndex(pop)].Eval.F

	history := make([]float64, 0, cfg.Iterations)

	for iter := 1; iter <= cfg.Iterations; iter++ {
		best := pop[bestIndex(pop)].Design
		worst := pop[worstIndex(pop)].Design

		for i := range pop {
			cand := cfg.Bounds.Clamp(jayaCandidate(pop[i].Design, best, worst, rng))
			eval := beam.Evaluate(cand)
			if eval.F < pop[i].Eval.F {
				pop[i] = Individual{Design: cand, Eval: eval}
			}
		}

		history = append(history, pop[bestIndex(pop)].Eval.F)
		if cfg.OnIteration != nil {
			cfg.OnIteration(iter, pop)
		}
	}

	final := pop[bestIndex(pop)]
	slog.Info("Jaya run complete",
		"iterations", cfg.Iterations,
		"initial_best", initial,
		"final_best", final.Eval.F,
	)

	return &Result{
		Best:        final,
		History:     history,
		InitialBest: initial,
		Iterations:  cfg.Iterations,
	}
}

// jayaCandidate applies the guided update to every variable:
//
//	new = cur + r1*(best - |cur|) - r2*(worst - |cur|)
//
// r1 and r2 are drawn per variable, r1 first, in the fixed field order
// H, B, TW, TF, so seeded runs are reproducible.
func jayaCandidate(cur, best, worst beam.Design, rng *rand.Rand) beam.Design {
	step := func(c, b, w float64) float64 {
		r1 := rng.Float64()
		r2 := rng.Float64()
		return c + r1*(b-math.Abs(c)) - r2*(w-math.Abs(c))
	}
	return beam.Design{
		H:  step(cur.H, best.H, worst.H),
		B:  step(cur.B, best.B, worst.B),
		TW: step(cur.TW, best.TW, worst.TW),
		TF: step(cur.TF, best.TF, worst.TF),
	}
}
