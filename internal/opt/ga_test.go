package opt

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/beamopt/internal/beam"
)

func TestRunGADeterministic(t *testing.T) {
	cfg := DefaultGAConfig()
	cfg.Generations = 100

	resA := RunGA(cfg, rand.New(rand.NewSource(7)))
	resB := RunGA(cfg, rand.New(rand.NewSource(7)))

	if resA.Best.Design != resB.Best.Design {
		t.Errorf("Best designs diverged: %+v vs %+v", resA.Best.Design, resB.Best.Design)
	}
	for i := range resA.History {
		if resA.History[i] != resB.History[i] {
			t.Fatalf("History diverged at generation %d: %f vs %f", i, resA.History[i], resB.History[i])
		}
	}
}

func TestRunGAPopulationSizeInvariant(t *testing.T) {
	// The odd size exercises the truncation of the last pairing's second
	// child.
	for _, popSize := range []int{30, 7} {
		cfg := DefaultGAConfig()
		cfg.PopSize = popSize
		cfg.Generations = 50

		cfg.OnIteration = func(gen int, pop []Individual) {
			if len(pop) != popSize {
				t.Fatalf("PopSize %d, generation %d: population size %d", popSize, gen, len(pop))
			}
		}

		RunGA(cfg, rand.New(rand.NewSource(5)))
	}
}

func TestRunGABoundsInvariant(t *testing.T) {
	cfg := DefaultGAConfig()
	cfg.Generations = 100
	// Aggressive mutation makes clamping do real work.
	cfg.MutationRate = 0.8
	cfg.MutationSigma = 50

	cfg.OnIteration = func(gen int, pop []Individual) {
		for i, ind := range pop {
			if !cfg.Bounds.Contains(ind.Design) {
				t.Fatalf("Generation %d: member %d out of bounds: %+v", gen, i, ind.Design)
			}
		}
	}

	RunGA(cfg, rand.New(rand.NewSource(13)))
}

func TestRunGAImprovesOnAverage(t *testing.T) {
	// Generational replacement without elitism gives no per-run or
	// per-generation guarantee (the history may regress between
	// generations), so the assertion is statistical over seeded runs.
	seeds := []int64{1, 2, 3, 4, 5, 6, 7, 8}

	initial := make([]float64, len(seeds))
	final := make([]float64, len(seeds))

	for i, seed := range seeds {
		cfg := DefaultGAConfig()
		cfg.Generations = 400

		res := RunGA(cfg, rand.New(rand.NewSource(seed)))
		initial[i] = res.InitialBest
		final[i] = res.Best.Eval.F
	}

	if meanFinal, meanInitial := stat.Mean(final, nil), stat.Mean(initial, nil); meanFinal >= meanInitial {
		t.Errorf("Expected mean final best %f below mean initial best %f", meanFinal, meanInitial)
	}
}

func TestTournamentPrefersLowerObjective(t *testing.T) {
	pop := []Individual{
		{Design: beam.Design{H: 11}, Eval: beam.Evaluation{F: 1}},
		{Design: beam.Design{H: 22}, Eval: beam.Evaluation{F: 2}},
		{Design: beam.Design{H: 33}, Eval: beam.Evaluation{F: 3}},
	}

	// Mirror the draws with an identically seeded generator to know which
	// indices each tournament sampled.
	rng := rand.New(rand.NewSource(21))
	mirror := rand.New(rand.NewSource(21))

	for i := 0; i < 200; i++ {
		a := mirror.Intn(len(pop))
		b := mirror.Intn(len(pop))

		want := pop[a]
		if pop[b].Eval.F < pop[a].Eval.F {
			want = pop[b]
		}

		if got := tournament(pop, rng); got.Design != want.Design {
			t.Fatalf("Draw %d (indices %d, %d): got %+v, want %+v", i, a, b, got.Design, want.Design)
		}
	}
}

func TestBlendConservesVariableSums(t *testing.T) {
	p1 := beam.Design{H: 40, B: 20, TW: 2, TF: 3}
	p2 := beam.Design{H: 60, B: 45, TW: 4, TF: 1}
	rng := rand.New(rand.NewSource(17))

	for i := 0; i < 100; i++ {
		c1, c2 := blend(p1, p2, rng)

		checks := [][3]float64{
			{c1.H, c2.H, p1.H + p2.H},
			{c1.B, c2.B, p1.B + p2.B},
			{c1.TW, c2.TW, p1.TW + p2.TW},
			{c1.TF, c2.TF, p1.TF + p2.TF},
		}
		for _, c := range checks {
			if math.Abs(c[0]+c[1]-c[2]) > 1e-9 {
				t.Fatalf("Blend children do not mirror: %f + %f != %f", c[0], c[1], c[2])
			}
		}
	}
}

func TestMutateStaysInBounds(t *testing.T) {
	cfg := DefaultGAConfig()
	cfg.MutationRate = 1
	cfg.MutationSigma = 100

	rng := rand.New(rand.NewSource(29))
	d := beam.Design{H: 40, B: 30, TW: 3, TF: 2}

	for i := 0; i < 500; i++ {
		if mutated := mutate(d, cfg, rng); !cfg.Bounds.Contains(mutated) {
			t.Fatalf("Mutated design out of bounds: %+v", mutated)
		}
	}
}
