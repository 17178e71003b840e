package opt

import (
	"math/rand"
	"testing"

	"github.com/cwbudde/beamopt/internal/beam"
)

func TestRunJayaDeterministic(t *testing.T) {
	cfg := DefaultJayaConfig()
	cfg.Iterations = 50

	resA := RunJaya(cfg, rand.New(rand.NewSource(7)))
	resB := RunJaya(cfg, rand.New(rand.NewSource(7)))

	if resA.Best.Design != resB.Best.Design {
		t.Errorf("Best designs diverged: %+v vs %+v", resA.Best.Design, resB.Best.Design)
	}
	if len(resA.History) != len(resB.History) {
		t.Fatalf("History lengths diverged: %d vs %d", len(resA.History), len(resB.History))
	}
	for i := range resA.History {
		if resA.History[i] != resB.History[i] {
			t.Fatalf("History diverged at iteration %d: %f vs %f", i, resA.History[i], resB.History[i])
		}
	}
}

func TestRunJayaHistoryNonIncreasing(t *testing.T) {
	// Greedy per-slot acceptance means the population minimum can never
	// worsen.
	cfg := DefaultJayaConfig()
	res := RunJaya(cfg, rand.New(rand.NewSource(3)))

	if len(res.History) != cfg.Iterations {
		t.Fatalf("Expected %d history entries, got %d", cfg.Iterations, len(res.History))
	}
	for i := 1; i < len(res.History); i++ {
		if res.History[i] > res.History[i-1] {
			t.Fatalf("History regressed at iteration %d: %f -> %f", i, res.History[i-1], res.History[i])
		}
	}
}

func TestRunJayaInvariantsPerIteration(t *testing.T) {
	cfg := DefaultJayaConfig()
	cfg.Iterations = 100

	prevSlots := make([]float64, cfg.PopSize)
	for i := range prevSlots {
		prevSlots[i] = beam.Penalty * 2 // larger than any possible objective
	}

	cfg.OnIteration = func(iter int, pop []Individual) {
		if len(pop) != cfg.PopSize {
			t.Fatalf("Iteration %d: population size %d, want %d", iter, len(pop), cfg.PopSize)
		}
		for i, ind := range pop {
			if !cfg.Bounds.Contains(ind.Design) {
				t.Fatalf("Iteration %d: member %d out of bounds: %+v", iter, i, ind.Design)
			}
			// Per-slot greedy acceptance never regresses a slot.
			if ind.Eval.F > prevSlots[i] {
				t.Fatalf("Iteration %d: slot %d regressed: %f -> %f", iter, i, prevSlots[i], ind.Eval.F)
			}
			prevSlots[i] = ind.Eval.F
		}
	}

	RunJaya(cfg, rand.New(rand.NewSource(11)))
}

func TestRunJayaNoRegressionEndToEnd(t *testing.T) {
	cfg := JayaConfig{
		PopSize:    15,
		Iterations: 200,
		Bounds:     beam.DefaultBounds(),
	}
	res := RunJaya(cfg, rand.New(rand.NewSource(99)))

	if res.Best.Eval.F > res.InitialBest {
		t.Errorf("Final best %f worse than initial best %f", res.Best.Eval.F, res.InitialBest)
	}
	if last := res.History[len(res.History)-1]; res.Best.Eval.F != last {
		t.Errorf("Best objective %f does not match final history entry %f", res.Best.Eval.F, last)
	}
	if !cfg.Bounds.Contains(res.Best.Design) {
		t.Errorf("Best design out of bounds: %+v", res.Best.Design)
	}
}

func TestBestWorstTiesFirstOccurrence(t *testing.T) {
	eval := beam.Evaluation{F: 1}
	pop := []Individual{
		{Design: beam.Design{H: 11}, Eval: eval},
		{Design: beam.Design{H: 22}, Eval: eval},
		{Design: beam.Design{H: 33}, Eval: eval},
	}

	if got := bestIndex(pop); got != 0 {
		t.Errorf("bestIndex tie = %d, want 0", got)
	}
	if got := worstIndex(pop); got != 0 {
		t.Errorf("worstIndex tie = %d, want 0", got)
	}
}
