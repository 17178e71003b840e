package beam

import (
	"math"
	"math/rand"
)

// Interval is a closed search range for one design variable.
type Interval struct {
	Lo, Hi float64
}

// Clamp returns v limited to the interval.
func (iv Interval) Clamp(v float64) float64 {
	return math.Max(iv.Lo, math.Min(iv.Hi, v))
}

// Contains reports whether v lies inside the interval.
func (iv Interval) Contains(v float64) bool {
	return v >= iv.Lo && v <= iv.Hi
}

// Bounds holds the box constraints for the four design variables. Bounds are
// fixed for a whole run; both optimizers use them to draw the initial
// population and to clamp every candidate they generate.
type Bounds struct {
	H, B, TW, TF Interval
}

// DefaultBounds returns the standard search box for the I-beam sizing problem.
func DefaultBounds() Bounds {
	return Bounds{
		H:  Interval{10, 80},
		B:  Interval{10, 50},
		TW: Interval{0.9, 5},
		TF: Interval{0.9, 5},
	}
}

// Clamp limits every variable of d to its interval.
func (b Bounds) Clamp(d Design) Design {
	return Design{
		H:  b.H.Clamp(d.H),
		B:  b.B.Clamp(d.B),
		TW: b.TW.Clamp(d.TW),
		TF: b.TF.Clamp(d.TF),
	}
}

// Contains reports whether every variable of d lies inside its interval.
func (b Bounds) Contains(d Design) bool {
	return b.H.Contains(d.H) && b.B.Contains(d.B) &&
		b.TW.Contains(d.TW) && b.TF.Contains(d.TF)
}

// Random draws a design uniformly inside the bounds. Variables are drawn in
// a fixed order (H, B, TW, TF) so seeded runs are reproducible.
func (b Bounds) Random(rng *rand.Rand) Design {
	return Design{
		H:  uniform(rng, b.H),
		B:  uniform(rng, b.B),
		TW: uniform(rng, b.TW),
		TF: uniform(rng, b.TF),
	}
}

func uniform(rng *rand.Rand, iv Interval) float64 {
	return iv.Lo + rng.Float64()*(iv.Hi-iv.Lo)
}
