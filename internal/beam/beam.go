package beam

import "math"

// Design describes an I-beam cross-section by its four sizing variables.
// Design is a value type: operators that vary a design return a new one
// rather than mutating in place.
type Design struct {
	H  float64 // section height
	B  float64 // flange width
	TW float64 // web thickness
	TF float64 // flange thickness
}

// Evaluation holds the objective and constraint values computed for a design.
// It is derived from the design and never stored independently of it.
type Evaluation struct {
	F  float64 // deflection proxy 5000/I, or Penalty when infeasible
	G1 float64 // cross-sectional area proxy, feasible when <= AreaLimit
	G2 float64 // bending stress proxy, feasible when <= StressLimit
}

// Feasibility limits and the sentinel objective assigned to designs that
// violate them. Penalty exceeds any feasible objective, so minimization
// discards infeasible designs without special-casing them.
const (
	AreaLimit   = 300.0
	StressLimit = 6.0
	Penalty     = 1e6
)

// Evaluate computes the deflection proxy and both constraints for a design.
// It is pure and never fails: degenerate geometry (zero or negative moment
// of inertia) propagates as non-finite values, which compare as worse than
// any feasible objective under minimization.
func Evaluate(d Design) Evaluation {
	web := d.H - 2*d.TF

	inertia := d.TW*math.Pow(web, 3)/12 +
		d.B*math.Pow(d.TF, 3)/6 +
		2*d.B*d.TF*math.Pow((d.H-d.TF)/2, 2)

	g1 := 2*d.B*d.TF + d.TW*web

	denom := d.TW*math.Pow(web, 3) +
		2*d.B*d.TF*(4*d.TF*d.TF+3*d.H*web) +
		math.Pow(d.TW, 3)*web +
		2*d.TW*math.Pow(d.B, 3)
	g2 := (18000*d.H + 15000*d.B) / denom

	var f float64
	if g1 > AreaLimit || g2 > StressLimit {
		f = Penalty
	} else {
		f = 5000 / inertia
	}

	return Evaluation{F: f, G1: g1, G2: g2}
}

// Feasible reports whether both constraints are satisfied.
func (e Evaluation) Feasible() bool {
	return e.G1 <= AreaLimit && e.G2 <= StressLimit
}
