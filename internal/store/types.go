package store

import (
	"time"

	"github.com/cwbudde/beamopt/internal/beam"
	"github.com/cwbudde/beamopt/internal/opt"
)

// RunConfig holds the optimizer settings a run was started with. The GA-only
// fields are zero for Jaya runs and omitted from the serialized form.
type RunConfig struct {
	Algorithm     string  `json:"algorithm"` // "jaya" or "ga"
	PopSize       int     `json:"popSize"`
	Iterations    int     `json:"iterations"`
	Seed          int64   `json:"seed"`
	CrossoverRate float64 `json:"crossoverRate,omitempty"`
	MutationRate  float64 `json:"mutationRate,omitempty"`
	MutationSigma float64 `json:"mutationSigma,omitempty"`
}

// RunRecord is the persisted outcome of a finished optimization run.
//
// Only the final best design and the per-iteration best-objective trace are
// kept. Intermediate populations are deliberately not persisted: a run is a
// short batch computation, and the best-history plus final design is all the
// reporting surface consumes. A record therefore cannot be "resumed"; it can
// only be inspected, listed, and plotted.
type RunRecord struct {
	// RunID is the unique identifier for this run.
	RunID string `json:"runId"`

	// Config holds the settings the run was started with.
	Config RunConfig `json:"config"`

	// Best is the design with the lowest objective in the final population.
	Best beam.Design `json:"best"`

	// Objective is the deflection proxy achieved by Best.
	Objective float64 `json:"objective"`

	// G1 and G2 are the constraint values of Best.
	G1 float64 `json:"g1"`
	G2 float64 `json:"g2"`

	// InitialBest is the population minimum before the first iteration,
	// kept for improvement tracking.
	InitialBest float64 `json:"initialBest"`

	// Iterations is the number of iterations/generations the run executed.
	Iterations int `json:"iterations"`

	// Timestamp records when the run finished.
	Timestamp time.Time `json:"timestamp"`
}

// RunInfo contains metadata about a stored run without the full record.
// Used for listing runs efficiently.
type RunInfo struct {
	RunID      string    `json:"runId"`
	Algorithm  string    `json:"algorithm"`
	Objective  float64   `json:"objective"`
	Iterations int       `json:"iterations"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewRunRecord builds a record from a finished optimization result.
func NewRunRecord(runID string, config RunConfig, res *opt.Result) *RunRecord {
	return &RunRecord{
		RunID:       runID,
		Config:      config,
		Best:        res.Best.Design,
		Objective:   res.Best.Eval.F,
		G1:          res.Best.Eval.G1,
		G2:          res.Best.Eval.G2,
		InitialBest: res.InitialBest,
		Iterations:  res.Iterations,
		Timestamp:   time.Now(),
	}
}

// ToInfo extracts the listing metadata from a full record.
func (r *RunRecord) ToInfo() RunInfo {
	return RunInfo{
		RunID:      r.RunID,
		Algorithm:  r.Config.Algorithm,
		Objective:  r.Objective,
		Iterations: r.Iterations,
		Timestamp:  r.Timestamp,
	}
}
