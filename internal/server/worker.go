package server

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/cwbudde/beamopt/internal/opt"
	"github.com/cwbudde/beamopt/internal/store"
)

// runJob executes an optimization job in the background. If runStore is not
// nil the finished run and its best-history trace are persisted.
func runJob(ctx context.Context, jm *JobManager, runStore *store.FSStore, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	})
	if err != nil {
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "algorithm", job.Config.Algorithm)

	// Check for cancellation before starting the run
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	rng := rand.New(rand.NewSource(job.Config.Seed))
	start := time.Now()

	// The hook runs on the optimizer goroutine after each iteration's
	// replacement barrier, so job state always reflects a committed
	// population.
	onIteration := func(iter int, pop []opt.Individual) {
		best := opt.BestOf(pop)
		jm.UpdateJob(jobID, func(j *Job) {
			j.Iterations = iter
			j.Best = best.Design
			j.BestObjective = best.Eval.F
			j.G1 = best.Eval.G1
			j.G2 = best.Eval.G2
			j.History = append(j.History, best.Eval.F)
		})
	}

	// Progress broadcasting is throttled by a ticker rather than emitted
	// per iteration; a GA run can execute thousands of generations per
	// second.
	progressDone := make(chan struct{})
	go monitorProgress(ctx, jm, jobID, start, progressDone)

	var result *opt.Result

	switch job.Config.Algorithm {
	case "jaya":
		cfg := opt.DefaultJayaConfig()
		cfg.PopSize = job.Config.PopSize
		cfg.Iterations = job.Config.Iterations
		cfg.OnIteration = onIteration
		result = opt.RunJaya(cfg, rng)
	case "ga":
		cfg := opt.DefaultGAConfig()
		cfg.PopSize = job.Config.PopSize
		cfg.Generations = job.Config.Iterations
		cfg.CrossoverRate = job.Config.CrossoverRate
		cfg.MutationRate = job.Config.MutationRate
		cfg.MutationSigma = job.Config.MutationSigma
		cfg.OnIteration = onIteration
		result = opt.RunGA(cfg, rng)
	default:
		err := fmt.Errorf("unknown algorithm: %s", job.Config.Algorithm)
		markJobFailed(jm, jobID, err)
		close(progressDone)
		return err
	}

	close(progressDone)
	elapsed := time.Since(start)

	// Check for cancellation after optimization
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	// Persist before the job is visible as completed, so clients that see
	// the completed state can immediately fetch the trace.
	if runStore != nil {
		if err := persistRun(runStore, jobID, job.Config, result); err != nil {
			slog.Warn("Failed to persist run", "job_id", jobID, "error", err)
			// The in-memory job still holds the results; don't fail the job.
		}
	}

	// Update job with final results
	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Best = result.Best.Design
		j.BestObjective = result.Best.Eval.F
		j.G1 = result.Best.Eval.G1
		j.G2 = result.Best.Eval.G2
		j.InitialBest = result.InitialBest
		j.Iterations = result.Iterations
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	eps := evalsPerSecond(job.Config, result.Iterations, elapsed)
	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"initial_best", result.InitialBest,
		"best_objective", result.Best.Eval.F,
		"evals_per_second", eps,
	)

	// Broadcast final completion event
	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:         jobID,
		State:         StateCompleted,
		Iterations:    result.Iterations,
		BestObjective: result.Best.Eval.F,
		EPS:           eps,
		Timestamp:     time.Now(),
	})

	return nil
}

// persistRun saves the run record and its trace to the store.
func persistRun(runStore *store.FSStore, jobID string, config JobConfig, result *opt.Result) error {
	record := store.NewRunRecord(jobID, config, result)
	if err := runStore.SaveRun(jobID, record); err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	if err := store.WriteTrace(runStore.BaseDir(), jobID, result.History); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}
	return nil
}

// evalsPerSecond estimates evaluation throughput. Each iteration evaluates
// one candidate per population member.
func evalsPerSecond(config JobConfig, iterations int, elapsed time.Duration) float64 {
	if elapsed.Seconds() <= 0 {
		return 0
	}
	return float64(iterations*config.PopSize) / elapsed.Seconds()
}

// monitorProgress periodically broadcasts progress events during optimization
func monitorProgress(ctx context.Context, jm *JobManager, jobID string, startTime time.Time, done chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond) // Throttle to 2 updates per second
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, exists := jm.GetJob(jobID)
			if !exists {
				return
			}

			elapsed := time.Since(startTime)
			jm.broadcaster.Broadcast(ProgressEvent{
				JobID:         jobID,
				State:         job.State,
				Iterations:    job.Iterations,
				BestObjective: job.BestObjective,
				EPS:           evalsPerSecond(job.Config, job.Iterations, elapsed),
				Timestamp:     time.Now(),
			})
		}
	}
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}
