package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cwbudde/beamopt/internal/opt"
	"github.com/cwbudde/beamopt/internal/report"
	"github.com/cwbudde/beamopt/internal/store"
)

var (
	algo          string
	popSize       int
	iters         int
	seed          int64
	crossoverRate float64
	mutationRate  float64
	mutationSigma float64
	plotPath      string
	runDataDir    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single optimization",
	Long: `Runs one sizing optimization to completion and prints the best design.
Optionally saves a convergence plot and persists the run for later inspection.`,
	RunE: runOptimization,
}

func init() {
	runCmd.Flags().StringVar(&algo, "algo", "jaya", "Algorithm: jaya or ga")
	runCmd.Flags().IntVar(&popSize, "pop", 0, "Population size (0 = algorithm default)")
	runCmd.Flags().IntVar(&iters, "iters", 0, "Iteration/generation budget (0 = algorithm default)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	runCmd.Flags().Float64Var(&crossoverRate, "crossover-rate", 0.9, "GA crossover probability")
	runCmd.Flags().Float64Var(&mutationRate, "mutation-rate", 0.1, "GA per-variable mutation probability")
	runCmd.Flags().Float64Var(&mutationSigma, "mutation-sigma", 0.5, "GA mutation noise scale")
	runCmd.Flags().StringVar(&plotPath, "plot", "", "Write convergence plot PNG to this path")
	runCmd.Flags().StringVar(&runDataDir, "data-dir", "", "Persist the run under this directory")

	rootCmd.AddCommand(runCmd)
}

func runOptimization(cmd *cobra.Command, args []string) error {
	rng := rand.New(rand.NewSource(seed))

	slog.Info("Starting optimization", "algorithm", algo, "seed", seed)
	start := time.Now()

	var result *opt.Result
	config := store.RunConfig{Algorithm: algo, Seed: seed}

	switch algo {
	case "jaya":
		cfg := opt.DefaultJayaConfig()
		if popSize > 0 {
			cfg.PopSize = popSize
		}
		if iters > 0 {
			cfg.Iterations = iters
		}
		config.PopSize = cfg.PopSize
		config.Iterations = cfg.Iterations
		result = opt.RunJaya(cfg, rng)
	case "ga":
		cfg := opt.DefaultGAConfig()
		if popSize > 0 {
			cfg.PopSize = popSize
		}
		if iters > 0 {
			cfg.Generations = iters
		}
		cfg.CrossoverRate = crossoverRate
		cfg.MutationRate = mutationRate
		cfg.MutationSigma = mutationSigma
		config.PopSize = cfg.PopSize
		config.Iterations = cfg.Generations
		config.CrossoverRate = cfg.CrossoverRate
		config.MutationRate = cfg.MutationRate
		config.MutationSigma = cfg.MutationSigma
		result = opt.RunGA(cfg, rng)
	default:
		return fmt.Errorf("unknown algorithm: %s", algo)
	}

	elapsed := time.Since(start)
	slog.Info("Optimization complete",
		"elapsed", elapsed,
		"initial_best", result.InitialBest,
		"final_best", result.Best.Eval.F,
	)

	if err := report.WriteSummary(os.Stdout, algo, result); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if plotPath != "" {
		if err := report.PlotHistory(result.History, algo+" convergence", plotPath); err != nil {
			return fmt.Errorf("failed to write plot: %w", err)
		}
		fmt.Printf("Wrote %s\n", plotPath)
	}

	if runDataDir != "" {
		runID, err := persistRun(runDataDir, config, result)
		if err != nil {
			return err
		}
		fmt.Printf("Saved run %s\n", runID)
	}

	return nil
}

// persistRun saves the run record and its best-history trace, returning the
// generated run ID.
func persistRun(dataDir string, config store.RunConfig, result *opt.Result) (string, error) {
	runStore, err := store.NewFSStore(dataDir)
	if err != nil {
		return "", fmt.Errorf("failed to create run store: %w", err)
	}

	runID := uuid.New().String()
	record := store.NewRunRecord(runID, config, result)
	if err := runStore.SaveRun(runID, record); err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	if err := store.WriteTrace(runStore.BaseDir(), runID, result.History); err != nil {
		return "", fmt.Errorf("failed to write trace: %w", err)
	}

	return runID, nil
}
