package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/beamopt/internal/store"
)

var (
	runsDataDir   string
	olderThanDays int
	forceClean    bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored optimization runs",
	Long: `Manage persisted optimization runs, including listing, inspecting, and
cleaning old runs.`,
}

var listRunsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored runs",
	Long:  `Display all stored runs with algorithm, best objective, iteration count, timestamp, and size on disk.`,
	RunE:  runListRuns,
}

var showRunCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one stored run in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRun,
}

var cleanRunsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete old runs",
	Long:  `Delete stored runs older than a given age.`,
	RunE:  runCleanRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.AddCommand(listRunsCmd)
	runsCmd.AddCommand(showRunCmd)
	runsCmd.AddCommand(cleanRunsCmd)

	runsCmd.PersistentFlags().StringVar(&runsDataDir, "data-dir", "./data", "Base directory for run storage")

	cleanRunsCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete runs older than N days (required)")
	cleanRunsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

func runListRuns(cmd *cobra.Command, args []string) error {
	runStore, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	infos, err := runStore.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tALGORITHM\tTIMESTAMP\tITERATIONS\tBEST OBJECTIVE\tSIZE")

	for _, info := range infos {
		size, err := getDirSize(runStore.RunDir(info.RunID))
		sizeStr := "unknown"
		if err == nil {
			sizeStr = formatBytes(size)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.6f\t%s\n",
			truncateID(info.RunID),
			info.Algorithm,
			info.Timestamp.Format("2006-01-02 15:04:05"),
			info.Iterations,
			info.Objective,
			sizeStr,
		)
	}
	w.Flush()

	fmt.Printf("\nTotal runs: %d\n", len(infos))
	return nil
}

func runShowRun(cmd *cobra.Command, args []string) error {
	runStore, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	record, err := runStore.LoadRun(args[0])
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	fmt.Printf("Run %s (%s)\n", record.RunID, record.Config.Algorithm)
	fmt.Printf("  finished            = %s\n", record.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("  population          = %d\n", record.Config.PopSize)
	fmt.Printf("  iterations          = %d\n", record.Iterations)
	fmt.Printf("  seed                = %d\n", record.Config.Seed)
	fmt.Printf("  height h            = %.4f\n", record.Best.H)
	fmt.Printf("  width b             = %.4f\n", record.Best.B)
	fmt.Printf("  web thickness tw    = %.4f\n", record.Best.TW)
	fmt.Printf("  flange thickness tf = %.4f\n", record.Best.TF)
	fmt.Printf("  objective f         = %.6f\n", record.Objective)
	fmt.Printf("  constraint g1       = %.4f\n", record.G1)
	fmt.Printf("  constraint g2       = %.4f\n", record.G2)
	fmt.Printf("  initial best        = %.6f\n", record.InitialBest)

	// Trace is optional; report its length when present.
	reader, err := store.NewTraceReader(runStore.BaseDir(), record.RunID)
	if err == nil {
		defer reader.Close()
		if history, err := reader.History(); err == nil {
			fmt.Printf("  trace entries       = %d\n", len(history))
		}
	}

	return nil
}

func runCleanRuns(cmd *cobra.Command, args []string) error {
	if olderThanDays <= 0 {
		return fmt.Errorf("must specify --older-than with a positive number of days")
	}

	runStore, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	infos, err := runStore.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	stale := runsOlderThan(infos, cutoff)

	if len(stale) == 0 {
		fmt.Println("No runs to clean.")
		return nil
	}

	fmt.Printf("Will delete %d run(s) older than %d day(s):\n", len(stale), olderThanDays)
	for _, info := range stale {
		fmt.Printf("  %s (%s, %s)\n", truncateID(info.RunID), info.Algorithm,
			info.Timestamp.Format("2006-01-02 15:04:05"))
	}

	if !forceClean {
		fmt.Print("Proceed? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	deleted := 0
	for _, info := range stale {
		if err := runStore.DeleteRun(info.RunID); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", truncateID(info.RunID), err)
			continue
		}
		deleted++
	}

	fmt.Printf("Deleted %d run(s).\n", deleted)
	return nil
}

// runsOlderThan filters run infos to those finished before the cutoff.
func runsOlderThan(infos []store.RunInfo, cutoff time.Time) []store.RunInfo {
	var stale []store.RunInfo
	for _, info := range infos {
		if info.Timestamp.Before(cutoff) {
			stale = append(stale, info)
		}
	}
	return stale
}

// getDirSize returns the total size of all files under a directory.
func getDirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}

// formatBytes formats a byte count in a human-readable way.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
