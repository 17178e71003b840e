package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/beamopt/internal/server"
	"github.com/cwbudde/beamopt/internal/store"
)

var (
	serveAddr    string
	serveDataDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the HTTP server exposing a JSON job API, SSE progress streams,
convergence plots, and a small web UI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var runStore *store.FSStore
		if serveDataDir != "" {
			var err error
			runStore, err = store.NewFSStore(serveDataDir)
			if err != nil {
				return fmt.Errorf("failed to create run store: %w", err)
			}
		}

		s := server.NewServer(serveAddr, runStore)
		return s.Start()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "./data", "Run persistence directory (empty = in-memory only)")
	rootCmd.AddCommand(serveCmd)
}
