package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cwbudde/beamopt/internal/report"
	"github.com/cwbudde/beamopt/internal/store"
)

// Server exposes optimization runs over HTTP: a JSON API, SSE progress
// streams, on-demand convergence plots, and a small HTML UI.
type Server struct {
	jobManager *JobManager
	runStore   *store.FSStore // nil disables persistence
	addr       string
	server     *http.Server
}

// NewServer creates a new HTTP server. runStore may be nil, in which case
// finished runs are kept only in memory.
func NewServer(addr string, runStore *store.FSStore) *Server {
	return &Server{
		jobManager: NewJobManager(),
		runStore:   runStore,
		addr:       addr,
	}
}

// routes builds the full handler chain: UI and API routes wrapped with
// logging and CORS middleware.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Register UI routes
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/jobs/", s.handleJobPage)

	// Register API routes
	mux.HandleFunc("/api/v1/jobs", s.handleJobs)
	mux.HandleFunc("/api/v1/jobs/", s.handleJobsWithID)

	return s.loggingMiddleware(s.corsMiddleware(mux))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.routes(),
	}

	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleJobs handles /api/v1/jobs
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateJob(w, r)
	case http.MethodGet:
		s.handleListJobs(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJobsWithID handles /api/v1/jobs/:id/*
func (s *Server) handleJobsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}

	jobID := parts[0]

	switch {
	case len(parts) == 1 || parts[1] == "status":
		s.handleGetJobStatus(w, r, jobID)
	case parts[1] == "stream":
		s.handleJobStream(w, r, jobID)
	case parts[1] == "convergence.png":
		s.handleConvergencePlot(w, r, jobID)
	case parts[1] == "trace":
		s.handleGetTrace(w, r, jobID)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// handleCreateJob handles POST /api/v1/jobs
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	// Seed is decoded as a pointer so an explicit seed of 0 is
	// distinguishable from an absent one.
	var req struct {
		JobConfig
		Seed *int64 `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	config := req.JobConfig
	if req.Seed != nil {
		config.Seed = *req.Seed
	} else {
		config.Seed = 42
	}

	applyConfigDefaults(&config)
	if config.Algorithm != "jaya" && config.Algorithm != "ga" {
		http.Error(w, fmt.Sprintf("unknown algorithm: %s", config.Algorithm), http.StatusBadRequest)
		return
	}

	job := s.jobManager.CreateJob(config)

	// Start worker in background
	go runJob(context.Background(), s.jobManager, s.runStore, job.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)
}

// applyConfigDefaults fills unset fields of a job config. The seed is not
// defaulted here: 0 is a valid seed, so handleCreateJob resolves it at
// decode time where absence is still visible.
func applyConfigDefaults(config *JobConfig) {
	if config.Algorithm == "" {
		config.Algorithm = "jaya"
	}
	if config.PopSize <= 0 {
		if config.Algorithm == "ga" {
			config.PopSize = 30
		} else {
			config.PopSize = 15
		}
	}
	if config.Iterations <= 0 {
		if config.Algorithm == "ga" {
			config.Iterations = 10000
		} else {
			config.Iterations = 200
		}
	}
	if config.Algorithm == "ga" {
		if config.CrossoverRate <= 0 {
			config.CrossoverRate = 0.9
		}
		if config.MutationRate <= 0 {
			config.MutationRate = 0.1
		}
		if config.MutationSigma <= 0 {
			config.MutationSigma = 0.5
		}
	}
}

// handleListJobs handles GET /api/v1/jobs
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.jobManager.ListJobs()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// handleGetJobStatus handles GET /api/v1/jobs/:id/status
func (s *Server) handleGetJobStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	var elapsed time.Duration
	if job.EndTime != nil {
		elapsed = job.EndTime.Sub(job.StartTime)
	} else {
		elapsed = time.Since(job.StartTime)
	}

	response := map[string]interface{}{
		"id":            job.ID,
		"state":         job.State,
		"config":        job.Config,
		"best":          job.Best,
		"bestObjective": job.BestObjective,
		"g1":            job.G1,
		"g2":            job.G2,
		"initialBest":   job.InitialBest,
		"iterations":    job.Iterations,
		"elapsed":       elapsed.Seconds(),
		"eps":           evalsPerSecond(job.Config, job.Iterations, elapsed),
		"startTime":     job.StartTime,
		"endTime":       job.EndTime,
		"error":         job.Error,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleConvergencePlot handles GET /api/v1/jobs/:id/convergence.png
func (s *Server) handleConvergencePlot(w http.ResponseWriter, r *http.Request, jobID string) {
	history, exists := s.jobManager.JobHistory(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if len(history) == 0 {
		http.Error(w, "No results yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")

	title := jobID
	if len(title) > 8 {
		title = title[:8]
	}
	if err := report.RenderHistoryPNG(history, "Convergence "+title, w); err != nil {
		slog.Error("Failed to render convergence plot", "error", err)
	}
}

// handleGetTrace handles GET /api/v1/jobs/:id/trace, serving the persisted
// JSONL best-history trace.
func (s *Server) handleGetTrace(w http.ResponseWriter, r *http.Request, jobID string) {
	if s.runStore == nil {
		http.Error(w, "Persistence disabled", http.StatusNotFound)
		return
	}

	reader, err := store.NewTraceReader(s.runStore.BaseDir(), jobID)
	if err != nil {
		http.Error(w, "Trace not found", http.StatusNotFound)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/x-ndjson")

	entries, err := reader.ReadAll()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read trace: %v", err), http.StatusInternalServerError)
		return
	}

	enc := json.NewEncoder(w)
	for _, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			slog.Error("Failed to write trace entry", "error", err)
			return
		}
	}
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
