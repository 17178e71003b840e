package server

import (
	"net/http"
	"sort"
	"strings"

	"github.com/cwbudde/beamopt/internal/ui"
)

// handleIndex handles GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Only handle exact root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	jobs := s.jobManager.ListJobs()
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].StartTime.After(jobs[j].StartTime)
	})

	jobItems := make([]ui.JobListItem, len(jobs))
	for i, job := range jobs {
		jobItems[i] = jobToItem(job)
	}

	if err := ui.JobList(jobItems).Render(r.Context(), w); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}

// handleJobPage handles GET /jobs/:id
func (s *Server) handleJobPage(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if jobID == "" || strings.Contains(jobID, "/") {
		http.NotFound(w, r)
		return
	}

	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := ui.JobDetail(jobToItem(job)).Render(r.Context(), w); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}

func jobToItem(job *Job) ui.JobListItem {
	return ui.JobListItem{
		ID:            job.ID,
		State:         string(job.State),
		Algorithm:     job.Config.Algorithm,
		PopSize:       job.Config.PopSize,
		Iterations:    job.Iterations,
		Budget:        job.Config.Iterations,
		BestObjective: job.BestObjective,
		G1:            job.G1,
		G2:            job.G2,
		Best:          job.Best,
		StartTime:     job.StartTime,
		EndTime:       job.EndTime,
		Error:         job.Error,
	}
}
