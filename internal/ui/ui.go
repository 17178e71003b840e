// Package ui renders the server's HTML pages as templ components.
package ui

import (
	"context"
	"fmt"
	"html"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/cwbudde/beamopt/internal/beam"
)

// JobListItem is the view model for one job row.
type JobListItem struct {
	ID            string
	State         string
	Algorithm     string
	PopSize       int
	Iterations    int // iterations completed so far
	Budget        int // configured iteration budget
	BestObjective float64
	G1            float64
	G2            float64
	Best          beam.Design
	StartTime     time.Time
	EndTime       *time.Time
	Error         string
}

// JobList renders the job overview page.
func JobList(jobs []JobListItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writePageHeader(w, "beamopt jobs"); err != nil {
			return err
		}

		fmt.Fprintf(w, "<h1>Optimization jobs</h1>\n")

		if len(jobs) == 0 {
			fmt.Fprintf(w, "<p>No jobs yet. POST to /api/v1/jobs to start one.</p>\n")
		} else {
			fmt.Fprintf(w, "<table>\n<tr><th>Job</th><th>Algorithm</th><th>State</th><th>Iterations</th><th>Best objective</th><th>Started</th></tr>\n")
			for _, job := range jobs {
				fmt.Fprintf(w,
					"<tr><td><a href=\"/jobs/%s\">%s</a></td><td>%s</td><td>%s</td><td>%d / %d</td><td>%.6f</td><td>%s</td></tr>\n",
					html.EscapeString(job.ID),
					html.EscapeString(shortID(job.ID)),
					html.EscapeString(job.Algorithm),
					html.EscapeString(job.State),
					job.Iterations, job.Budget,
					job.BestObjective,
					job.StartTime.Format("2006-01-02 15:04:05"),
				)
			}
			fmt.Fprintf(w, "</table>\n")
		}

		return writePageFooter(w)
	})
}

// JobDetail renders one job's page: final design, live progress via SSE, and
// the convergence plot.
func JobDetail(job JobListItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writePageHeader(w, "job "+shortID(job.ID)); err != nil {
			return err
		}

		fmt.Fprintf(w, "<h1>Job %s</h1>\n", html.EscapeString(shortID(job.ID)))
		fmt.Fprintf(w, "<p><a href=\"/\">&larr; all jobs</a></p>\n")

		fmt.Fprintf(w, "<table>\n")
		fmt.Fprintf(w, "<tr><th>Algorithm</th><td>%s</td></tr>\n", html.EscapeString(job.Algorithm))
		fmt.Fprintf(w, "<tr><th>State</th><td id=\"state\">%s</td></tr>\n", html.EscapeString(job.State))
		fmt.Fprintf(w, "<tr><th>Population</th><td>%d</td></tr>\n", job.PopSize)
		fmt.Fprintf(w, "<tr><th>Iterations</th><td id=\"iterations\">%d / %d</td></tr>\n", job.Iterations, job.Budget)
		fmt.Fprintf(w, "<tr><th>Best objective</th><td id=\"objective\">%.6f</td></tr>\n", job.BestObjective)
		fmt.Fprintf(w, "<tr><th>h, b, tw, tf</th><td>%.4f, %.4f, %.4f, %.4f</td></tr>\n",
			job.Best.H, job.Best.B, job.Best.TW, job.Best.TF)
		fmt.Fprintf(w, "<tr><th>g1, g2</th><td>%.4f, %.4f</td></tr>\n", job.G1, job.G2)
		if job.Error != "" {
			fmt.Fprintf(w, "<tr><th>Error</th><td>%s</td></tr>\n", html.EscapeString(job.Error))
		}
		fmt.Fprintf(w, "</table>\n")

		fmt.Fprintf(w, "<h2>Convergence</h2>\n")
		fmt.Fprintf(w, "<img id=\"plot\" src=\"/api/v1/jobs/%s/convergence.png\" alt=\"convergence plot\">\n",
			html.EscapeString(job.ID))

		// Live updates over SSE while the job runs.
		fmt.Fprintf(w, `<script>
const src = new EventSource("/api/v1/jobs/%s/stream");
src.onmessage = (e) => {
	const ev = JSON.parse(e.data);
	document.getElementById("state").textContent = ev.state;
	document.getElementById("iterations").textContent = ev.iterations + " / %d";
	document.getElementById("objective").textContent = ev.bestObjective.toFixed(6);
	const plot = document.getElementById("plot");
	plot.src = "/api/v1/jobs/%s/convergence.png?t=" + Date.now();
	if (ev.state === "completed" || ev.state === "failed") {
		src.close();
	}
};
</script>
`, html.EscapeString(job.ID), job.Budget, html.EscapeString(job.ID))

		return writePageFooter(w)
	})
}

func writePageHeader(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
th { background: #f4f4f4; }
img { max-width: 40em; }
</style>
</head>
<body>
`, html.EscapeString(title))
	return err
}

func writePageFooter(w io.Writer) error {
	_, err := fmt.Fprintf(w, "</body>\n</html>\n")
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
