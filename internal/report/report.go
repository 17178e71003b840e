// Package report presents finished optimization runs: formatted console
// summaries and convergence-curve plots. It consumes a Result and never
// feeds back into the optimization loop.
package report

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/beamopt/internal/opt"
)

// WriteSummary prints the final best design for a run. Design variables and
// constraints use 4 decimal places, the objective 6.
func WriteSummary(w io.Writer, algorithm string, res *opt.Result) error {
	d := res.Best.Design
	e := res.Best.Eval

	_, err := fmt.Fprintf(w,
		"%s best design after %d iterations\n"+
			"  height h          = %.4f\n"+
			"  width b           = %.4f\n"+
			"  web thickness tw  = %.4f\n"+
			"  flange thickness tf = %.4f\n"+
			"  objective f       = %.6f\n"+
			"  constraint g1     = %.4f (limit 300)\n"+
			"  constraint g2     = %.4f (limit 6)\n",
		algorithm, res.Iterations,
		d.H, d.B, d.TW, d.TF,
		e.F, e.G1, e.G2,
	)
	return err
}

// PlotHistory saves a single convergence curve as a PNG file.
func PlotHistory(history []float64, title, outPath string) error {
	p, err := historyPlot(map[string][]float64{"best": history}, title)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, outPath); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

// PlotHistories saves several convergence curves on one chart, one legend
// entry per curve. Curves are added in sorted name order so output is stable.
func PlotHistories(curves map[string][]float64, title, outPath string) error {
	p, err := historyPlot(curves, title)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, outPath); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

// RenderHistoryPNG writes a convergence curve as PNG to w. Used by the HTTP
// server to render plots on demand.
func RenderHistoryPNG(history []float64, title string, w io.Writer) error {
	p, err := historyPlot(map[string][]float64{"best": history}, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

func historyPlot(curves map[string][]float64, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Best objective"
	p.Add(plotter.NewGrid())

	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		history := curves[name]
		pts := make(plotter.XYs, len(history))
		for j, f := range history {
			pts[j].X = float64(j + 1)
			pts[j].Y = f
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to build line for %s: %w", name, err)
		}
		line.Color = plotutil.Color(i)

		p.Add(line)
		p.Legend.Add(name, line)
	}

	p.Legend.Top = true
	return p, nil
}
