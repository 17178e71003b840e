package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/beamopt/internal/beam"
	"github.com/cwbudde/beamopt/internal/opt"
)

func testResult() *opt.Result {
	design := beam.Design{H: 79.9876, B: 49.6604, TW: 0.9, TF: 2.4387}
	return &opt.Result{
		Best:        opt.Individual{Design: design, Eval: beam.Evaluate(design)},
		History:     []float64{0.05, 0.03, 0.0131},
		InitialBest: 0.05,
		Iterations:  3,
	}
}

func TestWriteSummaryFormatting(t *testing.T) {
	var buf bytes.Buffer
	res := testResult()

	if err := WriteSummary(&buf, "jaya", res); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	out := buf.String()

	// Design variables use 4 decimal places
	if !strings.Contains(out, "79.9876") {
		t.Errorf("Expected height with 4 decimals, got:\n%s", out)
	}
	if !strings.Contains(out, "49.6604") {
		t.Errorf("Expected width with 4 decimals, got:\n%s", out)
	}
	if !strings.Contains(out, "jaya best design after 3 iterations") {
		t.Errorf("Expected header line, got:\n%s", out)
	}

	// Objective uses 6 decimal places: exactly one dot followed by 6 digits
	// on the objective line.
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "objective f") {
			fields := strings.Fields(line)
			value := fields[len(fields)-1]
			dot := strings.IndexByte(value, '.')
			if dot < 0 || len(value)-dot-1 != 6 {
				t.Errorf("Expected 6 decimal places on objective, got %q", value)
			}
		}
	}
}

func TestPlotHistoryWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convergence.png")

	if err := PlotHistory([]float64{5, 4, 3, 3, 2.5}, "test", path); err != nil {
		t.Fatalf("PlotHistory failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Plot file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Plot file is empty")
	}
}

func TestPlotHistoriesWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compare.png")

	curves := map[string][]float64{
		"jaya": {5, 4, 3},
		"ga":   {6, 2, 2.5},
	}
	if err := PlotHistories(curves, "comparison", path); err != nil {
		t.Fatalf("PlotHistories failed: %v", err)
	}

	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("Plot file missing or empty: %v", err)
	}
}

func TestRenderHistoryPNG(t *testing.T) {
	var buf bytes.Buffer

	if err := RenderHistoryPNG([]float64{9, 8, 7}, "render", &buf); err != nil {
		t.Fatalf("RenderHistoryPNG failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("Expected PNG bytes")
	}

	// PNG signature
	if !bytes.HasPrefix(buf.Bytes(), []byte{0x89, 'P', 'N', 'G'}) {
		t.Error("Output does not start with a PNG signature")
	}
}
