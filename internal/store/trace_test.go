package store

import (
	"errors"
	"io"
	"testing"
	"time"
)

func TestTraceWriteAndRead(t *testing.T) {
	baseDir := t.TempDir()

	tw, err := NewTraceWriter(baseDir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}

	history := []float64{0.05, 0.03, 0.03, 0.021}
	for i, f := range history {
		entry := TraceEntry{Iteration: i + 1, Objective: f, Timestamp: time.Now()}
		if err := tw.Write(entry); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	tr, err := NewTraceReader(baseDir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer tr.Close()

	entries, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != len(history) {
		t.Fatalf("Expected %d entries, got %d", len(history), len(entries))
	}
	for i, entry := range entries {
		if entry.Iteration != i+1 {
			t.Errorf("Entry %d: iteration = %d, want %d", i, entry.Iteration, i+1)
		}
		if entry.Objective != history[i] {
			t.Errorf("Entry %d: objective = %f, want %f", i, entry.Objective, history[i])
		}
	}
}

func TestTraceReadEOF(t *testing.T) {
	baseDir := t.TempDir()

	tw, err := NewTraceWriter(baseDir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}
	if err := tw.Write(TraceEntry{Iteration: 1, Objective: 0.5, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	tr, err := NewTraceReader(baseDir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer tr.Close()

	if _, err := tr.Read(); err != nil {
		t.Fatalf("First Read failed: %v", err)
	}
	if _, err := tr.Read(); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestTraceReaderNotFound(t *testing.T) {
	_, err := NewTraceReader(t.TempDir(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestWriteTraceHistory(t *testing.T) {
	baseDir := t.TempDir()
	history := []float64{9, 7, 7, 4, 2}

	if err := WriteTrace(baseDir, "run-1", history); err != nil {
		t.Fatalf("WriteTrace failed: %v", err)
	}

	tr, err := NewTraceReader(baseDir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer tr.Close()

	got, err := tr.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(got) != len(history) {
		t.Fatalf("Expected %d entries, got %d", len(history), len(got))
	}
	for i := range history {
		if got[i] != history[i] {
			t.Errorf("Entry %d: %f, want %f", i, got[i], history[i])
		}
	}
}

func TestTraceFlushDurability(t *testing.T) {
	baseDir := t.TempDir()

	tw, err := NewTraceWriter(baseDir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}
	defer tw.Close()

	if err := tw.Write(TraceEntry{Iteration: 1, Objective: 0.9, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := tw.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	// The entry must be readable while the writer is still open.
	tr, err := NewTraceReader(baseDir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer tr.Close()

	entries, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry after flush, got %d", len(entries))
	}
}
