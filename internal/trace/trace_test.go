package trace

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomz197/makemelaugh/internal/input"
	"github.com/tomz197/makemelaugh/internal/loop"
	"github.com/tomz197/makemelaugh/internal/loop/config"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestNewRecorderDisabled(t *testing.T) {
	r, err := NewRecorder("")
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	if r != nil {
		t.Fatal("empty dir should disable tracing")
	}
	// Nil recorder is safe to use.
	if err := r.Record(&loop.Snapshot{}); err != nil {
		t.Errorf("nil Record: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
	if r.Runs() != nil || r.Dir() != "" {
		t.Error("nil recorder reports data")
	}
}

func TestFramesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "trace")
	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	for i := 0; i < 3; i++ {
		s := &loop.Snapshot{Frame: int64(i + 1), Time: int64(i) * 33_333, State: loop.StateAttract, Meter: 1}
		if err := r.Record(s); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, filepath.Join(dir, "frames.csv"))
	if len(lines) != 4 {
		t.Fatalf("frames.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "frame,time_us,state,meter") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.HasPrefix(lines[2], "frame") {
		t.Error("header written twice")
	}
	if !strings.Contains(lines[1], "attract") {
		t.Errorf("row = %q, want state name", lines[1])
	}
}

func TestRunWrittenOnGameOver(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	defer r.Close()

	playing := func(meter float64, mouthOK bool) *loop.Snapshot {
		s := &loop.Snapshot{State: loop.StatePlaying, Meter: meter}
		if !mouthOK {
			s.Mouth.Status = loop.StatusUp
		}
		return s
	}
	snaps := []*loop.Snapshot{
		{State: loop.StateStarting, Meter: 1},
		playing(1.0, true),
		playing(0.5, true),
		playing(0.0, false),
		{State: loop.StateGameOver, Score: 12, FunnyHits: 2, NotFunnyHits: 1},
		{State: loop.StateGameOver, Score: 12},
	}
	for _, s := range snaps {
		if err := r.Record(s); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	runs := r.Runs()
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.Score != 12 || run.Frames != 3 || run.FunnyHits != 2 || run.NotFunnyHits != 1 {
		t.Errorf("run = %+v", run)
	}
	if math.Abs(run.MeterMean-0.5) > 1e-9 {
		t.Errorf("meter mean = %f, want 0.5", run.MeterMean)
	}
	if math.Abs(run.MouthCorrect-2.0/3.0) > 1e-9 {
		t.Errorf("mouth correct = %f, want 2/3", run.MouthCorrect)
	}
	if run.LungsCorrect != 1 {
		t.Errorf("lungs correct = %f, want 1", run.LungsCorrect)
	}

	lines := readLines(t, filepath.Join(dir, "runs.csv"))
	if len(lines) != 2 {
		t.Fatalf("runs.csv has %d lines, want header + 1", len(lines))
	}
	if !strings.HasPrefix(lines[1], "12,") {
		t.Errorf("run row = %q", lines[1])
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		meter    []float64
		wantMean float64
		wantP50  float64
	}{
		{"empty", nil, 0, 0},
		{"constant", []float64{1, 1, 1, 1}, 1, 1},
		{"unsorted", []float64{2, 0, 1}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]float64(nil), tt.meter...)
			run := Summarize(in)
			if run.Frames != len(tt.meter) {
				t.Errorf("frames = %d, want %d", run.Frames, len(tt.meter))
			}
			if math.Abs(run.MeterMean-tt.wantMean) > 1e-9 {
				t.Errorf("mean = %f, want %f", run.MeterMean, tt.wantMean)
			}
			if math.Abs(run.MeterP50-tt.wantP50) > 1e-9 {
				t.Errorf("p50 = %f, want %f", run.MeterP50, tt.wantP50)
			}
			if run.MeterP10 > run.MeterP50 || run.MeterP50 > run.MeterP90 {
				t.Errorf("quantiles out of order: %+v", run)
			}
			for i := range in {
				if in[i] != tt.meter[i] {
					t.Fatal("input was modified")
				}
			}
		})
	}
}

func TestRecorderWithWorld(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	clock := loop.NewManualClock(0)
	w := loop.NewWorld(config.Default(), loop.Deps{Clock: clock, Recorder: r})
	for i := 0; i < 10; i++ {
		clock.Advance(33_333)
		w.Frame(input.Input{})
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, filepath.Join(dir, "frames.csv"))
	if len(lines) != 11 {
		t.Errorf("frames.csv has %d lines, want 11", len(lines))
	}
}
