// Package trace writes per-frame CSV traces and per-run statistics.
package trace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/tomz197/makemelaugh/internal/loop"
)

// FrameRow is one line of frames.csv.
type FrameRow struct {
	Frame       int64   `csv:"frame"`
	TimeUS      int64   `csv:"time_us"`
	State       string  `csv:"state"`
	Meter       float64 `csv:"meter"`
	Change      float64 `csv:"change"`
	Mouth       float64 `csv:"mouth"`
	MouthTarget float64 `csv:"mouth_target"`
	MouthStatus string  `csv:"mouth_status"`
	Lungs       float64 `csv:"lungs"`
	LungsTarget float64 `csv:"lungs_target"`
	LungsStatus string  `csv:"lungs_status"`
	Level       int     `csv:"level"`
	SubLevel    int     `csv:"sub_level"`
	Rays        int     `csv:"rays"`
}

// RunRow is one line of runs.csv, written when a game ends.
type RunRow struct {
	Score        int     `csv:"score"`
	Level        int     `csv:"level"`
	Frames       int     `csv:"frames"`
	MeterMean    float64 `csv:"meter_mean"`
	MeterStd     float64 `csv:"meter_std"`
	MeterP10     float64 `csv:"meter_p10"`
	MeterP50     float64 `csv:"meter_p50"`
	MeterP90     float64 `csv:"meter_p90"`
	MouthCorrect float64 `csv:"mouth_correct"` // Fraction of playing frames
	LungsCorrect float64 `csv:"lungs_correct"` // Fraction of playing frames
	FunnyHits    int     `csv:"funny_hits"`
	NotFunnyHits int     `csv:"not_funny_hits"`
}

// Recorder implements loop.Recorder, writing frames.csv and runs.csv.
type Recorder struct {
	dir        string
	framesFile *os.File
	runsFile   *os.File

	framesHeaderWritten bool
	runsHeaderWritten   bool

	prev  loop.GameState
	meter []float64 // Meter per playing frame of the current run
	mouth int       // Playing frames with the mouth correct
	lungs int       // Playing frames with the lungs correct
	runs  []RunRow
}

// NewRecorder creates the output directory and its CSV files.
// Returns nil if dir is empty (tracing disabled).
func NewRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating trace directory: %w", err)
	}

	r := &Recorder{dir: dir}

	f, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	r.framesFile = f

	f, err = os.Create(filepath.Join(dir, "runs.csv"))
	if err != nil {
		r.framesFile.Close()
		return nil, fmt.Errorf("creating runs.csv: %w", err)
	}
	r.runsFile = f

	return r, nil
}

// Record writes one frame and closes out the run when a game ends.
func (r *Recorder) Record(s *loop.Snapshot) error {
	if r == nil {
		return nil
	}

	row := FrameRow{
		Frame:       s.Frame,
		TimeUS:      s.Time,
		State:       s.State.String(),
		Meter:       s.Meter,
		Change:      s.MeterChange,
		Mouth:       s.Mouth.Actual,
		MouthTarget: s.Mouth.Target,
		MouthStatus: s.Mouth.Status.String(),
		Lungs:       s.Lungs.Actual,
		LungsTarget: s.Lungs.Target,
		LungsStatus: s.Lungs.Status.String(),
		Level:       s.Level,
		SubLevel:    s.SubLevel,
		Rays:        len(s.Rays),
	}
	if err := writeRows(r.framesFile, []FrameRow{row}, &r.framesHeaderWritten); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	switch {
	case s.State == loop.StatePlaying:
		r.meter = append(r.meter, s.Meter)
		if s.Mouth.Correct() {
			r.mouth++
		}
		if s.Lungs.Correct() {
			r.lungs++
		}
	case s.State == loop.StateGameOver && r.prev != loop.StateGameOver:
		run := r.summarize(s)
		r.runs = append(r.runs, run)
		r.meter = r.meter[:0]
		r.mouth, r.lungs = 0, 0
		if err := writeRows(r.runsFile, []RunRow{run}, &r.runsHeaderWritten); err != nil {
			return fmt.Errorf("writing run: %w", err)
		}
	}
	r.prev = s.State
	return nil
}

// Runs returns every finished run recorded so far.
func (r *Recorder) Runs() []RunRow {
	if r == nil {
		return nil
	}
	return r.runs
}

func (r *Recorder) summarize(s *loop.Snapshot) RunRow {
	run := Summarize(r.meter)
	run.Score = s.Score
	run.Level = s.Level
	run.FunnyHits = s.FunnyHits
	run.NotFunnyHits = s.NotFunnyHits
	if n := len(r.meter); n > 0 {
		run.MouthCorrect = float64(r.mouth) / float64(n)
		run.LungsCorrect = float64(r.lungs) / float64(n)
	}
	return run
}

// Summarize computes meter statistics over a run. The input is not modified.
func Summarize(meter []float64) RunRow {
	run := RunRow{Frames: len(meter)}
	if len(meter) == 0 {
		return run
	}
	run.MeterMean, run.MeterStd = stat.MeanStdDev(meter, nil)

	sorted := append([]float64(nil), meter...)
	sort.Float64s(sorted)
	run.MeterP10 = stat.Quantile(0.1, stat.Empirical, sorted, nil)
	run.MeterP50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	run.MeterP90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return run
}

// writeRows marshals rows, with a header only the first time.
func writeRows[T any](f *os.File, rows []T, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(rows, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, f)
}

// Dir returns the output directory path.
func (r *Recorder) Dir() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// Close closes both files.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}

	var firstErr error
	if r.framesFile != nil {
		if err := r.framesFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.runsFile != nil {
		if err := r.runsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
