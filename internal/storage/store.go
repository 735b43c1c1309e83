package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metaFile    = "metadata.json"
	samplesFile = "frames.csv"
)

var samplesHeader = []string{"frame", "time_ms", "step_us", "pulses"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one headless bench run.
type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Tier      string             `json:"tier"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Particles int                `json:"particles"`
	Refreshes int                `json:"refreshes"`
	Frames    int                `json:"frames"`
	Skipped   int                `json:"skipped"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Sample is one processed bubble frame.
type Sample struct {
	Frame  int
	Time   time.Duration
	Step   time.Duration
	Pulses int
}

type Run struct {
	Meta    RunMetadata
	Samples []Sample
}

// Save writes the run under a new directory and returns its id.
func (s *Store) Save(run *Run) (string, error) {
	meta := run.Meta
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		name := meta.Preset
		if name == "" {
			name = "run"
		}
		meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	mf, err := os.Create(filepath.Join(runDir, metaFile))
	if err != nil {
		return "", err
	}
	defer mf.Close()

	enc := json.NewEncoder(mf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	cf, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer cf.Close()

	w := csv.NewWriter(cf)
	if err := w.Write(samplesHeader); err != nil {
		return "", err
	}
	for _, smp := range run.Samples {
		row := []string{
			strconv.Itoa(smp.Frame),
			strconv.FormatFloat(float64(smp.Time)/float64(time.Millisecond), 'f', 3, 64),
			strconv.FormatFloat(float64(smp.Step)/float64(time.Microsecond), 'f', 3, 64),
			strconv.Itoa(smp.Pulses),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metaFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSamples reads the per-frame series. Malformed rows are skipped.
func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(samplesHeader) {
			continue
		}
		frame, err1 := strconv.Atoi(rec[0])
		ms, err2 := strconv.ParseFloat(rec[1], 64)
		us, err3 := strconv.ParseFloat(rec[2], 64)
		pulses, err4 := strconv.Atoi(rec[3])
		if err := errors.Join(err1, err2, err3, err4); err != nil {
			continue
		}
		samples = append(samples, Sample{
			Frame:  frame,
			Time:   time.Duration(ms * float64(time.Millisecond)),
			Step:   time.Duration(us * float64(time.Microsecond)),
			Pulses: pulses,
		})
	}
	return samples, nil
}

type exportData struct {
	RunMetadata
	StepMicros []float64 `json:"step_us"`
	Pulses     []int     `json:"pulses"`
}

// ExportJSON writes the metadata and the sample columns as one document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	data := exportData{
		RunMetadata: *meta,
		StepMicros:  make([]float64, len(samples)),
		Pulses:      make([]int, len(samples)),
	}
	for i, smp := range samples {
		data.StepMicros[i] = float64(smp.Step) / float64(time.Microsecond)
		data.Pulses[i] = smp.Pulses
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
