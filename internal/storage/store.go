// Package storage keeps a record of render runs: one directory per run holding
// metadata.json and a frames.csv listing every frame written.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string     `json:"id"`
	Input     string     `json:"input"`
	OutputDir string     `json:"output_dir"`
	Format    string     `json:"format"`
	Timestamp time.Time  `json:"timestamp"`
	Rotation  [3]float64 `json:"rotation"`
	Scale     float64    `json:"scale"`
	Workers   int        `json:"workers"`
	Frames    int        `json:"frames"`
	Elapsed   float64    `json:"elapsed_seconds"`
}

// FrameRecord describes one rendered frame. File is empty when nothing was
// written, e.g. for a zero-area canvas.
type FrameRecord struct {
	Index     int    `json:"index"`
	Timestep  int64  `json:"timestep"`
	File      string `json:"file,omitempty"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Particles int    `json:"particles"`
	Drawn     int    `json:"drawn"`
}

var frameHeader = []string{"index", "timestep", "file", "width", "height", "particles", "drawn"}

// Save writes meta and frames under a new run directory and returns its ID.
func (s *Store) Save(meta RunMetadata, frames []FrameRecord) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	name := filepath.Base(meta.Input)
	if name == "." || name == string(filepath.Separator) {
		name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	meta.Frames = len(frames)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(frameHeader); err != nil {
		return "", err
	}
	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Index),
			strconv.FormatInt(f.Timestep, 10),
			f.File,
			strconv.Itoa(f.Width),
			strconv.Itoa(f.Height),
			strconv.Itoa(f.Particles),
			strconv.Itoa(f.Drawn),
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

// List returns all runs, oldest first.
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []FrameRecord{}, nil
	}

	frames := make([]FrameRecord, 0, len(records)-1)
	for _, rec := range records[1:] {
		var f FrameRecord
		var ints [5]int
		for i, col := range []int{0, 3, 4, 5, 6} {
			if ints[i], err = strconv.Atoi(rec[col]); err != nil {
				return nil, fmt.Errorf("frames.csv: %w", err)
			}
		}
		if f.Timestep, err = strconv.ParseInt(rec[1], 10, 64); err != nil {
			return nil, fmt.Errorf("frames.csv: %w", err)
		}
		f.Index, f.Width, f.Height, f.Particles, f.Drawn = ints[0], ints[1], ints[2], ints[3], ints[4]
		f.File = rec[2]
		frames = append(frames, f)
	}
	return frames, nil
}
