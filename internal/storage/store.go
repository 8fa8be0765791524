package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/simgraph/internal/engine"
)

// Store persists simulation runs under a base directory: one subdirectory
// per run holding metadata.json and probes.csv.
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
	ID        string    `json:"id"`
	Network   string    `json:"network"`
	Timestamp time.Time `json:"timestamp"`
	Dt        float64   `json:"dt"`
	Steps     int       `json:"steps"`
	Batch     int       `json:"batch"`
	Seed      int64     `json:"seed"`
	Unroll    bool      `json:"unroll"`
	Backend   string    `json:"backend"`
	Probes    []string  `json:"probes"`
	ElapsedMs float64   `json:"elapsed_ms"`
}

// Save writes one run: metadata plus a CSV with a step and time column and
// one column per probe dimension.
func (s *Store) Save(meta RunMetadata, dt float64, result *engine.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Network, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Steps = result.Steps
	meta.ElapsedMs = float64(result.Elapsed.Microseconds()) / 1000

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

	csvFile, err := os.Create(filepath.Join(runDir, "probes.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"step", "time"}
	for pi, name := range meta.Probes {
		width := 0
		if pi < len(result.Probes) && len(result.Probes[pi]) > 0 {
			width = len(result.Probes[pi][0])
		}
		for d := 0; d < width; d++ {
			header = append(header, fmt.Sprintf("%s_%d", name, d))
		}
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for step := 0; step < result.Steps; step++ {
		row := []string{
			strconv.Itoa(step + 1),
			strconv.FormatFloat(float64(step+1)*dt, 'f', 6, 64),
		}
		for pi := range meta.Probes {
			if pi >= len(result.Probes) || step >= len(result.Probes[pi]) {
				continue
			}
			for _, v := range result.Probes[pi][step] {
				row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
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

// ExportCSV streams a run's raw probe CSV to w.
func (s *Store) ExportCSV(runID string, w io.Writer) error {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "probes.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}

// LoadProbes reads a run's CSV back: the header minus the step and time
// columns, each data column, and the time column.
func (s *Store) LoadProbes(runID string) ([]string, [][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "probes.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) < 1 {
		return nil, nil, nil, nil
	}

	names := records[0][2:]
	cols := make([][]float64, len(names))
	times := make([]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		for i := range names {
			v := 0.0
			if i+2 < len(record) {
				v, _ = strconv.ParseFloat(record[i+2], 64)
			}
			cols[i] = append(cols[i], v)
		}
	}
	return names, cols, times, nil
}
