// Package export persists finished runs as plain files: one directory
// per run holding metadata.json (parameters, report, diagnostics) and
// series.csv (the sampled trajectory).
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/agromech/cuttersim/internal/engine"
	"github.com/agromech/cuttersim/internal/metrics"
	"github.com/agromech/cuttersim/internal/params"
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

// RunMetadata is the JSON sidecar saved next to the series.
type RunMetadata struct {
	ID        string              `json:"id"`
	Timestamp time.Time           `json:"timestamp"`
	Params    params.ParameterSet `json:"params"`
	Method    string              `json:"method"`
	Report    metrics.Report      `json:"report"`

	Evals    int     `json:"evals"`
	Accepted int     `json:"accepted_steps"`
	Rejected int     `json:"rejected_steps"`
	Elapsed  float64 `json:"elapsed_seconds"`
}

var seriesHeader = []string{
	"time", "angle", "omega",
	"input_torque", "friction_torque", "drag_torque", "grass_torque", "net_torque",
	"power", "kinetic_energy",
}

// Save writes one run under a timestamped directory and returns the
// run ID.
func (s *Store) Save(res *engine.SimulationResult, report metrics.Report) (string, error) {
	runID := fmt.Sprintf("cutter_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Params:    res.Params,
		Method:    string(res.Method),
		Report:    report,
		Evals:     res.Evals,
		Accepted:  res.Accepted,
		Rejected:  res.Rejected,
		Elapsed:   res.Elapsed.Seconds(),
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

	if err := writeSeries(filepath.Join(runDir, "series.csv"), res); err != nil {
		return "", err
	}
	return runID, nil
}

func writeSeries(path string, res *engine.SimulationResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write(seriesHeader); err != nil {
		return err
	}
	cols := [][]float64{
		res.Times, res.Angles, res.Omegas,
		res.InputTorque, res.FrictionTorque, res.DragTorque, res.GrassTorque, res.NetTorque,
		res.Power, res.KineticEnergy,
	}
	row := make([]string, len(cols))
	for i := range res.Times {
		for j, col := range cols {
			row[j] = strconv.FormatFloat(col[i], 'g', 10, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// List returns metadata for every saved run, skipping unreadable
// entries.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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

// LoadSeries reads a saved trajectory back as labeled columns.
func (s *Store) LoadSeries(runID string) (map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return map[string][]float64{}, nil
	}

	header := records[0]
	cols := make(map[string][]float64, len(header))
	for _, name := range header {
		cols[name] = make([]float64, 0, len(records)-1)
	}
	for _, record := range records[1:] {
		for j, cell := range record {
			if j >= len(header) {
				break
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: bad value %q in column %s: %w", runID, cell, header[j], err)
			}
			cols[header[j]] = append(cols[header[j]], v)
		}
	}
	return cols, nil
}
