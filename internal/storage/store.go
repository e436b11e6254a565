package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/relsim/internal/trace"
)

// Store persists traced runs under a base directory, one subdirectory per
// run with metadata.json and trajectory.csv.
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
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	TickRate  float64            `json:"tick_rate"`
	Duration  float64            `json:"duration"`
	Entities  []string           `json:"entities"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes one run's metadata and sampled trajectories, returning the
// run identifier.
func (s *Store) Save(scenario string, tickRate, duration float64, result *trace.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		TickRate:  tickRate,
		Duration:  duration,
		Entities:  result.Names,
		Metrics:   result.Metrics,
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

	if err := writeTrajectory(filepath.Join(runDir, "trajectory.csv"), result); err != nil {
		return "", err
	}

	return runID, nil
}

func writeTrajectory(path string, result *trace.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{"time"}
	for _, name := range result.Names {
		header = append(header,
			name+"_x", name+"_y", name+"_z",
			name+"_vx", name+"_vy", name+"_vz",
			name+"_tau")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := []string{formatFloat(t)}
		for _, name := range result.Names {
			e := result.Samples[name][i]
			row = append(row,
				formatFloat(e.Frame.Position.X()),
				formatFloat(e.Frame.Position.Y()),
				formatFloat(e.Frame.Position.Z()),
				formatFloat(e.Frame.Velocity.X()),
				formatFloat(e.Frame.Velocity.Y()),
				formatFloat(e.Frame.Velocity.Z()),
				formatFloat(e.ProperTime))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ExportData is the JSON export shape for a traced run.
type ExportData struct {
	Scenario string                  `json:"scenario"`
	TickRate float64                 `json:"tick_rate"`
	Duration float64                 `json:"duration"`
	Steps    int                     `json:"steps"`
	Times    []float64               `json:"times"`
	Entities map[string][][7]float64 `json:"entities"`
	Metrics  map[string]float64      `json:"metrics"`
}

// ExportJSON writes a run's trajectories as a single JSON document.
func ExportJSON(path, scenario string, tickRate, duration float64, result *trace.Result) error {
	data := ExportData{
		Scenario: scenario,
		TickRate: tickRate,
		Duration: duration,
		Steps:    len(result.Times),
		Times:    result.Times,
		Entities: make(map[string][][7]float64, len(result.Names)),
		Metrics:  result.Metrics,
	}

	for _, name := range result.Names {
		rows := make([][7]float64, len(result.Samples[name]))
		for i, e := range result.Samples[name] {
			rows[i] = [7]float64{
				e.Frame.Position.X(), e.Frame.Position.Y(), e.Frame.Position.Z(),
				e.Frame.Velocity.X(), e.Frame.Velocity.Y(), e.Frame.Velocity.Z(),
				e.ProperTime,
			}
		}
		data.Entities[name] = rows
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
