package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/forque/internal/config"
	"github.com/san-kum/forque/internal/sim"
)

// Store keeps run diagnostics on disk: one directory per run holding
// metadata.json and energy.csv. It never stores simulation state.
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
	ID          string             `json:"id"`
	Scene       string             `json:"scene"`
	Timestamp   time.Time          `json:"timestamp"`
	Config      config.Config      `json:"config"`
	Frames      int                `json:"frames"`
	EnergyMin   float64            `json:"energy_min"`
	EnergyMax   float64            `json:"energy_max"`
	EnergyDrift float64            `json:"energy_drift"`
	Spread      float64            `json:"spread"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Trace is the per-frame diagnostic series stored in energy.csv.
type Trace struct {
	Times   []float64
	Energy  []float64
	Heights [][]float64
}

func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_d%d_%d", cfg.Scene, cfg.Dim, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scene:       cfg.Scene,
		Timestamp:   now,
		Config:      *cfg,
		Frames:      result.FramesRun,
		EnergyDrift: finite(result.EnergyDrift),
		Spread:      finite(result.Spread),
		Metrics:     finiteMetrics(result.Metrics),
	}
	if result.Bounds.Samples > 0 {
		meta.EnergyMin, meta.EnergyMax = finite(result.Bounds.Min), finite(result.Bounds.Max)
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

	csvFile, err := os.Create(filepath.Join(runDir, "energy.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteTrace(csvFile, result); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteTrace writes time, energy and one height column per body as CSV.
func WriteTrace(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	header := []string{"time", "energy"}
	if len(result.Heights) > 0 {
		for i := range result.Heights[0] {
			header = append(header, fmt.Sprintf("h%d", i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.Energy[i], 'g', 12, 64),
		}
		if i < len(result.Heights) {
			for _, h := range result.Heights[i] {
				row = append(row, strconv.FormatFloat(h, 'f', 6, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the metadata of every stored run, oldest first.
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
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) (*Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "energy.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	tr := &Trace{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		e, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}

		heights := make([]float64, 0, len(record)-2)
		for _, field := range record[2:] {
			h, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			heights = append(heights, h)
		}

		tr.Times = append(tr.Times, t)
		tr.Energy = append(tr.Energy, e)
		tr.Heights = append(tr.Heights, heights)
	}
	return tr, nil
}

// finiteMetrics drops values JSON cannot encode, such as the +Inf
// min_separation of a lone body.
func finiteMetrics(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for name, v := range in {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[name] = v
		}
	}
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ExportJSON writes the configuration and the full trace as one JSON
// document.
func ExportJSON(out io.Writer, cfg *config.Config, result *sim.Result) error {
	data := struct {
		Config  *config.Config     `json:"config"`
		Frames  int                `json:"frames"`
		Times   []float64          `json:"times"`
		Energy  []float64          `json:"energy"`
		Heights [][]float64        `json:"heights"`
		Metrics map[string]float64 `json:"metrics"`
	}{
		Config:  cfg,
		Frames:  result.FramesRun,
		Times:   result.Times,
		Energy:  result.Energy,
		Heights: result.Heights,
		Metrics: finiteMetrics(result.Metrics),
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
