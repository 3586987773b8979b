// Package storage keeps recorded runs on disk: one directory per run with
// metadata.json and a long-format positions.csv (one row per body per frame).
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/ephem"
	"github.com/san-kum/orrery/internal/sim"
)

var (
	ErrNoFrames        = errors.New("storage: result has no frames to record")
	ErrBodyNotRecorded = errors.New("storage: body not recorded in run")
)

var positionsHeader = []string{"frame", "jd", "date", "scale", "body", "x", "y", "z", "r", "true_anomaly", "speed"}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	Timestamp time.Time          `json:"timestamp"`
	SimStart  time.Time          `json:"sim_start"`
	SimEnd    time.Time          `json:"sim_end"`
	Frames    int                `json:"frames"`
	Bodies    []string           `json:"bodies"`
	Errors    int                `json:"errors"`
	Metrics   map[string]float64 `json:"metrics"`
	Config    config.Config      `json:"config"`
}

// Save writes a run recorded with KeepFrames and returns its identifier.
func (s *Store) Save(label string, cfg *config.Config, result *sim.Result) (string, error) {
	if result == nil || len(result.Frames) == 0 {
		return "", ErrNoFrames
	}

	runID, runDir, err := s.newRunDir(label)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Label:     label,
		Timestamp: s.now(),
		SimStart:  result.Start,
		SimEnd:    result.End,
		Frames:    len(result.Frames),
		Bodies:    recordedBodies(result.Frames),
		Errors:    len(result.Errors),
		Metrics:   result.Metrics,
		Config:    *cfg,
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

	csvFile, err := os.Create(filepath.Join(runDir, "positions.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(positionsHeader); err != nil {
		return "", err
	}
	for _, f := range result.Frames {
		for _, id := range meta.Bodies {
			st, ok := f.Positions[id]
			if !ok {
				continue
			}
			row := []string{
				strconv.Itoa(f.Index),
				strconv.FormatFloat(f.JD, 'f', 6, 64),
				f.Clock.Date.Format(time.RFC3339Nano),
				strconv.FormatFloat(f.Clock.Scale, 'g', -1, 64),
				id,
				formatAU(st.Position.X),
				formatAU(st.Position.Y),
				formatAU(st.Position.Z),
				formatAU(st.R),
				strconv.FormatFloat(st.TrueAnomaly, 'f', 9, 64),
				strconv.FormatFloat(st.SpeedProxy, 'f', 9, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	return runID, w.Error()
}

func (s *Store) newRunDir(label string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", label, s.now().Unix())
	runID := base
	for i := 1; ; i++ {
		dir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return runID, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s-%d", base, i)
	}
}

// recordedBodies lists every body that appears in any frame, in the order
// of first appearance and then by name.
func recordedBodies(frames []*sim.Frame) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, f := range frames {
		var fresh []string
		for id := range f.Positions {
			if !seen[id] {
				seen[id] = true
				fresh = append(fresh, id)
			}
		}
		sort.Strings(fresh)
		ids = append(ids, fresh...)
	}
	return ids
}

func formatAU(v float64) string {
	return strconv.FormatFloat(v, 'f', 9, 64)
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
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

// Series is one body's recorded trajectory.
type Series struct {
	Body        string
	Frame       []int
	JD          []float64
	Date        []time.Time
	Position    []r3.Vec
	R           []float64
	TrueAnomaly []float64
}

func (s *Series) Len() int { return len(s.JD) }

func (s *Store) LoadSeries(runID, body string) (*Series, error) {
	all, err := s.loadAll(runID, ephem.NormalizeID(body))
	if err != nil {
		return nil, err
	}
	series, ok := all[ephem.NormalizeID(body)]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrBodyNotRecorded, body, runID)
	}
	return series, nil
}

// LoadAllSeries returns every recorded body's series keyed by identifier.
func (s *Store) LoadAllSeries(runID string) (map[string]*Series, error) {
	return s.loadAll(runID, "")
}

// loadAll reads positions.csv, keeping only one body when only is set.
func (s *Store) loadAll(runID, only string) (map[string]*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "positions.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(positionsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make(map[string]*Series)
	for i, rec := range records {
		if i == 0 {
			continue
		}
		body := rec[4]
		if only != "" && body != only {
			continue
		}
		vals, err := parseFloats(rec[1], rec[5], rec[6], rec[7], rec[8], rec[9])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", runID, i+1, err)
		}
		frame, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", runID, i+1, err)
		}
		date, err := time.Parse(time.RFC3339Nano, rec[2])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", runID, i+1, err)
		}

		ser, ok := out[body]
		if !ok {
			ser = &Series{Body: body}
			out[body] = ser
		}
		ser.Frame = append(ser.Frame, frame)
		ser.JD = append(ser.JD, vals[0])
		ser.Date = append(ser.Date, date)
		ser.Position = append(ser.Position, r3.Vec{X: vals[1], Y: vals[2], Z: vals[3]})
		ser.R = append(ser.R, vals[4])
		ser.TrueAnomaly = append(ser.TrueAnomaly, vals[5])
	}
	return out, nil
}

func parseFloats(fields ...string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
