package storage

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

type ExportSeries struct {
	Body        string       `json:"body"`
	JD          []float64    `json:"jd"`
	Date        []time.Time  `json:"date"`
	Position    [][3]float64 `json:"position"`
	R           []float64    `json:"r"`
	TrueAnomaly []float64    `json:"true_anomaly"`
}

type ExportData struct {
	Run    RunMetadata    `json:"run"`
	Series []ExportSeries `json:"series"`
}

// Export writes a run and every recorded series as one JSON document.
func (s *Store) Export(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	all, err := s.loadAll(runID, "")
	if err != nil {
		return err
	}

	data := ExportData{Run: *meta, Series: make([]ExportSeries, 0, len(all))}
	for _, body := range meta.Bodies {
		ser, ok := all[body]
		if !ok {
			continue
		}
		es := ExportSeries{
			Body:        body,
			JD:          ser.JD,
			Date:        ser.Date,
			Position:    make([][3]float64, len(ser.Position)),
			R:           ser.R,
			TrueAnomaly: ser.TrueAnomaly,
		}
		for i, p := range ser.Position {
			es.Position[i] = [3]float64{p.X, p.Y, p.Z}
		}
		data.Series = append(data.Series, es)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (s *Store) ExportFile(runID, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.Export(runID, file)
}
