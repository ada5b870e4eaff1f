package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/boxsim/internal/boxmodel"
)

// WriteCSV writes one row per history entry. Columns follow the registry
// order, or keys when given.
func WriteCSV(w io.Writer, h *boxmodel.History, keys []string) error {
	if h.Len() == 0 {
		return fmt.Errorf("no data to export")
	}
	if len(keys) == 0 {
		keys = h.Keys()
	}

	cols := make([][]float64, len(keys))
	for i, k := range keys {
		s, ok := h.Series(k)
		if !ok {
			return fmt.Errorf("%w: %q", boxmodel.ErrUnknownKey, k)
		}
		cols[i] = s
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(keys); err != nil {
		return err
	}
	row := make([]string, len(keys))
	for r := 0; r < h.Len(); r++ {
		for c := range cols {
			row[c] = strconv.FormatFloat(cols[c][r], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Report is the JSON form of a finished run.
type Report struct {
	Name       string               `json:"name"`
	RunID      string               `json:"run_id,omitempty"`
	Steps      int                  `json:"steps"`
	StepLength float64              `json:"step_length"`
	Time       float64              `json:"time"`
	Metrics    map[string]float64   `json:"metrics,omitempty"`
	Final      map[string]float64   `json:"final"`
	Series     map[string][]float64 `json:"series,omitempty"`
}

// NewReport captures the model's final state. Series are included only when
// withSeries is set. NaN and infinities are not representable in JSON and
// make encoding fail.
func NewReport(name, runID string, m *boxmodel.Model, withSeries bool) Report {
	r := Report{
		Name:       name,
		RunID:      runID,
		Steps:      m.Step(),
		StepLength: m.StepLength(),
		Time:       m.Time(),
		Metrics:    m.Metrics(),
		Final:      m.Registry().Snapshot(),
	}
	if withSeries && m.History() != nil {
		r.Series = m.History().Map()
	}
	return r
}

func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
