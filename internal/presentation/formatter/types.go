package formatter

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pgperffarm/farmplot/internal/chart"
	"github.com/pgperffarm/farmplot/internal/core/model"
)

// SeriesSummary describes one series of a dataset.
type SeriesSummary struct {
	Key       model.SeriesKey `json:"key"`
	Plant     string          `json:"plant"`
	Branch    string          `json:"branch"`
	Color     string          `json:"color"`
	Points    int             `json:"points"`
	FirstTime int64           `json:"firstTime"`
	LastTime  int64           `json:"lastTime"`
	Min       float64         `json:"min"`
	Max       float64         `json:"max"`
	Last      float64         `json:"last"`
}

// Formatter writes series summaries in one output format.
type Formatter interface {
	Format(w io.Writer, data []SeriesSummary) error
}

// NewFormatter returns the formatter for name: table, csv or json.
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "table":
		return NewTableFormatter(TerminalWidth()), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (expected table, csv or json)", name)
	}
}

// Summarize computes one summary per series in key order. Colours come
// from palette.
func Summarize(ds *model.Dataset, palette *chart.Palette) []SeriesSummary {
	if ds.Empty() {
		return nil
	}

	index := make(map[model.SeriesKey]int, len(ds.Keys))
	out := make([]SeriesSummary, 0, len(ds.Keys))
	for _, k := range ds.Keys {
		index[k] = len(out)
		out = append(out, SeriesSummary{Key: k, Color: palette.Color(k), Min: math.NaN(), Max: math.NaN(), Last: math.NaN()})
	}

	for _, r := range ds.Records {
		i, ok := index[r.Key()]
		if !ok {
			continue
		}
		s := &out[i]
		if s.Points == 0 {
			s.Plant, s.Branch = r.Plant, r.Branch
			s.FirstTime = r.CTime
		}
		s.Points++
		s.LastTime = r.CTime
		s.Last = r.Metric
		if math.IsNaN(s.Min) || r.Metric < s.Min {
			s.Min = r.Metric
		}
		if math.IsNaN(s.Max) || r.Metric > s.Max {
			s.Max = r.Metric
		}
	}
	return out
}
