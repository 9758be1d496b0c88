package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pgperffarm/farmplot/internal/util"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(out io.Writer, data []SeriesSummary) error {
	w := csv.NewWriter(out)

	headers := []string{
		"Plant", "Branch", "Color", "Points", "First", "Last", "Min", "Max", "Latest",
	}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, s := range data {
		record := []string{
			s.Plant,
			s.Branch,
			s.Color,
			strconv.Itoa(s.Points),
			strconv.FormatInt(s.FirstTime, 10),
			strconv.FormatInt(s.LastTime, 10),
			util.FormatValue(s.Min),
			util.FormatValue(s.Max),
			util.FormatValue(s.Last),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
