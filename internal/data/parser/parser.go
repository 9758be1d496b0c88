package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pgperffarm/farmplot/internal/core/model"
	"github.com/pgperffarm/farmplot/internal/util"
)

// ErrMissingColumn is returned when the header row lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Delimiter separates fields in the measurement file.
const Delimiter = ' '

// Result holds the rows that parsed and the ones that were skipped.
// Records keep input order.
type Result struct {
	Records []model.Record
	Skipped []model.RowIssue
}

type columns struct {
	plant, branch, ctime, metric int
	// need is the shortest row that reaches every required column.
	need int
}

// ParseFile parses the measurement file at path.
func ParseFile(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a space-delimited measurement table with a header row naming
// the plant, branch, ctime and metric columns. Malformed rows are skipped and
// reported in Result.Skipped; only I/O errors and a bad header fail the parse.
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	result := &Result{Records: make([]model.Record, 0)}
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				result.skip(perr.Line, perr.Err.Error())
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		rec, reason := cols.record(fields)
		if reason != "" {
			result.skip(line, reason)
			continue
		}
		result.Records = append(result.Records, rec)
	}

	util.LogDebugf("Parsed %d records, skipped %d rows", len(result.Records), len(result.Skipped))
	return result, nil
}

func (r *Result) skip(line int, reason string) {
	util.LogDebugf("Skip malformed row %d: %s", line, reason)
	r.Skipped = append(r.Skipped, model.RowIssue{Line: line, Reason: reason})
}

func resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			continue
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var cols columns
	var missing []string
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{model.ColumnPlant, &cols.plant},
		{model.ColumnBranch, &cols.branch},
		{model.ColumnCTime, &cols.ctime},
		{model.ColumnMetric, &cols.metric},
	} {
		i, ok := index[c.name]
		if !ok {
			missing = append(missing, c.name)
			continue
		}
		*c.dst = i
		cols.need = max(cols.need, i+1)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

// record converts one row, returning a non-empty reason when it is malformed.
// Columns past the required ones are ignored, like trailing separators.
func (c columns) record(fields []string) (model.Record, string) {
	if len(fields) < c.need {
		return model.Record{}, fmt.Sprintf("expected at least %d fields, got %d", c.need, len(fields))
	}

	plant, branch := fields[c.plant], fields[c.branch]
	if plant == "" || branch == "" {
		return model.Record{}, "empty plant or branch"
	}

	ctime, err := strconv.ParseInt(strings.TrimSpace(fields[c.ctime]), 10, 64)
	if err != nil {
		return model.Record{}, fmt.Sprintf("invalid ctime %q", fields[c.ctime])
	}

	metric, err := strconv.ParseFloat(strings.TrimSpace(fields[c.metric]), 64)
	if err != nil || math.IsNaN(metric) || math.IsInf(metric, 0) {
		return model.Record{}, fmt.Sprintf("invalid metric %q", fields[c.metric])
	}

	return model.Record{Plant: plant, Branch: branch, CTime: ctime, Metric: metric}, ""
}
