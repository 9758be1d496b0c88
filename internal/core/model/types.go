package model

import (
	"time"
)

// SeriesKey identifies one plotted line: "<plant> - <branch>".
type SeriesKey string

// MakeSeriesKey joins the two category parts of a series.
func MakeSeriesKey(plant, branch string) SeriesKey {
	return SeriesKey(plant + " - " + branch)
}

// Record is one parsed measurement row. Records are never mutated after
// parsing.
type Record struct {
	Plant  string  `json:"plant"`
	Branch string  `json:"branch"`
	CTime  int64   `json:"ctime"` // Unix seconds
	Metric float64 `json:"metric"`
}

// Key returns the series the record belongs to.
func (r Record) Key() SeriesKey {
	return MakeSeriesKey(r.Plant, r.Branch)
}

// RowIssue describes a malformed input row that was skipped.
type RowIssue struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Dataset is the result of one load.
type Dataset struct {
	Source   string      `json:"source"`
	LoadedAt time.Time   `json:"loadedAt"`
	Records  []Record    `json:"records"` // ascending by CTime, ties in input order
	Keys     []SeriesKey `json:"keys"`    // distinct keys, first appearance order
	Skipped  []RowIssue  `json:"skipped,omitempty"`
}

// Empty reports whether the dataset has no plottable records.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Records) == 0
}

// DistinctKeys returns the series keys of records in order of first
// appearance.
func DistinctKeys(records []Record) []SeriesKey {
	seen := make(map[SeriesKey]struct{})
	keys := make([]SeriesKey, 0)
	for _, r := range records {
		k := r.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
