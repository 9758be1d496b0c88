package chart

import (
	"math"

	"github.com/pgperffarm/farmplot/internal/core/model"
)

// Group is one series after filtering and truncation.
type Group struct {
	Key     model.SeriesKey `json:"key"`
	Records []model.Record  `json:"records"`
}

// GroupVisible filters records to the active keys, groups them by key in
// order of first appearance and keeps the last n records of each group.
// Records inside a group keep their input (chronological) order.
func GroupVisible(records []model.Record, active func(model.SeriesKey) bool, n int) []Group {
	var groups []Group
	pos := make(map[model.SeriesKey]int)

	for _, r := range records {
		k := r.Key()
		if !active(k) {
			continue
		}
		i, ok := pos[k]
		if !ok {
			i = len(groups)
			pos[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	for i := range groups {
		groups[i].Records = lastN(groups[i].Records, n)
	}
	return groups
}

func lastN(records []model.Record, n int) []model.Record {
	if n <= 0 {
		return nil
	}
	if len(records) > n {
		return records[len(records)-n:]
	}
	return records
}

// Flatten concatenates every group's records.
func Flatten(groups []Group) []model.Record {
	var out []model.Record
	for _, g := range groups {
		out = append(out, g.Records...)
	}
	return out
}

// Extent is the bounding box of the visible records. Non-finite metrics
// are ignored so they can never reach a scale.
type Extent struct {
	Empty            bool
	MinTime, MaxTime int64
	MinValue         float64
	MaxValue         float64
}

// ComputeExtent returns the time and value extents of records.
func ComputeExtent(records []model.Record) Extent {
	e := Extent{Empty: true}
	for _, r := range records {
		if math.IsNaN(r.Metric) || math.IsInf(r.Metric, 0) {
			continue
		}
		if e.Empty {
			e = Extent{MinTime: r.CTime, MaxTime: r.CTime, MinValue: r.Metric, MaxValue: r.Metric}
			continue
		}
		e.MinTime = min(e.MinTime, r.CTime)
		e.MaxTime = max(e.MaxTime, r.CTime)
		e.MinValue = math.Min(e.MinValue, r.Metric)
		e.MaxValue = math.Max(e.MaxValue, r.Metric)
	}
	return e
}
