package chart

import (
	"math"
	"sort"
	"time"
)

type timeUnit int

const (
	unitSecond timeUnit = iota
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

const (
	durationSecond = 1
	durationMinute = 60 * durationSecond
	durationHour   = 60 * durationMinute
	durationDay    = 24 * durationHour
	durationWeek   = 7 * durationDay
	durationMonth  = 30 * durationDay
	durationYear   = 365 * durationDay
)

// TimeInterval is a calendar-aligned tick interval such as "every 3 hours"
// or "every month", evaluated in a fixed location.
type TimeInterval struct {
	unit timeUnit
	step int
	loc  *time.Location
}

var tickIntervals = []struct {
	unit     timeUnit
	step     int
	duration int64
}{
	{unitSecond, 1, durationSecond},
	{unitSecond, 5, 5 * durationSecond},
	{unitSecond, 15, 15 * durationSecond},
	{unitSecond, 30, 30 * durationSecond},
	{unitMinute, 1, durationMinute},
	{unitMinute, 5, 5 * durationMinute},
	{unitMinute, 15, 15 * durationMinute},
	{unitMinute, 30, 30 * durationMinute},
	{unitHour, 1, durationHour},
	{unitHour, 3, 3 * durationHour},
	{unitHour, 6, 6 * durationHour},
	{unitHour, 12, 12 * durationHour},
	{unitDay, 1, durationDay},
	{unitDay, 2, 2 * durationDay},
	{unitWeek, 1, durationWeek},
	{unitMonth, 1, durationMonth},
	{unitMonth, 3, 3 * durationMonth},
	{unitYear, 1, durationYear},
}

// ChooseInterval picks the calendar interval whose length is closest to
// (stop-start)/count seconds.
func ChooseInterval(start, stop int64, count int, loc *time.Location) TimeInterval {
	if loc == nil {
		loc = time.UTC
	}
	target := math.Abs(float64(stop-start)) / float64(count)
	i := sort.Search(len(tickIntervals), func(i int) bool {
		return float64(tickIntervals[i].duration) > target
	})

	if i == len(tickIntervals) {
		step := TickStep(float64(start)/durationYear, float64(stop)/durationYear, count)
		if step < 0 {
			step = 1 / -step
		}
		return TimeInterval{unit: unitYear, step: max(1, int(math.Floor(step))), loc: loc}
	}
	if i == 0 {
		return TimeInterval{unit: unitSecond, step: 1, loc: loc}
	}

	prev, next := tickIntervals[i-1], tickIntervals[i]
	pick := next
	if target/float64(prev.duration) < float64(next.duration)/target {
		pick = prev
	}
	return TimeInterval{unit: pick.unit, step: pick.step, loc: loc}
}

// Floor returns the latest interval boundary at or before t.
func (iv TimeInterval) Floor(t time.Time) time.Time {
	t = t.In(iv.loc)
	y, mo, d := t.Date()
	h, mi, s := t.Clock()

	switch iv.unit {
	case unitSecond:
		return time.Date(y, mo, d, h, mi, s-s%iv.step, 0, iv.loc)
	case unitMinute:
		return time.Date(y, mo, d, h, mi-mi%iv.step, 0, 0, iv.loc)
	case unitHour:
		return time.Date(y, mo, d, h-h%iv.step, 0, 0, 0, iv.loc)
	case unitDay:
		return time.Date(y, mo, d-(d-1)%iv.step, 0, 0, 0, 0, iv.loc)
	case unitWeek:
		return time.Date(y, mo, d-int(t.Weekday()), 0, 0, 0, 0, iv.loc)
	case unitMonth:
		m := int(mo) - 1
		return time.Date(y, time.Month(m-m%iv.step+1), 1, 0, 0, 0, 0, iv.loc)
	default:
		return time.Date(y-y%iv.step, time.January, 1, 0, 0, 0, 0, iv.loc)
	}
}

// Next returns the first boundary strictly after the boundary b.
func (iv TimeInterval) Next(b time.Time) time.Time {
	b = b.In(iv.loc)
	var t time.Time
	switch iv.unit {
	case unitSecond:
		t = b.Add(time.Duration(iv.step) * time.Second)
	case unitMinute:
		t = b.Add(time.Duration(iv.step) * time.Minute)
	case unitHour:
		t = b.Add(time.Duration(iv.step) * time.Hour)
	case unitDay:
		t = b.AddDate(0, 0, iv.step)
	case unitWeek:
		t = b.AddDate(0, 0, 7*iv.step)
	case unitMonth:
		t = b.AddDate(0, iv.step, 0)
	default:
		t = b.AddDate(iv.step, 0, 0)
	}
	if f := iv.Floor(t); f.After(b) {
		return f
	}
	return t
}

// Ceil returns the earliest interval boundary at or after t.
func (iv TimeInterval) Ceil(t time.Time) time.Time {
	f := iv.Floor(t)
	if f.Equal(t) {
		return f
	}
	return iv.Next(f)
}

// Range lists the boundaries in [start, stop].
func (iv TimeInterval) Range(start, stop time.Time) []time.Time {
	var out []time.Time
	for t := iv.Ceil(start); !t.After(stop); t = iv.Next(t) {
		out = append(out, t)
	}
	return out
}

// TimeScale maps Unix seconds onto a pixel range.
type TimeScale struct {
	Domain [2]int64   `json:"domain"`
	Range  [2]float64 `json:"range"`
}

// Map converts a Unix timestamp to a pixel position. A zero-width domain
// maps to the middle of the range.
func (s TimeScale) Map(sec int64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Range[0], s.Range[1]
	if d1 == d0 {
		return (r0 + r1) / 2
	}
	return r0 + float64(sec-d0)/float64(d1-d0)*(r1-r0)
}

// NiceTime widens [start, stop] to the boundaries of the interval chosen
// for count ticks.
func NiceTime(start, stop int64, count int, loc *time.Location) (int64, int64) {
	iv := ChooseInterval(start, stop, count, loc)
	lo := iv.Floor(time.Unix(start, 0)).Unix()
	hi := iv.Ceil(time.Unix(stop, 0)).Unix()
	return lo, hi
}

// TimeTicks returns calendar-aligned tick positions inside [start, stop].
func TimeTicks(start, stop int64, count int, loc *time.Location) []int64 {
	iv := ChooseInterval(start, stop, count, loc)
	bounds := iv.Range(time.Unix(start, 0), time.Unix(stop, 0))
	ticks := make([]int64, len(bounds))
	for i, b := range bounds {
		ticks[i] = b.Unix()
	}
	return ticks
}
