package chart

import (
	"math"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// DefaultTickCount is the tick density both axes aim for.
const DefaultTickCount = 10

// tickSpec picks a 1/2/5 x 10^k step for roughly count ticks over
// [start, stop]. Negative inc means the step is 1/-inc, which keeps
// fractional steps exact.
func tickSpec(start, stop float64, count int) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}

	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && count >= 1 && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

func tickIncrement(start, stop float64, count int) float64 {
	_, _, inc := tickSpec(start, stop, count)
	return inc
}

// Ticks returns about count round values inside [start, stop].
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || !finite(start) || !finite(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	i1, i2, inc := tickSpec(start, stop, count)
	if !(i2 >= i1) || !finite(inc) || inc == 0 {
		return nil
	}
	n := int(i2-i1) + 1
	ticks := make([]float64, n)
	for i := 0; i < n; i++ {
		if inc < 0 {
			ticks[i] = (i1 + float64(i)) / -inc
		} else {
			ticks[i] = (i1 + float64(i)) * inc
		}
	}
	if reverse {
		for l, r := 0, n-1; l < r; l, r = l+1, r-1 {
			ticks[l], ticks[r] = ticks[r], ticks[l]
		}
	}
	return ticks
}

// TickStep returns the spacing Ticks would use, negative for fractional
// steps as in tickSpec.
func TickStep(start, stop float64, count int) float64 {
	if start == stop || count <= 0 {
		return 0
	}
	if stop < start {
		start, stop = stop, start
	}
	return tickIncrement(start, stop, count)
}

// NiceLinear extends [start, stop] outward to multiples of the tick step.
// A degenerate domain is returned unchanged.
func NiceLinear(start, stop float64, count int) (float64, float64) {
	if start == stop || !finite(start) || !finite(stop) || count <= 0 {
		return start, stop
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	lo, hi := start, stop
	var prestep float64
	for iter := 0; iter < 10; iter++ {
		step := tickIncrement(lo, hi, count)
		if step == prestep {
			start, stop = lo, hi
			break
		}
		switch {
		case step > 0:
			lo = math.Floor(lo/step) * step
			hi = math.Ceil(hi/step) * step
		case step < 0:
			lo = math.Ceil(lo*step) / step
			hi = math.Floor(hi*step) / step
		default:
			iter = 10
			continue
		}
		prestep = step
	}

	if reverse {
		return stop, start
	}
	return start, stop
}

// LinearScale maps a numeric domain onto a pixel range.
type LinearScale struct {
	Domain [2]float64 `json:"domain"`
	Range  [2]float64 `json:"range"`
}

// Map converts v to a pixel position. A zero-width domain maps every value
// to the middle of the range.
func (s LinearScale) Map(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Range[0], s.Range[1]
	if d1 == d0 {
		return (r0 + r1) / 2
	}
	return r0 + (v-d0)/(d1-d0)*(r1-r0)
}

// ValuePadding is the margin added on both sides of the value extent: 10% of
// the spread, and 0 when every value is equal.
func ValuePadding(min, max float64) float64 {
	if !finite(min) || !finite(max) || max <= min {
		return 0
	}
	return (max - min) * 0.1
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
