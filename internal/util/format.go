package util

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatValue prints a metric with the shortest representation that
// round-trips, the way the browser prints numbers.
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatGrouped prints v with a fixed number of decimals and comma
// thousands separators, the way axis ticks are labelled. Negative precision
// is clamped to zero and negative zero folds to zero.
func FormatGrouped(v float64, precision int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	precision = min(max(precision, 0), 9)
	return humanize.FormatFloat("#,###."+strings.Repeat("#", precision), v)
}
