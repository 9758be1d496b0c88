package util

import (
	"math"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{5, "5"},
		{5.25, "5.25"},
		{-0.5, "-0.5"},
		{1e6, "1000000"},
		{0.1, "0.1"},
		{math.NaN(), "-"},
		{math.Inf(-1), "-"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatValue(tt.in))
	}
}

func TestFormatGrouped(t *testing.T) {
	tests := []struct {
		in        float64
		precision int
		expected  string
	}{
		{2.5, 1, "2.5"},
		{3, 1, "3.0"},
		{10, 0, "10"},
		{-0.0000001, 1, "0.0"},
		{7, -3, "7"},
		{-0.5, 1, "-0.5"},
		{26000, 0, "26,000"},
		{1234567.5, 1, "1,234,567.5"},
		{-1500, 0, "-1,500"},
		{math.NaN(), 0, "-"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatGrouped(tt.in, tt.precision))
	}
}

func TestPadAndTruncate(t *testing.T) {
	assert.Equal(t, "ab   ", PadString("ab", 5, true))
	assert.Equal(t, "   ab", PadString("ab", 5, false))
	assert.Equal(t, "abcdef", PadString("abcdef", 3, true))
	assert.Equal(t, 4, GetDisplayWidth("日本"))

	assert.Equal(t, "short", Truncate("short", 10))
	cut := Truncate("animal - REL_16_STABLE", 10)
	assert.LessOrEqual(t, GetDisplayWidth(cut), 10)
	assert.Contains(t, cut, "…")
}

func TestColorSwatch(t *testing.T) {
	assert.Equal(t, "\033[48;2;31;119;180m  "+ColorReset, ColorSwatch("#1f77b4"))
	assert.Equal(t, "  ", ColorSwatch("steelblue"))
	assert.Equal(t, "  ", ColorSwatch("#zzzzzz"))
}

func TestTimeProvider(t *testing.T) {
	tp := &TimeProvider{}
	require.NoError(t, tp.SetTimezone("UTC"))
	assert.Equal(t, time.UTC.String(), tp.Location().String())
	assert.Equal(t, "1970-01-01 00:01:40", tp.FormatUnix(100, "2006-01-02 15:04:05"))

	require.NoError(t, tp.SetTimezone("Asia/Tokyo"))
	assert.Equal(t, "09:00", tp.FormatUnix(0, "15:04"))

	require.NoError(t, tp.SetTimezone(""))
	assert.Equal(t, time.Local, tp.Location())

	err := tp.SetTimezone("Mars/Olympus")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timezone")
}

func TestInitializeTimeProvider(t *testing.T) {
	require.NoError(t, InitializeTimeProvider("UTC"))
	assert.Equal(t, "UTC", GetTimeProvider().Location().String())
	assert.Error(t, InitializeTimeProvider("Nowhere/Special"))
	assert.Equal(t, "UTC", GetTimeProvider().Location().String(), "failed init keeps the previous provider")
}
