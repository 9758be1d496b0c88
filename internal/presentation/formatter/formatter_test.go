package formatter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/pgperffarm/farmplot/internal/chart"
	"github.com/pgperffarm/farmplot/internal/core/model"
	"github.com/pgperffarm/farmplot/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryDataset() *model.Dataset {
	records := []model.Record{
		{Plant: "animal", Branch: "HEAD", CTime: 100, Metric: 5},
		{Plant: "bee", Branch: "REL_16_STABLE", CTime: 150, Metric: 3.5},
		{Plant: "animal", Branch: "HEAD", CTime: 200, Metric: 7},
		{Plant: "animal", Branch: "HEAD", CTime: 300, Metric: 6},
	}
	return &model.Dataset{Records: records, Keys: model.DistinctKeys(records)}
}

func summaries() []SeriesSummary {
	ds := summaryDataset()
	return Summarize(ds, chart.NewPalette(ds.Keys))
}

func TestSummarize(t *testing.T) {
	got := summaries()

	require.Len(t, got, 2)
	assert.Equal(t, SeriesSummary{
		Key: "animal - HEAD", Plant: "animal", Branch: "HEAD", Color: chart.Category10[0],
		Points: 3, FirstTime: 100, LastTime: 300, Min: 5, Max: 7, Last: 6,
	}, got[0])
	assert.Equal(t, model.SeriesKey("bee - REL_16_STABLE"), got[1].Key)
	assert.Equal(t, 1, got[1].Points)
	assert.Equal(t, 3.5, got[1].Min)
	assert.Equal(t, 3.5, got[1].Max)

	assert.Nil(t, Summarize(&model.Dataset{}, chart.NewPalette(nil)))
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"", "table", "CSV", "json"} {
		f, err := NewFormatter(name)
		assert.NoError(t, err, name)
		assert.NotNil(t, f)
	}
	_, err := NewFormatter("xml")
	assert.Error(t, err)
}

func TestTableFormatterFormat(t *testing.T) {
	require.NoError(t, util.InitializeTimeProvider("UTC"))

	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(0).WithoutColors().Format(&buf, summaries()))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6, "top, header, separator, two rows, bottom")
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.True(t, strings.HasPrefix(lines[5], "└"))
	assert.Contains(t, lines[1], "Series")
	assert.Contains(t, lines[3], "animal - HEAD")
	assert.Contains(t, lines[3], "1970-01-01 00:05:00")
	assert.Contains(t, lines[4], "bee - REL_16_STABLE")
	assert.Contains(t, lines[4], "3.5")

	width := util.GetDisplayWidth(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, util.GetDisplayWidth(l), "rows line up: %q", l)
	}
}

func TestTableFormatterFitsWidth(t *testing.T) {
	var wide, narrow bytes.Buffer
	require.NoError(t, NewTableFormatter(0).WithoutColors().Format(&wide, summaries()))
	require.NoError(t, NewTableFormatter(100).WithoutColors().Format(&narrow, summaries()))

	wideWidth := util.GetDisplayWidth(strings.SplitN(wide.String(), "\n", 2)[0])
	narrowLines := strings.Split(strings.TrimRight(narrow.String(), "\n"), "\n")
	narrowWidth := util.GetDisplayWidth(narrowLines[0])

	assert.Less(t, narrowWidth, wideWidth)
	assert.LessOrEqual(t, narrowWidth, 100)
	assert.Contains(t, narrowLines[4], "…", "long series names are truncated")
}

func TestTableFormatterColors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(0).Format(&buf, summaries()))
	assert.Contains(t, buf.String(), util.ColorSwatch(chart.Category10[0]))
}

func TestCSVFormatterFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().Format(&buf, summaries()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Plant", "Branch", "Color", "Points", "First", "Last", "Min", "Max", "Latest"}, records[0])
	assert.Equal(t, []string{"animal", "HEAD", "#1f77b4", "3", "100", "300", "5", "7", "6"}, records[1])
}

func TestJSONFormatterFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, summaries()))

	var decoded []SeriesSummary
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, summaries(), decoded)

	buf.Reset()
	require.NoError(t, NewJSONFormatter().Format(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
