package web

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pgperffarm/farmplot/internal/chart"
	"github.com/pgperffarm/farmplot/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageDataset() *model.Dataset {
	records := []model.Record{
		{Plant: "A", Branch: "1", CTime: 100, Metric: 5.0},
		{Plant: "B", Branch: "1", CTime: 150, Metric: 3.0},
		{Plant: "A", Branch: "1", CTime: 200, Metric: 7.0},
	}
	return &model.Dataset{Records: records, Keys: model.DistinctKeys(records)}
}

func renderPage(t *testing.T, data PageData) string {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, data))
	return buf.String()
}

func TestBuildPageDefault(t *testing.T) {
	ds := pageDataset()
	c := chart.New(ds, chart.Options{Location: time.UTC})

	data := BuildPage(c, ds, url.Values{}, chart.DefaultDimensions())

	assert.True(t, data.Ready)
	assert.Equal(t, model.DefaultTrailingCount, data.Applied)
	assert.Equal(t, "10", data.CountInput)
	assert.Empty(t, data.Warnings)
	require.Len(t, data.Series, 2)
	assert.Equal(t, SeriesOption{Key: "A - 1", Color: chart.Category10[0], Active: true}, data.Series[0])
	require.NotNil(t, data.Scene)
	assert.Len(t, data.Scene.Markers, 3)
	assert.Contains(t, string(data.Exports.PNG), ExportPNGPath+"?")
}

func TestBuildPageInvalidCount(t *testing.T) {
	ds := pageDataset()
	c := chart.New(ds, chart.Options{Location: time.UTC})

	data := BuildPage(c, ds, url.Values{ParamApplied: {"1"}, ParamCount: {"-5"}, ParamUpdate: {"1"}}, chart.DefaultDimensions())

	assert.Equal(t, []string{"Please enter a valid positive number."}, data.Warnings)
	assert.Equal(t, 1, data.Applied, "previous value retained")
	assert.Equal(t, "-5", data.CountInput, "input echoes what was typed")
	assert.Len(t, data.Scene.Markers, 2)
}

func TestBuildPageToggleKeepsAppliedCount(t *testing.T) {
	ds := pageDataset()
	c := chart.New(ds, chart.Options{Location: time.UTC})
	query := url.Values{ParamApplied: {"1"}, ParamCount: {"0"}, ParamFiltered: {"1"}, ParamSeries: {"A - 1", "B - 1"}}

	data := BuildPage(c, ds, query, chart.DefaultDimensions())

	assert.Empty(t, data.Warnings, "pending range is not validated on toggle")
	assert.Equal(t, 1, data.Applied)
	assert.Equal(t, "1", data.CountInput)
	assert.Len(t, data.Scene.Markers, 2)
}

func TestPageEmptyChartMessages(t *testing.T) {
	ds := pageDataset()
	c := chart.New(ds, chart.Options{Location: time.UTC})

	html := renderPage(t, BuildPage(c, ds, url.Values{ParamFiltered: {"1"}}, chart.DefaultDimensions()))
	assert.Contains(t, html, "No series selected.")

	broken := &model.Dataset{Skipped: []model.RowIssue{{Line: 2, Reason: "invalid metric \"x\""}}}
	data := BuildPage(chart.New(broken, chart.Options{Location: time.UTC}), broken, url.Values{}, chart.DefaultDimensions())
	assert.False(t, data.NoneSelected)

	html = renderPage(t, data)
	assert.Contains(t, html, "No data to plot.")
	assert.NotContains(t, html, "No series selected.")
	assert.Contains(t, html, "Skipped 1 malformed row")
}

func TestBuildPageSkippedRows(t *testing.T) {
	ds := pageDataset()
	ds.Skipped = []model.RowIssue{{Line: 3, Reason: "invalid metric \"x\""}, {Line: 9, Reason: "empty plant or branch"}}
	c := chart.New(ds, chart.Options{Location: time.UTC})

	data := BuildPage(c, ds, url.Values{}, chart.DefaultDimensions())

	require.Len(t, data.Warnings, 1)
	assert.Equal(t, `Skipped 2 malformed rows (first at line 3: invalid metric "x").`, data.Warnings[0])
}

func TestBuildPageNotReady(t *testing.T) {
	data := BuildPage(nil, nil, url.Values{}, chart.DefaultDimensions())
	assert.False(t, data.Ready)
	assert.Equal(t, Title, data.Title)

	data.Loading = true
	html := renderPage(t, data)
	assert.Contains(t, html, "Loading data")
	assert.NotContains(t, html, "<svg")
}

func TestPageRendersControlsAndChart(t *testing.T) {
	ds := pageDataset()
	c := chart.New(ds, chart.Options{Location: time.UTC})
	query := url.Values{ParamFiltered: {"1"}, ParamSeries: {"A - 1"}}

	html := renderPage(t, BuildPage(c, ds, query, chart.DefaultDimensions()))

	assert.Contains(t, html, "<title>PostgreSQL Performance Farm</title>")
	assert.Contains(t, html, "Range:")
	assert.Contains(t, html, `name="count" value="10"`)
	assert.Contains(t, html, `name="update" value="1">Update</button>`)
	assert.Contains(t, html, "Filter Lines:")
	assert.Contains(t, html, `value="A - 1" checked`)
	assert.Contains(t, html, `value="B - 1" onchange`)
	assert.Contains(t, html, `fill="#ff7f0e"`, "unchecked series keeps its swatch colour")

	assert.Equal(t, 1, strings.Count(html, `class="line"`))
	assert.Equal(t, 2, strings.Count(html, `class="marker"`))
	assert.Contains(t, html, `stroke="#1f77b4"`)
	assert.Contains(t, html, `stroke-width="1.5"`)
	assert.Contains(t, html, `d="M125,355L575,105"`)
	assert.Contains(t, html, `id="farmplot-chart"`)
	assert.Contains(t, html, `document.getElementById("farmplot-chart")`)
	assert.Contains(t, html, "e.pageX + 10")
	assert.Contains(t, html, "e.pageY - 20")
	assert.Contains(t, html, "Plant: A\nBranch: 1\nX: 1970-01-01 00:01:40\nY: 5")
	assert.Contains(t, html, `href="/chart.svg?applied=10&amp;filtered=1&amp;series=A`)
}

func TestPageEscapesKeys(t *testing.T) {
	records := []model.Record{{Plant: "<b>x</b>", Branch: "1", CTime: 100, Metric: 1}}
	ds := &model.Dataset{Records: records, Keys: model.DistinctKeys(records)}
	c := chart.New(ds, chart.Options{Location: time.UTC})

	html := renderPage(t, BuildPage(c, ds, url.Values{}, chart.DefaultDimensions()))

	assert.NotContains(t, html, "<b>x</b>")
	assert.Contains(t, html, "&lt;b&gt;x&lt;/b&gt;")
}

func TestChartFragmentEmptySelection(t *testing.T) {
	ds := pageDataset()
	view := model.NewViewState(ds.Keys)
	view.SetActive(nil)
	scene := chart.Render(ds, view, chart.DefaultDimensions(), chart.Options{Location: time.UTC})

	r, err := NewRenderer()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Chart(&buf, ChartData{Scene: scene}))

	out := buf.String()
	assert.Contains(t, out, `id="farmplot-chart"`)
	assert.NotContains(t, out, `class="marker"`)
	assert.NotContains(t, out, `class="tick"`)
	assert.Contains(t, out, `class="axis axis-x" transform="translate(0,380)"`)
	assert.NotContains(t, out, "NaN")
}

func TestPathData(t *testing.T) {
	assert.Equal(t, "", pathData(nil))
	assert.Equal(t, "M350,230", pathData([]chart.Point{{X: 350, Y: 230}}))
	assert.Equal(t, "M1.23,4L5,6.5", pathData([]chart.Point{{X: 1.234, Y: 4}, {X: 5, Y: 6.5}}))
	assert.Equal(t, "0", coord(-0.001))
}
