package chart

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/pgperffarm/farmplot/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioDataset() *model.Dataset {
	records := []model.Record{
		{Plant: "A", Branch: "1", CTime: 100, Metric: 5.0},
		{Plant: "B", Branch: "1", CTime: 150, Metric: 3.0},
		{Plant: "A", Branch: "1", CTime: 200, Metric: 7.0},
	}
	return &model.Dataset{Records: records, Keys: model.DistinctKeys(records)}
}

func utcOptions() Options {
	return Options{Location: time.UTC}
}

func markerTimes(scene *Scene, key model.SeriesKey) []int64 {
	var out []int64
	for _, m := range scene.Markers {
		if m.Key == key {
			out = append(out, m.Record.CTime)
		}
	}
	return out
}

func assertFiniteScene(t *testing.T, scene *Scene) {
	t.Helper()
	for _, v := range []float64{scene.YScale.Domain[0], scene.YScale.Domain[1]} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "y domain must be finite")
	}
	for _, m := range scene.Markers {
		assert.False(t, math.IsNaN(m.Center.X) || math.IsNaN(m.Center.Y), "marker position must be finite")
	}
	for _, tick := range append(scene.XAxis.Ticks, scene.YAxis.Ticks...) {
		assert.False(t, math.IsNaN(tick.Pos), "tick position must be finite")
	}
}

func TestRenderDefaultShowsEverything(t *testing.T) {
	ds := scenarioDataset()
	c := New(ds, utcOptions())
	view := model.NewViewState(ds.Keys)

	scene := c.Render(view, DefaultDimensions())

	assert.Equal(t, []model.SeriesKey{"A - 1", "B - 1"}, ds.Keys)
	require.Len(t, scene.Lines, 2)
	assert.Len(t, scene.Markers, 3)
	assert.Equal(t, model.SeriesKey("A - 1"), scene.Lines[0].Key)
	assert.Len(t, scene.Lines[0].Points, 2)
	assert.Len(t, scene.Lines[1].Points, 1)
	assert.False(t, scene.Empty)

	assert.Equal(t, [2]int64{90, 210}, scene.XScale.Domain)
	assert.Equal(t, [2]float64{80, 620}, scene.XScale.Range)
	assert.InDelta(t, 2.5, scene.YScale.Domain[0], 1e-9)
	assert.InDelta(t, 7.5, scene.YScale.Domain[1], 1e-9)
	assert.Equal(t, [2]float64{380, 80}, scene.YScale.Range)
	assertFiniteScene(t, scene)
}

func TestRenderTrailingOne(t *testing.T) {
	ds := scenarioDataset()
	view := model.NewViewState(ds.Keys)
	require.NoError(t, view.SetTrailingCount(1))

	scene := Render(ds, view, DefaultDimensions(), utcOptions())

	assert.Equal(t, []int64{200}, markerTimes(scene, "A - 1"))
	assert.Equal(t, []int64{150}, markerTimes(scene, "B - 1"))
}

func TestRenderDeactivatedSeriesLeavesScales(t *testing.T) {
	ds := scenarioDataset()
	c := New(ds, utcOptions())
	view := model.NewViewState(ds.Keys)

	all := c.Render(view, DefaultDimensions())
	view.Toggle("B - 1")
	onlyA := c.Render(view, DefaultDimensions())

	require.Len(t, onlyA.Lines, 1)
	assert.Equal(t, model.SeriesKey("A - 1"), onlyA.Lines[0].Key)
	assert.Empty(t, markerTimes(onlyA, "B - 1"))

	assert.InDelta(t, 4.8, onlyA.YScale.Domain[0], 1e-9)
	assert.InDelta(t, 7.2, onlyA.YScale.Domain[1], 1e-9)
	assert.NotEqual(t, all.YScale.Domain, onlyA.YScale.Domain)
	assert.Equal(t, all.XScale.Domain, onlyA.XScale.Domain, "B's timestamp lies inside A's extent")
}

func TestRenderTrailingCountProperty(t *testing.T) {
	var records []model.Record
	for i := 0; i < 7; i++ {
		records = append(records, model.Record{Plant: "A", Branch: "1", CTime: int64(1000 + 60*i), Metric: float64(i)})
	}
	for i := 0; i < 3; i++ {
		records = append(records, model.Record{Plant: "B", Branch: "2", CTime: int64(1030 + 60*i), Metric: float64(10 + i)})
	}
	ds := &model.Dataset{Records: records, Keys: model.DistinctKeys(records)}
	c := New(ds, utcOptions())

	for n := 1; n <= 9; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			view := model.NewViewState(ds.Keys)
			require.NoError(t, view.SetTrailingCount(n))
			scene := c.Render(view, DefaultDimensions())

			a := markerTimes(scene, "A - 1")
			b := markerTimes(scene, "B - 2")
			require.Len(t, a, min(n, 7))
			require.Len(t, b, min(n, 3))
			assert.Equal(t, int64(1000+60*6), a[len(a)-1], "latest record is kept")
			assert.Equal(t, int64(1000+60*(7-len(a))), a[0], "oldest kept is the n-th latest")
			for i := 1; i < len(a); i++ {
				assert.Less(t, a[i-1], a[i])
			}
		})
	}
}

func TestRenderColorStableAcrossToggles(t *testing.T) {
	ds := scenarioDataset()
	c := New(ds, utcOptions())
	view := model.NewViewState(ds.Keys)

	colorOf := func(scene *Scene, key model.SeriesKey) string {
		for _, l := range scene.Lines {
			if l.Key == key {
				return l.Color
			}
		}
		return ""
	}

	before := colorOf(c.Render(view, DefaultDimensions()), "B - 1")
	view.Toggle("A - 1")
	alone := colorOf(c.Render(view, DefaultDimensions()), "B - 1")
	view.Toggle("B - 1")
	view.Toggle("B - 1")
	view.Toggle("A - 1")
	after := colorOf(c.Render(view, DefaultDimensions()), "B - 1")

	assert.Equal(t, Category10[1], before)
	assert.Equal(t, before, alone)
	assert.Equal(t, before, after)
}

func TestRenderEqualValuesNoNaN(t *testing.T) {
	records := []model.Record{
		{Plant: "A", Branch: "1", CTime: 100, Metric: 4},
		{Plant: "A", Branch: "1", CTime: 200, Metric: 4},
	}
	ds := &model.Dataset{Records: records, Keys: model.DistinctKeys(records)}

	scene := Render(ds, nil, DefaultDimensions(), utcOptions())

	assert.Equal(t, [2]float64{4, 4}, scene.YScale.Domain)
	require.Len(t, scene.YAxis.Ticks, 1)
	assert.Equal(t, "4", scene.YAxis.Ticks[0].Label)
	for _, m := range scene.Markers {
		assert.Equal(t, 230.0, m.Center.Y, "flat series sits mid-height")
	}
	assertFiniteScene(t, scene)
}

func TestRenderSinglePoint(t *testing.T) {
	records := []model.Record{{Plant: "A", Branch: "1", CTime: 1700000000, Metric: 2.5}}
	ds := &model.Dataset{Records: records, Keys: model.DistinctKeys(records)}

	scene := Render(ds, nil, DefaultDimensions(), utcOptions())

	require.Len(t, scene.Markers, 1)
	assert.Equal(t, Point{X: 350, Y: 230}, scene.Markers[0].Center)
	assert.Len(t, scene.XAxis.Ticks, 1)
	assertFiniteScene(t, scene)
}

func TestRenderEmptySelection(t *testing.T) {
	ds := scenarioDataset()
	view := model.NewViewState(ds.Keys)
	view.SetActive(nil)

	scene := Render(ds, view, DefaultDimensions(), utcOptions())

	assert.True(t, scene.Empty)
	assert.Empty(t, scene.Lines)
	assert.Empty(t, scene.Markers)
	assert.Empty(t, scene.XAxis.Ticks)
	assert.Empty(t, scene.YAxis.Ticks)
	assert.Equal(t, "bottom", scene.XAxis.Orient)
	assert.Equal(t, 380.0, scene.XAxis.Offset)
	assert.Equal(t, "left", scene.YAxis.Orient)
	assert.Equal(t, 80.0, scene.YAxis.Offset)
}

func TestRenderNilDataset(t *testing.T) {
	scene := Render(nil, nil, DefaultDimensions(), utcOptions())
	assert.True(t, scene.Empty)
	assert.Empty(t, scene.Lines)
}

func TestRenderIsIdempotent(t *testing.T) {
	ds := scenarioDataset()
	c := New(ds, utcOptions())
	view := model.NewViewState(ds.Keys)

	first := c.Render(view, DefaultDimensions())
	second := c.Render(view, DefaultDimensions())

	assert.Equal(t, first, second)
	assert.Equal(t, []model.SeriesKey{"A - 1", "B - 1"}, view.ActiveKeys(), "view is not modified")
	assert.Equal(t, int64(100), ds.Records[0].CTime, "dataset is not modified")
}

func TestRenderTickLabels(t *testing.T) {
	day := int64(86400)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Unix()
	var records []model.Record
	for i := int64(0); i < 5; i++ {
		records = append(records, model.Record{Plant: "A", Branch: "1", CTime: base + i*day + 3600, Metric: float64(i)})
	}
	ds := &model.Dataset{Records: records, Keys: model.DistinctKeys(records)}

	scene := Render(ds, nil, DefaultDimensions(), utcOptions())

	require.NotEmpty(t, scene.XAxis.Ticks)
	assert.Equal(t, "03-01", scene.XAxis.Ticks[0].Label)
	for _, tick := range scene.XAxis.Ticks {
		assert.Regexp(t, `^\d\d-\d\d$`, tick.Label)
	}
	require.NotEmpty(t, scene.YAxis.Ticks)
	assert.Equal(t, "-0.5", scene.YAxis.Ticks[0].Label)
}

func TestRenderGroupsThousands(t *testing.T) {
	records := []model.Record{
		{Plant: "A", Branch: "1", CTime: 100, Metric: 30000},
		{Plant: "A", Branch: "1", CTime: 200, Metric: 40000},
	}
	ds := &model.Dataset{Records: records, Keys: model.DistinctKeys(records)}

	scene := Render(ds, nil, DefaultDimensions(), utcOptions())

	ticks := scene.YAxis.Ticks
	require.NotEmpty(t, ticks)
	assert.Equal(t, "29,000", ticks[0].Label)
	assert.Equal(t, "41,000", ticks[len(ticks)-1].Label)
	assert.Equal(t, "Y: 30000", scene.Markers[0].Tooltip.Lines[3], "tooltips print the raw value")
}

func TestRenderTooltip(t *testing.T) {
	ds := scenarioDataset()

	scene := Render(ds, nil, DefaultDimensions(), utcOptions())

	require.NotEmpty(t, scene.Markers)
	tip := scene.Markers[0].Tooltip
	assert.Equal(t, []string{
		"Plant: A",
		"Branch: 1",
		"X: 1970-01-01 00:01:40",
		"Y: 5",
	}, tip.Lines)
	assert.Greater(t, tip.Width, 0.0)
	assert.Greater(t, tip.Height, 0.0)
	assert.Equal(t, MarkerColor, scene.Markers[0].Fill)
	assert.Equal(t, MarkerRadius, scene.Markers[0].Radius)
}

func TestRenderSkipsNonFiniteMetrics(t *testing.T) {
	records := []model.Record{
		{Plant: "A", Branch: "1", CTime: 100, Metric: 1},
		{Plant: "A", Branch: "1", CTime: 200, Metric: math.NaN()},
		{Plant: "A", Branch: "1", CTime: 300, Metric: 3},
	}
	ds := &model.Dataset{Records: records, Keys: model.DistinctKeys(records)}

	scene := Render(ds, nil, DefaultDimensions(), utcOptions())

	assert.Len(t, scene.Markers, 2)
	assertFiniteScene(t, scene)
}

func TestDimensionsValidate(t *testing.T) {
	assert.NoError(t, DefaultDimensions().Validate())

	bad := []Dimensions{
		{Width: 0, Height: 100},
		{Width: 100, Height: 100, MarginLeft: -1},
		{Width: 100, Height: 100, MarginLeft: 50, MarginRight: 50},
		{Width: 100, Height: 100, MarginTop: 60, MarginBottom: 40},
	}
	for _, d := range bad {
		assert.ErrorIs(t, d.Validate(), ErrInvalidDimensions)
	}
}
