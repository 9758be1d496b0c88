package chart

import (
	"math"
	"time"

	"github.com/pgperffarm/farmplot/internal/core/model"
	"github.com/pgperffarm/farmplot/internal/util"
)

// Tooltip box metrics
const (
	tooltipCharWidth  = 7.0
	tooltipLineHeight = 16.0
	tooltipPadding    = 5.0
)

// Options tune formatting.
type Options struct {
	Location  *time.Location
	TickCount int
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = util.GetTimeProvider().Location()
	}
	if o.TickCount <= 0 {
		o.TickCount = DefaultTickCount
	}
	return o
}

// Chart renders one dataset. The palette is fixed when the chart is created,
// so a series keeps its colour whatever else is hidden.
type Chart struct {
	dataset *model.Dataset
	palette *Palette
	opts    Options
}

// New prepares a chart for ds. A nil dataset renders as empty.
func New(ds *model.Dataset, opts Options) *Chart {
	if ds == nil {
		ds = &model.Dataset{}
	}
	return &Chart{
		dataset: ds,
		palette: NewPalette(ds.Keys),
		opts:    opts.withDefaults(),
	}
}

// Palette returns the chart's colour assignment.
func (c *Chart) Palette() *Palette {
	return c.palette
}

// Render computes the scene for view and dims. A nil view shows every
// series with the default trailing count. Render does not modify its inputs
// and returns equal scenes for equal inputs.
func (c *Chart) Render(view *model.ViewState, dims Dimensions) *Scene {
	if view == nil {
		view = model.NewViewState(c.dataset.Keys)
	}

	groups := GroupVisible(c.dataset.Records, view.IsActive, view.TrailingCount())
	ext := ComputeExtent(Flatten(groups))

	scene := &Scene{
		Dimensions: dims,
		Empty:      ext.Empty,
		Groups:     groups,
	}
	scene.XScale, scene.XAxis = c.timeAxis(ext, dims)
	scene.YScale, scene.YAxis = c.valueAxis(ext, dims)

	for _, g := range groups {
		line := Line{Key: g.Key, Color: c.palette.Color(g.Key)}
		for _, r := range g.Records {
			if !finite(r.Metric) {
				continue
			}
			pt := Point{X: scene.XScale.Map(r.CTime), Y: scene.YScale.Map(r.Metric)}
			line.Points = append(line.Points, pt)
			scene.Markers = append(scene.Markers, Marker{
				Key:     g.Key,
				Center:  pt,
				Radius:  MarkerRadius,
				Fill:    MarkerColor,
				Record:  r,
				Tooltip: c.tooltip(r),
			})
		}
		scene.Lines = append(scene.Lines, line)
	}
	return scene
}

// Render is a convenience wrapper for a one-off chart.
func Render(ds *model.Dataset, view *model.ViewState, dims Dimensions, opts Options) *Scene {
	return New(ds, opts).Render(view, dims)
}

func (c *Chart) timeAxis(ext Extent, dims Dimensions) (TimeScale, Axis) {
	scale := TimeScale{
		Range: [2]float64{float64(dims.MarginLeft), float64(dims.Width - dims.MarginRight)},
	}
	axis := Axis{
		Orient: "bottom",
		Offset: float64(dims.Height - dims.MarginBottom),
		From:   scale.Range[0],
		To:     scale.Range[1],
	}
	if ext.Empty {
		return scale, axis
	}

	lo, hi := NiceTime(ext.MinTime, ext.MaxTime, c.opts.TickCount, c.opts.Location)
	scale.Domain = [2]int64{lo, hi}
	for _, t := range TimeTicks(lo, hi, c.opts.TickCount, c.opts.Location) {
		axis.Ticks = append(axis.Ticks, Tick{
			Pos:   scale.Map(t),
			Label: time.Unix(t, 0).In(c.opts.Location).Format(TickLabelTime),
		})
	}
	return scale, axis
}

func (c *Chart) valueAxis(ext Extent, dims Dimensions) (LinearScale, Axis) {
	scale := LinearScale{
		Range: [2]float64{float64(dims.Height - dims.MarginBottom), float64(dims.MarginTop)},
	}
	axis := Axis{
		Orient: "left",
		Offset: float64(dims.MarginLeft),
		From:   scale.Range[0],
		To:     scale.Range[1],
	}
	if ext.Empty {
		return scale, axis
	}

	pad := ValuePadding(ext.MinValue, ext.MaxValue)
	lo, hi := NiceLinear(ext.MinValue-pad, ext.MaxValue+pad, c.opts.TickCount)
	scale.Domain = [2]float64{lo, hi}

	precision := tickPrecision(TickStep(lo, hi, c.opts.TickCount))
	for _, v := range Ticks(lo, hi, c.opts.TickCount) {
		label := util.FormatValue(v)
		if lo != hi {
			label = util.FormatGrouped(v, precision)
		}
		axis.Ticks = append(axis.Ticks, Tick{Pos: scale.Map(v), Label: label})
	}
	return scale, axis
}

// tickPrecision is the number of decimals needed to tell ticks of the
// given step apart.
func tickPrecision(step float64) int {
	if step >= 0 {
		return 0
	}
	return int(math.Ceil(math.Log10(-step) - 1e-9))
}

func (c *Chart) tooltip(r model.Record) Tooltip {
	lines := []string{
		"Plant: " + r.Plant,
		"Branch: " + r.Branch,
		"X: " + time.Unix(r.CTime, 0).In(c.opts.Location).Format(TooltipTime),
		"Y: " + util.FormatValue(r.Metric),
	}
	widest := 0
	for _, l := range lines {
		widest = max(widest, util.GetDisplayWidth(l))
	}
	return Tooltip{
		Lines:  lines,
		Width:  float64(widest)*tooltipCharWidth + 2*tooltipPadding,
		Height: float64(len(lines))*tooltipLineHeight + 2*tooltipPadding,
	}
}
