package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pgperffarm/farmplot/internal/chart"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Text metrics for axis labels
const (
	fontSize     = 8.0
	labelGap     = 9
	domainStroke = 1.0
)

var (
	axisColor       = gochart.ColorBlack
	backgroundColor = gochart.ColorWhite
)

// WriteImage paints scene with the go-chart renderer for f (svg or png).
// The layout matches the interactive chart; tooltips are not part of a
// static image.
func WriteImage(w io.Writer, scene *chart.Scene, f Format) error {
	provider, err := rendererFor(f)
	if err != nil {
		return err
	}
	dims := scene.Dimensions
	r, err := provider(dims.Width, dims.Height)
	if err != nil {
		return fmt.Errorf("create %s renderer: %w", f, err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	r.SetFont(font)

	p := &painter{r: r}
	p.background(dims)
	p.lines(scene.Lines)
	p.markers(scene.Markers)
	p.bottomAxis(scene.XAxis)
	p.leftAxis(scene.YAxis)

	if err := r.Save(w); err != nil {
		return fmt.Errorf("save %s: %w", f, err)
	}
	return nil
}

func rendererFor(f Format) (gochart.RendererProvider, error) {
	switch f {
	case FormatSVG:
		return gochart.SVG, nil
	case FormatPNG:
		return gochart.PNG, nil
	default:
		return nil, fmt.Errorf("%w: %q is not an image format", ErrUnknownFormat, string(f))
	}
}

// Color converts a "#rrggbb" colour for the renderer.
func Color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

type painter struct {
	r gochart.Renderer
}

func px(v float64) int {
	return int(math.Round(v))
}

func (p *painter) background(dims chart.Dimensions) {
	p.r.SetFillColor(backgroundColor)
	p.r.SetStrokeColor(gochart.ColorTransparent)
	p.r.MoveTo(0, 0)
	p.r.LineTo(dims.Width, 0)
	p.r.LineTo(dims.Width, dims.Height)
	p.r.LineTo(0, dims.Height)
	p.r.Close()
	p.r.Fill()
	p.r.ResetStyle()
}

func (p *painter) lines(lines []chart.Line) {
	for _, l := range lines {
		if len(l.Points) < 2 {
			continue
		}
		p.r.SetStrokeColor(Color(l.Color))
		p.r.SetStrokeWidth(chart.LineWidth)
		p.r.MoveTo(px(l.Points[0].X), px(l.Points[0].Y))
		for _, pt := range l.Points[1:] {
			p.r.LineTo(px(pt.X), px(pt.Y))
		}
		p.r.Stroke()
	}
	p.r.ResetStyle()
}

func (p *painter) markers(markers []chart.Marker) {
	for _, m := range markers {
		fill := Color(m.Fill)
		p.r.SetFillColor(fill)
		p.r.SetStrokeColor(fill)
		p.r.SetStrokeWidth(domainStroke)
		p.r.Circle(m.Radius, px(m.Center.X), px(m.Center.Y))
		p.r.FillStroke()
	}
	p.r.ResetStyle()
}

func (p *painter) segment(x0, y0, x1, y1 int) {
	p.r.SetStrokeColor(axisColor)
	p.r.SetStrokeWidth(domainStroke)
	p.r.MoveTo(x0, y0)
	p.r.LineTo(x1, y1)
	p.r.Stroke()
}

func (p *painter) label(body string, x, y int) {
	p.r.SetFontColor(axisColor)
	p.r.SetFontSize(fontSize)
	p.r.Text(body, x, y)
}

func (p *painter) bottomAxis(a chart.Axis) {
	y := px(a.Offset)
	tick := px(chart.TickSize)
	p.segment(px(a.From), y+tick, px(a.From), y)
	p.segment(px(a.From), y, px(a.To), y)
	p.segment(px(a.To), y, px(a.To), y+tick)

	for _, t := range a.Ticks {
		x := px(t.Pos)
		p.segment(x, y, x, y+tick)
		p.r.SetFontSize(fontSize)
		box := p.r.MeasureText(t.Label)
		p.label(t.Label, x-box.Width()/2, y+labelGap+box.Height())
	}
	p.r.ResetStyle()
}

func (p *painter) leftAxis(a chart.Axis) {
	x := px(a.Offset)
	tick := px(chart.TickSize)
	p.segment(x-tick, px(a.From), x, px(a.From))
	p.segment(x, px(a.From), x, px(a.To))
	p.segment(x, px(a.To), x-tick, px(a.To))

	for _, t := range a.Ticks {
		y := px(t.Pos)
		p.segment(x-tick, y, x, y)
		p.r.SetFontSize(fontSize)
		box := p.r.MeasureText(t.Label)
		p.label(t.Label, x-labelGap-box.Width(), y+box.Height()/2)
	}
	p.r.ResetStyle()
}
