package chart

import (
	"errors"
	"fmt"

	"github.com/pgperffarm/farmplot/internal/core/model"
)

// Drawing constants
const (
	LineWidth     = 1.5
	MarkerRadius  = 4.0
	MarkerColor   = "#4682b4" // steelblue
	TickSize      = 6.0
	TickLabelTime = "01-02"
	TooltipTime   = "2006-01-02 15:04:05"
)

// Dimensions is the caller-supplied chart geometry in pixels.
type Dimensions struct {
	Width        int `json:"width"`
	Height       int `json:"height"`
	MarginTop    int `json:"marginTop"`
	MarginRight  int `json:"marginRight"`
	MarginBottom int `json:"marginBottom"`
	MarginLeft   int `json:"marginLeft"`
}

// DefaultDimensions returns a 700x460 chart with 80px margins.
func DefaultDimensions() Dimensions {
	return Dimensions{
		Width:        model.DefaultWidth,
		Height:       model.DefaultHeight,
		MarginTop:    model.DefaultMargin,
		MarginRight:  model.DefaultMargin,
		MarginBottom: model.DefaultMargin,
		MarginLeft:   model.DefaultMargin,
	}
}

// ErrInvalidDimensions is returned by Dimensions.Validate.
var ErrInvalidDimensions = errors.New("invalid chart dimensions")

// Validate checks that the plot area is non-empty.
func (d Dimensions) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidDimensions, d.Width, d.Height)
	}
	if d.MarginTop < 0 || d.MarginRight < 0 || d.MarginBottom < 0 || d.MarginLeft < 0 {
		return fmt.Errorf("%w: negative margin", ErrInvalidDimensions)
	}
	if d.MarginLeft+d.MarginRight >= d.Width || d.MarginTop+d.MarginBottom >= d.Height {
		return fmt.Errorf("%w: margins leave no plot area", ErrInvalidDimensions)
	}
	return nil
}

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tick is one axis tick.
type Tick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// Axis is a bottom or left axis. Offset is the translation perpendicular to
// the axis; From and To bound the domain line.
type Axis struct {
	Orient string  `json:"orient"`
	Offset float64 `json:"offset"`
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Ticks  []Tick  `json:"ticks"`
}

// Line is the polyline of one series.
type Line struct {
	Key    model.SeriesKey `json:"key"`
	Color  string          `json:"color"`
	Points []Point         `json:"points"`
}

// Tooltip is the hover content of a marker.
type Tooltip struct {
	Lines  []string `json:"lines"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
}

// Marker is one data point.
type Marker struct {
	Key     model.SeriesKey `json:"key"`
	Center  Point           `json:"center"`
	Radius  float64         `json:"radius"`
	Fill    string          `json:"fill"`
	Record  model.Record    `json:"record"`
	Tooltip Tooltip         `json:"tooltip"`
}

// Scene is a complete description of the chart. It carries no behaviour
// and no references back into the view state.
type Scene struct {
	Dimensions Dimensions  `json:"dimensions"`
	Empty      bool        `json:"empty"`
	XScale     TimeScale   `json:"xScale"`
	YScale     LinearScale `json:"yScale"`
	XAxis      Axis        `json:"xAxis"`
	YAxis      Axis        `json:"yAxis"`
	Lines      []Line      `json:"lines"`
	Markers    []Marker    `json:"markers"`
	Groups     []Group     `json:"-"`
}
