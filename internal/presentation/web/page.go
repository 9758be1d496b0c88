package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/pgperffarm/farmplot/internal/chart"
	"github.com/pgperffarm/farmplot/internal/core/model"
)

// Title is the page heading.
const Title = "PostgreSQL Performance Farm"

// DefaultChartID is the element id of the chart container.
const DefaultChartID = "farmplot-chart"

// Export endpoints offered below the chart
const (
	ExportSVGPath  = "/chart.svg"
	ExportPNGPath  = "/chart.png"
	ExportJSONPath = "/chart.json"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"coord":     coord,
	"pathData":  pathData,
	"join":      func(lines []string) string { return strings.Join(lines, "\n") },
	"lineWidth": func() string { return coord(chart.LineWidth) },
	"tickSize":  func() string { return coord(chart.TickSize) },
}

// Renderer executes the page and chart templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("web").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// ChartData is the input of the chart fragment.
type ChartData struct {
	ID    string
	Scene *chart.Scene
}

// SeriesOption is one checkbox of the series filter.
type SeriesOption struct {
	Key    model.SeriesKey
	Color  string
	Active bool
}

// ExportLinks point at the static renditions of the current view.
type ExportLinks struct {
	SVG, PNG, JSON template.URL
}

// PageData is the input of the index page.
type PageData struct {
	Title      string
	Ready      bool
	Loading    bool
	LoadError  string
	Warnings   []string
	Applied    int
	CountInput string
	Series     []SeriesOption
	Scene      *chart.Scene
	Chart      ChartData
	Exports    ExportLinks

	// NoneSelected is set when series exist but every one is unchecked.
	NoneSelected bool
}

// BuildPage assembles the page for the current dataset and submitted
// query. A nil chart yields a page in the not-ready state.
func BuildPage(c *chart.Chart, ds *model.Dataset, query url.Values, dims chart.Dimensions) PageData {
	data := PageData{Title: Title}
	if c == nil || ds == nil {
		return data
	}

	view, warning := DecodeView(query, ds.Keys)
	if warning != nil {
		data.Warnings = append(data.Warnings, warningText(warning))
	}
	if len(ds.Skipped) > 0 {
		data.Warnings = append(data.Warnings, skippedText(ds.Skipped))
	}

	data.Ready = true
	data.Applied = view.TrailingCount()
	data.CountInput = strconv.Itoa(view.TrailingCount())
	if warning != nil {
		data.CountInput = query.Get(ParamCount)
	}
	for _, k := range view.AllKeys() {
		data.Series = append(data.Series, SeriesOption{
			Key:    k,
			Color:  c.Palette().Color(k),
			Active: view.IsActive(k),
		})
	}

	data.NoneSelected = len(data.Series) > 0 && len(view.ActiveKeys()) == 0
	data.Scene = c.Render(view, dims)
	data.Chart = ChartData{ID: DefaultChartID, Scene: data.Scene}

	q := EncodeView(view).Encode()
	data.Exports = ExportLinks{
		SVG:  template.URL(ExportSVGPath + "?" + q),
		PNG:  template.URL(ExportPNGPath + "?" + q),
		JSON: template.URL(ExportJSONPath + "?" + q),
	}
	return data
}

// Page writes the full index page.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.tmpl.ExecuteTemplate(w, "index", data)
}

// Chart writes the interactive chart fragment on its own.
func (r *Renderer) Chart(w io.Writer, data ChartData) error {
	if data.ID == "" {
		data.ID = DefaultChartID
	}
	return r.tmpl.ExecuteTemplate(w, "chart", data)
}

func warningText(err error) string {
	if errors.Is(err, model.ErrInvalidTrailingCount) {
		return "Please enter a valid positive number."
	}
	return err.Error()
}

func skippedText(skipped []model.RowIssue) string {
	first := skipped[0]
	if len(skipped) == 1 {
		return fmt.Sprintf("Skipped 1 malformed row (line %d: %s).", first.Line, first.Reason)
	}
	return fmt.Sprintf("Skipped %d malformed rows (first at line %d: %s).", len(skipped), first.Line, first.Reason)
}

// coord prints a pixel value with at most two decimals.
func coord(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func pathData(points []chart.Point) string {
	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(coord(p.X))
		b.WriteByte(',')
		b.WriteString(coord(p.Y))
	}
	return b.String()
}
