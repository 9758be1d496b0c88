package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pgperffarm/farmplot/internal/chart"
	"github.com/pgperffarm/farmplot/internal/util"
)

// keyColumn is the index of the column that shrinks to fit the terminal.
const keyColumn = 1

type TableFormatter struct {
	headers  []string
	maxWidth int
	colors   bool
}

// NewTableFormatter creates a table no wider than maxWidth cells. A
// maxWidth of zero disables the limit.
func NewTableFormatter(maxWidth int) *TableFormatter {
	return &TableFormatter{
		headers: []string{
			"", "Series", "Points", "First", "Last", "Min", "Max", "Latest",
		},
		maxWidth: maxWidth,
		colors:   true,
	}
}

// WithoutColors disables the colour swatch column content.
func (f *TableFormatter) WithoutColors() *TableFormatter {
	f.colors = false
	return f
}

func (f *TableFormatter) Format(w io.Writer, data []SeriesSummary) error {
	rows := make([][]string, 0, len(data))
	for _, s := range data {
		rows = append(rows, f.rowValues(s))
	}

	widths := f.calculateColumnWidths(rows)

	var b strings.Builder
	f.printBorder(&b, widths, "top")
	f.printRow(&b, f.headers, widths, nil)
	f.printBorder(&b, widths, "middle")
	for i, row := range rows {
		f.printRow(&b, row, widths, &data[i])
	}
	f.printBorder(&b, widths, "bottom")

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TableFormatter) rowValues(s SeriesSummary) []string {
	tp := util.GetTimeProvider()
	return []string{
		"",
		string(s.Key),
		strconv.Itoa(s.Points),
		tp.FormatUnix(s.FirstTime, chart.TooltipTime),
		tp.FormatUnix(s.LastTime, chart.TooltipTime),
		util.FormatValue(s.Min),
		util.FormatValue(s.Max),
		util.FormatValue(s.Last),
	}
}

// calculateColumnWidths sizes each column to its widest cell, then shrinks
// the series column until the table fits maxWidth.
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	widths[0] = 2 // colour swatch

	for _, row := range rows {
		for i, value := range row {
			widths[i] = max(widths[i], util.GetDisplayWidth(value))
		}
	}

	if f.maxWidth > 0 {
		total := 1
		for _, width := range widths {
			total += width + 3
		}
		if over := total - f.maxWidth; over > 0 {
			widths[keyColumn] = max(widths[keyColumn]-over, util.GetDisplayWidth(f.headers[keyColumn]))
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right, separator string

	switch borderType {
	case "top":
		left, middle, right, separator = "┌", "┬", "┐", "─"
	case "middle":
		left, middle, right, separator = "├", "┼", "┤", "─"
	case "bottom":
		left, middle, right, separator = "└", "┴", "┘", "─"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat(separator, width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteByte('\n')
}

// printRow prints one row. Text columns are left-aligned, numbers right-aligned.
func (f *TableFormatter) printRow(b *strings.Builder, values []string, widths []int, s *SeriesSummary) {
	b.WriteString("│")
	for i, value := range values {
		value = util.Truncate(value, widths[i])
		switch {
		case i == 0:
			swatch := strings.Repeat(" ", widths[i])
			if s != nil && f.colors {
				swatch = util.ColorSwatch(s.Color)
			}
			fmt.Fprintf(b, " %s │", swatch)
		case i <= 1 || i == 3 || i == 4:
			fmt.Fprintf(b, " %s │", util.PadString(value, widths[i], true))
		default:
			fmt.Fprintf(b, " %s │", util.PadString(value, widths[i], false))
		}
	}
	b.WriteByte('\n')
}
