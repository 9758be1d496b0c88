package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pgperffarm/farmplot/internal/chart"
	"github.com/pgperffarm/farmplot/internal/core/model"
	"github.com/pgperffarm/farmplot/internal/presentation/export"
	"github.com/pgperffarm/farmplot/internal/presentation/web"
	"github.com/pgperffarm/farmplot/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const formatHTML = "html"

var (
	renderCount  int
	renderSeries []string
	renderFormat string
	renderOut    string
	renderWidth  int
	renderHeight int
	renderMargin int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the chart to a file",
	Long: `Renders the chart once and writes it as SVG, PNG, scene JSON or a
standalone HTML page with the interactive chart.

Without --series every series is drawn. Without --out the chart is written
to stdout.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().IntVarP(&renderCount, "count", "n", model.DefaultTrailingCount,
		"Most recent points per series")
	renderCmd.Flags().StringArrayVarP(&renderSeries, "series", "s", nil,
		`Series to draw, as "plant - branch" (repeatable)`)
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", string(export.FormatSVG),
		"Output format (svg, png, json, html)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "",
		"Output file (default: stdout)")
	renderCmd.Flags().IntVar(&renderWidth, "width", model.DefaultWidth,
		"Chart width in pixels")
	renderCmd.Flags().IntVar(&renderHeight, "height", model.DefaultHeight,
		"Chart height in pixels")
	renderCmd.Flags().IntVar(&renderMargin, "margin", model.DefaultMargin,
		"Margin on every side in pixels")
}

func runRender(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(renderFormat)
	var exportFormat export.Format
	if format != formatHTML {
		f, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		exportFormat = f
	}

	dims := chart.Dimensions{
		Width:        renderWidth,
		Height:       renderHeight,
		MarginTop:    renderMargin,
		MarginRight:  renderMargin,
		MarginBottom: renderMargin,
		MarginLeft:   renderMargin,
	}
	if err := dims.Validate(); err != nil {
		return err
	}

	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}

	view := model.NewViewState(ds.Keys)
	if err := view.SetTrailingCount(renderCount); err != nil {
		return err
	}
	if cmd.Flags().Changed("series") {
		selected := make([]model.SeriesKey, 0, len(renderSeries))
		for _, s := range renderSeries {
			key := model.SeriesKey(strings.TrimSpace(s))
			selected = append(selected, key)
		}
		view.SetActive(selected)
		for _, key := range selected {
			if !view.IsActive(key) {
				util.LogWarn("Unknown series ignored", util.F("series", string(key)))
			}
		}
	}

	out, closeOut, err := openOutput(cmd, exportFormat == export.FormatPNG)
	if err != nil {
		return err
	}
	defer closeOut()

	c := chart.New(ds, chartOptions())
	if format == formatHTML {
		pages, err := web.NewRenderer()
		if err != nil {
			return err
		}
		return pages.Page(out, web.BuildPage(c, ds, web.EncodeView(view), dims))
	}

	scene := c.Render(view, dims)
	if scene.Empty {
		util.LogWarn("Nothing to draw", util.F("series", len(view.ActiveKeys())))
	}
	return export.Write(out, scene, exportFormat)
}

// openOutput opens --out, or stdout when it is empty. Binary output is
// refused on a terminal.
func openOutput(cmd *cobra.Command, binary bool) (io.Writer, func(), error) {
	if renderOut == "" || renderOut == "-" {
		if binary && isTerminal(os.Stdout) && cmd.OutOrStdout() == os.Stdout {
			return nil, nil, fmt.Errorf("refusing to write PNG to a terminal, use --out")
		}
		return cmd.OutOrStdout(), func() {}, nil
	}

	path := expandPath(renderOut)
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	util.LogInfo("Writing chart", util.F("path", path), util.F("format", renderFormat))
	return f, func() {
		if err := f.Close(); err != nil {
			util.LogError("Failed to close output", util.F("path", path), util.F("error", err))
		}
	}, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
