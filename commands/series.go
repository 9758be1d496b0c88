package commands

import (
	"github.com/pgperffarm/farmplot/internal/chart"
	"github.com/pgperffarm/farmplot/internal/presentation/formatter"
	"github.com/spf13/cobra"
)

var seriesOutput string

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "List the series in the data file",
	Long: `Lists every plant and branch in the data file with its chart colour,
point count, time span and value range.`,
	RunE: runSeries,
}

func init() {
	rootCmd.AddCommand(seriesCmd)

	seriesCmd.Flags().StringVarP(&seriesOutput, "output", "o", "table",
		"Output format (table, csv, json)")
}

func runSeries(cmd *cobra.Command, args []string) error {
	f, err := formatter.NewFormatter(seriesOutput)
	if err != nil {
		return err
	}

	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	summaries := formatter.Summarize(ds, chart.NewPalette(ds.Keys))
	return f.Format(cmd.OutOrStdout(), summaries)
}
