package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pgperffarm/farmplot/internal/chart"
	"github.com/pgperffarm/farmplot/internal/core/model"
	"github.com/pgperffarm/farmplot/internal/data/loader"
	"github.com/pgperffarm/farmplot/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug     bool
	logFile   string
	logFormat string

	// Data source
	dataPath string
	timezone string

	rootCmd = &cobra.Command{
		Use:   "farmplot",
		Short: "PostgreSQL Performance Farm metric charts",
		Long: `farmplot plots performance metrics from a space-separated CSV file
(columns: plant branch ctime metric) as one line per plant and branch.

Examples:
  farmplot serve                                   # Serve dist/ and the chart on :3000
  farmplot serve --port 8080 --watch               # Reload when the CSV changes
  farmplot render --format png --out chart.png     # Write a static chart
  farmplot render --count 5 --series "animal - HEAD"
  farmplot series --output csv                     # Summarise the series`,
		SilenceUsage:      true,
		PersistentPreRunE: initRuntime,
	}
)

const (
	defaultDataFile = "sample.csv"
	defaultDataDir  = "dist"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "",
		"CSV file path or http(s) URL (default: <dir>/sample.csv)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for axis labels and tooltips (e.g., UTC, Europe/Berlin)")

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Also write logs to this file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", string(util.FormatText),
		"Log format (text, json)")
}

func initRuntime(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	format := util.LogFormat(strings.ToLower(logFormat))
	if format != util.FormatText && format != util.FormatJSON {
		return fmt.Errorf("invalid log format '%s': must be text or json", logFormat)
	}

	path := ""
	if logFile != "" {
		path = expandPath(logFile)
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	if err := util.InitLogger(logLevel, path, true, format); err != nil {
		return err
	}
	return util.InitializeTimeProvider(timezone)
}

func Execute() error {
	return rootCmd.Execute()
}

// resolveSource returns the configured data source, defaulting to the
// sample file inside dir.
func resolveSource(dir string) string {
	source := dataPath
	if source == "" {
		source = filepath.Join(dir, defaultDataFile)
	}
	if loader.IsRemote(source) {
		return source
	}
	return expandPath(source)
}

// loadDataset loads the configured source once.
func loadDataset(ctx context.Context) (*model.Dataset, error) {
	source := resolveSource(defaultDataDir)
	ds, err := loader.NewLoader().Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", source, err)
	}
	return ds, nil
}

func chartOptions() chart.Options {
	return chart.Options{Location: util.GetTimeProvider().Location()}
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
