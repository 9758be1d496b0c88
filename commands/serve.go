package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pgperffarm/farmplot/internal/application/state"
	"github.com/pgperffarm/farmplot/internal/data/loader"
	"github.com/pgperffarm/farmplot/internal/data/watcher"
	"github.com/pgperffarm/farmplot/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort  int
	serveDir   string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive chart and static assets",
	Long: `Serves the chart page on / and every other path from the asset directory.

The dataset is loaded once at startup. With --watch a local CSV is reloaded
whenever it changes; a failed reload keeps the previous data on screen.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", server.DefaultPort,
		"Port to listen on")
	serveCmd.Flags().StringVar(&serveDir, "dir", defaultDataDir,
		"Static asset directory")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false,
		"Reload the data file when it changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := expandPath(serveDir)
	source := resolveSource(dir)

	store := state.NewStore(chartOptions())
	reloader := state.NewReloader(store, loader.NewLoader(), source)

	var changes <-chan struct{}
	if serveWatch && !loader.IsRemote(source) {
		fw, err := watcher.NewFileWatcher(source, watcher.DefaultDebounce)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", source, err)
		}
		defer fw.Close()
		changes = fw.Changes()
	}

	srv, err := server.New(server.Config{Port: servePort, Dir: dir}, store)
	if err != nil {
		return err
	}

	reloadDone := make(chan struct{})
	go func() {
		defer close(reloadDone)
		_ = reloader.Run(ctx, changes)
	}()

	err = srv.Run(ctx)
	stop()
	<-reloadDone
	return err
}
