package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pgperffarm/farmplot/internal/application/state"
	"github.com/pgperffarm/farmplot/internal/core/cache"
	"github.com/pgperffarm/farmplot/internal/presentation/export"
	"github.com/pgperffarm/farmplot/internal/presentation/formatter"
	"github.com/pgperffarm/farmplot/internal/presentation/web"
	"github.com/pgperffarm/farmplot/internal/util"
)

// SeriesPath serves the per-series summary as JSON.
const SeriesPath = "/series.json"

// Server serves the chart page, its static renditions and the asset
// directory.
type Server struct {
	config Config
	store  *state.Store
	pages  *web.Renderer
	router chi.Router
	cache  *cache.MemoryCache
}

// New creates a server reading datasets from store.
func New(cfg Config, store *state.Store) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pages, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{config: cfg, store: store, pages: pages, cache: cache.NewMemoryCache(cfg.CacheEntries)}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.handleIndex)
	r.Get(web.ExportSVGPath, s.handleExport(export.FormatSVG))
	r.Get(web.ExportPNGPath, s.handleExport(export.FormatPNG))
	r.Get(web.ExportJSONPath, s.handleExport(export.FormatJSON))
	r.Get(SeriesPath, s.handleSeries)
	r.Handle("/*", staticFiles(http.Dir(s.config.Dir)))
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()
	util.LogInfo(fmt.Sprintf("Listening on %d", s.config.Port), util.F("addr", ln.Addr().String()), util.F("dir", s.config.Dir))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		util.LogInfo("Shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	data := web.BuildPage(snap.Chart, snap.Dataset, r.URL.Query(), s.config.Dimensions)
	data.Loading = snap.Loading
	if snap.Err != nil {
		data.LoadError = snap.Err.Error()
	}

	var buf bytes.Buffer
	if err := s.pages.Page(&buf, data); err != nil {
		util.LogError("Failed to render page", util.F("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleExport(format export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.store.Snapshot()
		if !snap.Ready() {
			http.Error(w, "data not loaded yet", http.StatusServiceUnavailable)
			return
		}

		view, warning := web.DecodeView(r.URL.Query(), snap.Dataset.Keys)
		if warning != nil {
			http.Error(w, warning.Error(), http.StatusBadRequest)
			return
		}

		key := fmt.Sprintf("%d|%s|%s", snap.Version, format, web.EncodeView(view).Encode())
		entry, ok := s.cache.Get(key)
		if !ok {
			var buf bytes.Buffer
			scene := snap.Chart.Render(view, s.config.Dimensions)
			if err := export.Write(&buf, scene, format); err != nil {
				util.LogError("Failed to export chart", util.F("format", string(format)), util.F("error", err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			entry = &cache.Entry{Data: buf.Bytes(), ContentType: format.ContentType()}
			s.cache.Set(key, entry)
		}

		w.Header().Set("Content-Type", entry.ContentType)
		_, _ = w.Write(entry.Data)
	}
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if !snap.Ready() {
		http.Error(w, "data not loaded yet", http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	summaries := formatter.Summarize(snap.Dataset, snap.Chart.Palette())
	if err := formatter.NewJSONFormatter().Format(&buf, summaries); err != nil {
		util.LogError("Failed to encode series", util.F("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = buf.WriteTo(w)
}
