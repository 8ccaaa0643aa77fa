// Package http exposes the sign service over a huma REST API and serves the
// recorded, fingerspelled and composed clips as static files.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ekisa-team/signbridge/internal/observe"
	"github.com/ekisa-team/signbridge/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Mount serves the media files of a directory under a URL prefix.
type Mount struct {
	Prefix string
	Dir    string

	// Extensions lists the servable file extensions. Empty means .mp4 and .webm.
	Extensions []string
}

// Config holds the HTTP server settings.
type Config struct {
	Port    int
	Version string

	// Mounts are served read-only. Empty prefixes or directories are skipped.
	Mounts []Mount

	// EvictMaxAge is used when a DELETE /v1/sequences request has no max_age.
	EvictMaxAge time.Duration
}

// Server is the REST front end.
type Server struct {
	cfg     Config
	api     huma.API
	handler http.Handler
}

// NewServer registers every route on a fresh mux.
func NewServer(cfg Config, svc *service.Signs, metrics *observe.Metrics, ready func() bool) *Server {
	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("Signbridge API", cfg.Version))

	NewSignsHandler(api, svc)
	NewLibraryHandler(api, svc)
	NewSequencesHandler(api, svc, cfg.EvictMaxAge)
	NewHealthHandler(api, cfg.Version, ready)

	mux.Handle("GET /metrics", promhttp.Handler())
	for _, m := range cfg.Mounts {
		if m.Prefix == "" || m.Dir == "" {
			continue
		}
		prefix := "/" + strings.Trim(m.Prefix, "/") + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, mediaOnly(m)))
	}

	var h http.Handler = mux
	if metrics != nil {
		h = observe.Middleware(metrics)(mux)
	}

	return &Server{cfg: cfg, api: api, handler: h}
}

// mediaOnly serves clip files and hides everything else in the directory:
// listings, dotfiles, the index cache and lock files.
func mediaOnly(m Mount) http.Handler {
	exts := m.Extensions
	if len(exts) == 0 {
		exts = []string{".mp4", ".webm"}
	}
	files := http.FileServer(http.Dir(m.Dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Base(r.URL.Path)
		if strings.HasPrefix(name, ".") || !slices.Contains(exts, strings.ToLower(path.Ext(name))) {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// API returns the underlying huma API, mainly for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(s.cfg.Port)),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	slog.Info("HTTP server shutting down")
	return srv.Shutdown(shutdownCtx)
}
