package hub

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seabattle/internal/session"
)

type HTTPConfig struct {
	WSPath      string
	MetricsPath string
	// StaticDir, when set, is served under /static/ with its index.html at /.
	StaticDir string
}

// NewHTTPHandler mounts the WebSocket endpoint, metrics, health and debug
// routes, and the optional static client.
func NewHTTPHandler(cfg HTTPConfig, ws http.Handler, ctrl *session.Controller, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))

	r.Get(cfg.WSPath, ws.ServeHTTP)

	if gatherer != nil && cfg.MetricsPath != "" {
		r.Handle(cfg.MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/debug/state", func(w http.ResponseWriter, req *http.Request) {
		sum, err := ctrl.Summary(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sum)
	})

	if cfg.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.Handle("/static/*", fs)
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, filepath.Join(cfg.StaticDir, "index.html"))
		})
	}
	return r
}
