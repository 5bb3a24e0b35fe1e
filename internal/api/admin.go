package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/voxrelay/voxrelay/internal/observability"
)

// StatsProvider contributes one named section to the /v1/stats document.
type StatsProvider func() (name string, value interface{})

// AdminServer serves health, metrics, and runtime stats over HTTP.
type AdminServer struct {
	server *http.Server
	logger zerolog.Logger
}

// NewAdminServer builds the admin HTTP server.
func NewAdminServer(port int, health *observability.HealthChecker, metrics *observability.Metrics, providers []StatsProvider, logger zerolog.Logger) *AdminServer {
	log := logger.With().Str("component", "admin-server").Logger()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		h := health.Check(req.Context())
		w.Header().Set("Content-Type", "application/json")
		if h.Status != observability.HealthStatusHealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(h)
	})

	if metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Get("/v1/stats", func(w http.ResponseWriter, req *http.Request) {
		doc := make(map[string]interface{}, len(providers))
		for _, p := range providers {
			name, value := p()
			doc[name] = value
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	})

	return &AdminServer{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: log,
	}
}

// Start serves until Shutdown. Blocks.
func (a *AdminServer) Start() error {
	a.logger.Info().Str("addr", a.server.Addr).Msg("admin server listening")
	return a.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (a *AdminServer) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
