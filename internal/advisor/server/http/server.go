package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/service"
	"github.com/upgradepilot-io/upgradepilot/internal/advisor/refresh"
	"github.com/upgradepilot-io/upgradepilot/internal/pkg/metrics"
	"github.com/upgradepilot-io/upgradepilot/pkg/log"
	"github.com/upgradepilot-io/upgradepilot/pkg/options"
)

// Server serves the advisor's read-only API plus health and metrics.
type Server struct {
	server  *http.Server
	options *options.HttpOptions
}

// NewServer builds the router and the underlying http.Server.
func NewServer(opts *options.HttpOptions, svc *service.Service, refresher *refresh.Refresher) *Server {
	h := &handlers{service: svc}

	router := mux.NewRouter()

	// Basic Liveness Probe
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Readiness: the advisor is ready once it serves a bundle.
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if refresher != nil && !refresher.Ready() {
			http.Error(w, "no recommendation bundle yet", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/recommendations", instrument("recommendations", h.getRecommendations)).Methods(http.MethodGet)
	api.HandleFunc("/components", instrument("components", h.getComponents)).Methods(http.MethodGet)
	api.HandleFunc("/paths", instrument("paths", h.getPaths)).Methods(http.MethodGet)
	api.HandleFunc("/paths/{id}", instrument("path", h.getPath)).Methods(http.MethodGet)
	api.HandleFunc("/windows", instrument("windows", h.getWindows)).Methods(http.MethodGet)

	return &Server{
		server: &http.Server{
			Addr:         opts.Addr,
			Handler:      router,
			ReadTimeout:  opts.Timeout,
			WriteTimeout: opts.Timeout,
		},
		options: opts,
	}
}

// instrument records request latency per handler.
func instrument(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		metrics.RequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	log.Info("Starting HTTP Server", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
