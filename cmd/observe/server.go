package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/observe/internal/errors"
)

// newMetricsRegistry returns a registry with the Go runtime collectors.
func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// newMetricsRouter serves GET /metrics and GET /healthz.
func newMetricsRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return r
}

// metricsServer runs the metrics router until its context is done.
type metricsServer struct {
	srv    *http.Server
	ln     net.Listener
	logger *slog.Logger
}

// listenMetrics binds addr. Binding happens before Serve so that a taken port
// is reported before the REPL starts.
func listenMetrics(addr string, handler http.Handler, logger *slog.Logger) (*metricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.New("E303").
			WithDetail("Could not listen on " + addr + ".").
			WithSuggestion("Pick another address with --metrics-addr").
			Wrap(err)
	}
	return &metricsServer{
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln:     ln,
		logger: logger,
	}, nil
}

// Addr returns the bound address.
func (m *metricsServer) Addr() string {
	return m.ln.Addr().String()
}

// Serve blocks until ctx is done, then shuts the server down.
func (m *metricsServer) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.srv.Serve(m.ln)
	}()

	m.logger.Info("metrics server started", "addr", m.Addr())

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New("E303").Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.srv.Shutdown(shutdownCtx); err != nil {
		m.logger.Warn("metrics server shutdown", "error", err)
		return err
	}
	m.logger.Info("metrics server stopped")
	return nil
}
