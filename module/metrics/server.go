package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	metricsEndpoint = "/metrics"
	healthEndpoint  = "/health"
)

// Server is the http server that will be serving the /metrics request for prometheus
type Server struct {
	server          *http.Server
	log             zerolog.Logger
	shutdownTimeout time.Duration
}

// NewServer creates a new server that will start on the specified port,
// and responds to the `/metrics` and `/health` endpoints.
// Metrics are read from gatherer, which is usually the registry the slot pool collectors were registered with.
func NewServer(log zerolog.Logger, port uint, gatherer prometheus.Gatherer, shutdownTimeout time.Duration) *Server {
	addr := ":" + strconv.Itoa(int(port))

	router := mux.NewRouter()
	router.Handle(metricsEndpoint, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc(healthEndpoint, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	m := &Server{
		server:          &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 5 * time.Second},
		log:             log.With().Str("component", "metrics_server").Logger(),
		shutdownTimeout: shutdownTimeout,
	}

	return m
}

// Handler returns the router of the server.
func (m *Server) Handler() http.Handler {
	return m.server.Handler
}

// Serve accepts connections on the listener until Shutdown is called.
func (m *Server) Serve(listener net.Listener) error {
	m.log.Info().Str("address", listener.Addr().String()).Str("endpoint", metricsEndpoint).Msg("metrics server started")
	err := m.server.Serve(listener)
	// http.ErrServerClosed is returned when Close or Shutdown is called
	// we don't consider this an error, so print this with debug level instead
	if errors.Is(err, http.ErrServerClosed) {
		m.log.Debug().Err(err).Msg("metrics server shutdown")
		return nil
	}
	m.log.Err(err).Msg("error shutting down metrics server")
	return err
}

// ListenAndServe listens on the configured port and serves until Shutdown is called.
func (m *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		return err
	}
	return m.Serve(listener)
}

// Shutdown gracefully stops the server, waiting at most the configured shutdown timeout.
func (m *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
	defer cancel()
	return m.server.Shutdown(ctx)
}
