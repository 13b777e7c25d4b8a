package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"pingprobe/internal/database"
)

// TickReporter exposes when the probe loop last completed a tick
type TickReporter interface {
	LastTick() time.Time
}

// Server handles status requests
type Server struct {
	db       *database.DB // nil when the archive is disabled
	gatherer prometheus.Gatherer
	ticks    TickReporter
	maxAge   time.Duration
	log      logrus.FieldLogger
	srv      *http.Server
}

// New creates a new status server. db may be nil, in which case the
// archive endpoints answer 404.
func New(addr string, db *database.DB, gatherer prometheus.Gatherer, ticks TickReporter, maxAge time.Duration, log logrus.FieldLogger) *Server {
	s := &Server{
		db:       db,
		gatherer: gatherer,
		ticks:    ticks,
		maxAge:   maxAge,
		log:      log,
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Archive endpoints
	mux.HandleFunc("/api/recent", s.handleRecent)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/errors", s.handleErrors)

	return mux
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.log.WithField("addr", s.srv.Addr).Info("status server listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
