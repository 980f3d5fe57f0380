// Package httpapi wires the reward service's HTTP surface: claim
// verification routes, snapshot triggers, health and metrics.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dozer-finance/reward-service/internal/httputil"
	"github.com/dozer-finance/reward-service/internal/logging"
	"github.com/dozer-finance/reward-service/internal/metrics"
	"github.com/dozer-finance/reward-service/internal/middleware"
	"github.com/dozer-finance/reward-service/internal/quests"
	"github.com/dozer-finance/reward-service/internal/snapshots"
)

// Config carries the collaborators a Server needs.
type Config struct {
	Quests    *quests.Service
	Snapshots *snapshots.Service
	// APIKey guards the claim family, CronKey the snapshot family.
	APIKey  string
	CronKey string

	Logger  *logging.Logger
	Metrics *metrics.Metrics

	// RateLimit is requests per second per caller; zero disables limiting.
	RateLimit      int
	RateBurst      int
	AllowedOrigins []string
}

// Server owns the router and the per-family middleware chains.
type Server struct {
	quests    *quests.Service
	snapshots *snapshots.Service
	claimGate *middleware.Gate
	cronGate  *middleware.Gate
	logger    *logging.Logger
	metrics   *metrics.Metrics
	limiter   *middleware.RateLimiter
	cors      *middleware.CORSMiddleware
	startedAt time.Time
}

// NewServer constructs the HTTP server wiring.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewDefault("httpapi")
	}

	s := &Server{
		quests:    cfg.Quests,
		snapshots: cfg.Snapshots,
		claimGate: middleware.NewGate(cfg.APIKey, logger),
		cronGate:  middleware.NewGate(cfg.CronKey, logger),
		logger:    logger,
		metrics:   cfg.Metrics,
		startedAt: time.Now(),
	}

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = cfg.RateLimit
		}
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, burst, logger)
		s.limiter.StartCleanup(10 * time.Minute)
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.cors = middleware.NewCORSMiddleware(origins)

	return s
}

// Router builds the route tree. The authorization gate is the first
// family-specific middleware on both subrouters, ahead of anything that
// could touch the store or the backend.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	tracing := middleware.NewTracingMiddleware(s.logger)
	r.Use(tracing.Handler)
	if s.metrics != nil {
		r.Use(middleware.MetricsMiddleware(s.metrics))
	}
	r.Use(s.cors.Handler)

	claims := r.PathPrefix("/rewards/claim").Subrouter()
	claims.Use(httputil.NewRecoverer(s.logger).Handler)
	claims.Use(s.claimGate.RequireClaimKey)
	if s.limiter != nil {
		claims.Use(s.limiter.Handler)
	}
	claims.HandleFunc("/{quest}", s.handleClaim).Methods(http.MethodPost, http.MethodOptions)
	claims.HandleFunc("/{quest}/{param}", s.handleClaim).Methods(http.MethodPost, http.MethodOptions)

	snaps := r.PathPrefix("/snapshots").Subrouter()
	snaps.Use(httputil.NewPlainRecoverer(s.logger).Handler)
	snaps.Use(s.cronGate.RequireCronKey)
	snaps.HandleFunc("/daily", s.handleDailySnapshot).Methods(http.MethodGet)
	snaps.HandleFunc("/hourly", s.handleHourlySnapshot).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	return r
}
