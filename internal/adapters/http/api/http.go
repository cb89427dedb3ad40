// Package api exposes the game over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	service "github.com/okian/birdhunt/internal/app"
	"github.com/okian/birdhunt/internal/domain/catalog"
	"github.com/okian/birdhunt/internal/domain/types"
	"github.com/okian/birdhunt/pkg/logger"
)

const (
	defaultMaxLimit      = 100
	defaultRatePerMinute = 30
	defaultRateBurst     = 5
	maxRequestBodyBytes  = 16 << 10
	maxDescriptionLength = 2000
	maxUserOrBirdLength  = 100
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	ConfirmSighting(ctx context.Context, user, bird string) (service.Confirmation, error)
	Suggest(ctx context.Context, description string) []types.Suggestion

	WeeklyLeaderboard(ctx context.Context, limit int) ([]types.Entry, error)
	LifetimeLeaderboard(ctx context.Context, limit int) ([]types.Entry, error)
	MedalHistory(ctx context.Context) ([]types.WeekPodium, error)

	UserStats(ctx context.Context, user string) (types.UserStats, error)
	LifetimeMedals(ctx context.Context, user string) (types.MedalTally, error)
	LifetimeSpecies(ctx context.Context, user string) ([]types.TierCollection, error)

	Catalog() *catalog.Catalog
	GetStats(ctx context.Context) map[string]interface{}
}

// Option configures a Server.
type Option func(*Server)

// WithMaxLimit caps the ?limit of leaderboard queries.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithIdentifyRateLimit sets the per-client budget of POST /identify.
func WithIdentifyRateLimit(perMinute float64, burst int) Option {
	return func(s *Server) {
		s.limiter = NewRateLimiter(perMinute, burst)
	}
}

// WithLive mounts a WebSocket handler at /ws.
func WithLive(h http.Handler) Option {
	return func(s *Server) {
		s.live = h
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the game API.
type Server struct {
	deps     Dependencies
	maxLimit int
	limiter  *RateLimiter
	live     http.Handler
	logger   logger.Logger
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:     deps,
		maxLimit: defaultMaxLimit,
		limiter:  NewRateLimiter(defaultRatePerMinute, defaultRateBurst),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns a chi router with every route registered. Extra routes such
// as API docs can be attached to it by the caller.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.With(MetricsMiddleware("healthz")).Get("/healthz", HandleHealth)
	r.With(MetricsMiddleware("stats")).Get("/stats", s.handleStats)
	r.With(MetricsMiddleware("catalog")).Get("/catalog", s.handleCatalog)
	r.With(MetricsMiddleware("identify"), s.limiter.Middleware("identify")).Post("/identify", s.handleIdentify)
	r.With(MetricsMiddleware("sightings")).Post("/sightings", s.handleConfirm)

	r.Route("/leaderboard", func(r chi.Router) {
		r.With(MetricsMiddleware("leaderboard_weekly")).Get("/weekly", s.handleLeaderboard(s.deps.WeeklyLeaderboard))
		r.With(MetricsMiddleware("leaderboard_lifetime")).Get("/lifetime", s.handleLeaderboard(s.deps.LifetimeLeaderboard))
	})
	r.With(MetricsMiddleware("medal_history")).Get("/medals/history", s.handleMedalHistory)

	r.Route("/users/{user}", func(r chi.Router) {
		r.With(MetricsMiddleware("user_stats")).Get("/stats", s.handleUserStats)
		r.With(MetricsMiddleware("user_medals")).Get("/medals", s.handleUserMedals)
		r.With(MetricsMiddleware("user_species")).Get("/species", s.handleUserSpecies)
	})

	if s.live != nil {
		r.Get("/ws", s.live.ServeHTTP)
	}
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil && status < http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service errors onto status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, service.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}
	s.logger.Error(r.Context(), "request failed",
		logger.String("op", op),
		logger.String("request_id", middleware.GetReqID(r.Context())),
		logger.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal_error", wrap(op, nil, err))
}

// parseLimit reads ?limit, defaulting to maxLimit.
func (s *Server) parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return s.maxLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	if n > s.maxLimit {
		return 0, errors.New("limit exceeds maximum of " + strconv.Itoa(s.maxLimit))
	}
	return n, nil
}
