package simulate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/okian/birdhunt/pkg/logger"
)

const healthRetries = 5

// ErrNoBirds is returned when neither the config nor the server catalog
// provides any species.
var ErrNoBirds = errors.New("simulate: no species to submit")

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// Runner executes simulations against one server.
type Runner struct {
	cfg    Config
	log    logger.Logger
	client *httpClient
}

// New validates cfg and returns a Runner.
func New(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	r := &Runner{cfg: cfg, log: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	r.client = newHTTPClient(cfg.BaseURL, cfg.Timeout)
	return r, nil
}

// Run submits the configured sightings and verifies the weekly totals.
// A week rollover during the run shows up as mismatches.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	stats := Stats{StartTime: time.Now()}

	r.log.Info(ctx, "starting simulation",
		logger.String("base_url", r.cfg.BaseURL),
		logger.Int("players", r.cfg.Players),
		logger.Int("sightings", r.cfg.Sightings),
		logger.Int("workers", r.cfg.Workers))

	if err := r.checkHealth(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	birds := r.cfg.Birds
	if len(birds) == 0 {
		var err error
		if birds, err = r.client.fetchBirds(ctx); err != nil {
			return nil, fmt.Errorf("fetching catalog: %w", err)
		}
	}
	if len(birds) == 0 {
		return nil, ErrNoBirds
	}

	players := playerNames(&r.cfg)
	before, err := snapshot(ctx, r.client, players)
	if err != nil {
		return nil, err
	}

	sightings := generateSightings(&r.cfg, players, birds)
	stats.Generated = len(sightings)
	awarded := submitSightings(ctx, r.client, r.cfg.Workers, sightings, &stats, r.log)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	after, err := snapshot(ctx, r.client, players)
	if err != nil {
		return nil, err
	}
	board, err := r.client.weeklyLeaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching leaderboard: %w", err)
	}

	report := &Report{Sorted: leaderboardSorted(board)}
	report.Players, report.Mismatches = compare(players, before, after, awarded)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	report.Stats = stats

	fields := []logger.Field{
		logger.Int("accepted", stats.Accepted),
		logger.Int("points", stats.Points),
		logger.Int("mismatches", len(report.Mismatches)),
		logger.Bool("sorted", report.Sorted),
		logger.String("duration", stats.Duration.String()),
	}
	if report.OK() {
		r.log.Info(ctx, "simulation verified", fields...)
	} else {
		r.log.Warn(ctx, "simulation found inconsistencies", fields...)
	}
	return report, nil
}

// checkHealth waits for /healthz with exponential backoff.
func (r *Runner) checkHealth(ctx context.Context) error {
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), healthRetries), ctx)
	return backoff.Retry(func() error {
		err := r.client.getJSON(ctx, "/healthz", nil)
		if err != nil {
			r.log.Debug(ctx, "service not ready", logger.Error(err))
		}
		return err
	}, b)
}
