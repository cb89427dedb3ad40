// Package service wires the record store, the domain engines and the
// notification pipeline into the operations the HTTP API and CLI expose.
//
// Every read is a replay of the record log; the view cache only saves work.
// The check-then-append of ConfirmSighting is serialised per process.
package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/birdhunt/internal/adapters/cache"
	"github.com/okian/birdhunt/internal/adapters/mq/queue"
	"github.com/okian/birdhunt/internal/adapters/mq/worker"
	"github.com/okian/birdhunt/internal/adapters/repository"
	"github.com/okian/birdhunt/internal/domain/catalog"
	"github.com/okian/birdhunt/internal/domain/classifier"
	"github.com/okian/birdhunt/internal/domain/collection"
	"github.com/okian/birdhunt/internal/domain/dedupe"
	"github.com/okian/birdhunt/internal/domain/medals"
	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/internal/domain/scoring"
	"github.com/okian/birdhunt/internal/domain/types"
	"github.com/okian/birdhunt/internal/domain/weekclock"
	"github.com/okian/birdhunt/pkg/logger"
	"github.com/okian/birdhunt/pkg/metrics"
)

const defaultQueueSize = 1024

// View names used in cache keys.
const (
	viewWeekly        = "weekly"
	viewLifetime      = "lifetime"
	viewWeeklyTotals  = "weekly_totals"
	viewLifetimeTotal = "lifetime_totals"
	viewMedals        = "medals"
	viewHistory       = "medal_history"
	viewSpecies       = "species"
	viewSpeciesWeek   = "species_week"
	viewUserStats     = "user_stats"
)

// Confirmation is the outcome of ConfirmSighting.
type Confirmation struct {
	Accepted    bool          `json:"accepted"`
	User        string        `json:"user"`
	Bird        string        `json:"bird"`
	Points      int           `json:"points"`
	Week        model.WeekKey `json:"week"`
	Message     string        `json:"message"`
	Celebration string        `json:"celebration,omitempty"`
}

// Service implements the game operations.
type Service struct {
	// rw serialises appends against view computation so a view computed
	// from an older log is never cached after an invalidation.
	rw sync.RWMutex

	store     repository.Store
	catalog   *catalog.Catalog
	clock     *weekclock.Clock
	guard     *dedupe.Guard
	suggester *classifier.Suggester
	views     cache.Views

	events      *queue.InMemoryQueue
	pool        *worker.Pool
	notifiers   []worker.Notifier
	queueSize   int
	workerCount int

	lifeMu  sync.Mutex
	started bool
	stopped bool

	logger logger.Logger
}

// New constructs a Service over store.
func New(store repository.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	s := &Service{
		store:       store,
		clock:       weekclock.New(),
		views:       cache.Nop{},
		queueSize:   defaultQueueSize,
		workerCount: runtime.NumCPU(),
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		c, err := catalog.Default(catalog.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.catalog = c
	}
	s.guard = dedupe.NewGuard(dedupe.WithClock(s.clock))
	s.events = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.events, s.notifiers, worker.WithLogger(s.logger.Named("notify")))
	return s, nil
}

// Start launches the notification workers. A stopped service cannot be
// restarted.
func (s *Service) Start(ctx context.Context) error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return nil
	}
	s.pool.Start(ctx)
	s.started = true
	s.logger.Info(ctx, "bird hunt service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("notifiers", len(s.notifiers)),
		logger.Int("species", s.catalog.Len()),
	)
	return nil
}

// Stop drains pending notifications and releases the store and cache.
// It is terminal; later calls are no-ops.
func (s *Service) Stop(ctx context.Context) error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true

	var firstErr error
	if err := s.pool.Shutdown(ctx); err != nil {
		firstErr = err
	}
	if err := s.views.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	s.started = false
	s.logger.Info(ctx, "bird hunt service stopped")
	return firstErr
}

// Catalog returns the species catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Clock returns the shared week clock.
func (s *Service) Clock() *weekclock.Clock { return s.clock }

// Suggest proposes up to three catalog species for a description. It never
// fails; an unavailable classifier yields no suggestions.
func (s *Service) Suggest(ctx context.Context, description string) []types.Suggestion {
	if s.suggester == nil || strings.TrimSpace(description) == "" {
		return nil
	}
	return s.suggester.Suggest(ctx, description)
}

// ConfirmSighting records that user saw bird this week. A repeat within the
// same week is acknowledged without touching the store.
func (s *Service) ConfirmSighting(ctx context.Context, user, bird string) (Confirmation, error) {
	user = model.NormalizeUser(user)
	bird = strings.TrimSpace(bird)
	if user == "" || bird == "" {
		return Confirmation{}, fmt.Errorf("%w: user and bird are required", ErrInvalidInput)
	}
	if sp, ok := s.catalog.Lookup(bird); ok {
		bird = sp.Name
	}

	s.rw.Lock()
	defer s.rw.Unlock()

	entries, err := s.store.LoadAll(ctx)
	if err != nil {
		return Confirmation{}, fmt.Errorf("loading records: %w", err)
	}

	now := s.clock.Now()
	week := s.clock.KeyFor(now)
	if s.guard.AlreadyLogged(entries, user, bird, week) {
		metrics.RecordSightingDuplicate()
		s.logger.Debug(ctx, "duplicate sighting",
			logger.String("user", user),
			logger.String("bird", bird),
			logger.String("week", week.String()),
		)
		return Confirmation{
			User:    user,
			Bird:    bird,
			Week:    week,
			Message: scoring.AlreadyFound(bird),
		}, nil
	}

	points := s.catalog.PointsFor(ctx, bird)
	entry := model.Sighting{
		User:      user,
		Bird:      bird,
		Points:    points,
		Week:      week.Week,
		Year:      week.Year,
		Timestamp: s.clock.Stamp(now),
	}
	if err := s.store.Append(ctx, entry); err != nil {
		return Confirmation{}, fmt.Errorf("appending sighting: %w", err)
	}
	s.views.Invalidate(ctx)

	metrics.RecordSightingAccepted(points)
	metrics.UpdateRecordsTotal(len(entries) + 1)
	s.logger.Info(ctx, "sighting accepted",
		logger.String("user", user),
		logger.String("bird", bird),
		logger.Int("points", points),
		logger.String("week", week.String()),
	)

	s.notify(ctx, model.SightingEvent{
		ID:     uuid.NewString(),
		User:   user,
		Bird:   bird,
		Points: points,
		Week:   week.Week,
		Year:   week.Year,
		At:     now,
	})

	return Confirmation{
		Accepted:    true,
		User:        user,
		Bird:        bird,
		Points:      points,
		Week:        week,
		Message:     scoring.Recorded(bird, points),
		Celebration: scoring.Celebration(points),
	}, nil
}

func (s *Service) notify(ctx context.Context, e model.SightingEvent) { //nolint:gocritic // hugeParam
	if len(s.notifiers) == 0 {
		return
	}
	if err := s.events.TryEnqueue(context.WithoutCancel(ctx), e); err != nil {
		s.logger.Warn(ctx, "sighting notification dropped",
			logger.String("event_id", e.ID),
			logger.Error(err),
		)
	}
}

// cached serves key from the view cache or computes it from the log. The
// generation is taken before the log is read and travels with the result.
func cached[T any](ctx context.Context, s *Service, key cache.Key, compute func([]model.Sighting) T) (T, error) {
	var out T
	gen, hit := s.views.Get(ctx, key, &out)
	if hit {
		return out, nil
	}

	s.rw.RLock()
	defer s.rw.RUnlock()

	entries, err := s.store.LoadAll(ctx)
	if err != nil {
		return out, fmt.Errorf("loading records: %w", err)
	}
	metrics.UpdateRecordsTotal(len(entries))
	out = compute(entries)
	s.views.Put(ctx, gen, key, out)
	return out, nil
}

func (s *Service) key(view, user string) cache.Key {
	return cache.Key{View: view, Week: s.clock.Current(), User: model.NormalizeUser(user)}
}

// WeeklyLeaderboard ranks the current week; limit <= 0 returns everyone.
func (s *Service) WeeklyLeaderboard(ctx context.Context, limit int) ([]types.Entry, error) {
	week := s.clock.Current()
	ranked, err := cached(ctx, s, s.key(viewWeekly, ""), func(entries []model.Sighting) []types.Entry {
		return scoring.Weekly(entries, s.clock, week).Ranked()
	})
	if err != nil {
		return nil, err
	}
	return scoring.Top(ranked, limit), nil
}

// LifetimeLeaderboard ranks all-time points; limit <= 0 returns everyone.
func (s *Service) LifetimeLeaderboard(ctx context.Context, limit int) ([]types.Entry, error) {
	ranked, err := cached(ctx, s, s.key(viewLifetime, ""), func(entries []model.Sighting) []types.Entry {
		return scoring.Lifetime(entries).Ranked()
	})
	if err != nil {
		return nil, err
	}
	return scoring.Top(ranked, limit), nil
}

// WeeklyTotals returns points per user for the current week.
func (s *Service) WeeklyTotals(ctx context.Context) (map[string]int, error) {
	return cached(ctx, s, s.key(viewWeeklyTotals, ""), func(entries []model.Sighting) map[string]int {
		return scoring.WeeklyTotals(entries, s.clock)
	})
}

// LifetimeTotals returns points per user over the whole log.
func (s *Service) LifetimeTotals(ctx context.Context) (map[string]int, error) {
	return cached(ctx, s, s.key(viewLifetimeTotal, ""), scoring.LifetimeTotals)
}

// LifetimeMedals tallies user's podium finishes over closed weeks.
func (s *Service) LifetimeMedals(ctx context.Context, user string) (types.MedalTally, error) {
	return cached(ctx, s, s.key(viewMedals, user), func(entries []model.Sighting) types.MedalTally {
		return medals.LifetimeMedals(entries, s.clock, user)
	})
}

// MedalHistory lists the podium of every closed week, oldest first.
func (s *Service) MedalHistory(ctx context.Context) ([]types.WeekPodium, error) {
	return cached(ctx, s, s.key(viewHistory, ""), func(entries []model.Sighting) []types.WeekPodium {
		return medals.History(entries, s.clock)
	})
}

// LifetimeSpecies returns user's distinct species grouped by tier.
func (s *Service) LifetimeSpecies(ctx context.Context, user string) ([]types.TierCollection, error) {
	return cached(ctx, s, s.key(viewSpecies, user), func(entries []model.Sighting) []types.TierCollection {
		return collection.LifetimeSpeciesByTier(entries, user).View()
	})
}

// SpeciesThisWeek counts the distinct birds user logged this week.
func (s *Service) SpeciesThisWeek(ctx context.Context, user string) (int, error) {
	return cached(ctx, s, s.key(viewSpeciesWeek, user), func(entries []model.Sighting) int {
		return collection.SpeciesThisWeek(entries, s.clock, user)
	})
}

// UserStats summarises one player in a single log replay.
func (s *Service) UserStats(ctx context.Context, user string) (types.UserStats, error) {
	if model.NormalizeUser(user) == "" {
		return types.UserStats{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	return cached(ctx, s, s.key(viewUserStats, user), func(entries []model.Sighting) types.UserStats {
		u := model.NormalizeUser(user)
		weekly := scoring.Weekly(entries, s.clock, s.clock.Current())
		lifetime := scoring.Lifetime(entries)
		coll := collection.LifetimeSpeciesByTier(entries, u)
		return types.UserStats{
			User:            u,
			WeeklyPoints:    weekly.Points(u),
			WeeklyRank:      weekly.RankOf(u),
			LifetimePoints:  lifetime.Points(u),
			LifetimeRank:    lifetime.RankOf(u),
			SpeciesThisWeek: collection.SpeciesThisWeek(entries, s.clock, u),
			SpeciesTotal:    coll.Total(),
			Medals:          medals.LifetimeMedals(entries, s.clock, u),
			Collection:      coll.View(),
		}
	})
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.lifeMu.Lock()
	started := s.started
	s.lifeMu.Unlock()

	stats := map[string]interface{}{
		"started":        started,
		"workers":        s.pool.Size(),
		"queue_capacity": s.events.Cap(),
		"queue_length":   s.events.Len(),
		"notifiers":      len(s.notifiers),
		"species":        s.catalog.Len(),
		"current_week":   s.clock.Current().String(),
	}

	s.rw.RLock()
	entries, err := s.store.LoadAll(ctx)
	s.rw.RUnlock()
	if err != nil {
		stats["store_error"] = err.Error()
		return stats
	}
	stats["records"] = len(entries)
	stats["players"] = scoring.Lifetime(entries).Len()
	metrics.UpdateRecordsTotal(len(entries))
	return stats
}
