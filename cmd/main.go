package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/birdhunt/internal/adapters/cache"
	"github.com/okian/birdhunt/internal/adapters/http/api"
	"github.com/okian/birdhunt/internal/adapters/http/swagger"
	"github.com/okian/birdhunt/internal/adapters/live"
	"github.com/okian/birdhunt/internal/adapters/mq/publisher"
	"github.com/okian/birdhunt/internal/adapters/mq/worker"
	"github.com/okian/birdhunt/internal/adapters/repository"
	service "github.com/okian/birdhunt/internal/app"
	"github.com/okian/birdhunt/internal/config"
	"github.com/okian/birdhunt/internal/domain/catalog"
	"github.com/okian/birdhunt/internal/domain/classifier"
	"github.com/okian/birdhunt/internal/domain/types"
	"github.com/okian/birdhunt/internal/domain/weekclock"
	"github.com/okian/birdhunt/pkg/logger"
	"github.com/okian/birdhunt/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 15 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFile(cfg.LogFile)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server exited", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run assembles the service from cfg and serves HTTP until ctx is done.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	cat, err := newCatalog(cfg, log)
	if err != nil {
		return err
	}
	clock, err := newClock(cfg)
	if err != nil {
		return err
	}

	store, err := repository.Open(ctx, cfg, repository.WithLogger(log.Named("store")))
	if err != nil {
		return fmt.Errorf("opening record store: %w", err)
	}

	views, err := newViewCache(ctx, cfg, log)
	if err != nil {
		_ = store.Close()
		return err
	}

	suggester, err := newSuggester(cfg, cat, log)
	if err != nil {
		_ = store.Close()
		_ = views.Close()
		return err
	}

	var notifiers []worker.Notifier
	var kafka *publisher.KafkaPublisher
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafka, err = publisher.New(brokers, publisher.WithTopic(cfg.KafkaTopic), publisher.WithLogger(log.Named("kafka")))
		if err != nil {
			_ = store.Close()
			_ = views.Close()
			return fmt.Errorf("connecting to kafka: %w", err)
		}
		defer func() {
			if err := kafka.Close(); err != nil {
				log.Warn(ctx, "closing kafka producer", logger.Error(err))
			}
		}()
		notifiers = append(notifiers, kafka)
	}

	var hub *live.Hub
	if cfg.LiveUpdates {
		hub = live.NewHub(live.WithLogger(log.Named("live")))
		go hub.Run(ctx)
		notifiers = append(notifiers, hub)
	}

	svc, err := service.New(store,
		service.WithLogger(log.Named("service")),
		service.WithCatalog(cat),
		service.WithClock(clock),
		service.WithSuggester(suggester),
		service.WithViewCache(views),
		service.WithQueueSize(cfg.EventQueueSize),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithNotifiers(notifiers...),
	)
	if err != nil {
		_ = store.Close()
		_ = views.Close()
		return err
	}
	if hub != nil {
		hub.SetSource(func(ctx context.Context) ([]types.Entry, error) {
			return svc.WeeklyLeaderboard(ctx, 0)
		})
	}

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("starting service: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := svc.Stop(stopCtx); err != nil {
			log.Error(ctx, "service shutdown failed", logger.Error(err))
		}
	}()

	go metrics.CollectSystem(ctx, systemMetricsInterval)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(cfg, svc, hub, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("store", cfg.StoreDriver), logger.String("view_cache", cfg.ViewCache))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newRouter mounts the API and its documentation on one chi router.
func newRouter(cfg *config.Config, svc *service.Service, hub *live.Hub, log logger.Logger) http.Handler {
	opts := []api.Option{
		api.WithMaxLimit(cfg.MaxLeaderboardLimit),
		api.WithIdentifyRateLimit(float64(cfg.IdentifyRatePerMinute), cfg.IdentifyBurst),
		api.WithLogger(log.Named("http")),
	}
	if hub != nil {
		opts = append(opts, api.WithLive(hub))
	}
	router := api.NewServer(svc, opts...).Router()
	swagger.Register(router)
	return router
}

func newCatalog(cfg *config.Config, log logger.Logger) (*catalog.Catalog, error) {
	cat, err := catalog.Default(
		catalog.WithPointOverrides(cfg.SpeciesPoints),
		catalog.WithLogger(log.Named("catalog")),
	)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	return cat, nil
}

func newClock(cfg *config.Config) (*weekclock.Clock, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return weekclock.New(weekclock.WithLocation(loc)), nil
}

// newViewCache selects the leaderboard view cache backend.
func newViewCache(ctx context.Context, cfg *config.Config, log logger.Logger) (cache.Views, error) {
	switch cfg.ViewCache {
	case config.CacheMemory:
		return cache.NewMemory(cfg.ViewCacheSize)
	case config.CacheRedis:
		return cache.NewRedis(ctx, cfg.RedisAddr, cache.WithRedisLogger(log.Named("views")))
	default:
		return cache.Nop{}, nil
	}
}

// newSuggester uses the OpenAI classifier when a key is configured and the
// offline keyword matcher otherwise.
func newSuggester(cfg *config.Config, cat *catalog.Catalog, log logger.Logger) (*classifier.Suggester, error) {
	var cl classifier.Classifier
	if cfg.OpenAIAPIKey != "" {
		cl = classifier.NewOpenAI(cfg.OpenAIAPIKey, cat.Names(),
			classifier.WithBaseURL(cfg.OpenAIBaseURL),
			classifier.WithModel(cfg.OpenAIModel),
		)
	} else {
		log.Info(context.Background(), "no openai_api_key; using keyword classifier")
		cl = classifier.NewKeyword(cat)
	}
	return classifier.NewSuggester(cl, cat,
		classifier.WithTimeout(cfg.ClassifierTimeout()),
		classifier.WithRetries(cfg.ClassifierRetries),
		classifier.WithCacheSize(cfg.ClassifierCacheSize),
		classifier.WithSuggesterLogger(log.Named("classifier")),
	)
}
