package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/pkg/logger"
)

var pgMigrations = []string{ //nolint:gochecknoglobals // schema
	`CREATE TABLE IF NOT EXISTS sightings (
		id BIGSERIAL PRIMARY KEY,
		user_name TEXT NOT NULL,
		bird TEXT NOT NULL,
		points INT NOT NULL,
		week INT NOT NULL,
		year INT NOT NULL DEFAULT 0,
		ts TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sightings_user_name ON sightings (user_name)`,
}

// PostgresStore keeps the log in PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	cfg  settings
}

// NewPostgresStore connects to dsn and creates the schema if needed.
func NewPostgresStore(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	s := &PostgresStore{pool: pool, cfg: cfg}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	for _, m := range pgMigrations {
		if _, err := s.pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}
	s.cfg.log.Debug(ctx, "postgres schema ready")
	return nil
}

// LoadAll implements Store.
func (s *PostgresStore) LoadAll(ctx context.Context) ([]model.Sighting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_name, bird, points, week, year, ts FROM sightings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer rows.Close()

	out := []model.Sighting{}
	for rows.Next() {
		var e model.Sighting
		if err := rows.Scan(&e.User, &e.Bird, &e.Points, &e.Week, &e.Year, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err)
	}
	return out, nil
}

// Append implements Store.
func (s *PostgresStore) Append(ctx context.Context, e model.Sighting) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sightings (user_name, bird, points, week, year, ts) VALUES ($1, $2, $3, $4, $5, $6)`,
		e.User, e.Bird, e.Points, e.Week, e.Year, e.Timestamp)
	if err != nil {
		s.cfg.log.Error(ctx, "insert sighting failed", logger.Error(err))
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
