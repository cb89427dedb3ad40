package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/birdhunt/internal/config"
	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/pkg/metrics"
)

// Store is the append-only sighting log.
type Store interface {
	// LoadAll returns every entry in insertion order. A store that does not
	// exist yet is empty; unreadable data is ErrCorrupt and an unreachable
	// backend is ErrRead.
	LoadAll(ctx context.Context) ([]model.Sighting, error)
	// Append durably adds one entry. On error nothing was added.
	Append(ctx context.Context, s model.Sighting) error
	// Close releases the backing resource.
	Close() error
}

// Open builds the store selected by cfg.StoreDriver, wrapped with metrics.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.StoreDriver {
	case config.StoreFile:
		s = NewFileStore(cfg.StorePath, opts...)
	case config.StoreSQLite:
		s, err = NewSQLiteStore(ctx, cfg.SQLiteDSN, opts...)
	case config.StorePostgres:
		s, err = NewPostgresStore(ctx, cfg.PostgresDSN, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s), nil
}

// Instrument records latency, failures and log size for s.
func Instrument(s Store) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{next: s}
}

type instrumented struct {
	next Store
}

func (i *instrumented) LoadAll(ctx context.Context) ([]model.Sighting, error) {
	start := time.Now()
	out, err := i.next.LoadAll(ctx)
	metrics.RecordStoreLatency("load", float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStoreError("load")
		return nil, err
	}
	metrics.UpdateRecordsTotal(len(out))
	return out, nil
}

func (i *instrumented) Append(ctx context.Context, s model.Sighting) error {
	start := time.Now()
	err := i.next.Append(ctx, s)
	metrics.RecordStoreLatency("append", float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStoreError("append")
	}
	return err
}

func (i *instrumented) Close() error { return i.next.Close() }
