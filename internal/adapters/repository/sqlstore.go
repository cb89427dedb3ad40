package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/birdhunt/internal/domain/model"
)

// sightingRow is the relational shape of a sighting.
type sightingRow struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserName  string `gorm:"column:user_name;not null;index"`
	Bird      string `gorm:"not null"`
	Points    int    `gorm:"not null"`
	Week      int    `gorm:"not null"`
	Year      int    `gorm:"not null;default:0"`
	Timestamp string `gorm:"column:ts;not null"`
	CreatedAt time.Time
}

func (sightingRow) TableName() string { return "sightings" }

func rowFrom(s model.Sighting) sightingRow {
	return sightingRow{
		UserName:  s.User,
		Bird:      s.Bird,
		Points:    s.Points,
		Week:      s.Week,
		Year:      s.Year,
		Timestamp: s.Timestamp,
	}
}

func (r sightingRow) sighting() model.Sighting {
	return model.Sighting{
		User:      r.UserName,
		Bird:      r.Bird,
		Points:    r.Points,
		Week:      r.Week,
		Year:      r.Year,
		Timestamp: r.Timestamp,
	}
}

// SQLiteStore keeps the log in a SQLite table through gorm. Insertion order
// is the autoincrement id.
type SQLiteStore struct {
	db  *gorm.DB
	cfg settings
}

// NewSQLiteStore opens dsn and migrates the sightings table.
func NewSQLiteStore(ctx context.Context, dsn string, opts ...Option) (*SQLiteStore, error) {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	if err := db.WithContext(ctx).AutoMigrate(&sightingRow{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db, cfg: cfg}, nil
}

// LoadAll implements Store.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]model.Sighting, error) {
	var rows []sightingRow
	if err := s.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, readError(err)
	}
	out := make([]model.Sighting, len(rows))
	for i, r := range rows {
		out[i] = r.sighting()
	}
	return out, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, in model.Sighting) error {
	row := rowFrom(in)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
