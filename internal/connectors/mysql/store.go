// Package mysql reads calibration data written by the workflow engine:
// chips, calibration executions and their tasks, and per-qubit parameter
// values. The service only ever reads from this database.
package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"qdash/internal/config"
)

// Store wraps MySQL access for calibration browsing queries.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// NewStore creates a MySQL-backed store.
func NewStore(cfg config.Config) (*Store, error) {
	db, err := sql.Open("mysql", cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBConnTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, queryTimeout: cfg.DBQueryTimeout}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// ServiceStats is a cheap health probe used by the status endpoint.
func (s *Store) ServiceStats(ctx context.Context) (map[string]any, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	var chips, executions int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chips`).Scan(&chips); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM executions`).Scan(&executions); err != nil {
		return nil, err
	}

	return map[string]any{
		"chips":      chips,
		"executions": executions,
	}, nil
}
