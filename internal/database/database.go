package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"plantstore/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service wraps the PostgreSQL connection pool
type Service struct {
	db *sql.DB
}

// Retry policy: up to 5 attempts, exponential backoff starting at 500ms, to
// ride out a database container that is still starting.
const (
	maxAttempts = 5
	baseDelay   = 500 * time.Millisecond
	pingTimeout = 3 * time.Second
)

// New opens and pings a PostgreSQL connection pool using the pgx stdlib driver.
func New(cfg *config.DatabaseConfig) (*Service, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password),
		cfg.Host, cfg.Port, cfg.Database, cfg.Schema,
	)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			lastErr = err
		} else {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(30 * time.Minute)

			ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
			lastErr = db.PingContext(ctx)
			cancel()

			if lastErr == nil {
				return &Service{db: db}, nil
			}
			db.Close()
		}

		time.Sleep(baseDelay * time.Duration(1<<(attempt-1)))
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxAttempts, lastErr)
}

// DB exposes the underlying pool for repositories and migrations.
func (s *Service) DB() *sql.DB {
	return s.db
}

// Health reports connectivity and pool statistics.
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := map[string]string{"status": "up"}
	if err := s.db.PingContext(ctx); err != nil {
		status["status"] = "down"
		status["error"] = err.Error()
		return status
	}

	stats := s.db.Stats()
	status["open_connections"] = strconv.Itoa(stats.OpenConnections)
	status["in_use"] = strconv.Itoa(stats.InUse)
	status["idle"] = strconv.Itoa(stats.Idle)
	return status
}

// Close releases the connection pool.
func (s *Service) Close() error {
	return s.db.Close()
}
