// Package postgres
package postgres

import (
	"context"
	"fmt"
	"time"

	"casetrack/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func InitDB(ctx context.Context, databaseURL string, log logger.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("postgres: connected")
	return pool, nil
}
