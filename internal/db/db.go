package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

func (db *DB) Close() {
	db.pool.Close()
}

// RunMigrations creates the schema if it does not exist yet.
//
// The ranking table stores '' (not NULL) for an unscoped period or
// region, so the unique constraint arbitrates the accumulate upsert and
// partition lookups are plain equality.
func (db *DB) RunMigrations(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			provider_id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS games (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			session_identifier TEXT NOT NULL UNIQUE,
			game_mode_name TEXT NOT NULL,
			difficulty_level TEXT NOT NULL,
			total_score INT NOT NULL,
			total_error_distance DOUBLE PRECISION NOT NULL,
			total_attempts INT NOT NULL,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS game_history (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			game_id BIGINT NOT NULL REFERENCES games(id),
			game_date TIMESTAMPTZ NOT NULL,
			final_score INT NOT NULL,
			game_mode_name TEXT NOT NULL,
			difficulty_level TEXT NOT NULL,
			total_time_seconds INT NOT NULL,
			detailed_statistics JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_game_history_user ON game_history(user_id, game_date DESC);
		CREATE TABLE IF NOT EXISTS ranking (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			ranking_type TEXT NOT NULL,
			score INT NOT NULL,
			period TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT '',
			position INT NOT NULL,
			calculation_date TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, ranking_type, period, region)
		);
		CREATE INDEX IF NOT EXISTS idx_ranking_partition ON ranking(ranking_type, period, region);
	`)
	return err
}
