package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/geoquest-app/geoquest/internal/game"
)

// Game is one row of the games table: one submission, never mutated.
type Game struct {
	ID                 int64     `json:"id"`
	UserID             string    `json:"user_id"`
	SessionIdentifier  string    `json:"session_identifier"`
	GameModeName       string    `json:"game_mode_name"`
	DifficultyLevel    string    `json:"difficulty_level"`
	TotalScore         int       `json:"total_score"`
	TotalErrorDistance float64   `json:"total_error_distance"`
	TotalAttempts      int       `json:"total_attempts"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
}

// GameHistory is one row of the game_history table, foreign-keyed to its
// Game, with the detailed statistics blob embedded as JSONB.
type GameHistory struct {
	ID                 int64                   `json:"id"`
	UserID             string                  `json:"user_id"`
	GameID             int64                   `json:"game_id"`
	GameDate           time.Time               `json:"game_date"`
	FinalScore         int                     `json:"final_score"`
	GameModeName       string                  `json:"game_mode_name"`
	DifficultyLevel    string                  `json:"difficulty_level"`
	TotalTimeSeconds   int                     `json:"total_time_seconds"`
	DetailedStatistics game.DetailedStatistics `json:"detailed_statistics"`
}

// InsertGame persists a submission's game row and returns its id.
func (db *DB) InsertGame(ctx context.Context, g Game) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO games (user_id, session_identifier, game_mode_name, difficulty_level,
                            total_score, total_error_distance, total_attempts, start_time, end_time)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id`,
		g.UserID, g.SessionIdentifier, g.GameModeName, g.DifficultyLevel,
		g.TotalScore, g.TotalErrorDistance, g.TotalAttempts, g.StartTime, g.EndTime,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// InsertGameHistory persists the history row for a saved game.
func (db *DB) InsertGameHistory(ctx context.Context, h GameHistory) (int64, error) {
	stats, err := json.Marshal(h.DetailedStatistics)
	if err != nil {
		return 0, fmt.Errorf("failed to encode detailed statistics: %w", err)
	}

	var id int64
	err = db.pool.QueryRow(ctx,
		`INSERT INTO game_history (user_id, game_id, game_date, final_score, game_mode_name,
                                   difficulty_level, total_time_seconds, detailed_statistics)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id`,
		h.UserID, h.GameID, h.GameDate, h.FinalScore, h.GameModeName,
		h.DifficultyLevel, h.TotalTimeSeconds, stats,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// HistoryForUser returns a page of the user's history, newest first.
// An empty or "all" difficulty applies no filter.
func (db *DB) HistoryForUser(ctx context.Context, userID, difficulty string, limit, offset int) ([]GameHistory, error) {
	query := `
		SELECT id, user_id, game_id, game_date, final_score, game_mode_name,
		       difficulty_level, total_time_seconds, detailed_statistics
		FROM game_history
		WHERE user_id = $1`
	args := []interface{}{userID}

	if difficulty != "" && difficulty != "all" {
		query += " AND difficulty_level = $2"
		args = append(args, difficulty)
	}
	query += fmt.Sprintf(" ORDER BY game_date DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return db.queryHistory(ctx, query, args...)
}

// AllHistoryForUser returns the user's full history, newest first.
func (db *DB) AllHistoryForUser(ctx context.Context, userID string) ([]GameHistory, error) {
	return db.queryHistory(ctx, `
		SELECT id, user_id, game_id, game_date, final_score, game_mode_name,
		       difficulty_level, total_time_seconds, detailed_statistics
		FROM game_history
		WHERE user_id = $1
		ORDER BY game_date DESC`, userID)
}

func (db *DB) queryHistory(ctx context.Context, query string, args ...interface{}) ([]GameHistory, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []GameHistory
	for rows.Next() {
		var h GameHistory
		var stats []byte
		if err := rows.Scan(&h.ID, &h.UserID, &h.GameID, &h.GameDate, &h.FinalScore,
			&h.GameModeName, &h.DifficultyLevel, &h.TotalTimeSeconds, &stats); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(stats, &h.DetailedStatistics); err != nil {
			return nil, fmt.Errorf("failed to decode detailed statistics for history %d: %w", h.ID, err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
