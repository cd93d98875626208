package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/geoquest-app/geoquest/internal/ranking"
)

// RankingRow is a leaderboard entry as served to clients, with the
// display name resolved. Period and Region are nil for unscoped keys.
type RankingRow struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	UserName        string    `json:"user_name"`
	RankingType     string    `json:"ranking_type"`
	Position        int       `json:"position"`
	Score           int       `json:"score"`
	Period          *string   `json:"period"`
	Region          *string   `json:"region"`
	CalculationDate time.Time `json:"calculation_date"`
}

// AccumulateScore adds score to the user's entry in the partition,
// inserting it at placeholder position 1 if absent. A single statement,
// so concurrent submissions cannot lose increments.
func (db *DB) AccumulateScore(ctx context.Context, userID string, part ranking.Partition, score int, now time.Time) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO ranking (user_id, ranking_type, score, period, region, position, calculation_date)
         VALUES ($1, $2, $3, $4, $5, 1, $6)
         ON CONFLICT (user_id, ranking_type, period, region)
         DO UPDATE SET score = ranking.score + EXCLUDED.score,
                       calculation_date = EXCLUDED.calculation_date`,
		userID, string(part.Dimension), score, part.Period, part.Region, now,
	)
	return err
}

// PartitionEntries returns every entry in the partition, unordered.
func (db *DB) PartitionEntries(ctx context.Context, part ranking.Partition) ([]ranking.Entry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, score, position, calculation_date
         FROM ranking
         WHERE ranking_type = $1 AND period = $2 AND region = $3`,
		string(part.Dimension), part.Period, part.Region,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ranking.Entry
	for rows.Next() {
		var e ranking.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Score, &e.Position, &e.CalculationDate); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdatePosition rewrites one entry's rank.
func (db *DB) UpdatePosition(ctx context.Context, id int64, position int) error {
	_, err := db.pool.Exec(ctx,
		"UPDATE ranking SET position = $2 WHERE id = $1",
		id, position,
	)
	return err
}

// LatestGlobalPosition returns the user's most recently calculated
// global rank, or nil if they have no global entry yet.
func (db *DB) LatestGlobalPosition(ctx context.Context, userID string) (*int, error) {
	var position int
	err := db.pool.QueryRow(ctx,
		`SELECT position FROM ranking
         WHERE user_id = $1 AND ranking_type = $2
         ORDER BY calculation_date DESC
         LIMIT 1`,
		userID, string(ranking.Global),
	).Scan(&position)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &position, nil
}

// ListRanking returns a page of entries ordered by position, display
// names joined in. Empty filter values apply no filter. Entries whose
// user row is missing fall back to a truncated user id as the name.
func (db *DB) ListRanking(ctx context.Context, rankingType, period, region string, limit, offset int) ([]RankingRow, error) {
	query := `
		SELECT r.id, r.user_id, COALESCE(u.username, LEFT(r.user_id, 8)),
		       r.ranking_type, r.position, r.score, r.period, r.region, r.calculation_date
		FROM ranking r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE 1=1`
	var args []interface{}

	if rankingType != "" {
		args = append(args, rankingType)
		query += fmt.Sprintf(" AND r.ranking_type = $%d", len(args))
	}
	if period != "" {
		args = append(args, period)
		query += fmt.Sprintf(" AND r.period = $%d", len(args))
	}
	if region != "" {
		args = append(args, region)
		query += fmt.Sprintf(" AND r.region = $%d", len(args))
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY r.position ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []RankingRow
	for rows.Next() {
		var row RankingRow
		var rowPeriod, rowRegion string
		if err := rows.Scan(&row.ID, &row.UserID, &row.UserName, &row.RankingType,
			&row.Position, &row.Score, &rowPeriod, &rowRegion, &row.CalculationDate); err != nil {
			return nil, err
		}
		if rowPeriod != "" {
			row.Period = &rowPeriod
		}
		if rowRegion != "" {
			row.Region = &rowRegion
		}
		entries = append(entries, row)
	}
	return entries, rows.Err()
}
