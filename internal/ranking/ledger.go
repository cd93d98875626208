// Package ranking maintains the cumulative leaderboards. Every finished
// game feeds four overlapping dimensions; positions within a partition
// are recomputed after each accumulation.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Dimension is one of the four leaderboard categories.
type Dimension string

const (
	Global            Dimension = "global"
	Difficulty        Dimension = "difficulty"
	Monthly           Dimension = "monthly"
	MonthlyDifficulty Dimension = "monthly-difficulty"
)

// Partition identifies one independently ranked set of entries. An empty
// Period or Region means the partition is not scoped by that key; the
// store persists the empty string rather than NULL so exact-match lookups
// and unique constraints behave the same for scoped and unscoped keys.
type Partition struct {
	Dimension Dimension
	Period    string // "YYYY-MM" for the monthly dimensions
	Region    string // difficulty label for the difficulty dimensions
}

// Entry is one user's row within a partition.
type Entry struct {
	ID              int64
	UserID          string
	Score           int
	Position        int
	CalculationDate time.Time
}

// Store is the persistence the ledger runs on. AccumulateScore must be
// atomic at the store level: insert the entry with the given score, or
// add the score to the existing entry, in a single statement.
type Store interface {
	AccumulateScore(ctx context.Context, userID string, part Partition, score int, now time.Time) error
	PartitionEntries(ctx context.Context, part Partition) ([]Entry, error)
	UpdatePosition(ctx context.Context, id int64, position int) error
}

// Ledger owns all writes to the ranking partitions.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// MonthOf formats t as the "YYYY-MM" period key.
func MonthOf(t time.Time) string {
	return t.Format("2006-01")
}

// PartitionsFor lists the four partitions a submission touches.
func PartitionsFor(difficulty string, now time.Time) []Partition {
	month := MonthOf(now)
	return []Partition{
		{Dimension: Global},
		{Dimension: Difficulty, Region: difficulty},
		{Dimension: Monthly, Period: month},
		{Dimension: MonthlyDifficulty, Period: month, Region: difficulty},
	}
}

// RecordSubmission folds a finished game's score into all four
// dimensions and recomputes positions for each touched partition. A
// failure in one partition does not stop the others; the joined error
// reports everything that went wrong. Game persistence must not depend
// on this succeeding — the caller decides to log and move on.
func (l *Ledger) RecordSubmission(ctx context.Context, userID string, score int, difficulty string, now time.Time) error {
	var errs []error
	for _, part := range PartitionsFor(difficulty, now) {
		if err := l.store.AccumulateScore(ctx, userID, part, score, now); err != nil {
			errs = append(errs, fmt.Errorf("accumulate %s: %w", part.Dimension, err))
			continue
		}
		if err := l.rerank(ctx, part); err != nil {
			errs = append(errs, fmt.Errorf("rerank %s: %w", part.Dimension, err))
		}
	}
	return errors.Join(errs...)
}

// rerank rewrites every entry's position to its 1-based rank. Entries
// already at their rank are skipped.
func (l *Ledger) rerank(ctx context.Context, part Partition) error {
	entries, err := l.store.PartitionEntries(ctx, part)
	if err != nil {
		return err
	}
	SortByRank(entries)
	for i, e := range entries {
		if e.Position == i+1 {
			continue
		}
		if err := l.store.UpdatePosition(ctx, e.ID, i+1); err != nil {
			return err
		}
	}
	return nil
}

// SortByRank orders entries best first: higher score wins, ties go to
// the entry that reached its score earlier, then user id so the order
// is deterministic.
func SortByRank(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if !entries[i].CalculationDate.Equal(entries[j].CalculationDate) {
			return entries[i].CalculationDate.Before(entries[j].CalculationDate)
		}
		return entries[i].UserID < entries[j].UserID
	})
}
