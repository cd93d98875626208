package ranking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// memStore is an in-memory Store for exercising the ledger without a
// database.
type memStore struct {
	nextID         int64
	entries        map[Partition][]*Entry
	failAccumulate bool
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[Partition][]*Entry)}
}

func (m *memStore) AccumulateScore(_ context.Context, userID string, part Partition, score int, now time.Time) error {
	if m.failAccumulate {
		return errors.New("store down")
	}
	for _, e := range m.entries[part] {
		if e.UserID == userID {
			e.Score += score
			e.CalculationDate = now
			return nil
		}
	}
	m.nextID++
	m.entries[part] = append(m.entries[part], &Entry{
		ID:              m.nextID,
		UserID:          userID,
		Score:           score,
		Position:        1,
		CalculationDate: now,
	})
	return nil
}

func (m *memStore) PartitionEntries(_ context.Context, part Partition) ([]Entry, error) {
	out := make([]Entry, 0, len(m.entries[part]))
	for _, e := range m.entries[part] {
		out = append(out, *e)
	}
	return out, nil
}

func (m *memStore) UpdatePosition(_ context.Context, id int64, position int) error {
	for _, entries := range m.entries {
		for _, e := range entries {
			if e.ID == id {
				e.Position = position
				return nil
			}
		}
	}
	return errors.New("entry not found")
}

func (m *memStore) partition(part Partition) []*Entry {
	return m.entries[part]
}

func TestRecordSubmissionTouchesFourPartitions(t *testing.T) {
	store := newMemStore()
	ledger := NewLedger(store)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	if err := ledger.RecordSubmission(context.Background(), "u1", 7, "easy", now); err != nil {
		t.Fatalf("RecordSubmission() error = %v", err)
	}

	if len(store.entries) != 4 {
		t.Fatalf("touched %d partitions, want 4", len(store.entries))
	}
	for _, part := range PartitionsFor("easy", now) {
		entries := store.partition(part)
		if len(entries) != 1 {
			t.Fatalf("partition %+v has %d entries, want 1", part, len(entries))
		}
		e := entries[0]
		if e.Score != 7 || e.Position != 1 {
			t.Errorf("partition %+v entry = score %d position %d, want 7/1", part, e.Score, e.Position)
		}
	}

	monthly := store.partition(Partition{Dimension: Monthly, Period: "2026-03"})
	if len(monthly) != 1 {
		t.Error("monthly partition not keyed by YYYY-MM")
	}
}

func TestTwoUsersGlobalOrdering(t *testing.T) {
	store := newMemStore()
	ledger := NewLedger(store)
	ctx := context.Background()
	now := time.Now()

	if err := ledger.RecordSubmission(ctx, "alice", 100, "easy", now); err != nil {
		t.Fatalf("RecordSubmission() error = %v", err)
	}
	if err := ledger.RecordSubmission(ctx, "bob", 150, "easy", now.Add(time.Minute)); err != nil {
		t.Fatalf("RecordSubmission() error = %v", err)
	}

	entries, _ := store.PartitionEntries(ctx, Partition{Dimension: Global})
	if len(entries) != 2 {
		t.Fatalf("global partition has %d entries, want 2", len(entries))
	}
	SortByRank(entries)
	if entries[0].UserID != "bob" || entries[0].Score != 150 || entries[0].Position != 1 {
		t.Errorf("position 1 = %+v, want bob/150/1", entries[0])
	}
	if entries[1].UserID != "alice" || entries[1].Score != 100 || entries[1].Position != 2 {
		t.Errorf("position 2 = %+v, want alice/100/2", entries[1])
	}
}

func TestAccumulation(t *testing.T) {
	store := newMemStore()
	ledger := NewLedger(store)
	ctx := context.Background()
	now := time.Now()

	if err := ledger.RecordSubmission(ctx, "u1", 100, "medium", now); err != nil {
		t.Fatalf("RecordSubmission() error = %v", err)
	}
	if err := ledger.RecordSubmission(ctx, "u1", 50, "medium", now.Add(time.Hour)); err != nil {
		t.Fatalf("RecordSubmission() error = %v", err)
	}

	entries := store.partition(Partition{Dimension: Global})
	if len(entries) != 1 {
		t.Fatalf("global partition has %d entries, want 1", len(entries))
	}
	if entries[0].Score != 150 {
		t.Errorf("accumulated score = %d, want 150", entries[0].Score)
	}
}

func TestPartitionInvariant(t *testing.T) {
	store := newMemStore()
	ledger := NewLedger(store)
	ctx := context.Background()
	base := time.Now()

	submissions := []struct {
		user       string
		score      int
		difficulty string
	}{
		{"u1", 5, "easy"},
		{"u2", 9, "easy"},
		{"u3", 3, "hard"},
		{"u1", 8, "hard"},
		{"u2", 1, "easy"},
		{"u4", 9, "medium"},
		{"u3", 6, "easy"},
	}
	for i, s := range submissions {
		if err := ledger.RecordSubmission(ctx, s.user, s.score, s.difficulty, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("RecordSubmission(%d) error = %v", i, err)
		}
	}

	for part, entries := range store.entries {
		seen := make(map[int]bool)
		byPosition := make([]*Entry, len(entries))
		for _, e := range entries {
			if e.Position < 1 || e.Position > len(entries) {
				t.Fatalf("partition %+v: position %d out of range 1..%d", part, e.Position, len(entries))
			}
			if seen[e.Position] {
				t.Fatalf("partition %+v: duplicate position %d", part, e.Position)
			}
			seen[e.Position] = true
			byPosition[e.Position-1] = e
		}
		for i := 1; i < len(byPosition); i++ {
			if byPosition[i-1].Score < byPosition[i].Score {
				t.Errorf("partition %+v: position %d score %d < position %d score %d",
					part, i, byPosition[i-1].Score, i+1, byPosition[i].Score)
			}
		}
	}
}

func TestTieBreakEarlierDateWins(t *testing.T) {
	store := newMemStore()
	ledger := NewLedger(store)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if err := ledger.RecordSubmission(ctx, "early", 100, "easy", base); err != nil {
		t.Fatalf("RecordSubmission() error = %v", err)
	}
	if err := ledger.RecordSubmission(ctx, "late", 100, "easy", base.Add(time.Hour)); err != nil {
		t.Fatalf("RecordSubmission() error = %v", err)
	}

	for _, e := range store.partition(Partition{Dimension: Global}) {
		switch e.UserID {
		case "early":
			if e.Position != 1 {
				t.Errorf("early user position = %d, want 1", e.Position)
			}
		case "late":
			if e.Position != 2 {
				t.Errorf("late user position = %d, want 2", e.Position)
			}
		}
	}
}

func TestRecordSubmissionReportsStoreFailures(t *testing.T) {
	store := newMemStore()
	store.failAccumulate = true
	ledger := NewLedger(store)

	err := ledger.RecordSubmission(context.Background(), "u1", 5, "easy", time.Now())
	if err == nil {
		t.Fatal("RecordSubmission() = nil, want error")
	}
	if !strings.Contains(err.Error(), "accumulate") {
		t.Errorf("error %q does not name the failing step", err)
	}
}

func TestMonthOf(t *testing.T) {
	got := MonthOf(time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC))
	if got != "2026-01" {
		t.Errorf("MonthOf = %q, want 2026-01", got)
	}
}
