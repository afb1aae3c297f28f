package planstore

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mosswood-robotics/gridnav/internal/planner"
)

// schema.sql defines the plan_runs table and its indexes.
//
//go:embed schema.sql
var schemaSQL string

// Store persists plan runs. It satisfies planner.RunRecorder.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the plan history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open plan store: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply plan store schema: %w", err)
	}
	log.Printf("[PlanStore] initialized plan history database at %s", path)
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// RecordRun persists one plan run. An empty RunID is filled with a fresh
// UUID; a zero timestamp is filled with the current time.
func (s *Store) RecordRun(run *planner.PlanRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedUnixNanos == 0 {
		run.CreatedUnixNanos = time.Now().UnixNano()
	}

	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO plan_runs (
				run_id, created_at, start_x, start_y, goal_x, goal_y,
				outcome, expanded_nodes, path_points, path_length_m,
				min_clearance_m, duration_ns
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.CreatedUnixNanos, run.StartX, run.StartY,
			run.GoalX, run.GoalY, run.Outcome, run.ExpandedNodes,
			run.PathPoints, run.PathLengthM, run.MinClearanceM,
			run.DurationNanos,
		)
		return err
	})
}

// ListRecent returns the most recent runs, newest first.
func (s *Store) ListRecent(limit int) ([]*planner.PlanRun, error) {
	rows, err := s.db.Query(`
		SELECT run_id, created_at, start_x, start_y, goal_x, goal_y,
		       outcome, expanded_nodes, path_points, path_length_m,
		       min_clearance_m, duration_ns
		FROM plan_runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query plan runs: %w", err)
	}
	defer rows.Close()

	var runs []*planner.PlanRun
	for rows.Next() {
		var r planner.PlanRun
		if err := rows.Scan(
			&r.RunID, &r.CreatedUnixNanos, &r.StartX, &r.StartY,
			&r.GoalX, &r.GoalY, &r.Outcome, &r.ExpandedNodes,
			&r.PathPoints, &r.PathLengthM, &r.MinClearanceM,
			&r.DurationNanos,
		); err != nil {
			return nil, fmt.Errorf("scan plan run: %w", err)
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// CountByOutcome returns run counts keyed by outcome.
func (s *Store) CountByOutcome() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT outcome, COUNT(*) FROM plan_runs GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("count plan runs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}

// retryOnBusy retries a write a few times when SQLite reports the database
// is locked by a concurrent writer.
func retryOnBusy(fn func() error) error {
	const attempts = 5
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !isBusy(err) {
			return err
		}
		time.Sleep(time.Duration(i+1) * 10 * time.Millisecond)
	}
	return err
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
