package telemetry

import (
	"context"
	"database/sql"
)

// schema contains the DDL for the frame log.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		target_fps  INTEGER NOT NULL,
		capped      INTEGER NOT NULL,
		started_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS frames (
		run_id       TEXT NOT NULL,
		run          INTEGER NOT NULL,
		frame        INTEGER NOT NULL,
		total_frames INTEGER NOT NULL,
		actual_fps   INTEGER NOT NULL,
		average_fps  INTEGER NOT NULL,
		target_fps   INTEGER NOT NULL,
		actual_ns    INTEGER NOT NULL,
		target_ns    INTEGER NOT NULL,
		excess_ns    INTEGER NOT NULL,
		total_ns     INTEGER NOT NULL,
		PRIMARY KEY (run_id, total_frames)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_frames_run ON frames(run_id, run)`,
}

// migrate executes all schema DDL statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
