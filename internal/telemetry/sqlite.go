package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/comalice/fixedloop"
	"github.com/comalice/fixedloop/internal/logging"

	_ "modernc.org/sqlite"
)

// startedAtLayout is fixed width so started_at sorts as text in time order.
const startedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RunRecord describes one recorded Run call.
type RunRecord struct {
	ID        string
	TargetFPS uint32
	Capped    bool
	StartedAt time.Time
}

// SQLiteRecorder persists frame stats to SQLite for offline profiling.
type SQLiteRecorder struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteRecorder opens (or creates) a SQLite database at dbPath.
func NewSQLiteRecorder(dbPath string, logger *slog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// A single connection serializes writers and keeps ":memory:" to one database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteRecorder{
		db:     db,
		logger: logging.Component(logger, "telemetry"),
	}, nil
}

// Close closes the underlying database connection.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

// Migrate creates all required tables and indexes.
func (r *SQLiteRecorder) Migrate(ctx context.Context) error {
	r.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, r.db)
}

// BeginRun registers a Run call before its frames are recorded.
func (r *SQLiteRecorder) BeginRun(ctx context.Context, run RunRecord) error {
	r.logger.Debug("sql", "op", "insert", "table", "runs", "id", run.ID)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, target_fps, capped, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.TargetFPS, run.Capped, run.StartedAt.UTC().Format(startedAtLayout),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Record stores one frame of runID.
func (r *SQLiteRecorder) Record(ctx context.Context, runID string, s fixedloop.FrameStats) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO frames (run_id, run, frame, total_frames, actual_fps, average_fps, target_fps, actual_ns, target_ns, excess_ns, total_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, s.Run, s.Frame, s.TotalFrames, s.ActualFPS, s.AverageFPS, s.TargetFPS,
		int64(s.ActualDur), int64(s.TargetDur), int64(s.ExcessDur), int64(s.TotalDur),
	)
	if err != nil {
		return fmt.Errorf("insert frame %d of %s: %w", s.TotalFrames, runID, err)
	}
	return nil
}

// Drain records published frames until ch is closed or ctx is done.
// Frames are written in batches, one transaction per batch.
func (r *SQLiteRecorder) Drain(ctx context.Context, ch <-chan PublishedFrame) error {
	const maxBatch = 256
	batch := make([]PublishedFrame, 0, maxBatch)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-ch:
			if !ok {
				return r.flush(context.WithoutCancel(ctx), batch)
			}
			batch = append(batch, f)
		drain:
			for len(batch) < maxBatch {
				select {
				case f, ok := <-ch:
					if !ok {
						return r.flush(context.WithoutCancel(ctx), batch)
					}
					batch = append(batch, f)
				default:
					break drain
				}
			}
			if err := r.flush(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
}

func (r *SQLiteRecorder) flush(ctx context.Context, batch []PublishedFrame) error {
	if len(batch) == 0 {
		return nil
	}
	r.logger.Debug("sql", "op", "insert", "table", "frames", "count", len(batch))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO frames (run_id, run, frame, total_frames, actual_fps, average_fps, target_fps, actual_ns, target_ns, excess_ns, total_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range batch {
		s := f.Stats
		if _, err := stmt.ExecContext(ctx, f.RunID, s.Run, s.Frame, s.TotalFrames, s.ActualFPS, s.AverageFPS, s.TargetFPS,
			int64(s.ActualDur), int64(s.TargetDur), int64(s.ExcessDur), int64(s.TotalDur)); err != nil {
			return fmt.Errorf("insert frame %d of %s: %w", s.TotalFrames, f.RunID, err)
		}
	}
	return tx.Commit()
}

// ListFrames returns up to limit frames of runID in order, starting after
// the given total frame number.
func (r *SQLiteRecorder) ListFrames(ctx context.Context, runID string, after uint64, limit int) ([]fixedloop.FrameStats, error) {
	r.logger.Debug("sql", "op", "list", "table", "frames", "run_id", runID, "after", after, "limit", limit)
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT run, frame, total_frames, actual_fps, average_fps, target_fps, actual_ns, target_ns, excess_ns, total_ns
		 FROM frames WHERE run_id = ? AND total_frames > ? ORDER BY total_frames LIMIT ?`,
		runID, after, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []fixedloop.FrameStats
	for rows.Next() {
		var s fixedloop.FrameStats
		var actual, target, excess, total int64
		if err := rows.Scan(&s.Run, &s.Frame, &s.TotalFrames, &s.ActualFPS, &s.AverageFPS, &s.TargetFPS,
			&actual, &target, &excess, &total); err != nil {
			return nil, err
		}
		s.ActualDur = time.Duration(actual)
		s.TargetDur = time.Duration(target)
		s.ExcessDur = time.Duration(excess)
		s.TotalDur = time.Duration(total)
		frames = append(frames, s)
	}
	return frames, rows.Err()
}

// LatestRun returns the most recently started run, or nil if none.
func (r *SQLiteRecorder) LatestRun(ctx context.Context) (*RunRecord, error) {
	var run RunRecord
	var startedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, target_fps, capped, started_at FROM runs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&run.ID, &run.TargetFPS, &run.Capped, &startedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if run.StartedAt, err = time.Parse(startedAtLayout, startedAt); err != nil {
		return nil, fmt.Errorf("run %s started_at: %w", run.ID, err)
	}
	return &run, nil
}

// Summary aggregates the recorded frames of runID.
func (r *SQLiteRecorder) Summary(ctx context.Context, runID string) (RunSummary, error) {
	r.logger.Debug("sql", "op", "summary", "table", "frames", "run_id", runID)

	sum := RunSummary{RunID: runID}
	var startedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT target_fps, started_at FROM runs WHERE id = ?`, runID,
	).Scan(&sum.TargetFPS, &startedAt)
	if err == sql.ErrNoRows {
		return RunSummary{}, fmt.Errorf("run %q not found", runID)
	}
	if err != nil {
		return RunSummary{}, err
	}
	if sum.StartedAt, err = time.Parse(startedAtLayout, startedAt); err != nil {
		return RunSummary{}, fmt.Errorf("run %s started_at: %w", runID, err)
	}

	var minNs, maxNs sql.NullInt64
	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(run), 0), COUNT(*), MIN(actual_ns), MAX(actual_ns) FROM frames WHERE run_id = ?`, runID,
	).Scan(&sum.Runs, &sum.Frames, &minNs, &maxNs)
	if err != nil {
		return RunSummary{}, err
	}
	sum.MinFrameDur = time.Duration(minNs.Int64)
	sum.MaxFrameDur = time.Duration(maxNs.Int64)

	// Each run's duration is the TotalDur of its last frame.
	var totalNs sql.NullInt64
	err = r.db.QueryRowContext(ctx,
		`SELECT SUM(run_ns) FROM (SELECT MAX(total_ns) AS run_ns FROM frames WHERE run_id = ? GROUP BY run)`, runID,
	).Scan(&totalNs)
	if err != nil {
		return RunSummary{}, err
	}
	sum.TotalDur = time.Duration(totalNs.Int64)
	sum.AverageFPS = averageFPS(sum.Frames, sum.TotalDur)
	return sum, nil
}
