// Package snapshot materializes canonical daily-traffic series into a
// SQLite database so the history can be queried with plain SQL. The
// snapshot is derived state: every write replaces the repository's rows
// with the series reconstructed from its log store.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/runnerr0/trafficlog/internal/config"
	"github.com/runnerr0/trafficlog/internal/series"
)

const dayFormat = "2006-01-02"

// SQLiteStore writes and reads traffic snapshots backed by SQLite.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	upsertRepo *sql.Stmt
	insertDay  *sql.Stmt
	upsertMeta *sql.Stmt
}

// NewSQLiteStore creates a SQLiteStore from an already-opened and migrated
// database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.upsertRepo, err = s.db.Prepare(`
		INSERT INTO repos (owner, name, display_name)
		VALUES (?, ?, ?)
		ON CONFLICT(display_name) DO UPDATE SET owner = excluded.owner, name = excluded.name
	`)
	if err != nil {
		return err
	}

	s.insertDay, err = s.db.Prepare(`
		INSERT INTO daily_traffic (repo_id, day, count, uniques)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.upsertMeta, err = s.db.Prepare(`
		INSERT INTO snapshot_meta (repo_id, taken_at, records_read, records_skipped)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(repo_id) DO UPDATE SET
			taken_at = excluded.taken_at,
			records_read = excluded.records_read,
			records_skipped = excluded.records_skipped
	`)
	if err != nil {
		return err
	}

	return nil
}

// WriteSeries replaces a repository's snapshot rows with the given canonical
// series in a single transaction.
func (s *SQLiteStore) WriteSeries(ctx context.Context, repo config.Repo, cs series.CanonicalSeries, meta Meta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.StmtContext(ctx, s.upsertRepo).ExecContext(ctx, repo.Owner, repo.Name, repo.DisplayName); err != nil {
		return fmt.Errorf("upsert repo %s: %w", repo.DisplayName, err)
	}

	var repoID int64
	if err := tx.QueryRowContext(ctx,
		"SELECT id FROM repos WHERE display_name = ?", repo.DisplayName,
	).Scan(&repoID); err != nil {
		return fmt.Errorf("resolve repo %s: %w", repo.DisplayName, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM daily_traffic WHERE repo_id = ?", repoID); err != nil {
		return fmt.Errorf("clear rows for %s: %w", repo.DisplayName, err)
	}

	for _, obs := range cs.Sorted() {
		if _, err := tx.StmtContext(ctx, s.insertDay).ExecContext(ctx,
			repoID, obs.Day.Format(dayFormat), obs.Count, obs.Uniques,
		); err != nil {
			return fmt.Errorf("insert day %s for %s: %w", obs.Day.Format(dayFormat), repo.DisplayName, err)
		}
	}

	takenAt := meta.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}
	if _, err := tx.StmtContext(ctx, s.upsertMeta).ExecContext(ctx,
		repoID, takenAt.UTC().Format(time.RFC3339), meta.RecordsRead, meta.RecordsSkipped,
	); err != nil {
		return fmt.Errorf("record meta for %s: %w", repo.DisplayName, err)
	}

	return tx.Commit()
}

// ReadSeries loads a repository's snapshot back as a canonical series.
// A repository with no snapshot yields an empty series, not an error.
func (s *SQLiteStore) ReadSeries(ctx context.Context, displayName string) (series.CanonicalSeries, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.day, d.count, d.uniques
		FROM daily_traffic d
		JOIN repos r ON r.id = d.repo_id
		WHERE r.display_name = ?
	`, displayName)
	if err != nil {
		return nil, fmt.Errorf("query snapshot for %s: %w", displayName, err)
	}
	defer rows.Close()

	cs := make(series.CanonicalSeries)
	for rows.Next() {
		var dayStr string
		var count, uniques int
		if err := rows.Scan(&dayStr, &count, &uniques); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		day, err := time.Parse(dayFormat, dayStr)
		if err != nil {
			return nil, fmt.Errorf("bad day %q in snapshot: %w", dayStr, err)
		}
		cs[day.UTC()] = series.DailyObservation{Day: day.UTC(), Count: count, Uniques: uniques}
	}

	return cs, rows.Err()
}

// GetStats returns aggregate statistics about the snapshot database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.owner, r.name, r.display_name,
		       COUNT(d.day), COALESCE(SUM(d.count), 0), COALESCE(SUM(d.uniques), 0),
		       COALESCE(MIN(d.day), ''), COALESCE(MAX(d.day), ''),
		       COALESCE(m.taken_at, '')
		FROM repos r
		LEFT JOIN daily_traffic d ON d.repo_id = r.id
		LEFT JOIN snapshot_meta m ON m.repo_id = r.id
		GROUP BY r.id
		ORDER BY r.display_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query repo stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rs RepoStats
		var firstDay, lastDay, takenAt string
		if err := rows.Scan(
			&rs.Owner, &rs.Name, &rs.DisplayName,
			&rs.Days, &rs.TotalCount, &rs.TotalUniques,
			&firstDay, &lastDay, &takenAt,
		); err != nil {
			return nil, fmt.Errorf("scan repo stats: %w", err)
		}
		if firstDay != "" {
			rs.FirstDay, _ = time.Parse(dayFormat, firstDay)
		}
		if lastDay != "" {
			rs.LastDay, _ = time.Parse(dayFormat, lastDay)
		}
		if takenAt != "" {
			rs.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
		}
		stats.TotalDays += rs.Days
		stats.Repos = append(stats.Repos, rs)
	}

	return stats, rows.Err()
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{s.upsertRepo, s.insertDay, s.upsertMeta}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
