package snapshot

import "database/sql"

// migrateV001 creates the initial snapshot schema. Every statement uses
// IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS repos (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			owner        TEXT NOT NULL,
			name         TEXT NOT NULL,
			display_name TEXT NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS daily_traffic (
			repo_id INTEGER NOT NULL REFERENCES repos(id) ON DELETE CASCADE,
			day     TEXT NOT NULL,
			count   INTEGER NOT NULL,
			uniques INTEGER NOT NULL,
			PRIMARY KEY (repo_id, day)
		)`,

		`CREATE TABLE IF NOT EXISTS snapshot_meta (
			repo_id         INTEGER PRIMARY KEY REFERENCES repos(id) ON DELETE CASCADE,
			taken_at        DATETIME NOT NULL,
			records_read    INTEGER NOT NULL,
			records_skipped INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_daily_traffic_day ON daily_traffic(day)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
