package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
// Each migration is idempotent.
//
// The two visit-time columns (entry_time, timestamp) hold RFC 3339 UTC
// text with fixed-width milliseconds, so lexicographic comparison in SQL
// matches chronological order. Either or both may be NULL on legacy rows.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS visitors (
		id              TEXT    PRIMARY KEY,
		type            TEXT    NOT NULL,
		full_name       TEXT,
		visitor_name    TEXT,
		cnic            TEXT,
		visitor_cnic    TEXT,
		email           TEXT,
		phone           TEXT,
		visitor_phone   TEXT,
		host            TEXT    NOT NULL,
		purpose         TEXT    NOT NULL,
		entry_time      TEXT,
		timestamp       TEXT,
		exit_time       TEXT,
		is_group_visit  INTEGER NOT NULL DEFAULT 0,
		group_id        TEXT,
		total_members   INTEGER,
		group_members   TEXT,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_visitors_entry_time ON visitors(entry_time)`,
	`CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id            INTEGER  PRIMARY KEY AUTOINCREMENT,
		username      TEXT     NOT NULL UNIQUE,
		password_hash TEXT     NOT NULL,
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	// Column additions (idempotent — checks if column exists first)
	columnMigrations := []struct {
		table, column, definition string
	}{
		{"visitors", "exit_time", "TEXT"},
		{"visitors", "group_members", "TEXT"},
	}

	for _, cm := range columnMigrations {
		if err := addColumnIfNotExists(db, cm.table, cm.column, cm.definition); err != nil {
			return fmt.Errorf("adding %s.%s: %w", cm.table, cm.column, err)
		}
	}

	return nil
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(db *sql.DB, table, column, definition string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("checking table info: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scanning column info: %w", err)
		}
		if name == column {
			return nil // column already exists
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating columns: %w", err)
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}
