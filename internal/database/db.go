package database

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// DB wraps sql.DB with the point archive queries
type DB struct {
	*sql.DB
}

// pragmas are applied by the driver to every pooled connection. WAL lets
// the status server read while the probe loop writes.
var pragmas = url.Values{
	"_pragma": {
		"busy_timeout(5000)",
		"journal_mode(WAL)",
		"synchronous(NORMAL)",
	},
}

// New creates a new database connection
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?"+pragmas.Encode())
	if err != nil {
		return nil, fmt.Errorf("database open failed: %w", err)
	}

	return &DB{db}, nil
}

// InitSchema creates all necessary tables
func (db *DB) InitSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS points (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        ts INTEGER NOT NULL, -- unix milliseconds
        measurement TEXT NOT NULL,
        target TEXT NOT NULL DEFAULT '',
        rtt_ms REAL,
        packet_loss_pct REAL,
        error_message TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_points_ts ON points(ts);
    CREATE INDEX IF NOT EXISTS idx_points_measurement_ts ON points(measurement, ts);
    `

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}

	return nil
}
