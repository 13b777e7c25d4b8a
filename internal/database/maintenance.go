package database

import (
	"context"
	"time"
)

// Prune deletes archived points older than the cutoff and returns how many were removed
func (db *DB) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM points WHERE ts < ?`, olderThan.UnixMilli())
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()

	// Vacuum to reclaim space (run occasionally)
	if time.Now().Day() == 1 && n > 0 {
		if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
			return n, err
		}
	}

	return n, nil
}
