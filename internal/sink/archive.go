package sink

import (
	"context"
	"time"

	"pingprobe/internal/database"
	"pingprobe/internal/models"
)

// Archive mirrors every point into the local SQLite database.
// It only keeps a copy; nothing is ever replayed from it.
type Archive struct {
	db        *database.DB
	retention time.Duration
	now       func() time.Time
}

// NewArchive creates an Archive. A non-positive retention keeps points forever.
func NewArchive(db *database.DB, retention time.Duration) *Archive {
	return &Archive{db: db, retention: retention, now: time.Now}
}

// Name implements models.Sink
func (a *Archive) Name() string { return "archive" }

// Write implements models.Sink
func (a *Archive) Write(ctx context.Context, p models.Point) error {
	return a.db.SavePoint(ctx, p)
}

// Maintain prunes points older than the retention period
func (a *Archive) Maintain(ctx context.Context) (int64, error) {
	if a.retention <= 0 {
		return 0, nil
	}
	return a.db.Prune(ctx, a.now().Add(-a.retention))
}

// Close implements models.Sink
func (a *Archive) Close() error {
	return a.db.Close()
}
