package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pingprobe/internal/models"
)

// SavePoint archives a point
func (db *DB) SavePoint(ctx context.Context, p models.Point) error {
	var (
		rtt, loss sql.NullFloat64
		msg       sql.NullString
	)
	if v, ok := p.FloatField(models.FieldRTT); ok {
		rtt = sql.NullFloat64{Float64: v, Valid: true}
	}
	if v, ok := p.FloatField(models.FieldPacketLoss); ok {
		loss = sql.NullFloat64{Float64: v, Valid: true}
	}
	if v, ok := p.StringField(models.FieldMessage); ok {
		msg = sql.NullString{String: v, Valid: true}
	}

	query := `
        INSERT INTO points (ts, measurement, target, rtt_ms, packet_loss_pct, error_message)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err := db.ExecContext(ctx, query,
		p.Time.UnixMilli(),
		p.Measurement,
		p.Tags[models.TagTarget],
		rtt,
		loss,
		msg,
	)
	if err != nil {
		return fmt.Errorf("save %s point: %w", p.Measurement, err)
	}
	return nil
}

// GetRecent retrieves archived points newer than since, oldest first
func (db *DB) GetRecent(ctx context.Context, since time.Time, limit int) ([]models.Record, error) {
	query := `
        SELECT ts, measurement, target, rtt_ms, packet_loss_pct, error_message
        FROM points
        WHERE ts > ?
        ORDER BY ts DESC
        LIMIT ?
    `
	records, err := db.queryRecords(ctx, query, since.UnixMilli(), limit)
	if err != nil {
		return nil, err
	}

	// newest rows were selected; hand them back in chronological order
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// GetErrors retrieves ping_error points newer than since, newest first
func (db *DB) GetErrors(ctx context.Context, since time.Time, limit int) ([]models.Record, error) {
	query := `
        SELECT ts, measurement, target, rtt_ms, packet_loss_pct, error_message
        FROM points
        WHERE measurement = ? AND ts > ?
        ORDER BY ts DESC
        LIMIT ?
    `
	return db.queryRecords(ctx, query, models.MeasurementError, since.UnixMilli(), limit)
}

func (db *DB) queryRecords(ctx context.Context, query string, args ...interface{}) ([]models.Record, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Record
	for rows.Next() {
		var (
			r         models.Record
			ts        int64
			rtt, loss sql.NullFloat64
			errMsg    sql.NullString
		)
		if err := rows.Scan(&ts, &r.Measurement, &r.Target, &rtt, &loss, &errMsg); err != nil {
			continue
		}
		r.Timestamp = time.UnixMilli(ts)
		if rtt.Valid {
			r.RTT = rtt.Float64
		}
		if loss.Valid {
			r.PacketLoss = loss.Float64
		}
		if errMsg.Valid {
			r.ErrorMessage = errMsg.String
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// GetStats retrieves aggregated ping statistics per target.
// RTT aggregates only consider samples where at least one echo came back.
func (db *DB) GetStats(ctx context.Context, since time.Time) ([]models.Stats, error) {
	query := `
        SELECT
            target,
            COUNT(*) as samples,
            SUM(CASE WHEN packet_loss_pct < 100 THEN 1 ELSE 0 END) as reachable,
            AVG(CASE WHEN packet_loss_pct < 100 THEN rtt_ms ELSE NULL END) as avg_rtt,
            MAX(CASE WHEN packet_loss_pct < 100 THEN rtt_ms ELSE NULL END) as max_rtt,
            MIN(CASE WHEN packet_loss_pct < 100 THEN rtt_ms ELSE NULL END) as min_rtt,
            ROUND(AVG(packet_loss_pct), 2) as packet_loss
        FROM points
        WHERE measurement = ? AND ts > ?
        GROUP BY target
    `

	rows, err := db.QueryContext(ctx, query, models.MeasurementPing, since.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.Stats
	for rows.Next() {
		var (
			s                      models.Stats
			avgRTT, maxRTT, minRTT sql.NullFloat64
		)
		err := rows.Scan(&s.Target, &s.Samples, &s.Reachable,
			&avgRTT, &maxRTT, &minRTT, &s.PacketLoss)
		if err != nil {
			continue
		}
		s.AvgRTT = avgRTT.Float64
		s.MaxRTT = maxRTT.Float64
		s.MinRTT = minRTT.Float64
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
