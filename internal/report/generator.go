package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"pingprobe/internal/database"
	"pingprobe/internal/models"
)

// maxPoints bounds how many archived points a report reads
const maxPoints = 500000

// Generator creates static images and a text summary from the archive
type Generator struct {
	db  *database.DB
	log logrus.FieldLogger
	now func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(db *database.DB, log logrus.FieldLogger) *Generator {
	return &Generator{db: db, log: log, now: time.Now}
}

// GenerateReport writes charts and summary.txt into a new directory under
// outputDir and returns that directory.
func (g *Generator) GenerateReport(ctx context.Context, outputDir string, hours int) (string, error) {
	if hours <= 0 {
		return "", fmt.Errorf("report window must be positive, got %d hours", hours)
	}

	now := g.now()
	records, err := g.db.GetRecent(ctx, now.Add(-time.Duration(hours)*time.Hour), maxPoints)
	if err != nil {
		return "", fmt.Errorf("failed to read archive: %w", err)
	}
	stats, err := g.db.GetStats(ctx, now.Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to read archive stats: %w", err)
	}

	reportDir := filepath.Join(outputDir, fmt.Sprintf("network_report_%s", now.Format("2006-01-02_15-04-05")))
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	series := groupByTarget(records)

	// Charts are best effort; the summary is always written
	if err := g.generateLatencyCharts(reportDir, series); err != nil {
		g.log.WithError(err).Warn("failed to generate latency chart")
	}
	if err := g.generateLossChart(reportDir, series); err != nil {
		g.log.WithError(err).Warn("failed to generate packet loss chart")
	}
	if err := g.generateErrorChart(reportDir, records); err != nil {
		g.log.WithError(err).Warn("failed to generate error chart")
	}

	if err := g.generateTextReport(reportDir, hours, records, stats); err != nil {
		return reportDir, fmt.Errorf("failed to generate text report: %w", err)
	}

	g.log.WithField("dir", reportDir).Info("report generated")
	return reportDir, nil
}

type targetSeries struct {
	timestamps []time.Time
	rtt        []float64
	loss       []float64
}

// groupByTarget splits ping records per target, keeping chronological order
func groupByTarget(records []models.Record) map[string]*targetSeries {
	out := make(map[string]*targetSeries)
	for _, r := range records {
		if r.Measurement != models.MeasurementPing {
			continue
		}
		s, ok := out[r.Target]
		if !ok {
			s = &targetSeries{}
			out[r.Target] = s
		}
		s.timestamps = append(s.timestamps, r.Timestamp)
		s.rtt = append(s.rtt, r.RTT)
		s.loss = append(s.loss, r.PacketLoss)
	}
	return out
}
