package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pingprobe/internal/database"
	"pingprobe/internal/metrics"
	"pingprobe/internal/models"
)

type fixedTicks struct{ last time.Time }

func (f fixedTicks) LastTick() time.Time { return f.last }

func newTestServer(t *testing.T, db *database.DB, last time.Time) (*Server, *prometheus.Registry) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	reg := prometheus.NewRegistry()
	return New(":0", db, reg, fixedTicks{last: last}, time.Minute, logger), reg
}

func newArchive(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.InitSchema())
	return db
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		last   time.Time
		code   int
		status string
	}{
		{name: "before first tick", last: time.Time{}, code: http.StatusServiceUnavailable, status: "starting"},
		{name: "recent tick", last: time.Now(), code: http.StatusOK, status: "ok"},
		{name: "stale tick", last: time.Now().Add(-time.Hour), code: http.StatusServiceUnavailable, status: "stale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, nil, tt.last)
			rec := get(t, s.routes(), "/healthz")

			assert.Equal(t, tt.code, rec.Code)
			var h health
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&h))
			assert.Equal(t, tt.status, h.Status)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, reg := newTestServer(t, nil, time.Now())
	c := metrics.New(reg)
	c.ObserveTick(time.Now())

	rec := get(t, s.routes(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "pingprobe_ticks_total 1"))
}

func TestArchiveEndpointsDisabled(t *testing.T) {
	s, _ := newTestServer(t, nil, time.Now())

	for _, path := range []string{"/api/recent", "/api/stats", "/api/errors"} {
		assert.Equal(t, http.StatusNotFound, get(t, s.routes(), path).Code, path)
	}
}

func TestArchiveEndpoints(t *testing.T) {
	db := newArchive(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, db.SavePoint(ctx, models.NewPingPoint(models.Sample{Target: "1.1.1.1", RTTAvgMs: 12.5}, now.Add(-time.Minute))))
	require.NoError(t, db.SavePoint(ctx, models.NewErrorPoint(&models.ProbeFailure{Message: "host unreachable"}, now)))
	require.NoError(t, db.SavePoint(ctx, models.NewPingPoint(models.Sample{Target: "1.1.1.1", RTTAvgMs: 99}, now.Add(-48*time.Hour))))

	s, _ := newTestServer(t, db, now)
	h := s.routes()

	t.Run("recent", func(t *testing.T) {
		rec := get(t, h, "/api/recent?hours=1")
		require.Equal(t, http.StatusOK, rec.Code)

		var records []models.Record
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&records))
		require.Len(t, records, 2)
		assert.Equal(t, models.MeasurementPing, records[0].Measurement)
		assert.Equal(t, models.MeasurementError, records[1].Measurement)
	})

	t.Run("recent with wider window", func(t *testing.T) {
		var records []models.Record
		require.NoError(t, json.NewDecoder(get(t, h, "/api/recent?hours=72").Body).Decode(&records))
		assert.Len(t, records, 3)
	})

	t.Run("stats", func(t *testing.T) {
		var stats []models.Stats
		require.NoError(t, json.NewDecoder(get(t, h, "/api/stats").Body).Decode(&stats))
		require.Len(t, stats, 1)
		assert.Equal(t, 12.5, stats[0].AvgRTT)
	})

	t.Run("errors", func(t *testing.T) {
		var errs []models.Record
		require.NoError(t, json.NewDecoder(get(t, h, "/api/errors").Body).Decode(&errs))
		require.Len(t, errs, 1)
		assert.Equal(t, "host unreachable", errs[0].ErrorMessage)
	})
}
