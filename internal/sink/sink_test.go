package sink

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pingprobe/internal/database"
	"pingprobe/internal/metrics"
	"pingprobe/internal/models"
)

type recordingSink struct {
	name   string
	err    error
	points []models.Point
	closed bool
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Write(ctx context.Context, p models.Point) error {
	r.points = append(r.points, p)
	return r.err
}

func (r *recordingSink) Close() error {
	r.closed = true
	return nil
}

func TestMultiWritesToEverySink(t *testing.T) {
	refused := errors.New("connection refused")
	failing := &recordingSink{name: "influxdb", err: refused}
	healthy := &recordingSink{name: "archive"}

	m := NewMulti(failing, healthy)
	p := models.NewPingPoint(models.Sample{Target: "1.1.1.1"}, time.Now())

	err := m.Write(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, refused)
	assert.Contains(t, err.Error(), "influxdb: connection refused")

	assert.Len(t, failing.points, 1)
	assert.Len(t, healthy.points, 1, "a failing sink must not skip the others")
}

func TestMultiClose(t *testing.T) {
	a, b := &recordingSink{name: "a"}, &recordingSink{name: "b"}
	m := NewMulti(a, b)

	require.NoError(t, m.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)

	err := m.Write(context.Background(), models.NewPingPoint(models.Sample{}, time.Now()))
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, m.Close())
}

func TestInstrument(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)

	inner := &recordingSink{name: "influxdb", err: errors.New("bucket not found")}
	s := Instrument(inner, c)

	assert.Equal(t, "influxdb", s.Name())
	assert.Error(t, s.Write(context.Background(), models.NewPingPoint(models.Sample{}, time.Now())))

	n, err := testutil.GatherAndCount(reg, "pingprobe_sink_write_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestArchive(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	require.NoError(t, db.InitSchema())

	now := time.Now()
	a := NewArchive(db, 24*time.Hour)
	a.now = func() time.Time { return now }
	defer a.Close()

	ctx := context.Background()
	require.NoError(t, a.Write(ctx, models.NewPingPoint(models.Sample{Target: "1.1.1.1"}, now.Add(-48*time.Hour))))
	require.NoError(t, a.Write(ctx, models.NewErrorPoint(&models.ProbeFailure{Message: "boom"}, now)))

	pruned, err := a.Maintain(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	records, err := db.GetRecent(ctx, now.Add(-72*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "boom", records[0].ErrorMessage)
}
