package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	protocol "github.com/influxdata/line-protocol"

	"pingprobe/internal/models"
)

// InfluxConfig locates the InfluxDB 2.x bucket points are written to
type InfluxConfig struct {
	URL     string
	Token   string
	Org     string
	Bucket  string
	Timeout time.Duration
}

// Influx writes points to InfluxDB through the blocking write API.
// The client and write handle are built once and reused for every write.
type Influx struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	org      string
	bucket   string
}

// NewInflux creates an Influx sink. It does not contact the server.
func NewInflux(cfg InfluxConfig) *Influx {
	opts := influxdb2.DefaultOptions().SetLogLevel(0)
	if cfg.Timeout > 0 {
		opts.SetHTTPRequestTimeout(uint(cfg.Timeout.Seconds()))
	}

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, opts)
	return &Influx{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		org:      cfg.Org,
		bucket:   cfg.Bucket,
	}
}

// Name implements models.Sink
func (s *Influx) Name() string { return "influxdb" }

// Write implements models.Sink
func (s *Influx) Write(ctx context.Context, p models.Point) error {
	if err := s.writeAPI.WritePoint(ctx, ToInfluxPoint(p)); err != nil {
		return fmt.Errorf("write to %s/%s: %w", s.org, s.bucket, err)
	}
	return nil
}

// Ping reports whether the server is reachable
func (s *Influx) Ping(ctx context.Context) error {
	ok, err := s.client.Ping(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("influxdb at %s is not ready", s.client.ServerURL())
	}
	return nil
}

// Close implements models.Sink
func (s *Influx) Close() error {
	s.client.Close()
	return nil
}

// ToInfluxPoint converts a point to the client library representation
func ToInfluxPoint(p models.Point) *write.Point {
	return influxdb2.NewPoint(p.Measurement, p.Tags, p.Fields, p.Time)
}

// LineProtocol renders a point in InfluxDB line protocol with nanosecond
// precision, encoded the same way the write API encodes request bodies.
func LineProtocol(p models.Point) (string, error) {
	var buf bytes.Buffer
	enc := protocol.NewEncoder(&buf)
	enc.SetFieldTypeSupport(protocol.UintSupport)
	enc.FailOnFieldErr(true)
	enc.SetPrecision(time.Nanosecond)
	if _, err := enc.Encode(ToInfluxPoint(p)); err != nil {
		return "", fmt.Errorf("encode %s point: %w", p.Measurement, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
