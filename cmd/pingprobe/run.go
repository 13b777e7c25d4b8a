package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pingprobe/internal/config"
	"pingprobe/internal/database"
	"pingprobe/internal/metrics"
	"pingprobe/internal/models"
	"pingprobe/internal/monitor"
	"pingprobe/internal/probe"
	"pingprobe/internal/sink"
	"pingprobe/internal/web"
)

const (
	maintenanceEvery = time.Hour
	startupTimeout   = 5 * time.Second
	shutdownTimeout  = 5 * time.Second
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the probe loop (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, log)
		},
	}
}

// agent is the wired set of long-lived components
type agent struct {
	monitor  *monitor.Monitor
	sink     models.Sink
	influx   *sink.Influx
	db       *database.DB
	registry *prometheus.Registry
}

// newAgent constructs every client once; they are reused for the process lifetime
func newAgent(cfg config.Config, log logrus.FieldLogger) (*agent, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.New(registry)

	influx := sink.NewInflux(sink.InfluxConfig{
		URL:     cfg.Influx.URL,
		Token:   cfg.Influx.Token,
		Org:     cfg.Influx.Org,
		Bucket:  cfg.Influx.Bucket,
		Timeout: cfg.Influx.Timeout,
	})
	sinks := []models.Sink{sink.Instrument(influx, collector)}
	opts := []monitor.Option{monitor.WithMetrics(collector)}

	var db *database.DB
	if cfg.ArchivePath != "" {
		var err error
		db, err = database.New(cfg.ArchivePath)
		if err != nil {
			influx.Close()
			return nil, err
		}
		if err := db.InitSchema(); err != nil {
			db.Close()
			influx.Close()
			return nil, err
		}
		archive := sink.NewArchive(db, cfg.Retention())
		sinks = append(sinks, sink.Instrument(archive, collector))
		opts = append(opts, monitor.WithMaintenance(archive, maintenanceEvery))
	}

	var mech probe.Mechanism
	switch cfg.Mechanism {
	case config.MechanismExec:
		mech = probe.NewCommand()
	default:
		mech = probe.NewICMP(cfg.Privileged)
	}

	out := sink.NewMulti(sinks...)
	mon := monitor.New(monitor.Config{
		Target:   cfg.Target,
		Probe:    cfg.Probe,
		Interval: cfg.Interval,
	}, probe.NewExecutor(mech), out, log, opts...)

	return &agent{
		monitor:  mon,
		sink:     out,
		influx:   influx,
		db:       db,
		registry: registry,
	}, nil
}

// checkInflux warns when the sink is unreachable. The loop starts anyway.
func (a *agent) checkInflux(ctx context.Context, log logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	if err := a.influx.Ping(ctx); err != nil {
		log.WithError(err).Warn("influxdb not reachable at startup, points are dropped until it is")
	}
}

// healthBudget is how old the last tick may be before /healthz reports
// stale: two intervals plus the longest a probe and a sink write can block.
func healthBudget(cfg config.Config) time.Duration {
	probing := time.Duration(cfg.Probe.Count) * cfg.Probe.Timeout
	return 2*cfg.Interval + probing + cfg.Influx.Timeout
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	a, err := newAgent(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.sink.Close(); err != nil {
			log.WithError(err).Warn("failed to close sinks")
		}
	}()

	a.checkInflux(ctx, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.monitor.Run(ctx)
		return nil
	})

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, a.db, a.registry, a.monitor, healthBudget(cfg), log)
		g.Go(func() error {
			if err := srv.Start(); err != nil {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}
