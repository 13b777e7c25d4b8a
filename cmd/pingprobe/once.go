package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pingprobe/internal/config"
	"pingprobe/internal/models"
	"pingprobe/internal/monitor"
	"pingprobe/internal/sink"
)

// ticker runs one probe-and-publish cycle
type ticker interface {
	Tick(ctx context.Context) monitor.TickResult
}

func newOnceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single tick and print the point in line protocol",
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

			ag, err := newAgent(cfg, log)
			if err != nil {
				return err
			}
			defer ag.sink.Close()

			return runOnce(cmd.Context(), cmd.OutOrStdout(), ag.monitor, cfg.Target)
		},
	}
}

// runOnce ticks t once and prints the emitted point. It fails when the
// probe failed, after the error point has been printed.
func runOnce(ctx context.Context, w io.Writer, t ticker, target models.Target) error {
	res := t.Tick(ctx)

	line, err := sink.LineProtocol(res.Point)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, line)

	if res.ProbeErr != nil {
		return fmt.Errorf("probe of %s failed: %w", target, res.ProbeErr)
	}
	return nil
}
