package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pingprobe/internal/config"
	"pingprobe/internal/database"
	"pingprobe/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		hours int
		out   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render charts and a text summary from the local archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.v.GetString("archive.db")
			if path == "" {
				return fmt.Errorf("%w: --archive-db is required for reports", config.ErrInvalidConfig)
			}
			log, err := newLogger(a.v.GetString("log.level"), a.v.GetString("log.format"))
			if err != nil {
				return err
			}

			db, err := database.New(path)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.InitSchema(); err != nil {
				return err
			}

			dir, err := report.NewGenerator(db, log).GenerateReport(cmd.Context(), out, hours)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 24, "Hours of history to include")
	cmd.Flags().StringVar(&out, "out", "reports", "Directory the report is written into")

	return cmd
}
