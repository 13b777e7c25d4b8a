package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pingprobe/internal/config"
)

// app carries state shared by every subcommand
type app struct {
	v       *viper.Viper
	envFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "pingprobe",
		Short:         "Ping a host periodically and write the results to InfluxDB",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadEnvFile(a.envFile); err != nil {
				return err
			}
			return config.Bind(a.v, cmd.Flags())
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	config.RegisterFlags(root.PersistentFlags())

	runCmd := newRunCmd(a)
	root.RunE = runCmd.RunE
	root.AddCommand(runCmd, newOnceCmd(a), newReportCmd(a))

	return root
}

// newLogger builds the process logger from a level and a format name
func newLogger(level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)
	switch format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}
