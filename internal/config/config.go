package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"pingprobe/internal/models"
)

// ErrInvalidConfig is wrapped by every configuration defect
var ErrInvalidConfig = errors.New("invalid configuration")

// Probe mechanisms
const (
	MechanismICMP = "icmp"
	MechanismExec = "exec"
)

// MinICMPSize is the smallest payload the icmp mechanism can send; it
// carries a timestamp and a tracker in every echo.
const MinICMPSize = 24

// Influx locates the InfluxDB bucket points are written to
type Influx struct {
	URL     string
	Token   string
	Org     string
	Bucket  string
	Timeout time.Duration
}

// Config holds all configuration for the probe
type Config struct {
	Target     models.Target
	Interval   time.Duration
	Probe      models.ProbeConfig
	Privileged bool
	Mechanism  string

	Influx Influx

	ArchivePath   string
	RetentionDays int
	HTTPAddr      string

	LogLevel  string
	LogFormat string
}

// Retention returns the archive retention period
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Influx.Token == "" {
		return fmt.Errorf("%w: influx token must be set", ErrInvalidConfig)
	}
	if c.Influx.URL == "" {
		return fmt.Errorf("%w: influx url cannot be empty", ErrInvalidConfig)
	}
	if c.Influx.Org == "" || c.Influx.Bucket == "" {
		return fmt.Errorf("%w: influx org and bucket cannot be empty", ErrInvalidConfig)
	}
	if c.Target == "" {
		return fmt.Errorf("%w: target cannot be empty", ErrInvalidConfig)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if c.Probe.Size <= 0 {
		return fmt.Errorf("%w: packet size must be positive", ErrInvalidConfig)
	}
	if c.Mechanism == MechanismICMP && c.Probe.Size < MinICMPSize {
		return fmt.Errorf("%w: packet size must be at least %d bytes for icmp", ErrInvalidConfig, MinICMPSize)
	}
	if c.Probe.Count <= 0 {
		return fmt.Errorf("%w: packet count must be positive", ErrInvalidConfig)
	}
	if c.Probe.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.Influx.Timeout <= 0 {
		return fmt.Errorf("%w: influx timeout must be positive", ErrInvalidConfig)
	}
	if c.Mechanism != MechanismICMP && c.Mechanism != MechanismExec {
		return fmt.Errorf("%w: unknown ping mechanism %q", ErrInvalidConfig, c.Mechanism)
	}
	if c.ArchivePath != "" && c.RetentionDays < 0 {
		return fmt.Errorf("%w: retention days cannot be negative", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: log format must be text or json", ErrInvalidConfig)
	}
	return nil
}
