package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pingprobe/internal/models"
)

// maxSeconds is the largest second count a time.Duration can hold
const maxSeconds = math.MaxInt64 / int64(time.Second)

// setting binds one viper key to its environment variable and flag
type setting struct {
	key   string
	env   string
	flag  string
	def   string
	usage string
}

var settings = []setting{
	{"influx.url", "INFLUX_URL", "influx-url", "http://influxdb:8086", "InfluxDB URL"},
	{"influx.token", "INFLUX_TOKEN", "influx-token", "", "InfluxDB API token (required)"},
	{"influx.org", "INFLUX_ORG", "influx-org", "org", "InfluxDB organization"},
	{"influx.bucket", "INFLUX_BUCKET", "influx-bucket", "bucket", "InfluxDB bucket"},
	{"influx.timeout", "INFLUX_TIMEOUT", "influx-timeout", "10", "InfluxDB HTTP timeout in seconds"},
	{"ping.target", "PING_TARGET", "target", "1.1.1.1", "Host to ping"},
	{"ping.interval", "PING_INTERVAL", "interval", "30", "Seconds between probes"},
	{"ping.size", "PING_SIZE", "size", "40", "Echo payload size in bytes"},
	{"ping.count", "PING_COUNT", "count", "4", "Echo requests per probe"},
	{"ping.timeout", "PING_TIMEOUT", "timeout", "2", "Per-echo timeout in seconds"},
	{"ping.privileged", "PING_PRIVILEGED", "privileged", "false", "Use raw ICMP sockets instead of UDP ping"},
	{"ping.mechanism", "PING_MECHANISM", "mechanism", MechanismICMP, "Ping mechanism: icmp or exec"},
	{"archive.db", "ARCHIVE_DB", "archive-db", "", "SQLite archive path, empty disables the archive"},
	{"archive.retention_days", "ARCHIVE_RETENTION_DAYS", "retention-days", "7", "Days of archived points to keep, 0 keeps all"},
	{"http.addr", "HTTP_ADDR", "http-addr", "", "Status server listen address, empty disables it"},
	{"log.level", "LOG_LEVEL", "log-level", "info", "Log level"},
	{"log.format", "LOG_FORMAT", "log-format", "text", "Log format: text or json"},
}

// RegisterFlags adds every configuration flag to flags
func RegisterFlags(flags *pflag.FlagSet) {
	for _, s := range settings {
		flags.String(s.flag, s.def, s.usage)
	}
}

// Bind wires defaults, environment variables and flags into v.
// Flags that were not registered on flags are skipped.
func Bind(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", s.env, err)
		}
		if f := flags.Lookup(s.flag); f != nil {
			if err := v.BindPFlag(s.key, f); err != nil {
				return fmt.Errorf("failed to bind --%s: %w", s.flag, err)
			}
		}
	}
	return nil
}

// LoadEnvFile loads a dotenv file into the process environment.
// Variables already set are not overridden and a missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads a validated Config from v
func Load(v *viper.Viper) (Config, error) {
	var p parser
	cfg := Config{
		Target:     models.Target(strings.TrimSpace(v.GetString("ping.target"))),
		Interval:   p.seconds(v, "ping.interval"),
		Privileged: p.boolean(v, "ping.privileged"),
		Mechanism:  strings.ToLower(v.GetString("ping.mechanism")),
		Probe: models.ProbeConfig{
			Size:    p.integer(v, "ping.size"),
			Count:   p.integer(v, "ping.count"),
			Timeout: p.seconds(v, "ping.timeout"),
		},
		Influx: Influx{
			URL:     v.GetString("influx.url"),
			Token:   v.GetString("influx.token"),
			Org:     v.GetString("influx.org"),
			Bucket:  v.GetString("influx.bucket"),
			Timeout: p.seconds(v, "influx.timeout"),
		},
		ArchivePath:   v.GetString("archive.db"),
		RetentionDays: p.integer(v, "archive.retention_days"),
		HTTPAddr:      v.GetString("http.addr"),
		LogLevel:      strings.ToLower(v.GetString("log.level")),
		LogFormat:     strings.ToLower(v.GetString("log.format")),
	}
	if p.err != nil {
		return Config{}, p.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parser keeps the first conversion error
type parser struct {
	err error
}

func (p *parser) integer(v *viper.Viper, key string) int {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidConfig, envName(key), raw)
	}
	return n
}

func (p *parser) seconds(v *viper.Viper, key string) time.Duration {
	n := p.integer(v, key)
	if int64(n) > maxSeconds || int64(n) < -maxSeconds {
		if p.err == nil {
			p.err = fmt.Errorf("%w: %s is out of range, got %d seconds", ErrInvalidConfig, envName(key), n)
		}
		return 0
	}
	return time.Duration(n) * time.Second
}

func (p *parser) boolean(v *viper.Viper, key string) bool {
	raw := strings.TrimSpace(v.GetString(key))
	b, err := strconv.ParseBool(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%w: %s must be a boolean, got %q", ErrInvalidConfig, envName(key), raw)
	}
	return b
}

func envName(key string) string {
	for _, s := range settings {
		if s.key == key {
			return s.env
		}
	}
	return key
}
