package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/opd-ai/efblink"
	"github.com/opd-ai/efblink/bridge"
	"github.com/opd-ai/efblink/metrics"
	"github.com/sirupsen/logrus"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultMetricsAddr is where the host serves /metrics when enabled.
const DefaultMetricsAddr = "127.0.0.1:9149"

// Config is the complete host configuration.
type Config struct {
	Stream  StreamConfig  `koanf:"stream"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// StreamConfig configures the streaming session.
type StreamConfig struct {
	BindAddr        string        `koanf:"bind_addr"`
	RateHz          int           `koanf:"rate_hz"`
	WatchdogTimeout time.Duration `koanf:"watchdog_timeout"`
	QueueSize       int           `koanf:"queue_size"`
	PollInterval    time.Duration `koanf:"poll_interval"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// defaults returns the built-in configuration as a nested koanf map.
func defaults() map[string]any {
	return map[string]any{
		"stream": map[string]any{
			"bind_addr":        efblink.DefaultBindAddr,
			"rate_hz":          efblink.DefaultRateHz,
			"watchdog_timeout": efblink.DefaultWatchdogTimeout.String(),
			"queue_size":       bridge.DefaultQueueSize,
			"poll_interval":    bridge.DefaultPollInterval.String(),
		},
		"log": map[string]any{
			"level":  "info",
			"format": FormatText,
		},
		"metrics": map[string]any{
			"enabled": false,
			"addr":    DefaultMetricsAddr,
		},
	}
}

// Normalize clamps values that have a safe nearest setting.
func (c *Config) Normalize() {
	c.Stream.RateHz = efblink.ClampRate(c.Stream.RateHz)
}

// Validate reports every value that cannot be used. The returned error
// wraps ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if _, _, err := net.SplitHostPort(c.Stream.BindAddr); err != nil {
		invalid("stream.bind_addr %q: %v", c.Stream.BindAddr, err)
	}
	if c.Stream.RateHz < efblink.MinRateHz || c.Stream.RateHz > efblink.MaxRateHz {
		invalid("stream.rate_hz %d outside [%d, %d]", c.Stream.RateHz, efblink.MinRateHz, efblink.MaxRateHz)
	}
	if c.Stream.WatchdogTimeout <= 0 {
		invalid("stream.watchdog_timeout must be positive, got %s", c.Stream.WatchdogTimeout)
	}
	if c.Stream.QueueSize < 1 {
		invalid("stream.queue_size must be at least 1, got %d", c.Stream.QueueSize)
	}
	if c.Stream.PollInterval <= 0 {
		invalid("stream.poll_interval must be positive, got %s", c.Stream.PollInterval)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		invalid("log.level %q: %v", c.Log.Level, err)
	}
	if c.Log.Format != FormatText && c.Log.Format != FormatJSON {
		invalid("log.format %q: want %q or %q", c.Log.Format, FormatText, FormatJSON)
	}
	if c.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			invalid("metrics.addr %q: %v", c.Metrics.Addr, err)
		}
	}

	return errors.Join(errs...)
}

// SessionOptions converts the stream section into session options.
// m may be nil.
func (c *Config) SessionOptions(m *metrics.Metrics) *efblink.Options {
	options := efblink.NewOptions()
	options.BindAddr = c.Stream.BindAddr
	options.StreamingRateHz = c.Stream.RateHz
	options.WatchdogTimeout = c.Stream.WatchdogTimeout
	options.QueueSize = c.Stream.QueueSize
	options.PollInterval = c.Stream.PollInterval
	options.Metrics = m
	return options
}
