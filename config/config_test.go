package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opd-ai/efblink"
	"github.com/opd-ai/efblink/bridge"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolatedLoader uses a per-test env prefix so the developer's environment
// cannot leak into results.
func isolatedLoader(t *testing.T, opts ...Option) *Loader {
	t.Helper()
	return NewLoader(append([]Option{WithEnvPrefix("EFBLINK_TEST_")}, opts...)...)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "efblink.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := isolatedLoader(t).Load()
	require.NoError(t, err)

	assert.Equal(t, efblink.DefaultBindAddr, cfg.Stream.BindAddr)
	assert.Equal(t, efblink.DefaultRateHz, cfg.Stream.RateHz)
	assert.Equal(t, 5*time.Second, cfg.Stream.WatchdogTimeout)
	assert.Equal(t, bridge.DefaultQueueSize, cfg.Stream.QueueSize)
	assert.Equal(t, time.Millisecond, cfg.Stream.PollInterval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, FormatText, cfg.Log.Format)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, DefaultMetricsAddr, cfg.Metrics.Addr)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
stream:
  bind_addr: 127.0.0.1:50100
  rate_hz: 30
  watchdog_timeout: 2s
log:
  level: debug
  format: json
`)

	l := isolatedLoader(t, WithConfigFile(path))
	assert.Equal(t, path, l.FilePath())

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:50100", cfg.Stream.BindAddr)
	assert.Equal(t, 30, cfg.Stream.RateHz)
	assert.Equal(t, 2*time.Second, cfg.Stream.WatchdogTimeout)
	assert.Equal(t, bridge.DefaultQueueSize, cfg.Stream.QueueSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, FormatJSON, cfg.Log.Format)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "stream:\n  rate_hz: 30\n")
	t.Setenv("EFBLINK_TEST_STREAM_RATE_HZ", "45")
	t.Setenv("EFBLINK_TEST_STREAM_POLL_INTERVAL", "5ms")
	t.Setenv("EFBLINK_TEST_METRICS_ENABLED", "true")

	cfg, err := isolatedLoader(t, WithConfigFile(path)).Load()
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Stream.RateHz)
	assert.Equal(t, 5*time.Millisecond, cfg.Stream.PollInterval)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadOverridesWin(t *testing.T) {
	t.Setenv("EFBLINK_TEST_STREAM_RATE_HZ", "45")

	cfg, err := isolatedLoader(t, WithOverrides(map[string]any{
		"stream.rate_hz": 10,
		"log.level":      "warn",
	})).Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Stream.RateHz)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadClampsRate(t *testing.T) {
	path := writeConfig(t, "stream:\n  rate_hz: 500\n")

	cfg, err := isolatedLoader(t, WithConfigFile(path)).Load()
	require.NoError(t, err)
	assert.Equal(t, efblink.MaxRateHz, cfg.Stream.RateHz)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := isolatedLoader(t, WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))).Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
stream:
  bind_addr: no-port
  queue_size: 0
log:
  level: loud
  format: xml
`)

	_, err := isolatedLoader(t, WithConfigFile(path)).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "stream.bind_addr")
	assert.Contains(t, err.Error(), "stream.queue_size")
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "log.format")
}

func TestValidate(t *testing.T) {
	cfg, err := isolatedLoader(t).Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Stream.RateHz = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalid)

	bad = *cfg
	bad.Stream.WatchdogTimeout = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalid)

	bad = *cfg
	bad.Metrics.Enabled = true
	bad.Metrics.Addr = "9149"
	assert.ErrorIs(t, bad.Validate(), ErrInvalid)

	bad.Normalize()
	bad.Metrics.Addr = ":9149"
	assert.NoError(t, bad.Validate())
}

func TestSessionOptions(t *testing.T) {
	cfg, err := isolatedLoader(t, WithOverrides(map[string]any{"stream.rate_hz": 25})).Load()
	require.NoError(t, err)

	options := cfg.SessionOptions(nil)
	assert.Equal(t, cfg.Stream.BindAddr, options.BindAddr)
	assert.Equal(t, 25, options.StreamingRateHz)
	assert.Equal(t, cfg.Stream.WatchdogTimeout, options.WatchdogTimeout)
	assert.Equal(t, cfg.Stream.QueueSize, options.QueueSize)
	assert.Equal(t, cfg.Stream.PollInterval, options.PollInterval)
	assert.Nil(t, options.Metrics)
}

func TestApplyLogging(t *testing.T) {
	logger := logrus.New()

	require.NoError(t, ApplyLogging(logger, LogConfig{Level: "debug", Format: FormatJSON}))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	require.NoError(t, ApplyLogging(logger, LogConfig{Level: "warn", Format: FormatText}))
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	assert.ErrorIs(t, ApplyLogging(logger, LogConfig{Level: "loud"}), ErrInvalid)
	assert.ErrorIs(t, ApplyLogging(logger, LogConfig{Level: "info", Format: "xml"}), ErrInvalid)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}
