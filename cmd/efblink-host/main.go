package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/efblink"
	"github.com/opd-ai/efblink/config"
	"github.com/opd-ai/efblink/dataref"
	"github.com/opd-ai/efblink/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Build information, set via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "efblink-host",
		Usage:   "Stream simulated flight data to an EFB",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"EFBLINK_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "bind",
				Usage: "UDP address to stream from (e.g., 0.0.0.0:49100)",
			},
			&cli.IntFlag{
				Name:  "rate",
				Usage: "Streaming rate in Hz (1-60)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address",
			},
		},
		Action: run,
	}
}

// flagOverrides maps explicitly set flags to config keys.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	if c.IsSet("bind") {
		overrides["stream.bind_addr"] = c.String("bind")
	}
	if c.IsSet("rate") {
		overrides["stream.rate_hz"] = c.Int("rate")
	}
	if c.IsSet("log-level") {
		overrides["log.level"] = c.String("log-level")
	}
	if c.IsSet("metrics-addr") {
		overrides["metrics.enabled"] = true
		overrides["metrics.addr"] = c.String("metrics-addr")
	}
	return overrides
}

func run(c *cli.Context) error {
	loader := config.NewLoader(
		config.WithConfigFile(c.String("config")),
		config.WithOverrides(flagOverrides(c)),
	)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.ApplyLogging(nil, cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "run",
		"version":  version,
		"config":   loader.FilePath(),
	}).Info("Starting efblink-host")

	var m *metrics.Metrics
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(registry)
		metricsServer = serveMetrics(cfg.Metrics.Addr, registry)
	}

	session, err := efblink.New(dataref.NewSeededMemory(), cfg.SessionOptions(m))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	defer session.Kill()
	session.Start()

	if path := loader.FilePath(); path != "" {
		watcher, err := config.NewWatcher(path)
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		defer watcher.Stop()
		watcher.OnChange(func(string) { reload(loader, session) })
		watcher.StartAsync()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.WithFields(logrus.Fields{
		"function":   "run",
		"session":    session.ID().String(),
		"local_addr": session.LocalAddr().String(),
	}).Info("Streaming, press Ctrl+C to stop")

	drive(ctx, session)

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "run",
				"error":    err.Error(),
			}).Warn("Metrics server shutdown failed")
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "run",
	}).Info("efblink-host stopped")
	return nil
}

// drive calls Tick at the interval it asks for until ctx is done. This is
// the host scheduler a simulator would otherwise provide.
func drive(ctx context.Context, session *efblink.Session) {
	timer := time.NewTimer(session.Tick())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			timer.Reset(session.Tick())
		}
	}
}

// reload re-reads the configuration after the file changed. Only settings a
// running session can adopt are applied.
func reload(loader *config.Loader, session *efblink.Session) {
	cfg, err := loader.Load()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "reload",
			"error":    err.Error(),
		}).Warn("Ignoring invalid configuration change")
		return
	}

	if err := config.ApplyLogging(nil, cfg.Log); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "reload",
			"error":    err.Error(),
		}).Warn("Ignoring invalid log settings")
	}
	if !session.RequestStreamingRate(cfg.Stream.RateHz) {
		logrus.WithFields(logrus.Fields{
			"function": "reload",
			"rate_hz":  cfg.Stream.RateHz,
		}).Warn("Rate change dropped, session queue full")
	}
}

func serveMetrics(addr string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"function": "serveMetrics",
			"addr":     addr,
		}).Info("Metrics server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithFields(logrus.Fields{
				"function": "serveMetrics",
				"error":    err.Error(),
			}).Error("Metrics server error")
		}
	}()

	return srv
}
