package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/opd-ai/efblink/command"
	"github.com/opd-ai/efblink/config"
	"github.com/opd-ai/efblink/transport"
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
		Name:    "efblink-peer",
		Usage:   "Talk to an efblink host from the EFB side",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "Host address (e.g., 192.168.1.10:49100)",
				EnvVars: []string{"EFBLINK_TARGET"},
				Value:   "127.0.0.1:49100",
			},
			&cli.StringFlag{
				Name:  "bind",
				Usage: "Local UDP address",
				Value: "0.0.0.0:0",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
				Value: "warn",
			},
		},
		Before: func(c *cli.Context) error {
			return config.ApplyLogging(nil, config.LogConfig{Level: c.String("log-level")})
		},
		Commands: []*cli.Command{
			watchCommand(),
			setCommand(),
			swapCommand(),
			reloadCommand(),
		},
	}
}

func repeatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "repeat",
			Usage: "Send the frame this many times",
			Value: 1,
		},
		&cli.DurationFlag{
			Name:  "interval",
			Usage: "Minimum time between repeated frames",
			Value: 100 * time.Millisecond,
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Acknowledge the host and print streamed frames",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "count",
				Usage: "Stop after this many frames (0 = until interrupted)",
			},
			&cli.DurationFlag{
				Name:  "ack-interval",
				Usage: "Time between Ack frames; keep below the host watchdog",
				Value: time.Second,
			},
		},
		Action: func(c *cli.Context) error {
			return withPeer(c, func(ctx context.Context, p *peer) error {
				tracker, err := p.watch(ctx, c.Duration("ack-interval"), c.Int("count"), c.App.Writer)
				fmt.Fprintf(c.App.Writer, "received=%d lost=%d stale=%d\n", tracker.received, tracker.lost, tracker.stale)
				return err
			})
		},
	}
}

func setCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Write a dataref on the host",
		ArgsUsage: "<path> <value>",
		Flags:     repeatFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("set needs <path> <value>", 2)
			}
			value, err := strconv.ParseFloat(c.Args().Get(1), 64)
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid value %q", c.Args().Get(1)), 2)
			}
			cmd := command.SetDataref{Path: c.Args().Get(0), Value: value}
			return sendRepeated(c, func(p *peer) error { return p.sendCommand(cmd) })
		},
	}
}

func swapCommand() *cli.Command {
	return &cli.Command{
		Name:      "swap",
		Usage:     "Swap active and standby frequencies",
		ArgsUsage: "<COM1|COM2|NAV1>",
		Flags:     repeatFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("swap needs <radio>", 2)
			}
			cmd := command.SwapFreq{Radio: c.Args().First()}
			return sendRepeated(c, func(p *peer) error { return p.sendCommand(cmd) })
		},
	}
}

func reloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "reload",
		Usage: "Ask the host to re-resolve its datarefs",
		Flags: repeatFlags(),
		Action: func(c *cli.Context) error {
			return sendRepeated(c, (*peer).sendReload)
		},
	}
}

func sendRepeated(c *cli.Context, send func(*peer) error) error {
	return withPeer(c, func(ctx context.Context, p *peer) error {
		return repeat(ctx, c.Int("repeat"), c.Duration("interval"), func() error { return send(p) })
	})
}

// withPeer opens the local socket, resolves the target and runs fn until it
// returns or the process is interrupted.
func withPeer(c *cli.Context, fn func(context.Context, *peer) error) error {
	target, err := transport.ResolveAddr(c.String("target"))
	if err != nil {
		return err
	}
	t, err := transport.NewUDPTransport(c.String("bind"))
	if err != nil {
		return err
	}
	defer t.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.WithFields(logrus.Fields{
		"function": "withPeer",
		"target":   target.String(),
		"local":    t.LocalAddr().String(),
	}).Debug("Peer socket open")

	return fn(ctx, newPeer(t, target))
}
