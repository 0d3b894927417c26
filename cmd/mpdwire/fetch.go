package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/mpdwire/internal/config"
	"github.com/danmuck/mpdwire/internal/logging"
	"github.com/danmuck/mpdwire/internal/observability"
	"github.com/danmuck/mpdwire/internal/transport"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

type fetchFunc func(*transport.Client) (any, error)

var fetchers = map[string]fetchFunc{
	"currentsong": func(c *transport.Client) (any, error) {
		song, ok, err := c.CurrentSong()
		if err != nil || !ok {
			return nil, err
		}
		return song, nil
	},
	"stats": func(c *transport.Client) (any, error) {
		return c.Stats()
	},
	"playlists": func(c *transport.Client) (any, error) {
		return c.Playlists()
	},
	"queue": func(c *transport.Client) (any, error) {
		return c.Queue()
	},
}

type fetchOptions struct {
	cfg  config.Config
	what fetchFunc
	name string
}

func parseFetch(args []string) (fetchOptions, error) {
	fs := pflag.NewFlagSet("fetch", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfgPath := fs.StringP("config", "c", "", "TOML config path")
	network := fs.String("network", "", "MPD network (tcp|tcp4|tcp6|unix)")
	addr := fs.String("addr", "", "MPD address")
	interval := fs.Duration("interval", 0, "poll interval; 0 fetches once")
	metricsAddr := fs.String("metrics-addr", "", "serve /metrics on this address")
	pretty := fs.Bool("pretty", true, "indent JSON output")
	if err := fs.Parse(args); err != nil {
		return fetchOptions{}, fmt.Errorf("fetch: %v: %w", err, errUsage)
	}
	if fs.NArg() != 1 {
		return fetchOptions{}, fmt.Errorf("fetch: expected one command: %w", errUsage)
	}
	name := fs.Arg(0)
	what, ok := fetchers[name]
	if !ok {
		return fetchOptions{}, fmt.Errorf("fetch: unknown command %q: %w", name, errUsage)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return fetchOptions{}, err
		}
		cfg = loaded
	}
	if fs.Changed("network") {
		cfg.MPD.Network = *network
	}
	if fs.Changed("addr") {
		cfg.MPD.Addr = *addr
	}
	if fs.Changed("interval") {
		cfg.MPD.PollInterval = *interval
	}
	if fs.Changed("metrics-addr") {
		cfg.MetricsAddr = *metricsAddr
	}
	if fs.Changed("pretty") {
		cfg.Pretty = *pretty
	}
	if err := config.Validate(cfg); err != nil {
		return fetchOptions{}, err
	}
	return fetchOptions{cfg: cfg, what: what, name: name}, nil
}

func runFetch(args []string, stdout io.Writer) error {
	opts, err := parseFetch(args)
	if err != nil {
		return err
	}
	cfg := opts.cfg
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		log.Warn().Err(err).Msg("ignoring config log level")
	}

	if cfg.MetricsAddr != "" {
		srv := observability.Serve(cfg.MetricsAddr)
		defer srv.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("command", opts.name).
		Str("addr", cfg.MPD.Addr).
		Dur("interval", cfg.MPD.PollInterval).
		Msg("fetch starting")

	poller := transport.NewPoller(cfg.MPD, nil)
	return poller.Run(ctx, cfg.MPD.PollInterval, func(c *transport.Client) error {
		v, err := opts.what(c)
		if err != nil {
			return err
		}
		return writeJSON(stdout, v, cfg.Pretty)
	})
}
