package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/mpdwire/internal/logging"
)

// Config is the mpdwire runtime configuration.
type Config struct {
	MPD         MPDConfig
	LogLevel    string
	MetricsAddr string
	Pretty      bool
}

type MPDConfig struct {
	Network  string
	Addr     string
	Password string
	// ReconnectMaxDelay caps the backoff between redials while polling.
	ReconnectMaxDelay time.Duration
	// PollInterval is zero for a single fetch.
	PollInterval time.Duration
}

// config.toml key mapping.
type fileConfig struct {
	MPD struct {
		Network           string `toml:"network"`
		Addr              string `toml:"addr"`
		Password          string `toml:"password"`
		ReconnectMaxDelay string `toml:"reconnect_max_delay"`
		PollInterval      string `toml:"poll_interval"`
	} `toml:"mpd"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
	Metrics struct {
		Addr string `toml:"addr"`
	} `toml:"metrics"`
	Output struct {
		Pretty bool `toml:"pretty"`
	} `toml:"output"`
}

func Default() Config {
	return Config{
		MPD: MPDConfig{
			Network:           "tcp",
			Addr:              "localhost:6600",
			ReconnectMaxDelay: 30 * time.Second,
		},
		LogLevel: "info",
		Pretty:   true,
	}
}

// Load overlays the keys defined in path on Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("mpd", "network") {
		cfg.MPD.Network = strings.TrimSpace(raw.MPD.Network)
	}
	if meta.IsDefined("mpd", "addr") {
		cfg.MPD.Addr = strings.TrimSpace(raw.MPD.Addr)
	}
	if meta.IsDefined("mpd", "password") {
		cfg.MPD.Password = raw.MPD.Password
	}
	if meta.IsDefined("mpd", "reconnect_max_delay") {
		d, err := parseDuration("mpd.reconnect_max_delay", raw.MPD.ReconnectMaxDelay)
		if err != nil {
			return Config{}, err
		}
		cfg.MPD.ReconnectMaxDelay = d
	}
	if meta.IsDefined("mpd", "poll_interval") {
		d, err := parseDuration("mpd.poll_interval", raw.MPD.PollInterval)
		if err != nil {
			return Config{}, err
		}
		cfg.MPD.PollInterval = d
	}
	if meta.IsDefined("log", "level") {
		cfg.LogLevel = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("metrics", "addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.Metrics.Addr)
	}
	if meta.IsDefined("output", "pretty") {
		cfg.Pretty = raw.Output.Pretty
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	switch cfg.MPD.Network {
	case "tcp", "tcp4", "tcp6", "unix":
	default:
		return fmt.Errorf("mpd config invalid network: %q", cfg.MPD.Network)
	}
	if strings.TrimSpace(cfg.MPD.Addr) == "" {
		return fmt.Errorf("mpd config missing addr")
	}
	if cfg.MPD.ReconnectMaxDelay <= 0 {
		return fmt.Errorf("mpd config reconnect_max_delay must be positive")
	}
	if cfg.MPD.PollInterval < 0 {
		return fmt.Errorf("mpd config poll_interval must not be negative")
	}
	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("log config unknown level: %q", cfg.LogLevel)
	}
	return nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", key, err)
	}
	return d, nil
}
