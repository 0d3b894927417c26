package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestParseLevelAliases(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":       zerolog.TraceLevel,
		"diagnostics": zerolog.TraceLevel,
		" DEBUG ":     zerolog.DebugLevel,
		"warning":     zerolog.WarnLevel,
		"error":       zerolog.ErrorLevel,
		"off":         zerolog.Disabled,
	}
	for raw, want := range cases {
		got, ok := parseLevel(raw)
		if !ok {
			t.Fatalf("parseLevel(%q) not recognized", raw)
		}
		if got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
	if _, ok := parseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
	if _, ok := parseLevel(""); ok {
		t.Fatalf("expected empty level to be rejected")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogNoColor, "true")
	t.Setenv(EnvLogBypass, "not-a-bool")

	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg)

	if cfg.Level != zerolog.ErrorLevel {
		t.Fatalf("unexpected level: %v", cfg.Level)
	}
	if cfg.Timestamp {
		t.Fatalf("expected timestamp disabled")
	}
	if !cfg.NoColor {
		t.Fatalf("expected no color")
	}
	if cfg.Bypass {
		t.Fatalf("invalid bool must not enable bypass")
	}
}

func TestNewWritesAppField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.InfoLevel, NoColor: true, Out: &buf})
	logger.Info().Str("record", "song").Msg("decoded")
	logger.Debug().Msg("hidden")

	out := buf.String()
	if !strings.Contains(out, "decoded") || !strings.Contains(out, "app=mpdwire") {
		t.Fatalf("unexpected output: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at info level: %q", out)
	}
}

func TestSetLevelKeepsBypass(t *testing.T) {
	t.Cleanup(func() { Install(defaultConfig(ProfileTest)) })
	var buf bytes.Buffer
	Install(Config{Level: zerolog.InfoLevel, NoColor: true, Bypass: true, Out: &buf})

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	log.Info().Msg("after")
	if buf.Len() != 0 {
		t.Fatalf("bypassed logger wrote output: %q", buf.String())
	}
	if zerolog.GlobalLevel() != zerolog.Disabled {
		t.Fatalf("global level re-enabled: %v", zerolog.GlobalLevel())
	}
}

func TestSetLevelEnvOverrideWins(t *testing.T) {
	t.Cleanup(func() { Install(defaultConfig(ProfileTest)) })
	t.Setenv(EnvLogLevel, "debug")
	var buf bytes.Buffer
	Install(Config{Level: zerolog.DebugLevel, NoColor: true, Out: &buf})

	if err := SetLevel("error"); err != nil {
		t.Fatalf("valid level with env override must not fail: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("env level overridden: %v", zerolog.GlobalLevel())
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	t.Cleanup(func() { Install(defaultConfig(ProfileTest)) })
	t.Setenv(EnvLogLevel, "")
	Install(Config{Level: zerolog.InfoLevel, NoColor: true, Out: &bytes.Buffer{}})

	if err := SetLevel("loud"); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("expected unknown level, got %v", err)
	}
	if err := SetLevel("warn"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("unexpected global level: %v", zerolog.GlobalLevel())
	}
	if !ValidLevel("error") || ValidLevel("loud") {
		t.Fatalf("unexpected ValidLevel results")
	}
}
