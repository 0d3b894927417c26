package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/mpdwire/internal/config"
	"github.com/danmuck/mpdwire/internal/protocol"
	"github.com/danmuck/mpdwire/internal/testutil/testlog"
)

func TestDecodeSongFromStdin(t *testing.T) {
	testlog.Start(t)
	in := strings.NewReader("file: a.flac\nTime: 125\nId: 7\nPos: 3\nArtist: X\nOK\n")
	var out bytes.Buffer
	if err := run([]string{"decode", "--kind", "song", "--pretty=false"}, in, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := `{"file":"a.flac","name":null,"last_mod":null,"duration":125,` +
		`"place":{"id":{"value":7},"pos":3,"prio":0},"range":null,"tags":{"Artist":"X"}}` + "\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n got %s\nwant %s", out.String(), want)
	}
}

func TestDecodePlaylistsFromFile(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "listplaylists.txt")
	body := "playlist: a\nLast-Modified: 2015-01-02T03:04:05Z\nplaylist: b\nLast-Modified: 2015-01-02T03:04:05Z\nOK\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	var out bytes.Buffer
	if err := run([]string{"decode", "-k", "playlists", "-i", path, "--pretty=false"}, nil, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := `[{"name":"a","last_mod":1420167845},{"name":"b","last_mod":1420167845}]` + "\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n got %s\nwant %s", out.String(), want)
	}
}

func TestDecodePlaylistMissingFieldFails(t *testing.T) {
	testlog.Start(t)
	err := run([]string{"decode", "--kind", "playlist"}, strings.NewReader("playlist: a\nOK\n"), &bytes.Buffer{})
	if !errors.Is(err, protocol.ErrMissingField) {
		t.Fatalf("expected missing field, got %v", err)
	}
}

func TestDecodeAckIsTransportError(t *testing.T) {
	testlog.Start(t)
	in := strings.NewReader("ACK [50@0] {stats} nope\n")
	err := run([]string{"decode", "--kind", "stats"}, in, &bytes.Buffer{})
	if !errors.Is(err, protocol.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestUsageErrors(t *testing.T) {
	testlog.Start(t)
	cases := [][]string{
		nil,
		{"bogus"},
		{"decode", "--kind", "album"},
		{"fetch"},
		{"fetch", "outputs"},
		{"config"},
	}
	for _, args := range cases {
		err := run(args, strings.NewReader(""), &bytes.Buffer{})
		if !errors.Is(err, errUsage) {
			t.Fatalf("args %v: expected usage error, got %v", args, err)
		}
	}
}

func TestParseFetchFlagsOverrideConfig(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "mpdwire.toml")
	body := "[mpd]\naddr = \"music:6600\"\npoll_interval = \"5s\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	opts, err := parseFetch([]string{"stats", "--config", path, "--interval", "2s"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.name != "stats" || opts.cfg.MPD.Addr != "music:6600" || opts.cfg.MPD.PollInterval != 2*time.Second {
		t.Fatalf("unexpected options: %+v", opts.cfg)
	}

	if _, err := parseFetch([]string{"stats", "--network", "udp"}); err == nil {
		t.Fatalf("expected invalid network to fail validation")
	}
}

func TestConfigCommandWritesValidTemplate(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "mpdwire.toml")
	var out bytes.Buffer
	if err := run([]string{"config", "--output", path}, nil, &out); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := run([]string{"config", "--output", path}, nil, &out); err == nil {
		t.Fatalf("expected existing file to be refused without --force")
	}
	if err := run([]string{"config", "--validate", path}, nil, &out); err != nil {
		t.Fatalf("validate: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil || cfg.MPD.Addr != config.Default().MPD.Addr {
		t.Fatalf("unexpected template config: %+v %v", cfg, err)
	}
}

func TestConfigValidateRejectsUnknownLogLevel(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "mpdwire.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := run([]string{"config", "--validate", path}, nil, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected unknown log level to fail validation")
	}
	if _, err := parseFetch([]string{"stats", "--config", path}); err == nil {
		t.Fatalf("expected fetch to refuse an unknown log level")
	}
}
