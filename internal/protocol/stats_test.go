package protocol

import (
	"errors"
	"testing"
	"time"

	"github.com/danmuck/mpdwire/internal/protocol/kv"
	"github.com/danmuck/mpdwire/internal/testutil/testlog"
)

func TestDecodeStatsIgnoresUnknownKeys(t *testing.T) {
	testlog.Start(t)
	st, err := DecodeStats(pairs(
		"artists", "12",
		"foo", "bar",
		"albums", "34",
		"songs", "567",
		"uptime", "3600",
		"playtime", "120",
		"db_playtime", "98765",
		"db_update", "1420167845",
	))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := Stats{
		Artists:    12,
		Albums:     34,
		Songs:      567,
		Uptime:     time.Hour,
		Playtime:   2 * time.Minute,
		DBPlaytime: 98765 * time.Second,
		DBUpdate:   time.Unix(1420167845, 0).UTC(),
	}
	if st != want {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestDecodeStatsDefaults(t *testing.T) {
	testlog.Start(t)
	st, err := DecodeStats(pairs())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st != DefaultStats() || st.DBUpdate.Unix() != 0 {
		t.Fatalf("unexpected defaults: %+v", st)
	}
}

func TestDecodeStatsDuplicateOverwrites(t *testing.T) {
	testlog.Start(t)
	st, err := DecodeStats(pairs("songs", "1", "songs", "2"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Songs != 2 {
		t.Fatalf("unexpected songs: %d", st.Songs)
	}
}

func TestDecodeStatsFirstFailureAborts(t *testing.T) {
	testlog.Start(t)
	st, err := DecodeStats(pairs("artists", "1", "uptime", "x", "albums", "bad"))
	var pe Error
	if !errors.As(err, &pe) || pe.Kind != KindParse || pe.Field != "uptime" {
		t.Fatalf("expected parse error on uptime, got %v", err)
	}
	if st != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", st)
	}

	if _, err := DecodeStats(pairs("db_update", "soon")); !errors.Is(err, ErrParse) {
		t.Fatalf("expected parse error on db_update, got %v", err)
	}
}

func TestStatsPairsRedecodes(t *testing.T) {
	testlog.Start(t)
	in := Stats{
		Artists:    1,
		Albums:     2,
		Songs:      3,
		Uptime:     4 * time.Second,
		Playtime:   5 * time.Second,
		DBPlaytime: 6 * time.Second,
		DBUpdate:   time.Unix(7, 0).UTC(),
	}
	out, err := DecodeStats(kv.All(in.Pairs()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("round-trip mismatch: %+v != %+v", out, in)
	}
}
