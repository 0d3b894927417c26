package main

import (
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/danmuck/mpdwire/internal/observability"
	"github.com/danmuck/mpdwire/internal/protocol"
	"github.com/danmuck/mpdwire/internal/protocol/kv"
	"github.com/danmuck/mpdwire/internal/protocol/schema"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func runDecode(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	kind := fs.StringP("kind", "k", "song", "record kind: song|songs|stats|playlist|playlists")
	input := fs.StringP("input", "i", "", "captured MPD response (default stdin)")
	pretty := fs.Bool("pretty", true, "indent JSON output")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("decode: %v: %w", err, errUsage)
	}

	r := stdin
	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	v, err := decodeKind(*kind, kv.Scan(r))
	if err != nil {
		return err
	}
	log.Debug().Str("kind", *kind).Msg("decode complete")
	return writeJSON(stdout, v, *pretty)
}

func decodeKind(kind string, seq iter.Seq2[kv.Pair, error]) (any, error) {
	switch kind {
	case "song":
		song, err := protocol.DecodeSong(seq)
		observability.RecordDecode(schema.RecordSong, 1, err)
		return song, err
	case "songs":
		songs, err := protocol.DecodeSongs(seq)
		observability.RecordDecode(schema.RecordSong, len(songs), err)
		return songs, err
	case "stats":
		st, err := protocol.DecodeStats(seq)
		observability.RecordDecode(schema.RecordStats, 1, err)
		return st, err
	case "playlist":
		pairs, err := kv.Collect(seq)
		if err != nil {
			return nil, protocol.WrapTransport(err)
		}
		pl, err := protocol.DecodePlaylist(kv.ToMap(pairs))
		observability.RecordDecode(schema.RecordPlaylist, 1, err)
		return pl, err
	case "playlists":
		pls, err := protocol.DecodePlaylists(seq)
		observability.RecordDecode(schema.RecordPlaylist, len(pls), err)
		return pls, err
	default:
		return nil, fmt.Errorf("unknown record kind %q: %w", kind, errUsage)
	}
}
