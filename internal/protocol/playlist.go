package protocol

import (
	"errors"
	"iter"
	"time"

	"github.com/danmuck/mpdwire/internal/protocol/kv"
	"github.com/danmuck/mpdwire/internal/protocol/schema"
	"github.com/rs/zerolog/log"
)

// Playlist is a stored playlist entry.
type Playlist struct {
	Name         string
	LastModified time.Time
}

// DecodePlaylist reads one playlist entry from a completed key lookup. Both
// the playlist and Last-Modified keys are required.
func DecodePlaylist(attrs map[string]string) (Playlist, error) {
	if err := schema.Validate(schema.RecordPlaylist, attrs); err != nil {
		var ve schema.ValidationError
		if errors.As(err, &ve) && ve.Key != "" {
			err = newMissingFieldError(ve.Key)
		}
		log.Debug().Err(err).Msg("protocol.DecodePlaylist aborted")
		return Playlist{}, err
	}
	lastMod, err := ParseTime(schema.KeyLastModified, attrs[schema.KeyLastModified])
	if err != nil {
		log.Debug().Err(err).Msg("protocol.DecodePlaylist aborted")
		return Playlist{}, err
	}
	pl := Playlist{Name: attrs[schema.KeyPlaylist], LastModified: lastMod}
	log.Debug().Str("playlist", pl.Name).Msg("protocol.DecodePlaylist")
	return pl, nil
}

// DecodePlaylists decodes a listplaylists response, splitting at each
// playlist key.
func DecodePlaylists(seq iter.Seq2[kv.Pair, error]) ([]Playlist, error) {
	pairs, err := kv.Collect(seq)
	if err != nil {
		return nil, WrapTransport(err)
	}
	groups := kv.Group(pairs, schema.StartKey[schema.RecordPlaylist])
	out := make([]Playlist, 0, len(groups))
	for _, g := range groups {
		pl, err := DecodePlaylist(kv.ToMap(g))
		if err != nil {
			return nil, err
		}
		out = append(out, pl)
	}
	return out, nil
}

// Pairs projects the entry back to protocol lines.
func (p Playlist) Pairs() []kv.Pair {
	return []kv.Pair{
		{Key: schema.KeyPlaylist, Value: p.Name},
		{Key: schema.KeyLastModified, Value: formatTime(p.LastModified)},
	}
}
