package protocol

import (
	"iter"
	"strconv"
	"time"

	"github.com/danmuck/mpdwire/internal/protocol/kv"
	"github.com/danmuck/mpdwire/internal/protocol/schema"
	"github.com/rs/zerolog/log"
)

// Stats is the database and playback statistics snapshot.
type Stats struct {
	Artists uint32
	Albums  uint32
	Songs   uint32
	// Uptime is how long the server has been running.
	Uptime time.Duration
	// Playtime is how long the server has been playing.
	Playtime time.Duration
	// DBPlaytime is the summed duration of every song in the database.
	DBPlaytime time.Duration
	DBUpdate   time.Time
}

// DefaultStats is the value every key defaults to before decoding.
func DefaultStats() Stats {
	return Stats{DBUpdate: time.Unix(0, 0).UTC()}
}

func (s *Stats) apply(p kv.Pair) error {
	var err error
	switch p.Key {
	case schema.KeyArtists:
		s.Artists, err = ParseUint32(p.Key, p.Value)
	case schema.KeyAlbums:
		s.Albums, err = ParseUint32(p.Key, p.Value)
	case schema.KeySongs:
		s.Songs, err = ParseUint32(p.Key, p.Value)
	case schema.KeyUptime:
		s.Uptime, err = ParseDuration(p.Key, p.Value)
	case schema.KeyPlaytime:
		s.Playtime, err = ParseDuration(p.Key, p.Value)
	case schema.KeyDBPlaytime:
		s.DBPlaytime, err = ParseDuration(p.Key, p.Value)
	case schema.KeyDBUpdate:
		s.DBUpdate, err = ParseUnixTime(p.Key, p.Value)
	}
	return err
}

// DecodeStats folds a stats response. Unknown keys are ignored.
func DecodeStats(seq iter.Seq2[kv.Pair, error]) (Stats, error) {
	acc := DefaultStats()
	for p, err := range seq {
		if err != nil {
			err = WrapTransport(err)
			log.Debug().Err(err).Msg("protocol.DecodeStats aborted")
			return Stats{}, err
		}
		if err := acc.apply(p); err != nil {
			log.Debug().Err(err).Msg("protocol.DecodeStats aborted")
			return Stats{}, err
		}
	}
	log.Debug().Uint32("songs", acc.Songs).Msg("protocol.DecodeStats")
	return acc, nil
}

// Pairs projects the snapshot back to protocol lines.
func (s Stats) Pairs() []kv.Pair {
	u32 := func(v uint32) string { return strconv.FormatUint(uint64(v), 10) }
	return []kv.Pair{
		{Key: schema.KeyArtists, Value: u32(s.Artists)},
		{Key: schema.KeyAlbums, Value: u32(s.Albums)},
		{Key: schema.KeySongs, Value: u32(s.Songs)},
		{Key: schema.KeyUptime, Value: formatSeconds(s.Uptime)},
		{Key: schema.KeyPlaytime, Value: formatSeconds(s.Playtime)},
		{Key: schema.KeyDBPlaytime, Value: formatSeconds(s.DBPlaytime)},
		{Key: schema.KeyDBUpdate, Value: strconv.FormatInt(s.DBUpdate.Unix(), 10)},
	}
}
