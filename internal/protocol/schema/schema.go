package schema

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Record kinds decoded from protocol responses.
const (
	RecordSong     = "song"
	RecordStats    = "stats"
	RecordPlaylist = "playlist"
)

// Song keys.
const (
	KeyFile         = "file"
	KeyLastModified = "Last-Modified"
	KeyName         = "Name"
	KeyTime         = "Time"
	KeyRange        = "Range"
	KeyID           = "Id"
	KeyPos          = "Pos"
	KeyPrio         = "Prio"
)

// Stats keys.
const (
	KeyArtists    = "artists"
	KeyAlbums     = "albums"
	KeySongs      = "songs"
	KeyUptime     = "uptime"
	KeyPlaytime   = "playtime"
	KeyDBPlaytime = "db_playtime"
	KeyDBUpdate   = "db_update"
)

// Playlist keys. Last-Modified is shared with songs.
const (
	KeyPlaylist = "playlist"
)

// StartKey is the key that opens each record in a multi-record response.
var StartKey = map[string]string{
	RecordSong:     KeyFile,
	RecordPlaylist: KeyPlaylist,
}

type ValidationError struct {
	Record string
	Key    string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("schema: record=%s: %s", e.Record, e.Reason)
	}
	return fmt.Sprintf("schema: record=%s key=%s: %s", e.Record, e.Key, e.Reason)
}

// Required keys per record, in the order they are checked. Songs and stats
// tolerate missing keys and default them.
var requirements = map[string][]string{
	RecordSong:     nil,
	RecordStats:    nil,
	RecordPlaylist: {KeyPlaylist, KeyLastModified},
}

// Required returns the keys a record must carry, in check order. The flag is
// false for an unknown record kind.
func Required(record string) ([]string, bool) {
	reqs, ok := requirements[record]
	return reqs, ok
}

// Validate enforces required keys for a record kind. Unknown keys are ignored.
func Validate(record string, attrs map[string]string) error {
	log.Debug().Str("record", record).Int("keys", len(attrs)).Msg("schema.Validate")
	reqs, ok := Required(record)
	if !ok {
		log.Error().Str("record", record).Msg("schema.Validate unknown record")
		return ValidationError{Record: record, Reason: "unknown record"}
	}
	for _, key := range reqs {
		if _, found := attrs[key]; !found {
			log.Debug().
				Str("record", record).
				Str("key", key).
				Msg("schema.Validate missing key")
			return ValidationError{Record: record, Key: key, Reason: "missing required field"}
		}
	}
	return nil
}
