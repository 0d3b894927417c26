package protocol

import (
	"iter"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/danmuck/mpdwire/internal/protocol/kv"
	"github.com/danmuck/mpdwire/internal/protocol/schema"
	"github.com/rs/zerolog/log"
)

// ID identifies a song in the play queue.
type ID uint32

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// QueuePlace locates a queued song.
type QueuePlace struct {
	ID ID
	// Pos is the zero-based queue position.
	Pos  uint32
	Prio uint8
}

// Song is one song entry. File is empty when the response carried no file key.
type Song struct {
	File         string
	Name         *string
	LastModified *time.Time
	Duration     *time.Duration
	Place        *QueuePlace
	Range        *Range
	Tags         map[string]string
}

type songField int

const (
	songTag songField = iota
	songFile
	songLastModified
	songName
	songTime
	songRange
	songID
	songPos
	songPrio
)

var songFields = map[string]songField{
	schema.KeyFile:         songFile,
	schema.KeyLastModified: songLastModified,
	schema.KeyName:         songName,
	schema.KeyTime:         songTime,
	schema.KeyRange:        songRange,
	schema.KeyID:           songID,
	schema.KeyPos:          songPos,
	schema.KeyPrio:         songPrio,
}

// songBuilder accumulates one song. place is created by the first Id, Pos or
// Prio key and updated in place by later ones.
type songBuilder struct {
	song  Song
	place *QueuePlace
}

func (b *songBuilder) queuePlace() *QueuePlace {
	if b.place == nil {
		b.place = &QueuePlace{}
	}
	return b.place
}

func (b *songBuilder) apply(p kv.Pair) error {
	switch songFields[p.Key] {
	case songFile:
		b.song.File = p.Value
	case songLastModified:
		t, err := ParseTime(p.Key, p.Value)
		if err != nil {
			return err
		}
		b.song.LastModified = &t
	case songName:
		name := p.Value
		b.song.Name = &name
	case songTime:
		d, err := ParseDuration(p.Key, p.Value)
		if err != nil {
			return err
		}
		b.song.Duration = &d
	case songRange:
		r, err := ParseRange(p.Key, p.Value)
		if err != nil {
			return err
		}
		b.song.Range = &r
	case songID:
		v, err := ParseUint32(p.Key, p.Value)
		if err != nil {
			return err
		}
		b.queuePlace().ID = ID(v)
	case songPos:
		v, err := ParseUint32(p.Key, p.Value)
		if err != nil {
			return err
		}
		b.queuePlace().Pos = v
	case songPrio:
		v, err := ParseUint8(p.Key, p.Value)
		if err != nil {
			return err
		}
		b.queuePlace().Prio = v
	default:
		b.song.Tags[p.Key] = p.Value
	}
	return nil
}

func (b *songBuilder) finish() Song {
	s := b.song
	if b.place != nil {
		place := *b.place
		s.Place = &place
	}
	return s
}

// DecodeSong folds one song's pairs into a Song. It stops at the first
// error from seq or from a field decoder and returns the zero Song.
func DecodeSong(seq iter.Seq2[kv.Pair, error]) (Song, error) {
	b := songBuilder{song: Song{Tags: make(map[string]string)}}
	n := 0
	for p, err := range seq {
		if err != nil {
			err = WrapTransport(err)
			log.Debug().Err(err).Int("pairs", n).Msg("protocol.DecodeSong aborted")
			return Song{}, err
		}
		if err := b.apply(p); err != nil {
			log.Debug().Err(err).Int("pairs", n).Msg("protocol.DecodeSong aborted")
			return Song{}, err
		}
		n++
	}
	song := b.finish()
	log.Debug().Str("file", song.File).Int("pairs", n).Msg("protocol.DecodeSong")
	return song, nil
}

// DecodeSongs decodes a multi-song response, splitting at each file key.
func DecodeSongs(seq iter.Seq2[kv.Pair, error]) ([]Song, error) {
	pairs, err := kv.Collect(seq)
	if err != nil {
		return nil, WrapTransport(err)
	}
	groups := kv.Group(pairs, schema.StartKey[schema.RecordSong])
	songs := make([]Song, 0, len(groups))
	for _, g := range groups {
		s, err := DecodeSong(kv.All(g))
		if err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, nil
}

// Pairs projects the song back to protocol lines. Tags follow the known keys
// in sorted order.
func (s Song) Pairs() []kv.Pair {
	out := []kv.Pair{{Key: schema.KeyFile, Value: s.File}}
	if s.LastModified != nil {
		out = append(out, kv.Pair{Key: schema.KeyLastModified, Value: formatTime(*s.LastModified)})
	}
	if s.Name != nil {
		out = append(out, kv.Pair{Key: schema.KeyName, Value: *s.Name})
	}
	if s.Duration != nil {
		out = append(out, kv.Pair{Key: schema.KeyTime, Value: formatSeconds(*s.Duration)})
	}
	if s.Range != nil {
		out = append(out, kv.Pair{Key: schema.KeyRange, Value: s.Range.wire()})
	}
	if s.Place != nil {
		out = append(out,
			kv.Pair{Key: schema.KeyPos, Value: strconv.FormatUint(uint64(s.Place.Pos), 10)},
			kv.Pair{Key: schema.KeyID, Value: s.Place.ID.String()},
			kv.Pair{Key: schema.KeyPrio, Value: strconv.FormatUint(uint64(s.Place.Prio), 10)},
		)
	}
	for _, k := range slices.Sorted(maps.Keys(s.Tags)) {
		out = append(out, kv.Pair{Key: k, Value: s.Tags[k]})
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
