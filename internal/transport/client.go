package transport

import (
	"iter"
	"time"

	"github.com/danmuck/mpdwire/internal/observability"
	"github.com/danmuck/mpdwire/internal/protocol"
	"github.com/danmuck/mpdwire/internal/protocol/kv"
	"github.com/danmuck/mpdwire/internal/protocol/schema"
	"github.com/fhs/gompd/v2/mpd"
	"github.com/rs/zerolog/log"
)

// Conn is the part of *mpd.Client used for fetching records.
type Conn interface {
	CurrentSong() (mpd.Attrs, error)
	Stats() (mpd.Attrs, error)
	ListPlaylists() ([]mpd.Attrs, error)
	PlaylistInfo(start, end int) ([]mpd.Attrs, error)
	Ping() error
	Close() error
}

// Dialer opens a Conn.
type Dialer func(network, addr, password string) (Conn, error)

// DialMPD connects with gompd, authenticating when password is set.
func DialMPD(network, addr, password string) (Conn, error) {
	var (
		c   *mpd.Client
		err error
	)
	if password != "" {
		c, err = mpd.DialAuthenticated(network, addr, password)
	} else {
		c, err = mpd.Dial(network, addr)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Client fetches MPD responses and decodes them into records.
type Client struct {
	conn Conn
}

func New(conn Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) Ping() error {
	start := time.Now()
	err := c.conn.Ping()
	observability.RecordCommand("ping", time.Since(start), err)
	if err != nil {
		return protocol.WrapTransport(err)
	}
	return nil
}

// CurrentSong returns the playing song. The flag is false when nothing is
// playing, which MPD reports as an empty response.
func (c *Client) CurrentSong() (protocol.Song, bool, error) {
	start := time.Now()
	song, err := protocol.DecodeSong(attrsSeq(c.conn.CurrentSong()))
	observability.RecordCommand("currentsong", time.Since(start), err)
	observability.RecordDecode(schema.RecordSong, 1, err)
	if err != nil {
		return protocol.Song{}, false, err
	}
	if song.File == "" {
		log.Debug().Msg("transport.CurrentSong nothing playing")
		return protocol.Song{}, false, nil
	}
	return song, true, nil
}

func (c *Client) Stats() (protocol.Stats, error) {
	start := time.Now()
	st, err := protocol.DecodeStats(attrsSeq(c.conn.Stats()))
	observability.RecordCommand("stats", time.Since(start), err)
	observability.RecordDecode(schema.RecordStats, 1, err)
	return st, err
}

func (c *Client) Playlists() ([]protocol.Playlist, error) {
	start := time.Now()
	out, err := decodeList(c.conn.ListPlaylists, protocol.DecodePlaylist)
	observability.RecordCommand("listplaylists", time.Since(start), err)
	observability.RecordDecode(schema.RecordPlaylist, len(out), err)
	return out, err
}

// Queue returns every song in the play queue.
func (c *Client) Queue() ([]protocol.Song, error) {
	start := time.Now()
	fetch := func() ([]mpd.Attrs, error) { return c.conn.PlaylistInfo(-1, -1) }
	decode := func(a map[string]string) (protocol.Song, error) {
		return protocol.DecodeSong(kv.FromMap(a))
	}
	out, err := decodeList(fetch, decode)
	observability.RecordCommand("playlistinfo", time.Since(start), err)
	observability.RecordDecode(schema.RecordSong, len(out), err)
	return out, err
}

// attrsSeq presents a fetch result as a pair sequence; a fetch error becomes
// the sequence's only element.
func attrsSeq(attrs mpd.Attrs, err error) iter.Seq2[kv.Pair, error] {
	if err != nil {
		return func(yield func(kv.Pair, error) bool) {
			yield(kv.Pair{}, err)
		}
	}
	return kv.FromMap(attrs)
}

func decodeList[T any](fetch func() ([]mpd.Attrs, error), decode func(map[string]string) (T, error)) ([]T, error) {
	list, err := fetch()
	if err != nil {
		return nil, protocol.WrapTransport(err)
	}
	out := make([]T, 0, len(list))
	for _, attrs := range list {
		v, err := decode(attrs)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
