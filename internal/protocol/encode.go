package protocol

import (
	"encoding/json"
	"strconv"
	"time"

	"go.mau.fi/util/jsontime"
)

// seconds renders a duration as an integer count of seconds.
type seconds time.Duration

func (s seconds) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(time.Duration(s)/time.Second), 10), nil
}

func optSeconds(d *time.Duration) *seconds {
	if d == nil {
		return nil
	}
	s := seconds(*d)
	return &s
}

func optUnix(t *time.Time) *jsontime.Unix {
	if t == nil {
		return nil
	}
	u := jsontime.U(*t)
	return &u
}

type idJSON struct {
	Value uint32 `json:"value"`
}

// MarshalJSON renders the id as its own object, {"value": n}.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(idJSON{Value: uint32(id)})
}

type placeJSON struct {
	ID   ID     `json:"id"`
	Pos  uint32 `json:"pos"`
	Prio uint8  `json:"prio"`
}

func (p QueuePlace) MarshalJSON() ([]byte, error) {
	return json.Marshal(placeJSON(p))
}

// MarshalJSON renders [start, end] in seconds with a null end when unbounded.
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]*seconds{optSeconds(&r.Start), optSeconds(r.End)})
}

type songJSON struct {
	File     string            `json:"file"`
	Name     *string           `json:"name"`
	LastMod  *jsontime.Unix    `json:"last_mod"`
	Duration *seconds          `json:"duration"`
	Place    *QueuePlace       `json:"place"`
	Range    *Range            `json:"range"`
	Tags     map[string]string `json:"tags"`
}

func (s Song) MarshalJSON() ([]byte, error) {
	tags := s.Tags
	if tags == nil {
		tags = map[string]string{}
	}
	return json.Marshal(songJSON{
		File:     s.File,
		Name:     s.Name,
		LastMod:  optUnix(s.LastModified),
		Duration: optSeconds(s.Duration),
		Place:    s.Place,
		Range:    s.Range,
		Tags:     tags,
	})
}

type statsJSON struct {
	Artists    uint32        `json:"artists"`
	Albums     uint32        `json:"albums"`
	Songs      uint32        `json:"songs"`
	Uptime     seconds       `json:"uptime"`
	Playtime   seconds       `json:"playtime"`
	DBPlaytime seconds       `json:"db_playtime"`
	DBUpdate   jsontime.Unix `json:"db_update"`
}

func (s Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(statsJSON{
		Artists:    s.Artists,
		Albums:     s.Albums,
		Songs:      s.Songs,
		Uptime:     seconds(s.Uptime),
		Playtime:   seconds(s.Playtime),
		DBPlaytime: seconds(s.DBPlaytime),
		DBUpdate:   jsontime.U(s.DBUpdate),
	})
}

type playlistJSON struct {
	Name    string        `json:"name"`
	LastMod jsontime.Unix `json:"last_mod"`
}

func (p Playlist) MarshalJSON() ([]byte, error) {
	return json.Marshal(playlistJSON{Name: p.Name, LastMod: jsontime.U(p.LastModified)})
}
