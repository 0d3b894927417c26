// Package protocol decodes MPD-style "key: value" responses into typed
// records and renders them back.
//
// Ownership boundary:
// - scalar field decoders (integers, seconds, timestamps, ranges)
// - record builders for songs, stats and stored playlists
// - JSON and protocol-line encoders for those records
//
// Line tokenizing lives in kv; key names and required keys live in schema.
package protocol
