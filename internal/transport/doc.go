// Package transport feeds MPD responses into the protocol decoders.
//
// Ownership boundary:
// - the Conn subset of the gompd client used for fetching
// - turning fetch failures into transport-kind decode errors
// - polling with redial backoff
//
// Decoding itself stays in protocol; this package never retries a decode.
package transport
