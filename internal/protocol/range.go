package protocol

import "time"

// Range is the part of a queued song to play. A nil End plays to the end.
type Range struct {
	Start time.Duration
	End   *time.Duration
}

// String renders "<start>:<end>" in seconds, leaving the end empty when unbounded.
func (r Range) String() string {
	s := formatSeconds(r.Start) + ":"
	if r.End != nil {
		s += formatSeconds(*r.End)
	}
	return s
}

// Equal reports whether both ranges cover the same interval.
func (r Range) Equal(o Range) bool {
	if r.Start != o.Start {
		return false
	}
	if r.End == nil || o.End == nil {
		return r.End == nil && o.End == nil
	}
	return *r.End == *o.End
}

// wire renders the protocol form accepted by ParseRange.
func (r Range) wire() string {
	s := formatSeconds(r.Start) + "-"
	if r.End != nil {
		s += formatSeconds(*r.End)
	}
	return s
}
