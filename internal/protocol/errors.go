package protocol

import (
	"errors"
	"fmt"
)

// Kind classifies a decode failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindProtocol is a required field missing from the response.
	KindProtocol
	// KindParse is a present field whose text is not a valid scalar.
	KindParse
	// KindTime is a timestamp that does not match the wire pattern.
	KindTime
	// KindTransport is an error surfaced by the input sequence itself.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindProtocol:
		return "protocol"
	case KindParse:
		return "parse"
	case KindTime:
		return "time"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

var (
	ErrMissingField = errors.New("protocol: missing field")
	ErrParse        = errors.New("protocol: parse error")
	ErrTime         = errors.New("protocol: time parse error")
	ErrTransport    = errors.New("protocol: transport error")
)

// Error is the single failure type returned by the record builders.
type Error struct {
	Kind  Kind
	Field string
	Value string
	Err   error
}

func (e Error) Error() string {
	switch e.Kind {
	case KindProtocol:
		return fmt.Sprintf("protocol: missing field %q", e.Field)
	case KindParse:
		return fmt.Sprintf("protocol: field %q: cannot parse %q: %v", e.Field, e.Value, e.Err)
	case KindTime:
		return fmt.Sprintf("protocol: field %q: bad time %q: %v", e.Field, e.Value, e.Err)
	case KindTransport:
		return fmt.Sprintf("protocol: transport: %v", e.Err)
	default:
		return fmt.Sprintf("protocol: %v", e.Err)
	}
}

func (e Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e Error) Is(target error) bool {
	switch target {
	case ErrMissingField:
		return e.Kind == KindProtocol
	case ErrParse:
		return e.Kind == KindParse
	case ErrTime:
		return e.Kind == KindTime
	case ErrTransport:
		return e.Kind == KindTransport
	}
	return false
}

// KindOf returns the kind of err, or KindUnknown if err is not an Error.
func KindOf(err error) Kind {
	var pe Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

func newMissingFieldError(field string) error {
	return Error{Kind: KindProtocol, Field: field}
}

func newParseError(field, value string, err error) error {
	return Error{Kind: KindParse, Field: field, Value: value, Err: unwrapNum(err)}
}

func newTimeError(field, value string, err error) error {
	return Error{Kind: KindTime, Field: field, Value: value, Err: err}
}

// WrapTransport lifts an input sequence error into the fold's error type.
// Errors that already carry a kind pass through unchanged.
func WrapTransport(err error) error {
	var pe Error
	if errors.As(err, &pe) {
		return err
	}
	return Error{Kind: KindTransport, Err: err}
}
