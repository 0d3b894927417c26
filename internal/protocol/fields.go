package protocol

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the wire form of Last-Modified: "2006-01-02T15:04:05Z".
// Numeric offsets are accepted on input.
const TimeLayout = time.RFC3339

const maxSeconds = math.MaxInt64 / int64(time.Second)

// ParseUint32 decodes a decimal unsigned 32-bit field.
func ParseUint32(field, text string) (uint32, error) {
	v, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, newParseError(field, text, err)
	}
	return uint32(v), nil
}

// ParseUint8 decodes a decimal unsigned 8-bit field.
func ParseUint8(field, text string) (uint8, error) {
	v, err := strconv.ParseUint(text, 10, 8)
	if err != nil {
		return 0, newParseError(field, text, err)
	}
	return uint8(v), nil
}

// ParseDuration decodes a whole number of seconds.
func ParseDuration(field, text string) (time.Duration, error) {
	secs, err := parseSeconds(text)
	if err != nil {
		return 0, newParseError(field, text, err)
	}
	return time.Duration(secs) * time.Second, nil
}

// ParseTime decodes a wire timestamp, dropping sub-second precision.
func ParseTime(field, text string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, text)
	if err != nil {
		return time.Time{}, newTimeError(field, text, err)
	}
	return t.UTC().Truncate(time.Second), nil
}

// ParseUnixTime decodes decimal seconds since the epoch.
func ParseUnixTime(field, text string) (time.Time, error) {
	secs, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return time.Time{}, newParseError(field, text, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// ParseRange decodes "A-B", "A-", "-B", "-" or "". A missing start is zero,
// a missing end is unbounded.
func ParseRange(field, text string) (Range, error) {
	start, end, _ := strings.Cut(text, "-")
	var r Range
	if start != "" {
		secs, err := parseSeconds(start)
		if err != nil {
			return Range{}, newParseError(field, text, err)
		}
		r.Start = time.Duration(secs) * time.Second
	}
	if end != "" {
		secs, err := parseSeconds(end)
		if err != nil {
			return Range{}, newParseError(field, text, err)
		}
		d := time.Duration(secs) * time.Second
		r.End = &d
	}
	return r, nil
}

func parseSeconds(text string) (int64, error) {
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, err
	}
	if v > uint64(maxSeconds) {
		return 0, strconv.ErrRange
	}
	return int64(v), nil
}

func unwrapNum(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}

// formatSeconds renders d as whole seconds.
func formatSeconds(d time.Duration) string {
	return strconv.FormatInt(int64(d/time.Second), 10)
}
