package kv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Separator splits a protocol line into key and value.
const Separator = ": "

const (
	lineOK       = "OK"
	lineACK      = "ACK "
	lineGreeting = "OK MPD "
)

// MaxLineSize bounds a single protocol line. Tag values such as embedded
// lyrics or comments can exceed bufio's 64KB default.
const MaxLineSize = 8 << 20

var ErrMalformedLine = errors.New("kv: malformed line")

// Pair is one decoded protocol line.
type Pair struct {
	Key   string
	Value string
}

func (p Pair) String() string {
	return p.Key + Separator + p.Value
}

// LineError reports the line that failed to tokenize.
type LineError struct {
	Line   int
	Text   string
	Reason error
}

func (e LineError) Error() string {
	return fmt.Sprintf("kv: line %d %q: %v", e.Line, e.Text, e.Reason)
}

func (e LineError) Unwrap() error {
	return e.Reason
}

// AckError is a server-side failure reply ("ACK [code@index] {command} message").
type AckError struct {
	Text string
}

func (e AckError) Error() string {
	return "kv: server error: " + e.Text
}

// ParseLine splits line at the first separator. Later separators belong to the value.
func ParseLine(line string) (Pair, error) {
	key, value, ok := strings.Cut(line, Separator)
	if !ok || key == "" {
		return Pair{}, ErrMalformedLine
	}
	return Pair{Key: key, Value: value}, nil
}

// Scan yields pairs from r until EOF or an "OK" line. A leading "OK MPD x.y.z"
// greeting is skipped. A malformed line or an "ACK" reply is yielded as an
// error and ends the sequence.
func Scan(r io.Reader) iter.Seq2[Pair, error] {
	return func(yield func(Pair, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
		n := 0
		for sc.Scan() {
			n++
			line := strings.TrimRight(sc.Text(), "\r")
			if n == 1 && strings.HasPrefix(line, lineGreeting) {
				continue
			}
			if line == lineOK {
				return
			}
			if strings.HasPrefix(line, lineACK) {
				yield(Pair{}, AckError{Text: strings.TrimPrefix(line, lineACK)})
				return
			}
			if line == "" {
				continue
			}
			pair, err := ParseLine(line)
			if err != nil {
				yield(Pair{}, LineError{Line: n, Text: line, Reason: err})
				return
			}
			if !yield(pair, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(Pair{}, fmt.Errorf("kv: read: %w", err))
		}
	}
}

// All yields the pairs in order.
func All(pairs []Pair) iter.Seq2[Pair, error] {
	return func(yield func(Pair, error) bool) {
		for _, p := range pairs {
			if !yield(p, nil) {
				return
			}
		}
	}
}

// FromMap yields the entries of m in sorted key order.
func FromMap(m map[string]string) iter.Seq2[Pair, error] {
	return func(yield func(Pair, error) bool) {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(Pair{Key: k, Value: m[k]}, nil) {
				return
			}
		}
	}
}

// Collect drains seq, stopping at the first error.
func Collect(seq iter.Seq2[Pair, error]) ([]Pair, error) {
	var out []Pair
	for p, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Group splits a multi-record response at every occurrence of startKey.
// Pairs before the first startKey form their own group.
func Group(pairs []Pair, startKey string) [][]Pair {
	var groups [][]Pair
	var cur []Pair
	for _, p := range pairs {
		if p.Key == startKey && len(cur) > 0 {
			groups = append(groups, cur)
			cur = nil
		}
		cur = append(cur, p)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

// ToMap builds a key lookup; duplicate keys keep the last value.
func ToMap(pairs []Pair) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}

// Write encodes pairs as protocol lines.
func Write(w io.Writer, pairs []Pair) error {
	bw := bufio.NewWriter(w)
	for _, p := range pairs {
		if strings.Contains(p.Key, "\n") || strings.Contains(p.Value, "\n") {
			return fmt.Errorf("kv: pair %q contains a newline", p.Key)
		}
		if _, err := bw.WriteString(p.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
