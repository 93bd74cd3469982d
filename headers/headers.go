// Package headers implements the case-insensitive, insertion-ordered
// header multimap shared by session.Data's inbound and outbound sides.
// It's backed by a flat slice of pairs scanned linearly rather than a Go
// map: header counts are small enough (single digits, rarely above fifty)
// that linear scan beats hashing in practice, and it preserves insertion
// order for free, which matters for Vary bookkeeping.
package headers

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

// Pair is a single (name, value) entry as it was inserted, case preserved.
type Pair struct {
	Key, Value string
}

// Map is a case-insensitive multimap of header name to one or more values.
type Map struct {
	pairs []Pair
}

// New returns an empty Map.
func New() *Map {
	return new(Map)
}

// NewPrealloc returns an empty Map with room for n pairs without
// reallocating.
func NewPrealloc(n int) *Map {
	return &Map{pairs: make([]Pair, 0, n)}
}

// Add appends a new (key, value) pair, preserving any existing pairs under
// the same key.
func (m *Map) Add(key, value string) *Map {
	m.pairs = append(m.pairs, Pair{Key: key, Value: value})
	return m
}

// Set replaces every existing pair under key (case-insensitively) with a
// single new pair. session.Data.Negotiate uses it to write a negotiated
// value to its outbound twin header.
func (m *Map) Set(key, value string) *Map {
	m.deleteAll(key)
	return m.Add(key, value)
}

func (m *Map) deleteAll(key string) {
	kept := m.pairs[:0]

	for _, p := range m.pairs {
		if !strcomp.EqualFold(p.Key, key) {
			kept = append(kept, p)
		}
	}

	m.pairs = kept
}

// Value returns the first value stored under key, or "" if there is none.
func (m *Map) Value(key string) string {
	return m.ValueOr(key, "")
}

// ValueOr returns the first value stored under key, or fallback.
func (m *Map) ValueOr(key, fallback string) string {
	if v, ok := m.Get(key); ok {
		return v
	}

	return fallback
}

// Get returns the first value under key and whether it was found.
func (m *Map) Get(key string) (value string, found bool) {
	for _, p := range m.pairs {
		if strcomp.EqualFold(p.Key, key) {
			return p.Value, true
		}
	}

	return "", false
}

// Values returns every value stored under key, in insertion order.
func (m *Map) Values(key string) []string {
	var values []string

	for _, p := range m.pairs {
		if strcomp.EqualFold(p.Key, key) {
			values = append(values, p.Value)
		}
	}

	return values
}

// Has reports whether key has at least one value.
func (m *Map) Has(key string) bool {
	_, found := m.Get(key)
	return found
}

// Insert merges another Map's pairs in, in order, without de-duplicating.
// InsertUnlessPresent is the variant that skips keys already present.
func (m *Map) Insert(other *Map) *Map {
	if other == nil {
		return m
	}

	m.pairs = append(m.pairs, other.pairs...)
	return m
}

// InsertUnlessPresent merges another Map's pairs in, skipping any key that
// already has a value in m. Used by session.Data.GenerateReply to implement
// "earlier wins on conflict" precedence across several header sources.
func (m *Map) InsertUnlessPresent(other *Map) *Map {
	if other == nil {
		return m
	}

	for _, p := range other.pairs {
		if !m.Has(p.Key) {
			m.pairs = append(m.pairs, p)
		}
	}

	return m
}

// InsertMap merges a plain map[string]string in, in unspecified order
// (Go maps don't guarantee one).
func (m *Map) InsertMap(other map[string]string) *Map {
	for k, v := range other {
		m.Add(k, v)
	}

	return m
}

// Len returns the number of stored pairs (not unique keys).
func (m *Map) Len() int {
	return len(m.pairs)
}

// Reset clears every pair, keeping the backing array for reuse. session.Data
// calls this when moving from Request/Status into Header.
func (m *Map) Reset() *Map {
	m.pairs = m.pairs[:0]
	return m
}

// Iter walks every (key, value) pair in insertion order.
func (m *Map) Iter() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, p := range m.pairs {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// String renders the map as CRLF-terminated "Key: Value" lines, ready to be
// embedded between a status/request line and the blank line that ends a
// header block.
func (m *Map) String() string {
	buf := make([]byte, 0, m.Len()*32)

	for _, p := range m.pairs {
		buf = append(buf, p.Key...)
		buf = append(buf, ':', ' ')
		buf = append(buf, p.Value...)
		buf = append(buf, '\r', '\n')
	}

	return string(buf)
}
