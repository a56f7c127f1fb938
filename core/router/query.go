package router

import (
	"bytes"

	"github.com/searchktools/zzz/core/optimize"
)

// Query is a bounded, insertion-ordered query-string map. It's a Provision
// field, reset and reused across requests rather than reallocated — a plain
// map would work semantically but a fixed-capacity slice keeps the same
// zero-growth discipline as Headers.
type Query struct {
	keys   []string
	values []string
	max    int
}

// NewQuery allocates a Query with room for max entries.
func NewQuery(max int) *Query {
	return &Query{
		keys:   make([]string, 0, max),
		values: make([]string, 0, max),
		max:    max,
	}
}

// Reset clears the query map for reuse.
func (q *Query) Reset() {
	q.keys = q.keys[:0]
	q.values = q.values[:0]
}

// Get returns the value stored under key, or "" if absent.
func (q *Query) Get(key string) string {
	for i, k := range q.keys {
		if optimize.SegmentEqual(k, key) {
			return q.values[i]
		}
	}
	return ""
}

// set is last-wins: a repeated key overwrites the earlier value rather than
// appending a duplicate.
func (q *Query) set(key, value string) {
	for i, k := range q.keys {
		if optimize.SegmentEqual(k, key) {
			q.values[i] = value
			return
		}
	}
	if len(q.keys) == q.max {
		return
	}
	q.keys = append(q.keys, key)
	q.values = append(q.values, value)
}

// ParseQuery splits raw (everything after "?") on "&" and "=" into q. Bare
// keys with no "=" are stored with an empty value. Percent-decoding is not
// performed here, matching the path-capture layer's behavior.
func ParseQuery(raw []byte, q *Query) {
	for len(raw) > 0 {
		amp := bytes.IndexByte(raw, '&')
		var pair []byte
		if amp < 0 {
			pair = raw
			raw = nil
		} else {
			pair = raw[:amp]
			raw = raw[amp+1:]
		}
		if len(pair) == 0 {
			continue
		}
		eq := bytes.IndexByte(pair, '=')
		if eq < 0 {
			q.set(string(pair), "")
			continue
		}
		q.set(string(pair[:eq]), string(pair[eq+1:]))
	}
}

// SplitPath separates a raw request URI into its path and query components.
// The returned path excludes the leading "?"; query is nil if absent.
func SplitPath(uri string) (path string, query []byte) {
	if i := indexByte(uri, '?'); i >= 0 {
		return uri[:i], []byte(uri[i+1:])
	}
	return uri, nil
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
