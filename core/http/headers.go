package http

// headerPair is a single parsed header; Name and Value are slices of the
// provision's receive buffer and are only valid until the next Reset.
type headerPair struct {
	name  string
	value string
}

// Headers is a case-insensitive, insertion-ordered, fixed-capacity header
// list. It belongs to a Provision and is cleared, never reallocated,
// between requests.
type Headers struct {
	pairs []headerPair
}

// NewHeaders allocates a Headers with room for max entries. Called once per
// Provision at first borrow; never grown afterward.
func NewHeaders(max int) *Headers {
	return &Headers{pairs: make([]headerPair, 0, max)}
}

// Reset clears all entries without shrinking the backing array.
func (h *Headers) Reset() {
	h.pairs = h.pairs[:0]
}

// Add appends a header. It reports false, without mutating h, if the
// header count is already at capacity — the caller (the request parser)
// turns that into ErrTooManyHeaders.
func (h *Headers) Add(name, value string) bool {
	if len(h.pairs) == cap(h.pairs) {
		return false
	}
	h.pairs = append(h.pairs, headerPair{name: name, value: value})
	return true
}

// Get returns the first value stored under name, compared case-insensitively.
func (h *Headers) Get(name string) (string, bool) {
	for _, p := range h.pairs {
		if equalFold(p.name, name) {
			return p.value, true
		}
	}
	return "", false
}

// GetDefault returns Get(name) or def if absent.
func (h *Headers) GetDefault(name, def string) string {
	if v, ok := h.Get(name); ok {
		return v
	}
	return def
}

// Len reports the number of headers currently stored.
func (h *Headers) Len() int {
	return len(h.pairs)
}

// Range calls fn for each header in parse order.
func (h *Headers) Range(fn func(name, value string)) {
	for _, p := range h.pairs {
		fn(p.name, p.value)
	}
}

// equalFold is an ASCII case-insensitive string comparison. Header names
// are always ASCII per RFC 7230, so there's no need for unicode.ToLower's
// full-fold machinery here.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
