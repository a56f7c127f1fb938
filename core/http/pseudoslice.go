package http

// Pseudoslice presents the concatenation of a response's header bytes and
// body bytes as a single addressable range, so the engine's send loop can
// drain the response with one cursor instead of materializing a combined
// buffer. Headers live in the Response's scratch buffer; the body is
// whatever slice the handler assigned, which may itself be a slice of the
// provision's receive buffer.
type Pseudoslice struct {
	headers []byte
	body    []byte
}

// NewPseudoslice builds a Pseudoslice over a response's encoded headers and
// body. Call after Response.Encode.
func NewPseudoslice(headers, body []byte) Pseudoslice {
	return Pseudoslice{headers: headers, body: body}
}

// Len is the total addressable length, headers plus body.
func (p Pseudoslice) Len() int {
	return len(p.headers) + len(p.body)
}

// Get returns the window bytes starting at offset. The window never spans
// the headers/body boundary — callers drain in a loop and get a shorter
// slice back at the boundary, then call Get again for the remainder. This
// keeps Get a simple two-way branch with no copying.
func (p Pseudoslice) Get(offset, window int) []byte {
	if offset < len(p.headers) {
		end := offset + window
		if end > len(p.headers) {
			end = len(p.headers)
		}
		return p.headers[offset:end]
	}
	bodyOff := offset - len(p.headers)
	if bodyOff >= len(p.body) {
		return nil
	}
	end := bodyOff + window
	if end > len(p.body) {
		end = len(p.body)
	}
	return p.body[bodyOff:end]
}
