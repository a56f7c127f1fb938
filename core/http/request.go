package http

// Request is the parsed view of one HTTP/1.1 request. Method, URI, Version
// and every header name/value are slices into the owning provision's
// receive buffer, valid only for the duration of the handler call. Body,
// when present, is also a slice of the receive buffer, appended to across
// possibly-multiple recvs while the engine is in the Request.Body state.
type Request struct {
	Method  Method
	URI     string
	Path    string // URI with any "?query" suffix stripped, set by the router
	Version string
	Headers *Headers
	Body    []byte

	// ContentLength is parsed out of the Content-Length header once, during
	// header parsing, so the engine's Request.Body state doesn't re-parse
	// it on every recv.
	ContentLength int
}

// NewRequest allocates a Request with a Headers list capped at
// headerCountMax. Called once per Provision.
func NewRequest(headerCountMax int) *Request {
	return &Request{Headers: NewHeaders(headerCountMax)}
}

// Reset clears the request for reuse by the next request on a kept-alive
// connection, or before releasing the provision to the pool.
func (r *Request) Reset() {
	r.Method = MethodUnknown
	r.URI = ""
	r.Path = ""
	r.Version = ""
	r.ContentLength = 0
	r.Body = nil
	r.Headers.Reset()
}

// Connection returns the request's Connection header, defaulting to
// "keep-alive".
func (r *Request) Connection() string {
	return r.Headers.GetDefault("Connection", "keep-alive")
}
