package http

import "strconv"

// Status is an HTTP response status code together with its canonical reason
// phrase. Handlers and middleware work with the small set of codes the
// engine itself ever needs (200, 404, 405, 500) plus whatever a handler
// assigns via Response.SetStatus; the reason phrase for anything outside the
// known set falls back to "Status".
type Status int

const (
	StatusOK                  Status = 200
	StatusNoContent           Status = 204
	StatusBadRequest          Status = 400
	StatusNotFound            Status = 404
	StatusMethodNotAllowed    Status = 405
	StatusRequestEntityTooBig Status = 413
	StatusURITooLong          Status = 414
	StatusInternalServerError Status = 500
)

func (s Status) ReasonPhrase() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNoContent:
		return "No Content"
	case StatusBadRequest:
		return "Bad Request"
	case StatusNotFound:
		return "Not Found"
	case StatusMethodNotAllowed:
		return "Method Not Allowed"
	case StatusRequestEntityTooBig:
		return "Request Entity Too Large"
	case StatusURITooLong:
		return "URI Too Long"
	case StatusInternalServerError:
		return "Internal Server Error"
	default:
		return "Status"
	}
}

// Response is the Provision's reusable response builder. It owns a scratch
// buffer for the encoded status line and headers; the body is whatever byte
// slice the handler assigned (possibly a slice of the provision's own recv
// buffer, possibly caller-owned) and is never copied into the scratch
// buffer — see Pseudoslice, which presents header-bytes and body-bytes as
// one addressable range for send_all to drain without a combined copy.
type Response struct {
	scratch     []byte
	headerNames []string
	headerVals  []string
	status      Status
	mime        string
	body        []byte
}

// NewResponse allocates a Response with a scratch buffer sized scratchCap
// and room for headerCountMax extra headers. Called once per Provision.
func NewResponse(scratchCap, headerCountMax int) *Response {
	return &Response{
		scratch:     make([]byte, 0, scratchCap),
		headerNames: make([]string, 0, headerCountMax),
		headerVals:  make([]string, 0, headerCountMax),
	}
}

// Reset clears the response for the next request on the connection, or
// before the provision returns to its pool. Backing arrays keep capacity.
// status is reset to 0, not StatusOK: 0 is not a valid HTTP status, so it
// doubles as the "handler never set one" sentinel the engine checks for
// after the middleware chain returns.
func (r *Response) Reset() {
	r.scratch = r.scratch[:0]
	r.headerNames = r.headerNames[:0]
	r.headerVals = r.headerVals[:0]
	r.status = 0
	r.mime = ""
	r.body = nil
}

func (r *Response) SetStatus(s Status) { r.status = s }
func (r *Response) SetMime(mime string) { r.mime = mime }
func (r *Response) SetBody(body []byte) { r.body = body }

// StatusCode returns the status currently assigned, for logging.
func (r *Response) StatusCode() Status { return r.status }

// SetHeader appends a user-set header. Silently dropped past capacity —
// the handler already has header_count_max headroom from the request side
// and is expected to stay within it.
func (r *Response) SetHeader(name, value string) {
	if len(r.headerNames) == cap(r.headerNames) {
		return
	}
	r.headerNames = append(r.headerNames, name)
	r.headerVals = append(r.headerVals, value)
}

// defaultMime is substituted for a response with no explicit content type.
const defaultMime = "application/octet-stream"

// Encode writes the status line, fixed Server/Connection headers, user
// headers, Content-Type, Content-Length and the terminating blank line
// into the scratch buffer and returns it. Body bytes are NOT appended here
// — the caller drains headers and body separately through a Pseudoslice.
func (r *Response) Encode() []byte {
	b := r.scratch[:0]

	b = append(b, "HTTP/1.1 "...)
	b = appendInt(b, int(r.status))
	b = append(b, ' ')
	b = append(b, r.status.ReasonPhrase()...)
	b = append(b, "\r\n"...)

	b = append(b, "Server: zzz\r\n"...)
	b = append(b, "Connection: keep-alive\r\n"...)

	for i := range r.headerNames {
		b = append(b, r.headerNames[i]...)
		b = append(b, ": "...)
		b = append(b, r.headerVals[i]...)
		b = append(b, "\r\n"...)
	}

	mime := r.mime
	if mime == "" {
		mime = defaultMime
	}
	b = append(b, "Content-Type: "...)
	b = append(b, mime...)
	b = append(b, "\r\n"...)

	b = append(b, "Content-Length: "...)
	b = append(b, strconv.Itoa(len(r.body))...)
	b = append(b, "\r\n\r\n"...)

	r.scratch = b
	return b
}

// Body returns the body bytes assigned by the handler, for use by the
// engine's Pseudoslice when draining the response.
func (r *Response) Body() []byte { return r.body }

// appendInt writes the base-10 digits of i to b without going through
// strconv, matching the zero-allocation discipline the rest of the
// connection engine holds to on the response-encoding hot path.
func appendInt(b []byte, i int) []byte {
	if i == 0 {
		return append(b, '0')
	}
	if i < 0 {
		b = append(b, '-')
		i = -i
	}
	var tmp [20]byte
	pos := len(tmp)
	for i > 0 {
		pos--
		tmp[pos] = byte('0' + i%10)
		i /= 10
	}
	return append(b, tmp[pos:]...)
}
