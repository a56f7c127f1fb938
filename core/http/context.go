package http

import (
	"encoding/json"

	"github.com/searchktools/zzz/core/arena"
	"github.com/searchktools/zzz/core/router"
)

// Respond is the sentinel value a handler or middleware returns to signal
// that ctx.Response has been fully populated. It carries no data of its
// own — Context's helper methods (String, JSON, Bytes, Data, Error) write
// into the Response and hand back a Respond so a handler can write
// `return ctx.JSON(200, v)` instead of a bare return.
type Respond struct{}

// Context is the per-request handle a route handler and its middleware
// chain operate on. It bundles the parsed Request, the in-progress
// Response, and whatever the router captured out of the path template —
// positional typed captures plus the parsed query string. Arena is the
// same scratch allocator the owning Provision resets between requests: a
// handler that needs to retain a byte slice or string past the request
// that produced it (e.g. a slice of the recv buffer handed to a
// goroutine) should carve it from Arena instead of allocating directly, so
// it's reclaimed in the same Reset as everything else the connection
// produced. State carries whatever the application handed to the engine
// at startup (a broadcast hub, a database pool, anything a handler needs
// that isn't per-request) — set once and shared read-only across every
// Context, never reset. A Context is owned by a Provision and reset
// between requests, never reallocated.
type Context struct {
	Request  *Request
	Response *Response
	Captures []router.Capture
	Query    *router.Query
	Arena    *arena.Arena
	State    any

	aborted  bool
	upgraded bool
	sseInit  SSEInit
}

// NewContext wires a Context over an already-allocated Request/Response
// pair, a fixed-capacity captures slice, the query map, and the scratch
// arena the same Provision parses/allocates into on every request. Called
// once per Provision.
func NewContext(req *Request, resp *Response, query *router.Query, a *arena.Arena, captureMax int) *Context {
	return &Context{
		Request:  req,
		Response: resp,
		Captures: make([]router.Capture, 0, captureMax),
		Query:    query,
		Arena:    a,
	}
}

// Reset clears per-request state. Request/Response/Query are reset by
// their own owners; Context only needs to drop captures, the abort flag
// and any SSE upgrade request. State is deliberately left untouched — it
// outlives every request.
func (c *Context) Reset() {
	c.Captures = c.Captures[:0]
	c.aborted = false
	c.upgraded = false
	c.sseInit = nil
}

// Abort marks the middleware chain as terminated without reaching the
// handler. Next.Run checks this on entry, before advancing the chain.
func (c *Context) Abort() { c.aborted = true }

// Aborted reports whether Abort has been called.
func (c *Context) Aborted() bool { return c.aborted }

// Param returns the i'th positional capture as a string regardless of its
// underlying kind, or "" if i is out of range.
func (c *Context) Param(i int) string {
	if i < 0 || i >= len(c.Captures) {
		return ""
	}
	cp := c.Captures[i]
	switch cp.Kind {
	case router.CaptureInt:
		return itoa64(cp.Int)
	case router.CaptureFloat:
		return ftoa(cp.Float)
	default:
		return cp.String
	}
}

// ParamInt returns the i'th capture as an int64. ok is false if the
// capture is out of range or not an integer capture.
func (c *Context) ParamInt(i int) (int64, bool) {
	if i < 0 || i >= len(c.Captures) || c.Captures[i].Kind != router.CaptureInt {
		return 0, false
	}
	return c.Captures[i].Int, true
}

// ParamFloat returns the i'th capture as a float64.
func (c *Context) ParamFloat(i int) (float64, bool) {
	if i < 0 || i >= len(c.Captures) || c.Captures[i].Kind != router.CaptureFloat {
		return 0, false
	}
	return c.Captures[i].Float, true
}

func (c *Context) SetHeader(name, value string) { c.Response.SetHeader(name, value) }

func (c *Context) Header(name string) string {
	v, _ := c.Request.Headers.Get(name)
	return v
}

func (c *Context) Body() []byte { return c.Request.Body }

// String writes a text/plain response.
func (c *Context) String(status Status, s string) Respond {
	c.Response.SetStatus(status)
	c.Response.SetMime(MimeTextPlain)
	c.Response.SetBody([]byte(s))
	return Respond{}
}

// JSON marshals v and writes an application/json response. A marshal
// failure degrades to a 500 with no body rather than panicking.
func (c *Context) JSON(status Status, v any) Respond {
	data, err := json.Marshal(v)
	if err != nil {
		c.Response.SetStatus(StatusInternalServerError)
		c.Response.SetBody(nil)
		return Respond{}
	}
	c.Response.SetStatus(status)
	c.Response.SetMime(MimeApplicationJSON)
	c.Response.SetBody(data)
	return Respond{}
}

// Bytes writes an application/octet-stream response.
func (c *Context) Bytes(status Status, data []byte) Respond {
	c.Response.SetStatus(status)
	c.Response.SetMime(MimeOctetStream)
	c.Response.SetBody(data)
	return Respond{}
}

// Data writes a response with a caller-chosen content type — the one
// MIME per response the framework supports.
func (c *Context) Data(status Status, mime string, data []byte) Respond {
	c.Response.SetStatus(status)
	c.Response.SetMime(mime)
	c.Response.SetBody(data)
	return Respond{}
}

// Error writes a JSON error body of the shape {"error": message}.
func (c *Context) Error(status Status, message string) Respond {
	return c.JSON(status, map[string]string{"error": message})
}

func itoa64(v int64) string {
	b := appendInt(nil, int(v))
	return string(b)
}

func ftoa(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	frac := int64((v - float64(whole)) * 1000)
	s := itoa64(whole) + "." + padLeft3(frac)
	if neg {
		return "-" + s
	}
	return s
}

func padLeft3(v int64) string {
	s := itoa64(v)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
