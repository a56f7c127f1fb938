package http

import "github.com/searchktools/zzz/core/sse"

// SSEInit is the callback a handler supplies to ToSSE. It receives the
// Stream once the engine has written the upgrade response and handed
// socket ownership over; from this point the handler (or whatever init
// spawns) is solely responsible for the stream's lifetime. The engine
// runs init on its own goroutine, not a worker-pool slot, precisely
// because it's expected to block for the stream's lifetime (a Pump loop);
// init must still not be called more than once or retained past Stream's
// lifetime.
type SSEInit func(stream *sse.Stream)

// ToSSE transitions ctx out of request/response mode. The engine checks
// Upgraded() after the handler returns; if true, it writes
// the SSE upgrade response itself, constructs the Stream over the raw
// connection, and invokes init. The connection engine's state machine
// does not reclaim this connection afterward.
func (c *Context) ToSSE(init SSEInit) Respond {
	c.upgraded = true
	c.sseInit = init
	return Respond{}
}

// Upgraded reports whether ToSSE was called during this request.
func (c *Context) Upgraded() bool { return c.upgraded }

// SSEInitFunc returns the callback passed to ToSSE, or nil.
func (c *Context) SSEInitFunc() SSEInit { return c.sseInit }
