package core

import (
	"github.com/searchktools/zzz/config"
	"github.com/searchktools/zzz/core/arena"
	"github.com/searchktools/zzz/core/http"
	"github.com/searchktools/zzz/core/pools"
	"github.com/searchktools/zzz/core/router"
	"github.com/searchktools/zzz/core/transport"
)

// Provision is the per-connection resource bundle the provision pool
// hands out: a growable receive buffer, a scratch arena, a Request, a
// Response, the Context wrapping both, and a query map. One Provision is
// exclusive to one connection from Borrow to Release; nothing here is
// reallocated across requests on a kept-alive connection, only cleared.
type Provision struct {
	conn transport.Conn

	recvBuf  []byte
	recvLen  int
	arena    *arena.Arena
	query    *router.Query
	ctx      *http.Context
	request  *http.Request
	response *http.Response
	bp       *pools.BytePool

	initialized bool
	recvRetain  int
	recvMax     int
}

// newProvision allocates a fully wired, zeroed Provision. Called by the
// pool's newFunc exactly once per pool slot that actually gets used. bp is
// the shared byte pool every provision's recv buffer growth/shrink routes
// through instead of raw make calls.
func newProvision(cfg *config.Config, bp *pools.BytePool) *Provision {
	req := http.NewRequest(cfg.HeaderCountMax)
	resp := http.NewResponse(512, cfg.HeaderCountMax)
	recvBuf := bp.Get(cfg.RecvBytesRetain)
	recvBuf = recvBuf[:cap(recvBuf)]
	p := &Provision{
		recvBuf:    recvBuf,
		arena:      arena.New(cfg.ConnectionArenaBytesRetain),
		query:      router.NewQuery(cfg.QueryCountMax),
		request:    req,
		response:   resp,
		bp:         bp,
		recvRetain: cfg.RecvBytesRetain,
		recvMax:    cfg.RecvBytesMax,
	}
	p.ctx = http.NewContext(req, resp, p.query, p.arena, cfg.CaptureCountMax)
	return p
}

// bind attaches a newly accepted connection to an already-allocated
// provision, marking it initialized. A provision is only ever un-bound by
// release, at which point it returns to the pool still fully allocated —
// just not attached to any socket.
func (p *Provision) bind(conn transport.Conn) {
	p.conn = conn
	p.recvLen = 0
	p.initialized = true
}

// reset clears per-request/per-connection state for reuse. Called by the
// pool's resetFunc on Release, matching the Provision invariant: arena
// trimmed to its retain size, recv buffer shrunk to its retain size,
// request/response/query cleared.
func (p *Provision) reset() {
	p.conn = nil
	p.recvLen = 0
	p.initialized = false
	p.arena.Reset()
	if cap(p.recvBuf) > p.recvRetain {
		p.bp.Put(p.recvBuf)
		shrunk := p.bp.Get(p.recvRetain)
		p.recvBuf = shrunk[:cap(shrunk)]
	}
	p.request.Reset()
	p.response.Reset()
	p.query.Reset()
	p.ctx.Reset()
}

// growRecv ensures the recv buffer has room for at least n more bytes past
// recvLen, growing it up to recvMax through the provision's byte pool
// rather than a raw make, so a burst of large requests returns its
// oversized buffers to a shared tier pool instead of leaving them for the
// GC. It reports false if growing past recvMax would be required — the
// caller then closes the connection.
func (p *Provision) growRecv(n int) bool {
	need := p.recvLen + n
	if need > p.recvMax {
		return false
	}
	if need <= cap(p.recvBuf) {
		return true
	}
	next := need
	if next > p.recvMax {
		next = p.recvMax
	}
	grown := p.bp.Grow(p.recvBuf, next)
	p.recvBuf = grown[:cap(grown)]
	return true
}
