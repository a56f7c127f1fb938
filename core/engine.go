package core

import (
	"context"
	"log"
	"sync"
	"syscall"
	"time"

	"github.com/searchktools/zzz/config"
	"github.com/searchktools/zzz/core/http"
	"github.com/searchktools/zzz/core/middleware"
	"github.com/searchktools/zzz/core/observability"
	"github.com/searchktools/zzz/core/poller"
	"github.com/searchktools/zzz/core/pools"
	"github.com/searchktools/zzz/core/router"
	"github.com/searchktools/zzz/core/sse"
	"github.com/searchktools/zzz/core/transport"
)

// connPhase names where a connection sits in the request lifecycle the
// engine drives it through: accumulate the header block, then the body (if
// any), then the handler runs and a response goes out, then back to header
// for the next request on a kept-alive connection.
type connPhase int

const (
	phaseHeader connPhase = iota
	phaseBody
)

// connState is the engine's bookkeeping for one accepted connection, kept
// outside the Provision because it's lifecycle state the engine owns, not
// request data a handler ever sees.
type connState struct {
	conn       transport.Conn
	provision  *Provision
	phase      connPhase
	headerEnd  int
	bodyTarget int
}

// Engine is the connection lifecycle runtime: one listening Transport
// polled for readiness alongside every accepted connection, a routing
// trie, and the provision pool/worker pool pair that turn a readable
// socket into a dispatched handler call and back into bytes on the wire.
type Engine struct {
	cfg       *config.Config
	transport transport.Transport
	poller    poller.Poller
	router    *router.Router[middleware.Handler, middleware.Middleware]

	provisions *pools.ProvisionPool[Provision]
	buffers    *pools.BytePool
	workers    *pools.WorkerPool
	monitor    *observability.PerformanceMonitor
	state      any

	mu    sync.Mutex
	conns map[int]*connState

	closeOnce sync.Once
	closed    chan struct{}
}

// NewEngine wires a fresh Engine from cfg. state, if given, is whatever the
// application wants every handler to see through Context.State — a
// broadcast hub, a database handle, anything that isn't per-request data —
// without reaching for a global. Nothing is listening yet; call Run to
// bind the address and start serving.
func NewEngine(cfg *config.Config, state ...any) *Engine {
	e := &Engine{
		cfg:     cfg,
		router:  router.NewRouter[middleware.Handler, middleware.Middleware](),
		buffers: pools.NewBytePool(),
		workers: pools.NewWorkerPool(cfg.Workers),
		monitor: observability.NewPerformanceMonitor(),
		conns:   make(map[int]*connState),
		closed:  make(chan struct{}),
	}
	if len(state) > 0 {
		e.state = state[0]
	}
	e.provisions = pools.NewProvisionPool[Provision](
		cfg.ConnectionCountMax,
		func() *Provision {
			p := newProvision(cfg, e.buffers)
			p.ctx.State = e.state
			return p
		},
		func(p *Provision) { p.reset() },
	)
	return e
}

// SetState overrides the value handlers see through Context.State. Only
// provisions allocated after this call pick it up, so call it before Run
// unless the engine was already constructed with the state it needs.
func (e *Engine) SetState(state any) {
	e.state = state
}

// Use registers middleware that applies to every route under prefix,
// ahead of any middleware the route itself was registered with.
func (e *Engine) Use(prefix string, mws ...middleware.Middleware) {
	e.router.Use(prefix, mws...)
}

func (e *Engine) handle(method, template string, h middleware.Handler, mws ...middleware.Middleware) error {
	return e.router.Add(method, template, h, mws...)
}

func (e *Engine) GET(template string, h middleware.Handler, mws ...middleware.Middleware) error {
	return e.handle("GET", template, h, mws...)
}

func (e *Engine) POST(template string, h middleware.Handler, mws ...middleware.Middleware) error {
	return e.handle("POST", template, h, mws...)
}

func (e *Engine) PUT(template string, h middleware.Handler, mws ...middleware.Middleware) error {
	return e.handle("PUT", template, h, mws...)
}

func (e *Engine) PATCH(template string, h middleware.Handler, mws ...middleware.Middleware) error {
	return e.handle("PATCH", template, h, mws...)
}

func (e *Engine) DELETE(template string, h middleware.Handler, mws ...middleware.Middleware) error {
	return e.handle("DELETE", template, h, mws...)
}

func (e *Engine) OPTIONS(template string, h middleware.Handler, mws ...middleware.Middleware) error {
	return e.handle("OPTIONS", template, h, mws...)
}

// Monitor exposes the engine's request metrics collector, for an
// observability endpoint to read from.
func (e *Engine) Monitor() *observability.PerformanceMonitor { return e.monitor }

// Run binds cfg.Addr, starts the poller loop and blocks until Close is
// called or the listener errors.
func (e *Engine) Run() error {
	tr, err := transport.Listen(e.cfg.Addr)
	if err != nil {
		return err
	}
	e.transport = tr

	p, err := poller.NewPoller()
	if err != nil {
		tr.Close()
		return err
	}
	e.poller = p

	if err := p.Add(tr.Fd()); err != nil {
		tr.Close()
		p.Close()
		return err
	}

	listenFd := tr.Fd()
	for {
		select {
		case <-e.closed:
			return nil
		default:
		}

		fds, err := p.Wait(100)
		if err != nil {
			log.Printf("zzz: poll error: %v", err)
			continue
		}
		for _, fd := range fds {
			if fd == listenFd {
				e.acceptLoop()
				continue
			}
			e.onReadable(fd)
		}
	}
}

// Close stops Run's poll loop and tears down the listening socket. It does
// not close live connections: a request already queued on the worker pool
// still runs and writes its response, but no further reads are polled, and
// SSE streams stay open.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		close(e.closed)
		if e.transport != nil {
			e.transport.Close()
		}
		if e.poller != nil {
			e.poller.Close()
		}
		e.workers.Close()
	})
}

// acceptLoop drains every connection the kernel has queued for the
// listening socket. A single readiness notification can represent more
// than one pending connection, so it loops until Accept reports EAGAIN.
func (e *Engine) acceptLoop() {
	for {
		conn, err := e.transport.Accept()
		if err != nil {
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				return
			}
			log.Printf("zzz: accept error: %v", err)
			return
		}

		provision, err := e.provisions.Borrow(context.Background())
		if err != nil {
			conn.Close()
			return
		}
		provision.bind(conn)

		cs := &connState{conn: conn, provision: provision, phase: phaseHeader}
		e.mu.Lock()
		e.conns[conn.Fd()] = cs
		e.mu.Unlock()

		if err := e.poller.Add(conn.Fd()); err != nil {
			e.closeConn(cs)
		}
	}
}

// onReadable drains a readable connection's socket and advances its
// request state machine as far as the buffered bytes allow.
func (e *Engine) onReadable(fd int) {
	e.mu.Lock()
	cs := e.conns[fd]
	e.mu.Unlock()
	if cs == nil {
		return
	}

	p := cs.provision
	added := 0
	for {
		if !p.growRecv(e.cfg.SocketBufferBytes) {
			e.closeConn(cs)
			return
		}
		n, err := cs.conn.Recv(p.recvBuf[p.recvLen:])
		if err != nil {
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				break
			}
			e.closeConn(cs)
			return
		}
		if n == 0 {
			break
		}
		p.recvLen += n
		added += n
	}

	e.advance(cs, added)
}

// advance steps cs through phaseHeader and phaseBody as far as the bytes
// already buffered in the provision allow, dispatching the handler once a
// full request is available. added is how many bytes this readiness event
// appended to the receive buffer, so the header-delimiter scan only
// rescans the new tail instead of the whole buffer on every call.
func (e *Engine) advance(cs *connState, added int) {
	p := cs.provision

	if cs.phase == phaseHeader {
		idx := http.FindHeaderBlockEnd(p.recvBuf[:p.recvLen], added+3)
		if idx < 0 {
			if p.recvLen >= e.cfg.RequestURIBytesMax+e.cfg.HeaderCountMax*256 {
				e.closeConn(cs)
			}
			return
		}
		if err := http.ParseHeaderBlock(p.recvBuf[:idx], p.request, e.cfg.RequestURIBytesMax); err != nil {
			e.closeConn(cs)
			return
		}
		cs.headerEnd = idx
		cs.bodyTarget = idx
		if p.request.Method.ExpectsBody() && p.request.ContentLength != 0 {
			cs.bodyTarget = idx + p.request.ContentLength
			if cs.bodyTarget > e.cfg.RequestBytesMax {
				e.closeConn(cs)
				return
			}
		}
		cs.phase = phaseBody
	}

	if p.recvLen < cs.bodyTarget {
		return
	}
	p.request.Body = p.recvBuf[cs.headerEnd:cs.bodyTarget]
	e.dispatch(cs)
}

// dispatch hands a fully-buffered request to the worker pool, queued on
// the worker chosen by the connection's fd. An idle worker may steal it,
// and a full queue sends it to the next worker or runs it inline, so
// requests on one connection are not guaranteed to share a worker.
func (e *Engine) dispatch(cs *connState) {
	fd := cs.conn.Fd()
	e.workers.SubmitTo(fd, func() { e.runHandler(cs) })
}

// runHandler matches the route, runs the middleware chain and terminal
// handler with panic recovery, then hands the result to finishRequest.
func (e *Engine) runHandler(cs *connState) {
	p := cs.provision
	path, query := router.SplitPath(p.request.URI)
	p.request.Path = path
	router.ParseQuery(query, p.query)

	start := time.Now()
	bundle, captures, err := e.router.Match(p.request.Method.String(), path, p.ctx.Captures[:0])
	p.ctx.Captures = captures

	switch err {
	case nil:
		e.runChain(p, bundle)
	case router.ErrRouteNotFound:
		p.response.SetStatus(http.StatusNotFound)
		p.response.SetMime(http.MimeTextPlain)
		p.response.SetBody([]byte("not found"))
	case router.ErrMethodNotAllowed:
		p.response.SetStatus(http.StatusMethodNotAllowed)
	}

	isError := p.response.StatusCode() >= http.StatusBadRequest
	e.monitor.RecordRequest(path, time.Since(start), isError)

	e.finishRequest(cs)
}

// runChain invokes the matched middleware chain and handler, recovering a
// panic into a 500 rather than letting it take the worker down — the
// engine's own backstop above whatever a route's Recovery middleware does.
func (e *Engine) runChain(p *Provision, bundle router.Bundle[middleware.Handler, middleware.Middleware]) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("zzz: handler panic: %v", r)
			p.response.SetStatus(http.StatusInternalServerError)
			p.response.SetMime(http.MimeTextPlain)
			p.response.SetBody(nil)
		}
	}()
	next := middleware.NewNext(p.ctx, bundle.Middlewares, bundle.Handler)
	next.Run()
}

// finishRequest disposes of whatever runHandler produced: an SSE upgrade
// handoff, a missing-status abort, or an encoded response written back to
// the socket followed by either resetting for the next kept-alive request
// or closing the connection.
func (e *Engine) finishRequest(cs *connState) {
	p := cs.provision

	if p.ctx.Upgraded() {
		e.upgradeSSE(cs)
		return
	}

	if p.response.StatusCode() == 0 {
		log.Printf("zzz: handler returned without setting a status, aborting connection")
		e.closeConn(cs)
		return
	}

	headers := p.response.Encode()
	ps := http.NewPseudoslice(headers, p.response.Body())
	if err := e.sendPseudoslice(cs.conn, ps); err != nil {
		e.closeConn(cs)
		return
	}

	closeAfter := p.request.Connection() == "close"

	p.request.Reset()
	p.response.Reset()
	p.query.Reset()
	p.ctx.Reset()
	p.recvLen = 0
	cs.phase = phaseHeader
	cs.headerEnd = 0
	cs.bodyTarget = 0

	if closeAfter {
		e.closeConn(cs)
	}
}

// sendPseudoslice drains ps through conn.SendAll in fixed-size windows, so
// a multi-megabyte body doesn't require one giant intermediate allocation.
func (e *Engine) sendPseudoslice(conn transport.Conn, ps http.Pseudoslice) error {
	const window = 64 * 1024
	for offset := 0; offset < ps.Len(); {
		chunk := ps.Get(offset, window)
		if len(chunk) == 0 {
			break
		}
		if err := conn.SendAll(chunk); err != nil {
			return err
		}
		offset += len(chunk)
	}
	return nil
}

// upgradeSSE writes the upgrade response, hands the raw connection to a
// new sse.Stream, and removes the fd from the engine's own bookkeeping —
// from this point the connection's lifetime is the Stream's, not the
// engine's.
func (e *Engine) upgradeSSE(cs *connState) {
	if err := cs.conn.SendAll([]byte(sse.UpgradeHeader)); err != nil {
		e.closeConn(cs)
		return
	}

	fd := cs.conn.Fd()
	e.mu.Lock()
	delete(e.conns, fd)
	e.mu.Unlock()
	e.poller.Remove(fd)

	p := cs.provision
	init := p.ctx.SSEInitFunc()
	stream := sse.NewStream(cs.conn, p.arena, func() { e.provisions.Release(p) })
	if init != nil {
		// init typically blocks for the stream's entire lifetime (a Pump
		// loop draining a Broadcast subscription). Running it here would
		// pin the worker that ran the handler for as long as the stream
		// stays open, starving dispatch once enough streams accumulate —
		// so it gets its own goroutine, off the fixed-size worker pool.
		go init(stream)
	}
}

// closeConn tears down a connection and returns its provision to the pool.
// Called on any parse error, socket error, or Connection: close request.
func (e *Engine) closeConn(cs *connState) {
	fd := cs.conn.Fd()
	e.mu.Lock()
	delete(e.conns, fd)
	e.mu.Unlock()
	e.poller.Remove(fd)
	cs.conn.Close()
	e.provisions.Release(cs.provision)
}
