/*
Package zzz is an asynchronous HTTP/1.1 server framework core: a
syscall-driven connection lifecycle engine, a segment-based routing trie
with typed path captures, and a generic Server-Sent Events broadcast
primitive.

The engine polls a single non-blocking listener and its accepted
connections through an epoll (Linux) or kqueue (BSD/macOS) poller,
stepping each connection through a small request/response state machine
and dispatching matched routes onto a fixed, work-stealing worker pool.
Per-connection resources — the receive buffer, a scratch arena, the parsed
Request and in-progress Response — live in a Provision, borrowed from a
bounded pool for the connection's lifetime and reset rather than
reallocated between requests on a kept-alive socket.

Quick start

	package main

	import (
	    "github.com/searchktools/zzz/app"
	    "github.com/searchktools/zzz/config"
	    "github.com/searchktools/zzz/core/http"
	)

	func main() {
	    cfg := config.Default()
	    application := app.New(&cfg)

	    engine := application.Engine()
	    engine.GET("/hello", func(ctx *http.Context) http.Respond {
	        return ctx.String(http.StatusOK, "Hello, World!")
	    })

	    engine.GET("/users/%i", func(ctx *http.Context) http.Respond {
	        id, _ := ctx.ParamInt(0)
	        return ctx.JSON(http.StatusOK, map[string]int64{"id": id})
	    })

	    application.Run()
	}

Modules

  - app: process lifecycle — GC tuning, signal-triggered shutdown
  - config: tunables for the engine, provision pool and parser
  - core: the connection engine and per-connection Provision
  - core/http: request/response types, the zero-copy header parser, Context
  - core/router: the typed-capture routing trie
  - core/middleware: the Next-chain middleware convention and builtins
  - core/pools: provision pool, tiered byte pool, work-stealing worker pool
  - core/poller: epoll/kqueue readiness multiplexing
  - core/transport: the plaintext socket Transport/Conn abstraction
  - core/sse: the SSE upgrade path and generic broadcast fan-out
  - core/observability: per-route request, error and latency counters

Non-goals

HTTP/2, WebSocket and TLS termination are not implemented here. The
engine drives sockets through the transport.Transport and transport.Conn
interfaces, but Engine.Run always creates the plaintext transport itself.
*/
package zzz
