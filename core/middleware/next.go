// Package middleware implements the Next-chain calling convention route
// handlers run under: each middleware receives the current context and the
// residual of the chain, and decides whether to continue it.
package middleware

import "github.com/searchktools/zzz/core/http"

// Handler is a route's terminal function.
type Handler func(ctx *http.Context) http.Respond

// Middleware observes or rewrites a request before the handler runs, or
// short-circuits the chain entirely. Calling next.Run() continues the
// chain; returning without calling it terminates early and the handler is
// never invoked.
type Middleware func(ctx *http.Context, next *Next) http.Respond

// Next holds the remaining middleware slice and the terminal handler for
// one in-flight request. Run is called at most once per position in the
// chain — by the engine to start it, and by each middleware to continue it.
type Next struct {
	middlewares []Middleware
	handler     Handler
	ctx         *http.Context
}

// NewNext builds the initial Next for a matched route bundle.
func NewNext(ctx *http.Context, middlewares []Middleware, handler Handler) *Next {
	return &Next{ctx: ctx, middlewares: middlewares, handler: handler}
}

// Run pops the first middleware and invokes it with (context, rest-of-chain).
// When the slice is empty it invokes the terminal handler instead. If the
// context has been aborted, Run returns immediately without advancing, so
// a middleware that calls ctx.Abort() and then next.Run() still stops the
// chain. A middleware that returns without calling next.Run() stops it
// simply because nothing advances it further.
func (n *Next) Run() http.Respond {
	if n.ctx.Aborted() {
		return http.Respond{}
	}
	if len(n.middlewares) == 0 {
		return n.handler(n.ctx)
	}
	mw := n.middlewares[0]
	rest := &Next{ctx: n.ctx, middlewares: n.middlewares[1:], handler: n.handler}
	return mw(n.ctx, rest)
}
