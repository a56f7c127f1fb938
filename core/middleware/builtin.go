package middleware

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/searchktools/zzz/core/http"
)

// Recovery turns a panic inside the rest of the chain into a 500 instead of
// taking the worker goroutine down with it. It must be the outermost
// middleware on any bundle that wants the protection.
func Recovery() Middleware {
	return func(ctx *http.Context, next *Next) (resp http.Respond) {
		defer func() {
			if rec := recover(); rec != nil {
				resp = ctx.Error(http.StatusInternalServerError, "internal error")
			}
		}()
		return next.Run()
	}
}

// Logger logs the method, path and outcome status of every request. It
// runs the rest of the chain first so the status it logs is the one the
// handler actually produced.
func Logger(logf func(format string, args ...any)) Middleware {
	if logf == nil {
		logf = defaultLogf
	}
	return func(ctx *http.Context, next *Next) http.Respond {
		start := time.Now()
		resp := next.Run()
		logf("%s %s -> %d (%s)", ctx.Request.Method, ctx.Request.Path, int(ctx.Response.StatusCode()), time.Since(start))
		return resp
	}
}

func defaultLogf(format string, args ...any) {}

// CORS adds permissive CORS headers and short-circuits OPTIONS preflight
// requests with a 204.
func CORS() Middleware {
	return func(ctx *http.Context, next *Next) http.Respond {
		ctx.SetHeader("Access-Control-Allow-Origin", "*")
		ctx.SetHeader("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		ctx.SetHeader("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if ctx.Request.Method == http.MethodOPTIONS {
			ctx.Abort()
			ctx.Response.SetStatus(http.StatusNoContent)
			return http.Respond{}
		}
		return next.Run()
	}
}

// RequestID stamps every response with a monotonically increasing
// X-Request-ID header.
func RequestID() Middleware {
	var counter uint64
	return func(ctx *http.Context, next *Next) http.Respond {
		id := atomic.AddUint64(&counter, 1)
		ctx.SetHeader("X-Request-ID", strconv.FormatUint(id, 10))
		return next.Run()
	}
}

// RateLimiter is a simple per-process token bucket refilled once a second.
// It's coarse on purpose — per-connection or per-IP limiting belongs to a
// caller-supplied middleware built the same way.
func RateLimiter(requestsPerSecond int) Middleware {
	var (
		mu         sync.Mutex
		tokens     int
		lastRefill time.Time
	)
	tokens = requestsPerSecond

	return func(ctx *http.Context, next *Next) http.Respond {
		mu.Lock()
		now := time.Now()
		if now.Sub(lastRefill) > time.Second {
			tokens = requestsPerSecond
			lastRefill = now
		}
		if tokens <= 0 {
			mu.Unlock()
			ctx.Abort()
			return ctx.Error(http.Status(429), "too many requests")
		}
		tokens--
		mu.Unlock()
		return next.Run()
	}
}
