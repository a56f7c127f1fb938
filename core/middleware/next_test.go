package middleware

import (
	"testing"

	"github.com/searchktools/zzz/core/http"
)

func newTestContext() *http.Context {
	req := http.NewRequest(4)
	resp := http.NewResponse(64, 4)
	return http.NewContext(req, resp, nil, nil, 0)
}

func TestNextRunsInOrder(t *testing.T) {
	ctx := newTestContext()
	var order []int

	mw := func(n int) Middleware {
		return func(ctx *http.Context, next *Next) http.Respond {
			order = append(order, n)
			return next.Run()
		}
	}

	handler := func(ctx *http.Context) http.Respond {
		order = append(order, 0)
		return ctx.String(http.StatusOK, "ok")
	}

	next := NewNext(ctx, []Middleware{mw(1), mw(2), mw(3)}, handler)
	next.Run()

	want := []int{1, 2, 3, 0}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i, v := range want {
		if order[i] != v {
			t.Errorf("order[%d] = %d, want %d", i, order[i], v)
		}
	}
}

func TestNextShortCircuitsWithoutCallingRun(t *testing.T) {
	ctx := newTestContext()
	handlerRan := false

	stop := func(ctx *http.Context, next *Next) http.Respond {
		return ctx.String(http.Status(403), "nope")
	}
	handler := func(ctx *http.Context) http.Respond {
		handlerRan = true
		return ctx.String(http.StatusOK, "ok")
	}

	next := NewNext(ctx, []Middleware{stop}, handler)
	next.Run()

	if handlerRan {
		t.Error("handler should not run when a middleware doesn't call next.Run()")
	}
}

func TestNextAbortStopsChain(t *testing.T) {
	ctx := newTestContext()
	secondRan := false

	first := func(ctx *http.Context, next *Next) http.Respond {
		ctx.Abort()
		return next.Run()
	}
	second := func(ctx *http.Context, next *Next) http.Respond {
		secondRan = true
		return next.Run()
	}
	handler := func(ctx *http.Context) http.Respond {
		return ctx.String(http.StatusOK, "ok")
	}

	next := NewNext(ctx, []Middleware{first, second}, handler)
	next.Run()

	if secondRan {
		t.Error("second middleware should not run after Abort")
	}
}

func TestNextEmptyChainCallsHandler(t *testing.T) {
	ctx := newTestContext()
	called := false
	handler := func(ctx *http.Context) http.Respond {
		called = true
		return ctx.String(http.StatusOK, "ok")
	}

	next := NewNext(ctx, nil, handler)
	next.Run()

	if !called {
		t.Error("handler should run when there is no middleware")
	}
}
