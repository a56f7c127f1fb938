package pools

import (
	"context"
	"sync"
	"sync/atomic"
)

// ProvisionPool is a bounded object pool whose Borrow parks the caller
// instead of refusing when the pool is at capacity. This is the resolution
// to the admission-control open question: a full pool must not drop an
// already-accepted socket, so Borrow blocks on a counting semaphore of
// maxConns tokens until some other connection releases one. maxConns <= 0
// means unbounded — no semaphore is created and Borrow never blocks on
// admission.
//
// T is typically a Provision (the per-connection resource bundle); kept
// generic here so the pool carries no dependency on the http/router
// packages.
type ProvisionPool[T any] struct {
	tokens    chan struct{}
	pool      sync.Pool
	resetFunc func(*T)

	gets atomic.Uint64
	puts atomic.Uint64
	news atomic.Uint64
}

// NewProvisionPool creates a pool. newFunc allocates a fresh T; resetFunc
// clears one for reuse before it's handed to the next Borrow.
func NewProvisionPool[T any](maxConns int, newFunc func() *T, resetFunc func(*T)) *ProvisionPool[T] {
	p := &ProvisionPool[T]{resetFunc: resetFunc}
	p.pool.New = func() any {
		p.news.Add(1)
		return newFunc()
	}
	if maxConns > 0 {
		p.tokens = make(chan struct{}, maxConns)
		for i := 0; i < maxConns; i++ {
			p.tokens <- struct{}{}
		}
	}
	return p
}

// Borrow acquires a provision, parking until one is available if the pool
// is bounded and at capacity. It returns ctx.Err() if ctx is canceled
// while parked — the acceptor's way of unblocking on shutdown.
func (p *ProvisionPool[T]) Borrow(ctx context.Context) (*T, error) {
	if p.tokens != nil {
		select {
		case <-p.tokens:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p.gets.Add(1)
	return p.pool.Get().(*T), nil
}

// Release clears v and returns it to the pool, freeing its admission
// token. Every Borrow must be matched by exactly one Release.
func (p *ProvisionPool[T]) Release(v *T) {
	if v == nil {
		return
	}
	if p.resetFunc != nil {
		p.resetFunc(v)
	}
	p.puts.Add(1)
	p.pool.Put(v)
	if p.tokens != nil {
		p.tokens <- struct{}{}
	}
}

// Stats reports cumulative borrow/release/allocation counts.
func (p *ProvisionPool[T]) Stats() (gets, puts, news uint64) {
	return p.gets.Load(), p.puts.Load(), p.news.Load()
}
