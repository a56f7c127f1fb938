// Package sse implements the Server-Sent Events upgrade path and the
// generic fan-out broadcast primitive handlers use to feed it: a publisher
// with per-subscriber bounded queues that silently drops a value for any
// subscriber whose queue is full rather than blocking the publisher.
package sse

import "sync"

// Channel is one subscriber's bounded, single-consumer view of a
// Broadcast[T]. The subscriber owns it from Subscribe until exactly one
// call to Unsubscribe; after that, Recv keeps draining whatever was queued
// and then reports closed.
type Channel[T any] struct {
	ch     chan T
	closed chan struct{}
	once   sync.Once
}

func newChannel[T any](capacity int) *Channel[T] {
	return &Channel[T]{
		ch:     make(chan T, capacity),
		closed: make(chan struct{}),
	}
}

// Recv blocks until a value arrives or the channel is closed. ok is false
// on close, mirroring a closed Go channel's zero-value receive semantics.
func (c *Channel[T]) Recv() (T, bool) {
	v, ok := <-c.ch
	return v, ok
}

// close is called by Broadcast on Unsubscribe. It's idempotent; calling
// Unsubscribe twice on the same channel is a programmer error but must not
// panic.
func (c *Channel[T]) close() {
	c.once.Do(func() {
		close(c.ch)
		close(c.closed)
	})
}

// Broadcast is a one-to-many fan-out publisher. Send copies the value into
// every currently-subscribed channel; a full channel drops the value for
// that subscriber only, never for the others, and never blocks Send.
type Broadcast[T any] struct {
	mu          sync.RWMutex
	subscribers map[*Channel[T]]struct{}
	closed      bool
}

// NewBroadcast creates a publisher with no subscribers yet. cap is accepted
// for API symmetry with Subscribe but has no effect here: queue capacity is
// a per-subscriber choice made at Subscribe time, not a publisher-wide one.
func NewBroadcast[T any](cap int) *Broadcast[T] {
	return &Broadcast[T]{subscribers: make(map[*Channel[T]]struct{})}
}

// Subscribe registers a fresh bounded channel of the given capacity. The
// caller must call Unsubscribe exactly once when done. Subscribing after
// Shutdown returns ok == false.
func (b *Broadcast[T]) Subscribe(capacity int) (*Channel[T], bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, false
	}
	ch := newChannel[T](capacity)
	b.subscribers[ch] = struct{}{}
	return ch, true
}

// Unsubscribe removes ch from the subscriber set and wakes any pending
// Recv on it with the closed signal. Safe to call on an already-closed or
// already-unsubscribed channel.
func (b *Broadcast[T]) Unsubscribe(ch *Channel[T]) {
	b.mu.Lock()
	delete(b.subscribers, ch)
	b.mu.Unlock()
	ch.close()
}

// Send fans value out to every subscriber. Values arrive at a given
// subscriber in the order Send was called; no ordering is guaranteed
// across subscribers.
func (b *Broadcast[T]) Send(value T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch.ch <- value:
		default:
			// subscriber queue full: drop for this subscriber only.
		}
	}
}

// Shutdown closes every current subscriber channel and prevents further
// subscriptions. Runtime shutdown drains outstanding Recv calls this way
// rather than leaving them blocked forever.
func (b *Broadcast[T]) Shutdown() {
	b.mu.Lock()
	b.closed = true
	subs := b.subscribers
	b.subscribers = make(map[*Channel[T]]struct{})
	b.mu.Unlock()
	for ch := range subs {
		ch.close()
	}
}

// SubscriberCount reports the current number of live subscribers, for
// observability.
func (b *Broadcast[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
