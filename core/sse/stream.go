package sse

import (
	"strconv"
	"sync/atomic"

	"github.com/searchktools/zzz/core/arena"
	"github.com/searchktools/zzz/core/transport"
)

// UpgradeHeader is the exact byte sequence the connection engine writes
// before handing a socket to SSE.
const UpgradeHeader = "HTTP/1.1 200 OK\r\nContent-Type: text/event-stream\r\nCache-Control: no-cache\r\nConnection: keep-alive\r\n\r\n"

// Stream owns a connection's socket after upgrade. From construction
// onward the connection engine's state machine no longer touches this
// socket — Stream is solely responsible for eventually closing it and
// signaling the provision release callback supplied at construction. The
// arena it formats events into is the same one the owning provision carved
// the request out of; the provision stays borrowed (not released back to
// the pool) for as long as the stream is open, so Stream is free to keep
// using it and resets it after every Send instead of allocating a fresh
// buffer per event.
type Stream struct {
	conn    transport.Conn
	arena   *arena.Arena
	release func()
	closed  atomic.Bool
	nextID  atomic.Uint64
}

// NewStream wraps conn, already past the engine's upgrade response write.
// a is the owning provision's scratch arena, used to format every Send
// call's wire bytes; release is called exactly once, from Close, to return
// the owning provision to its pool.
func NewStream(conn transport.Conn, a *arena.Arena, release func()) *Stream {
	return &Stream{conn: conn, arena: a, release: release}
}

// Send formats one event as `data: <payload>\r\n\r\n`, optionally preceded
// by `event: <type>\r\n` and `id: <id>\r\n`, and writes it to the socket.
// A Stream's Send/Close calls are the entire contract a subscriber needs:
// the loop is just `for { v, ok := ch.Recv(); if !ok { break }; stream.Send(...) }`.
// The formatting buffer is carved from the stream's arena rather than
// allocated fresh, and the arena is reset right after the write — nothing
// needs to retain the bytes once they're on the wire, so every event reuses
// the same backing buffer instead of growing the heap one event at a time.
func (s *Stream) Send(eventType, id, data string) error {
	size := len("data: ") + len(data) + 4
	if id != "" {
		size += len("id: ") + len(id) + 2
	}
	if eventType != "" {
		size += len("event: ") + len(eventType) + 2
	}

	var buf []byte
	if s.arena != nil {
		buf = s.arena.MakeSlice(size)[:0]
		defer s.arena.Reset()
	} else {
		buf = make([]byte, 0, size)
	}
	if id != "" {
		buf = append(buf, "id: "...)
		buf = append(buf, id...)
		buf = append(buf, '\r', '\n')
	}
	if eventType != "" {
		buf = append(buf, "event: "...)
		buf = append(buf, eventType...)
		buf = append(buf, '\r', '\n')
	}
	buf = append(buf, "data: "...)
	buf = append(buf, data...)
	buf = append(buf, '\r', '\n', '\r', '\n')
	return s.conn.SendAll(buf)
}

// NextID returns a monotonically increasing per-stream event id, for
// callers that want SSE's optional `id:` field without managing their own
// counter.
func (s *Stream) NextID() string {
	return strconv.FormatUint(s.nextID.Add(1), 10)
}

// Close closes the socket and runs the release callback. Idempotent.
func (s *Stream) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.conn.Close()
	if s.release != nil {
		s.release()
	}
}

// Pump runs a continuation-style send loop: receive values from ch until it
// reports closed or Send errors (the client disconnected), formatting each
// value with format, then release the stream. Callers that need custom
// framing per value should call Send directly in their own loop instead of
// Pump.
func Pump[T any](s *Stream, ch *Channel[T], format func(T) (eventType, data string)) {
	PumpWithID(s, ch, func(v T) (eventType, id, data string) {
		eventType, data = format(v)
		return eventType, s.NextID(), data
	})
}

// PumpWithID is Pump with control over the id: field — format returns "" for
// id on values that shouldn't carry one, instead of Pump's always-numbered
// stream.
func PumpWithID[T any](s *Stream, ch *Channel[T], format func(T) (eventType, id, data string)) {
	defer func() {
		s.Close()
	}()
	for {
		v, ok := ch.Recv()
		if !ok {
			return
		}
		eventType, id, data := format(v)
		if err := s.Send(eventType, id, data); err != nil {
			return
		}
	}
}
