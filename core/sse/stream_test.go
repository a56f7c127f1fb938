package sse

import (
	"bytes"
	"errors"
	"testing"

	"github.com/searchktools/zzz/core/arena"
)

type fakeConn struct {
	sent   bytes.Buffer
	closed bool
	failOn int
	calls  int
}

func (c *fakeConn) Fd() int { return 0 }

func (c *fakeConn) Recv(buf []byte) (int, error) { return 0, errors.New("unused in tests") }

func (c *fakeConn) SendAll(data []byte) error {
	c.calls++
	if c.failOn != 0 && c.calls >= c.failOn {
		return errors.New("fake send error")
	}
	c.sent.Write(data)
	return nil
}

func (c *fakeConn) Close() error { c.closed = true; return nil }

func (c *fakeConn) CloseBlocking() error { c.closed = true; return nil }

func (c *fakeConn) DisableNagle() error { return nil }

func TestStreamSendFormatsEventFields(t *testing.T) {
	conn := &fakeConn{}
	s := NewStream(conn, arena.New(256), nil)

	if err := s.Send("tick", "7", "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	want := "id: 7\r\nevent: tick\r\ndata: hello\r\n\r\n"
	if conn.sent.String() != want {
		t.Errorf("sent = %q, want %q", conn.sent.String(), want)
	}
}

func TestStreamSendOmitsEmptyFields(t *testing.T) {
	conn := &fakeConn{}
	s := NewStream(conn, arena.New(256), nil)

	if err := s.Send("", "", "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	want := "data: hello\r\n\r\n"
	if conn.sent.String() != want {
		t.Errorf("sent = %q, want %q", conn.sent.String(), want)
	}
}

func TestStreamNextIDMonotonic(t *testing.T) {
	s := NewStream(&fakeConn{}, nil, nil)
	first := s.NextID()
	second := s.NextID()
	if first == second {
		t.Errorf("NextID returned the same value twice: %q", first)
	}
}

func TestStreamCloseIsIdempotentAndRunsRelease(t *testing.T) {
	conn := &fakeConn{}
	released := 0
	s := NewStream(conn, nil, func() { released++ })

	s.Close()
	s.Close()

	if !conn.closed {
		t.Error("Close should close the underlying connection")
	}
	if released != 1 {
		t.Errorf("release called %d times, want 1", released)
	}
}

func TestPumpStopsOnSendError(t *testing.T) {
	conn := &fakeConn{failOn: 1}
	released := 0
	s := NewStream(conn, arena.New(256), func() { released++ })

	b := NewBroadcast[string](0)
	ch, _ := b.Subscribe(4)
	b.Send("first")

	Pump(s, ch, func(v string) (string, string) { return "msg", v })

	if released != 1 {
		t.Errorf("release called %d times, want 1", released)
	}
	if !conn.closed {
		t.Error("Pump should close the stream once Send fails")
	}
}

func TestPumpStopsOnChannelClose(t *testing.T) {
	conn := &fakeConn{}
	s := NewStream(conn, arena.New(256), nil)

	b := NewBroadcast[string](0)
	ch, _ := b.Subscribe(4)
	b.Send("only")
	b.Unsubscribe(ch)

	Pump(s, ch, func(v string) (string, string) { return "msg", v })

	if conn.sent.Len() == 0 {
		t.Error("Pump should have sent the buffered value before observing the close")
	}
	if !conn.closed {
		t.Error("Pump should close the stream once the channel reports closed")
	}
}

func TestPumpWithIDOmitsIDWhenFormatReturnsEmpty(t *testing.T) {
	conn := &fakeConn{}
	s := NewStream(conn, arena.New(256), nil)

	b := NewBroadcast[string](0)
	ch, _ := b.Subscribe(4)
	b.Send("only")
	b.Unsubscribe(ch)

	PumpWithID(s, ch, func(v string) (eventType, id, data string) { return "msg", "", v })

	want := "event: msg\r\ndata: only\r\n\r\n"
	if conn.sent.String() != want {
		t.Errorf("sent = %q, want %q", conn.sent.String(), want)
	}
}

func TestSendReusesArenaAcrossCalls(t *testing.T) {
	conn := &fakeConn{}
	a := arena.New(256)
	s := NewStream(conn, a, nil)

	if err := s.Send("tick", "1", "aaa"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := s.Send("tick", "2", "bbb"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	want := "id: 1\r\nevent: tick\r\ndata: aaa\r\n\r\nid: 2\r\nevent: tick\r\ndata: bbb\r\n\r\n"
	if conn.sent.String() != want {
		t.Errorf("sent = %q, want %q", conn.sent.String(), want)
	}
}
