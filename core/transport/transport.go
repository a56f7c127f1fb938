// Package transport abstracts the socket operations the connection engine
// needs — accept, recv, send_all, close, disable Nagle — behind an
// interface, so a TLS transport can be substituted for the plaintext one
// without the engine knowing the difference.
package transport

import "errors"

// ErrClosed is returned by Recv when the peer has closed its write side
// (a zero-length, non-error read). A read on a connection already closed
// locally returns the underlying syscall error instead.
var ErrClosed = errors.New("transport: closed")

// Conn is one accepted connection.
type Conn interface {
	// Fd returns the underlying file descriptor, for registration with a
	// poller.Poller.
	Fd() int

	// Recv reads into buf. It returns (0, ErrClosed) on EOF, and the
	// caller must treat syscall.EAGAIN/EWOULDBLOCK as "not ready yet, wait
	// for the poller" rather than an error — Recv itself never blocks.
	Recv(buf []byte) (int, error)

	// SendAll writes data in full, retrying on partial writes and on
	// EAGAIN. It only returns once every byte is written or an error
	// occurs.
	SendAll(data []byte) error

	// Close tears down the connection without waiting for in-flight I/O.
	Close() error

	// CloseBlocking closes the connection after ensuring queued data has
	// been sent, for a graceful Connection: close teardown.
	CloseBlocking() error

	// DisableNagle sets TCP_NODELAY; a no-op on transports where it
	// doesn't apply.
	DisableNagle() error
}

// Transport accepts inbound connections on one bound listening socket.
type Transport interface {
	// Fd returns the listening socket's file descriptor, for registration
	// with a poller.Poller alongside accepted connections.
	Fd() int

	// Accept returns the next pending connection. Like Recv, it must not
	// block: EAGAIN/EWOULDBLOCK means "nothing pending right now."
	Accept() (Conn, error)

	Close() error
}
