package transport

import (
	"net"
	"os"
	"syscall"
)

// PlainTransport is the plaintext fd-based Transport. It listens with the
// standard net package (for address resolution and dual-stack binding) and
// then drops to the raw file descriptor so the connection engine can drive
// accept/recv/send through syscalls directly, bypassing the Go runtime's
// own netpoller in favor of the core's own poller.Poller.
type PlainTransport struct {
	ln   *net.TCPListener
	file *os.File
	fd   int
}

// Listen binds addr ("host:port") and returns a PlainTransport ready to
// Accept.
func Listen(addr string) (*PlainTransport, error) {
	laddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}
	ln, err := net.ListenTCP("tcp", laddr)
	if err != nil {
		return nil, err
	}
	file, err := ln.File()
	if err != nil {
		ln.Close()
		return nil, err
	}
	fd := int(file.Fd())
	if err := syscall.SetNonblock(fd, true); err != nil {
		file.Close()
		ln.Close()
		return nil, err
	}
	return &PlainTransport{ln: ln, file: file, fd: fd}, nil
}

func (t *PlainTransport) Fd() int { return t.fd }

// Accept drains one pending connection. Call it in a loop until it returns
// EAGAIN — a single poller readiness notification can mean several
// connections are queued.
func (t *PlainTransport) Accept() (Conn, error) {
	nfd, _, err := syscall.Accept(t.fd)
	if err != nil {
		return nil, err
	}
	if err := syscall.SetNonblock(nfd, true); err != nil {
		syscall.Close(nfd)
		return nil, err
	}
	syscall.SetsockoptInt(nfd, syscall.IPPROTO_TCP, syscall.TCP_NODELAY, 1)
	syscall.SetsockoptInt(nfd, syscall.SOL_SOCKET, syscall.SO_KEEPALIVE, 1)
	return &PlainConn{fd: nfd}, nil
}

func (t *PlainTransport) Close() error {
	t.file.Close()
	return t.ln.Close()
}

// PlainConn is a non-blocking plaintext socket.
type PlainConn struct {
	fd int
}

func (c *PlainConn) Fd() int { return c.fd }

func (c *PlainConn) Recv(buf []byte) (int, error) {
	n, err := syscall.Read(c.fd, buf)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrClosed
	}
	return n, nil
}

func (c *PlainConn) SendAll(data []byte) error {
	for len(data) > 0 {
		n, err := syscall.Write(c.fd, data)
		if err != nil {
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				continue
			}
			return err
		}
		data = data[n:]
	}
	return nil
}

func (c *PlainConn) Close() error {
	return syscall.Close(c.fd)
}

func (c *PlainConn) CloseBlocking() error {
	syscall.SetNonblock(c.fd, false)
	return syscall.Close(c.fd)
}

func (c *PlainConn) DisableNagle() error {
	return syscall.SetsockoptInt(c.fd, syscall.IPPROTO_TCP, syscall.TCP_NODELAY, 1)
}
