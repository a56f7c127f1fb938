//go:build linux
// +build linux

package poller

import (
	"syscall"
)

// EpollPoller is an epoll-based I/O multiplexer. events starts small and
// grows as registered climbs, so a Wait batch is sized to roughly how many
// connections are live instead of a fixed guess that either wastes memory
// at small connection counts or truncates a batch at large ones.
type EpollPoller struct {
	epfd       int
	events     []syscall.EpollEvent
	registered int
}

// NewPoller creates a new Poller (Linux).
func NewPoller() (Poller, error) {
	epfd, err := syscall.EpollCreate1(0)
	if err != nil {
		return nil, err
	}

	return &EpollPoller{
		epfd:   epfd,
		events: make([]syscall.EpollEvent, 128),
	}, nil
}

// Add adds a file descriptor to the watch list.
func (p *EpollPoller) Add(fd int) error {
	ev := syscall.EpollEvent{
		// EPOLLIN: read ready. EPOLLRDHUP (0x2000): peer shutdown.
		// Level-triggered (no EPOLLET): a connection with buffered bytes
		// the handler didn't fully drain keeps firing, which is what
		// the Request.Body state in the engine relies on.
		Events: uint32(syscall.EPOLLIN) | uint32(0x2000),
		Fd:     int32(fd),
	}

	if err := syscall.EpollCtl(p.epfd, syscall.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return err
	}
	p.registered++
	if p.registered > len(p.events) {
		p.events = make([]syscall.EpollEvent, p.registered*2)
	}
	return nil
}

// Remove removes a file descriptor from the watch list.
func (p *EpollPoller) Remove(fd int) error {
	if err := syscall.EpollCtl(p.epfd, syscall.EPOLL_CTL_DEL, fd, nil); err != nil {
		return err
	}
	if p.registered > 0 {
		p.registered--
	}
	return nil
}

// Wait waits for I/O events. If a batch fills the events buffer exactly,
// more were likely left waiting for the next call, so the buffer doubles —
// registered alone can undercount bursts where fds go readable faster than
// Wait is called.
func (p *EpollPoller) Wait(timeoutMillis int) ([]int, error) {
	n, err := syscall.EpollWait(p.epfd, p.events, timeoutMillis)
	if err != nil && err != syscall.EINTR {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	if n == len(p.events) {
		p.events = make([]syscall.EpollEvent, len(p.events)*2)
	}

	fds := make([]int, 0, n)
	for i := 0; i < n; i++ {
		fds = append(fds, int(p.events[i].Fd))
	}

	return fds, nil
}

// Close closes the Poller.
func (p *EpollPoller) Close() error {
	return syscall.Close(p.epfd)
}

// SetNonblock sets non-blocking mode on fd.
func SetNonblock(fd int) error {
	return syscall.SetNonblock(fd, true)
}
