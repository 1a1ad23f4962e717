//go:build linux

package mux

import (
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// epollSelector backs Selector with Linux epoll. Registration and
// interest-set changes are only ever called from the I/O thread (spec
// §5); Wakeup is the sole cross-thread entry point, implemented with an
// eventfd per the "readiness API with a thread-safe interrupt" note in
// spec.md §9.
type epollSelector struct {
	epfd     int
	wakeupFd int

	fdOf   map[*Node]int32
	nodeOf map[int32]*Node

	events []unix.EpollEvent
}

// newSelector is the platform entry point used by Pool construction.
func newSelector() (Selector, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll_create1: %w", err)
	}

	wakeupFd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("eventfd: %w", err)
	}

	s := &epollSelector{
		epfd:     epfd,
		wakeupFd: wakeupFd,
		fdOf:     make(map[*Node]int32),
		nodeOf:   make(map[int32]*Node),
		events:   make([]unix.EpollEvent, 64),
	}

	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakeupFd, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(wakeupFd),
	}); err != nil {
		unix.Close(wakeupFd)
		unix.Close(epfd)
		return nil, fmt.Errorf("epoll_ctl add wakeup fd: %w", err)
	}

	return s, nil
}

func toEpollEvents(i InterestSet) uint32 {
	var ev uint32
	if i&InterestConnect != 0 || i&InterestWrite != 0 {
		ev |= unix.EPOLLOUT
	}
	if i&InterestRead != 0 {
		ev |= unix.EPOLLIN
	}
	return ev
}

func (s *epollSelector) Register(n *Node, fd int, interest InterestSet) error {
	event := unix.EpollEvent{Events: toEpollEvents(interest), Fd: int32(fd)}
	if err := unix.EpollCtl(s.epfd, unix.EPOLL_CTL_ADD, fd, &event); err != nil {
		return fmt.Errorf("epoll_ctl add fd %d: %w", fd, err)
	}
	s.fdOf[n] = int32(fd)
	s.nodeOf[int32(fd)] = n
	return nil
}

func (s *epollSelector) SetInterest(n *Node, interest InterestSet) error {
	fd, ok := s.fdOf[n]
	if !ok {
		return nil
	}
	event := unix.EpollEvent{Events: toEpollEvents(interest), Fd: fd}
	if err := unix.EpollCtl(s.epfd, unix.EPOLL_CTL_MOD, int(fd), &event); err != nil {
		return fmt.Errorf("epoll_ctl mod fd %d: %w", fd, err)
	}
	return nil
}

func (s *epollSelector) Deregister(n *Node) {
	fd, ok := s.fdOf[n]
	if !ok {
		return
	}
	_ = unix.EpollCtl(s.epfd, unix.EPOLL_CTL_DEL, int(fd), nil)
	delete(s.fdOf, n)
	delete(s.nodeOf, fd)
}

func (s *epollSelector) Wait(timeout time.Duration) ([]ReadyEvent, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
		if ms < 0 {
			ms = 0
		}
	}

	n, err := unix.EpollWait(s.epfd, s.events, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, fmt.Errorf("epoll_wait: %w", err)
	}

	ready := make([]ReadyEvent, 0, n)
	for i := 0; i < n; i++ {
		ev := s.events[i]
		if int(ev.Fd) == s.wakeupFd {
			s.drainWakeup()
			continue
		}
		node, ok := s.nodeOf[ev.Fd]
		if !ok {
			continue
		}
		re := ReadyEvent{Node: node}
		if node.connectPending {
			re.Connectable = ev.Events&(unix.EPOLLOUT|unix.EPOLLERR|unix.EPOLLHUP) != 0
		} else {
			re.Readable = ev.Events&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0
			re.Writable = ev.Events&unix.EPOLLOUT != 0
		}
		ready = append(ready, re)
	}
	return ready, nil
}

func (s *epollSelector) drainWakeup() {
	var buf [8]byte
	for {
		_, err := unix.Read(s.wakeupFd, buf[:])
		if err != nil {
			return
		}
	}
}

func (s *epollSelector) Wakeup() {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], 1)
	_, _ = unix.Write(s.wakeupFd, b[:])
}

func (s *epollSelector) Close() error {
	_ = unix.Close(s.wakeupFd)
	return unix.Close(s.epfd)
}
