//go:build !linux && unix

package mux

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// pollSelector backs Selector on non-Linux unix targets using poll(2),
// portable across the rest of the pack's likely deployment targets.
// Wakeup uses a self-pipe, the traditional portable analogue of the
// eventfd trick used by selector_linux.go.
type pollSelector struct {
	wakeupR int
	wakeupW int

	fds   []unix.PollFd
	order []*Node // order[i] corresponds to fds[i+1] (fds[0] is the wakeup pipe)
}

func newSelector() (Selector, error) {
	fds, err := selfPipe()
	if err != nil {
		return nil, err
	}
	s := &pollSelector{wakeupR: fds[0], wakeupW: fds[1]}
	s.fds = append(s.fds, unix.PollFd{Fd: int32(s.wakeupR), Events: unix.POLLIN})
	return s, nil
}

func selfPipe() ([2]int, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return fds, fmt.Errorf("pipe2: %w", err)
	}
	return fds, nil
}

func pollEvents(i InterestSet) int16 {
	var ev int16
	if i&InterestConnect != 0 || i&InterestWrite != 0 {
		ev |= unix.POLLOUT
	}
	if i&InterestRead != 0 {
		ev |= unix.POLLIN
	}
	return ev
}

func (s *pollSelector) Register(n *Node, fd int, interest InterestSet) error {
	s.fds = append(s.fds, unix.PollFd{Fd: int32(fd), Events: pollEvents(interest)})
	s.order = append(s.order, n)
	return nil
}

func (s *pollSelector) indexOf(n *Node) int {
	for i, on := range s.order {
		if on == n {
			return i
		}
	}
	return -1
}

func (s *pollSelector) SetInterest(n *Node, interest InterestSet) error {
	i := s.indexOf(n)
	if i < 0 {
		return nil
	}
	s.fds[i+1].Events = pollEvents(interest)
	return nil
}

func (s *pollSelector) Deregister(n *Node) {
	i := s.indexOf(n)
	if i < 0 {
		return
	}
	s.fds = append(s.fds[:i+1], s.fds[i+2:]...)
	s.order = append(s.order[:i], s.order[i+1:]...)
}

func (s *pollSelector) Wait(timeout time.Duration) ([]ReadyEvent, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
		if ms < 0 {
			ms = 0
		}
	}

	n, err := unix.Poll(s.fds, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, fmt.Errorf("poll: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	if s.fds[0].Revents != 0 {
		s.drainWakeup()
	}

	ready := make([]ReadyEvent, 0, n)
	for i, node := range s.order {
		revents := s.fds[i+1].Revents
		if revents == 0 {
			continue
		}
		re := ReadyEvent{Node: node}
		if node.connectPending {
			re.Connectable = revents&(unix.POLLOUT|unix.POLLERR|unix.POLLHUP) != 0
		} else {
			re.Readable = revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0
			re.Writable = revents&unix.POLLOUT != 0
		}
		ready = append(ready, re)
	}
	return ready, nil
}

func (s *pollSelector) drainWakeup() {
	var buf [64]byte
	for {
		_, err := unix.Read(s.wakeupR, buf[:])
		if err != nil {
			return
		}
	}
}

func (s *pollSelector) Wakeup() {
	_, _ = unix.Write(s.wakeupW, []byte{1})
}

func (s *pollSelector) Close() error {
	_ = unix.Close(s.wakeupR)
	_ = unix.Close(s.wakeupW)
	return nil
}
