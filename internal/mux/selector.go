package mux

import "time"

// InterestSet is the mask of I/O readiness events the multiplexer asks a
// Selector to watch for on a given registration (spec §4.E.iv).
type InterestSet uint8

const (
	InterestConnect InterestSet = 1 << iota
	InterestRead
	InterestWrite
)

func (i InterestSet) String() string {
	s := ""
	if i&InterestConnect != 0 {
		s += "C"
	}
	if i&InterestRead != 0 {
		s += "R"
	}
	if i&InterestWrite != 0 {
		s += "W"
	}
	if s == "" {
		s = "-"
	}
	return s
}

// ReadyEvent reports which interests fired for a node's registration.
type ReadyEvent struct {
	Node        *Node
	Connectable bool
	Readable    bool
	Writable    bool
}

// Selector is the Go-idiomatic reading of java.nio.channels.Selector that
// the original spymemcached source drives: a readiness multiplexer over
// many raw sockets, with a registration per node and a thread-safe
// wakeup. Two backends implement it (selector_linux.go via epoll,
// selector_poll.go via poll(2) for other unix targets); callers only see
// this interface.
type Selector interface {
	// Register associates fd with n at the given initial interest set.
	Register(n *Node, fd int, interest InterestSet) error
	// SetInterest updates the interest set for n's existing registration.
	// It is a no-op if n has no valid registration.
	SetInterest(n *Node, interest InterestSet) error
	// Deregister invalidates n's registration. Safe to call even if n was
	// never registered or was already deregistered.
	Deregister(n *Node)
	// Wait blocks up to timeout (or indefinitely if timeout < 0) for at
	// least one registration to become ready, or until Wakeup is called,
	// and returns the ready events observed.
	Wait(timeout time.Duration) ([]ReadyEvent, error)
	// Wakeup interrupts a concurrent or future Wait call. Safe to call
	// from any goroutine.
	Wakeup()
	// Close releases the selector's OS resources.
	Close() error
}
