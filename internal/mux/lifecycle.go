package mux

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// connectNode opens a non-blocking socket to n's address and registers it
// with the selector, either as CONNECT-pending or, if the connect
// completed synchronously, with whatever interest set the node's current
// queues demand (spec §6 construct, §4.F attemptReconnects).
func connectNode(n *Node, sel Selector, log *zap.SugaredLogger) error {
	fd, pending, err := dialNonBlocking(n.address)
	if err != nil {
		return fmt.Errorf("connect %s: %w", n.address, err)
	}

	n.fd = fd
	n.connectPending = pending

	interest := n.interestSet()
	if err := sel.Register(n, fd, interest); err != nil {
		closeFD(fd)
		n.fd = -1
		n.connectPending = false
		return fmt.Errorf("register %s: %w", n.address, err)
	}
	n.registered = true

	if pending {
		log.Infow("connecting", "node", n.id, "address", n.address.String())
	} else {
		log.Infow("connected immediately", "node", n.id, "address", n.address.String())
	}
	return nil
}

// finishConnectNode completes an in-progress connect on CONNECT readiness
// (spec §4.E.i). On success it resets reconnectAttempt and recomputes the
// node's interest set.
func finishConnectNode(n *Node, sel Selector, log *zap.SugaredLogger) error {
	ok, err := finishConnect(n.fd)
	if err != nil || !ok {
		if err == nil {
			err = fmt.Errorf("connect refused")
		}
		return fmt.Errorf("finish connect %s: %w", n.address, err)
	}

	n.connectPending = false
	n.reconnectAttempt = 0
	n.protocolErrors = 0
	log.Infow("connected", "node", n.id, "address", n.address.String())

	if err := sel.SetInterest(n, n.interestSet()); err != nil {
		return fmt.Errorf("set interest %s: %w", n.address, err)
	}
	return nil
}

// closeNode tears down a node's fd and registration without touching its
// queues; callers that want queued operations rewound call setupResend
// separately (queueReconnect does both).
func closeNode(n *Node, sel Selector) {
	if n.registered {
		sel.Deregister(n)
		n.registered = false
	}
	if n.fd >= 0 {
		closeFD(n.fd)
	}
	n.fd = -1
	n.connectPending = false
}

// queueReconnect implements spec §4.F queueReconnect: idempotent per
// node — a node already mid-backoff (fd already closed) is a no-op — and
// otherwise tears down the connection, bumps the backoff counter,
// schedules the retry, and rewinds in-flight operations via setupResend.
func queueReconnect(n *Node, sel Selector, sched *reconnectScheduler, now time.Time, log *zap.SugaredLogger) {
	if n.fd < 0 && n.reconnectAttempt > 0 {
		return
	}
	closeNode(n, sel)
	n.reconnectAttempt++
	n.protocolErrors = 0
	sched.Schedule(n, now)
	n.setupResend()

	deadline, _ := sched.NextDeadline()
	log.Warnw("queued reconnect", "node", n.id, "address", n.address.String(),
		"attempt", n.reconnectAttempt, "nextDeadline", deadline)
}

// attemptReconnects implements spec §4.F attemptReconnects: opens a new
// socket for every node whose backoff deadline has passed. reconnectAttempt
// is left untouched here; only finishConnectNode resets it.
func attemptReconnects(due []*Node, sel Selector, log *zap.SugaredLogger) {
	for _, n := range due {
		if err := connectNode(n, sel, log); err != nil {
			log.Errorw("reconnect attempt failed", "node", n.id, "address", n.address.String(), "error", err)
		}
	}
}
