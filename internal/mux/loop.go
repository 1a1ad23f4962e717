package mux

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cachemir/cachemir/internal/op"
)

// ErrShutdown is returned by handleIO once shutdown() has been called.
var ErrShutdown = errors.New("mux: pool is shut down")

const (
	// DefaultExcessiveEmpty is the empty-select tolerance before the
	// defensive sweep runs (spec §4.E.3, §6), used when a PoolConfig
	// doesn't override it.
	DefaultExcessiveEmpty = 100
	// DefaultExcessiveErrors is the consecutive-protocol-error tolerance
	// before a node is queued for reconnect (spec §4.E.i, §6): any desync
	// is fatal to the connection. Used when a PoolConfig doesn't override
	// it.
	DefaultExcessiveErrors = 1
	// defaultSelectTimeout bounds Wait when no reconnect is scheduled.
	defaultSelectTimeout = 5 * time.Second
)

// loopState is the I/O-thread-only state handleIO needs beyond what each
// Node already carries: the reconnect scheduler, the empty-select
// counter, and the handoff queue every producer posts to.
type loopState struct {
	handoff         *handoffQueue
	reconnects      *reconnectScheduler
	emptySelects    int
	excessiveEmpty  int
	excessiveErrors int
	optimizeGets    bool
	log             *zap.SugaredLogger
}

// newLoopState builds the I/O-thread state. excessiveEmpty/excessiveErrors
// of zero fall back to DefaultExcessiveEmpty/DefaultExcessiveErrors, and
// maxReconnectDelay of zero falls back to DefaultMaxReconnectDelay, so
// callers that don't go through a PoolConfig still get the spec defaults.
func newLoopState(excessiveEmpty, excessiveErrors int, maxReconnectDelay time.Duration, log *zap.SugaredLogger) *loopState {
	if excessiveEmpty <= 0 {
		excessiveEmpty = DefaultExcessiveEmpty
	}
	if excessiveErrors <= 0 {
		excessiveErrors = DefaultExcessiveErrors
	}
	return &loopState{
		handoff:         newHandoffQueue(),
		reconnects:      newReconnectScheduler(maxReconnectDelay),
		excessiveEmpty:  excessiveEmpty,
		excessiveErrors: excessiveErrors,
		log:             log,
	}
}

// handleIO runs one iteration of the multiplexer loop (spec §4.E). now is
// injected so reconnect scheduling stays testable without a real clock.
func handleIO(ls *loopState, sel Selector, allNodes []*Node, now time.Time) error {
	// 1. Drain handoff.
	for _, n := range ls.handoff.Drain() {
		if n.fd >= 0 && !n.connectPending && n.hasWriteOp() {
			writeNode(n, ls.optimizeGets, ls.log)
		}
		n.copyInputQueue()
		if n.registered {
			_ = sel.SetInterest(n, n.interestSet())
		}
	}

	// 2. Compute select timeout from the reconnect scheduler.
	timeout := defaultSelectTimeout
	if deadline, ok := ls.reconnects.NextDeadline(); ok {
		d := deadline.Sub(now)
		if d <= 0 {
			d = time.Millisecond
		}
		timeout = d
	}

	// 3. Select.
	ready, err := sel.Wait(timeout)
	if err != nil {
		return fmt.Errorf("selector wait: %w", err)
	}

	if len(ready) == 0 {
		ls.emptySelects++
		if ls.emptySelects > ls.excessiveEmpty {
			sweepStaleRegistrations(allNodes, sel, ls, now)
			ls.emptySelects = 0
		}
	} else {
		ls.emptySelects = 0
		for _, re := range ready {
			handleReadyKey(re, sel, ls, now)
		}
	}

	// 5. Attempt reconnects for anything now due.
	due := ls.reconnects.DrainDue(now)
	if len(due) > 0 {
		attemptReconnects(due, sel, ls.log)
	}

	return nil
}

// sweepStaleRegistrations implements the EXCESSIVE_EMPTY defensive sweep
// (spec §4.E.3): nodes with ready work are handled directly since the
// selector apparently failed to report them; everything else is assumed
// to have a dead registration and is queued for reconnect.
func sweepStaleRegistrations(allNodes []*Node, sel Selector, ls *loopState, now time.Time) {
	for _, n := range allNodes {
		if !n.registered {
			continue
		}
		ls.log.Warnw("excessive empty selects, inspecting registration",
			"node", n.id, "hasReadOp", n.hasReadOp(), "hasWriteOp", n.hasWriteOp(),
			"interest", n.interestSet().String())
		if n.hasReadOp() || n.hasWriteOp() {
			handleReadyKey(ReadyEvent{Node: n, Readable: n.hasReadOp(), Writable: n.hasWriteOp() || n.toWrite > 0}, sel, ls, now)
			continue
		}
		queueReconnect(n, sel, ls.reconnects, now, ls.log)
	}
}

// handleReadyKey is the per-key handler of spec §4.E.i.
func handleReadyKey(re ReadyEvent, sel Selector, ls *loopState, now time.Time) {
	n := re.Node

	if n.connectPending {
		if re.Connectable {
			if err := finishConnectNode(n, sel, ls.log); err != nil {
				ls.log.Warnw("finish connect failed", "node", n.id, "error", err)
				queueReconnect(n, sel, ls.reconnects, now, ls.log)
				return
			}
			if n.hasWriteOp() {
				writeNode(n, ls.optimizeGets, ls.log)
			}
			if n.registered {
				_ = sel.SetInterest(n, n.interestSet())
			}
			assertInterestConsistent(n, sel)
		}
		return
	}

	if re.Writable {
		if err := writeNode(n, ls.optimizeGets, ls.log); err != nil {
			ls.log.Warnw("write failed", "node", n.id, "error", err)
			queueReconnect(n, sel, ls.reconnects, now, ls.log)
			return
		}
	}
	if re.Readable {
		if err := readNode(n, ls.log); err != nil {
			var perr *op.ProtocolError
			if errors.As(err, &perr) {
				n.protocolErrors++
				ls.log.Warnw("protocol error", "node", n.id, "error", err, "protocolErrors", n.protocolErrors)
				if n.protocolErrors >= ls.excessiveErrors {
					queueReconnect(n, sel, ls.reconnects, now, ls.log)
				}
				return
			}
			ls.log.Warnw("read failed", "node", n.id, "error", err)
			queueReconnect(n, sel, ls.reconnects, now, ls.log)
			return
		}
		n.protocolErrors = 0
	}

	if n.registered {
		_ = sel.SetInterest(n, n.interestSet())
	}
	assertInterestConsistent(n, sel)
}

// writeNode implements the write path of spec §4.E.ii: fillWriteBuffer
// then drain as many bytes as the socket accepts, looping until either no
// progress is made or there is nothing left to write.
func writeNode(n *Node, optimizeGets bool, log *zap.SugaredLogger) error {
	for {
		n.fillWriteBuffer(optimizeGets)
		if n.toWrite <= 0 {
			return nil
		}
		n.writeBuf.Flip()
		wrote, err := rawWrite(n.fd, n.writeBuf.Bytes())
		if err != nil {
			return fmt.Errorf("write %s: %w", n.address, err)
		}
		n.writeBuf.Advance(wrote)
		n.toWrite -= wrote
		assert(n.toWrite >= 0, "node %d toWrite went negative", n.id)
		if wrote == 0 {
			n.writeBuf.Compact()
			return nil
		}
	}
}

// readNode implements the read path of spec §4.E.iii.
func readNode(n *Node, log *zap.SugaredLogger) error {
	buf := make([]byte, len(n.readBuf.buf))
	for {
		got, err := rawRead(n.fd, buf)
		if err != nil {
			return fmt.Errorf("read %s: %w", n.address, err)
		}
		if got == 0 {
			return nil
		}

		n.readBuf.Clear()
		_, _ = n.readBuf.Write(buf[:got])
		n.readBuf.Flip()

		for n.readBuf.Remaining() > 0 {
			cur, ok := n.currentReadOp()
			if !ok {
				return fmt.Errorf("read %s: %w", n.address, &op.ProtocolError{
					Op:  "node",
					Err: fmt.Errorf("unexpected bytes with no pending read operation"),
				})
			}
			if err := cur.ReadFrom(n.readBuf); err != nil {
				var perr *op.ProtocolError
				if errors.As(err, &perr) {
					n.removeCurrentReadOp()
					return err
				}
				return &op.ProtocolError{Op: cur.ID(), Err: err}
			}
			if cur.State() == op.StateComplete {
				n.removeCurrentReadOp()
			}
		}
	}
}

// assertInterestConsistent is the per-iteration consistency check of
// spec §4.E.iv, run only under debugAssertions.
func assertInterestConsistent(n *Node, sel Selector) {
	if !debugAssertions {
		return
	}
	want := n.interestSet()
	assert(want != 0 || !n.registered, "node %d registered with empty interest set", n.id)
}
