package mux

import (
	"net"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cachemir/cachemir/internal/op"
	"github.com/cachemir/cachemir/pkg/protocol"
)

// Node is the per-server connection state described in spec.md §3. It
// persists for the lifetime of the pool; only its fd/registration/buffers
// cycle across reconnects.
type Node struct {
	id      int
	address net.Addr
	log     *zap.SugaredLogger

	fd             int // -1 while disconnected
	connectPending bool
	registered     bool // whether fd currently has a valid selector registration

	readBuf  *wireBuffer
	writeBuf *wireBuffer
	toWrite  int

	inputQueue FIFOQueue // MPSC: producers push, I/O thread drains
	writeQueue FIFOQueue // SPSC: I/O thread only
	readQueue  FIFOQueue // SPSC: I/O thread only

	reconnectAttempt int
	protocolErrors   int

	handoffQueued atomic.Bool
}

func newNode(id int, addr net.Addr, bufSize int, factory QueueFactory, log *zap.SugaredLogger) *Node {
	return &Node{
		id:         id,
		address:    addr,
		log:        log,
		fd:         -1,
		readBuf:    newWireBuffer(bufSize),
		writeBuf:   newWireBuffer(bufSize),
		inputQueue: factory.NewInputQueue(),
		writeQueue: factory.NewWriteQueue(),
		readQueue:  factory.NewReadQueue(),
	}
}

// Healthy reports whether the node is believed connected and not queued
// for reconnect (spec §3 invariant 6).
func (n *Node) Healthy() bool { return n.reconnectAttempt == 0 }

func (n *Node) hasReadOp() bool  { return n.readQueue.Len() > 0 }
func (n *Node) hasWriteOp() bool { return n.writeQueue.Len() > 0 }

func (n *Node) currentWriteOp() (op.Operation, bool) { return n.writeQueue.Peek() }
func (n *Node) currentReadOp() (op.Operation, bool)  { return n.readQueue.Peek() }

func (n *Node) removeCurrentReadOp() (op.Operation, bool) { return n.readQueue.Pop() }

// addOp enqueues o on this node's input queue, to be picked up by the next
// handoff drain. Safe to call from any goroutine (spec §4.G, §5).
func (n *Node) addOp(o op.Operation) {
	n.inputQueue.Push(o)
}

// copyInputQueue atomically drains the input queue into the tail of the
// write queue, preserving order (spec §4.B).
func (n *Node) copyInputQueue() {
	for _, o := range n.inputQueue.Drain() {
		n.writeQueue.Push(o)
	}
}

// interestSet computes the mask required by spec §4.E.iv for this node's
// current state.
func (n *Node) interestSet() InterestSet {
	if n.fd < 0 || n.connectPending {
		return InterestConnect
	}
	var i InterestSet
	if n.hasReadOp() {
		i |= InterestRead
	}
	if n.hasWriteOp() || n.toWrite > 0 {
		i |= InterestWrite
	}
	return i
}

// fillWriteBuffer packs bytes from successive write-queue operations into
// the node's write buffer until it is full or no writable operation
// remains (spec §4.B). When optimizeGets is true, a run of consecutive
// eligible GETs at the head of the queue is merged into a single
// coalescedOp emitting one multi-get wire request.
func (n *Node) fillWriteBuffer(optimizeGets bool) {
	n.writeBuf.Compact()

	if optimizeGets {
		n.coalesceLeadingGets()
	}

	for {
		if n.writeBuf.Avail() <= 0 {
			break
		}
		cur, ok := n.currentWriteOp()
		if !ok {
			break
		}
		if err := cur.WriteInto(n.writeBuf); err != nil {
			// Serialization failures never touch the wire; treat as
			// immediately complete so the node doesn't wedge on a
			// permanently broken operation.
			n.writeQueue.Pop()
			if completer, ok := cur.(interface {
				CompleteWith(*protocol.Response)
			}); ok {
				completer.CompleteWith(&protocol.Response{Type: protocol.RespError, Error: err.Error()})
			}
			continue
		}
		if cur.State() != op.StateWriting {
			n.writeQueue.Pop()
			n.readQueue.Push(cur)
			continue
		}
		// Buffer is full but cur still has bytes left; stop for now.
		break
	}

	n.toWrite = n.writeBuf.Filled()
}

// coalesceLeadingGets scans the head of the write queue for a run of two
// or more Combinable operations that have not started writing, and
// replaces that run with a single coalescedOp.
func (n *Node) coalesceLeadingGets() {
	type pending struct {
		key string
		sub op.Combinable
	}
	var run []pending

	peekQueue, ok := n.writeQueue.(*sliceQueue)
	if !ok {
		return
	}
	for _, o := range peekQueue.items {
		combinable, ok := o.(op.Combinable)
		if !ok {
			break
		}
		key, eligible := combinable.CombineKey()
		if !eligible {
			break
		}
		run = append(run, pending{key: key, sub: combinable})
	}
	if len(run) < 2 {
		return
	}

	subs := make([]op.Combinable, len(run))
	keys := make([]string, len(run))
	for i, p := range run {
		subs[i] = p.sub
		keys[i] = p.key
	}

	merged := newCoalescedOp(keys, subs)
	remaining := peekQueue.items[len(run):]
	peekQueue.items = append([]op.Operation{merged}, remaining...)
}

// setupResend merges the outstanding read and write queues back onto the
// head of the input queue, read-queue-first (spec §4.B, §9 decision),
// and rewinds every affected operation via Initialize so partially
// received/sent bytes are discarded.
func (n *Node) setupResend() {
	reads := n.readQueue.Drain()
	writes := n.writeQueue.Drain()

	resend := make([]op.Operation, 0, len(reads)+len(writes))
	resend = append(resend, expandCoalesced(reads)...)
	resend = append(resend, expandCoalesced(writes)...)

	for _, o := range resend {
		o.Initialize()
	}

	existing := n.inputQueue.Drain()
	n.inputQueue = rebuildInOrder(n.inputQueue, resend, existing)

	n.readBuf.Clear()
	n.writeBuf.Clear()
	n.toWrite = 0
}

func expandCoalesced(ops []op.Operation) []op.Operation {
	out := make([]op.Operation, 0, len(ops))
	for _, o := range ops {
		if c, ok := o.(*coalescedOp); ok {
			for _, sub := range c.subs {
				out = append(out, sub)
			}
			continue
		}
		out = append(out, o)
	}
	return out
}

func rebuildInOrder(q FIFOQueue, first, second []op.Operation) FIFOQueue {
	q.Drain()
	for _, o := range first {
		q.Push(o)
	}
	for _, o := range second {
		q.Push(o)
	}
	return q
}
