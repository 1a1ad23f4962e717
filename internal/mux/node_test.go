package mux

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cachemir/cachemir/internal/op"
	"github.com/cachemir/cachemir/pkg/protocol"
)

func testNode(bufSize int) *Node {
	addr := &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 11211}
	return newNode(0, addr, bufSize, DefaultQueueFactory{}, zap.NewNop().Sugar())
}

func TestNodeInterestSetConnecting(t *testing.T) {
	n := testNode(1024)
	n.fd = 3
	n.connectPending = true
	require.Equal(t, InterestConnect, n.interestSet())
}

func TestNodeInterestSetReadWrite(t *testing.T) {
	n := testNode(1024)
	n.fd = 3

	require.Equal(t, InterestSet(0), n.interestSet())

	n.writeQueue.Push(op.NewGetOperation("k", nil))
	require.Equal(t, InterestWrite, n.interestSet())

	n.readQueue.Push(op.NewGetOperation("k", nil))
	require.Equal(t, InterestRead|InterestWrite, n.interestSet())
}

func TestFillWriteBufferMovesCompletedOpToReadQueue(t *testing.T) {
	n := testNode(1024)
	g := op.NewGetOperation("mykey", nil)
	g.Initialize()
	n.writeQueue.Push(g)

	n.fillWriteBuffer(false)

	require.Equal(t, 0, n.writeQueue.Len())
	require.Equal(t, 1, n.readQueue.Len())
	require.Greater(t, n.toWrite, 0)
}

func TestCoalesceLeadingGetsMergesRun(t *testing.T) {
	n := testNode(4096)
	a := op.NewGetOperation("a", nil)
	b := op.NewGetOperation("b", nil)
	c := op.NewGetOperation("c", nil)
	a.Initialize()
	b.Initialize()
	c.Initialize()
	n.writeQueue.Push(a)
	n.writeQueue.Push(b)
	n.writeQueue.Push(c)

	n.fillWriteBuffer(true)

	// All three GETs should have been merged into a single coalescedOp,
	// fully written, and moved to the read queue as one operation.
	require.Equal(t, 0, n.writeQueue.Len())
	require.Equal(t, 1, n.readQueue.Len())

	read, ok := n.currentReadOp()
	require.True(t, ok)
	merged, ok := read.(*coalescedOp)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b", "c"}, merged.keys)
}

func TestCoalesceLeadingGetsSkipsSingleOp(t *testing.T) {
	n := testNode(4096)
	a := op.NewGetOperation("a", nil)
	a.Initialize()
	n.writeQueue.Push(a)

	n.coalesceLeadingGets()

	// A run of one is not worth coalescing; the original op stays.
	sq := n.writeQueue.(*sliceQueue)
	require.Len(t, sq.items, 1)
	_, isCoalesced := sq.items[0].(*coalescedOp)
	require.False(t, isCoalesced)
}

func TestCoalesceLeadingGetsStopsAtNonCombinable(t *testing.T) {
	n := testNode(4096)
	a := op.NewGetOperation("a", nil)
	b := op.NewGetOperation("b", nil)
	set := op.NewCommandOp(&protocol.Command{Type: protocol.CmdSet, Key: "x", Args: []string{"v"}}, nil)
	a.Initialize()
	b.Initialize()
	set.Initialize()
	n.writeQueue.Push(a)
	n.writeQueue.Push(b)
	n.writeQueue.Push(set)

	n.coalesceLeadingGets()

	sq := n.writeQueue.(*sliceQueue)
	require.Len(t, sq.items, 2)
	merged, ok := sq.items[0].(*coalescedOp)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, merged.keys)
	require.Same(t, set, sq.items[1])
}

func TestCoalesceLeadingGetsExcludesPartiallyWritten(t *testing.T) {
	n := testNode(4096)
	a := op.NewGetOperation("a", nil)
	b := op.NewGetOperation("b", nil)
	a.Initialize()
	b.Initialize()

	// Simulate "a" having already flushed a byte on a prior loop
	// iteration, making it ineligible for coalescing.
	tinyWriter := newWireBuffer(1)
	_ = a.WriteInto(tinyWriter)
	require.True(t, a.HasStartedWriting())

	n.writeQueue.Push(a)
	n.writeQueue.Push(b)

	n.coalesceLeadingGets()

	sq := n.writeQueue.(*sliceQueue)
	require.Len(t, sq.items, 2)
	require.Same(t, a, sq.items[0])
	require.Same(t, b, sq.items[1])
}

func TestSetupResendRewindsAndReordersQueues(t *testing.T) {
	n := testNode(4096)

	writing := op.NewGetOperation("writing-key", nil)
	writing.Initialize()
	n.writeQueue.Push(writing)

	reading := op.NewGetOperation("reading-key", nil)
	reading.Initialize()
	_ = reading.WriteInto(newWireBuffer(4096))
	n.readQueue.Push(reading)

	n.readBuf.Write([]byte("partial"))
	n.writeBuf.Write([]byte("partial"))

	n.setupResend()

	require.Equal(t, 0, n.readQueue.Len())
	require.Equal(t, 0, n.writeQueue.Len())
	require.Equal(t, 0, n.readBuf.Filled())
	require.Equal(t, 0, n.writeBuf.Filled())

	drained := n.inputQueue.Drain()
	require.Len(t, drained, 2)
	// read-queue operations resend ahead of write-queue operations.
	require.Same(t, reading, drained[0])
	require.Same(t, writing, drained[1])
	require.Equal(t, op.StateWriting, drained[0].State())
	require.Equal(t, op.StateWriting, drained[1].State())
}

func TestSetupResendExpandsCoalescedOps(t *testing.T) {
	n := testNode(4096)
	a := op.NewGetOperation("a", nil)
	b := op.NewGetOperation("b", nil)
	a.Initialize()
	b.Initialize()
	merged := newCoalescedOp([]string{"a", "b"}, []op.Combinable{a, b})
	n.readQueue.Push(merged)

	n.setupResend()

	drained := n.inputQueue.Drain()
	require.Equal(t, []op.Operation{a, b}, drained)
}
