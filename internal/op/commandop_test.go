package op

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cachemir/cachemir/pkg/protocol"
)

// loopbackBuffer is a minimal Writer+Reader that hands back exactly what
// was written, letting tests drive WriteInto/ReadFrom without a real
// connection.
type loopbackBuffer struct {
	data []byte
	off  int
	cap  int
}

func newLoopback(capacity int) *loopbackBuffer {
	return &loopbackBuffer{cap: capacity}
}

func (l *loopbackBuffer) Avail() int { return l.cap - len(l.data) }

func (l *loopbackBuffer) Write(p []byte) (int, error) {
	n := l.Avail()
	if n > len(p) {
		n = len(p)
	}
	l.data = append(l.data, p[:n]...)
	return n, nil
}

func (l *loopbackBuffer) Bytes() []byte { return l.data[l.off:] }

func (l *loopbackBuffer) Advance(n int) { l.off += n }

func TestCommandOpWriteThenReadRoundTrip(t *testing.T) {
	cmd := &protocol.Command{Type: protocol.CmdGet, Key: "mykey"}
	c := NewCommandOp(cmd, nil)
	c.Initialize()

	buf := newLoopback(4096)
	require.NoError(t, c.WriteInto(buf))
	require.Equal(t, StateReading, c.State())

	resp := &protocol.Response{Type: protocol.RespString, Data: "myval"}
	data, err := resp.Serialize()
	require.NoError(t, err)

	respBuf := newLoopback(4096)
	header := make([]byte, 4)
	header[3] = byte(len(data))
	_, _ = respBuf.Write(header)
	_, _ = respBuf.Write(data)

	require.NoError(t, c.ReadFrom(respBuf))
	require.Equal(t, StateComplete, c.State())

	got, err := c.Result()
	require.NoError(t, err)
	require.Equal(t, "myval", got.Data)
}

func TestCommandOpWriteIntoResumesAcrossShortBuffers(t *testing.T) {
	cmd := &protocol.Command{Type: protocol.CmdSet, Key: "k", Args: []string{"a-fairly-long-value-to-span-writes"}}
	c := NewCommandOp(cmd, nil)
	c.Initialize()

	full := newLoopback(4096)
	require.NoError(t, c.WriteInto(full))
	wantLen := len(full.data)

	c.Initialize()
	partial := newLoopback(4096)
	for i := 0; i < wantLen; i++ {
		small := newLoopback(1)
		require.NoError(t, c.WriteInto(small))
		_, _ = partial.Write(small.data)
		if c.State() != StateWriting {
			break
		}
	}
	require.Equal(t, StateReading, c.State())
	require.Equal(t, wantLen, len(partial.data))
}

func TestCommandOpReadFromResumesAcrossShortReads(t *testing.T) {
	cmd := &protocol.Command{Type: protocol.CmdGet, Key: "mykey"}
	c := NewCommandOp(cmd, nil)
	c.Initialize()
	_ = c.WriteInto(newLoopback(4096))
	require.Equal(t, StateReading, c.State())

	resp := &protocol.Response{Type: protocol.RespString, Data: "value-that-is-long-enough-to-span-several-reads"}
	data, err := resp.Serialize()
	require.NoError(t, err)

	frame := make([]byte, 4)
	frame[3] = byte(len(data))
	frame = append(frame, data...)

	// Feed the frame one byte at a time.
	for _, b := range frame {
		chunk := &loopbackBuffer{data: []byte{b}, cap: 1}
		if err := c.ReadFrom(chunk); err != nil {
			require.NoError(t, err)
		}
	}

	require.Equal(t, StateComplete, c.State())
	got, err := c.Result()
	require.NoError(t, err)
	require.Equal(t, resp.Data, got.Data)
}

func TestCommandOpCompleteWithBypassesReadFrom(t *testing.T) {
	done := make(chan struct{})
	c := NewCommandOp(&protocol.Command{Type: protocol.CmdGet, Key: "k"}, done)
	c.Initialize()

	resp := &protocol.Response{Type: protocol.RespNil}
	c.CompleteWith(resp)

	require.Equal(t, StateComplete, c.State())
	select {
	case <-done:
	default:
		t.Fatal("done channel was not closed")
	}
	got, err := c.Result()
	require.NoError(t, err)
	require.Equal(t, protocol.RespNil, got.Type)
}

func TestCommandOpOversizedFrameIsProtocolError(t *testing.T) {
	c := NewCommandOp(&protocol.Command{Type: protocol.CmdGet, Key: "k"}, nil)
	c.Initialize()
	_ = c.WriteInto(newLoopback(4096))

	header := newLoopback(4)
	_, _ = header.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF}) // huge length

	err := c.ReadFrom(header)
	require.Error(t, err)
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, StateComplete, c.State())
}

func TestCommandOpInitializeResetsState(t *testing.T) {
	c := NewCommandOp(&protocol.Command{Type: protocol.CmdGet, Key: "k"}, nil)
	c.Initialize()
	_ = c.WriteInto(newLoopback(4096))
	require.Equal(t, StateReading, c.State())

	c.Initialize()
	require.Equal(t, StateWriting, c.State())
	require.False(t, c.HasStartedWriting())
}
