package op

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/cachemir/cachemir/pkg/protocol"
)

const frameHeaderSize = 4

// CommandOp is an Operation that sends a single protocol.Command and
// parses a single protocol.Response. It is the concrete implementation
// backing Get/Set/Del/etc; GetOperation embeds one to also expose
// Combinable.
type CommandOp struct {
	id  string
	cmd *protocol.Command

	// write-side state: the fully framed request, and how much of it has
	// already been handed to the connection.
	frame    []byte
	wireOff  int

	// read-side state: the 4-byte length header, then the body, built up
	// across however many ReadFrom calls it takes.
	header     [frameHeaderSize]byte
	headerOff  int
	bodyLen    uint32
	body       []byte
	bodyOff    int
	haveHeader bool

	resp  *protocol.Response
	err   error
	state State
	done  chan struct{}
}

// NewCommandOp wraps cmd as an Operation. done, if non-nil, is closed by
// ReadFrom (or CompleteWith) once the response is available; callers
// read Result() only after that signal.
func NewCommandOp(cmd *protocol.Command, done chan struct{}) *CommandOp {
	return &CommandOp{
		id:    uuid.NewString(),
		cmd:   cmd,
		state: StateWriting,
		done:  done,
	}
}

func (c *CommandOp) ID() string { return c.id }

// Initialize (re)serializes the command and resets all read/write cursors.
// Safe to call from a producer thread before first enqueue, and from the
// I/O thread during resend.
func (c *CommandOp) Initialize() {
	data, err := c.cmd.Serialize()
	if err != nil {
		// Serialization failures are a caller bug (bad Command), not a
		// wire-level protocol error; surface eagerly via Result().
		c.err = fmt.Errorf("serializing command: %w", err)
		c.state = StateComplete
		c.signalDone()
		return
	}

	frame := make([]byte, frameHeaderSize+len(data))
	binary.BigEndian.PutUint32(frame, uint32(len(data)))
	copy(frame[frameHeaderSize:], data)

	c.frame = frame
	c.wireOff = 0
	c.headerOff = 0
	c.bodyOff = 0
	c.bodyLen = 0
	c.haveHeader = false
	c.body = nil
	c.resp = nil
	c.err = nil
	c.state = StateWriting
}

func (c *CommandOp) WriteInto(w Writer) error {
	if c.state != StateWriting {
		return nil
	}
	for c.wireOff < len(c.frame) {
		if w.Avail() <= 0 {
			return nil
		}
		n, err := w.Write(c.frame[c.wireOff:])
		if err != nil {
			return err
		}
		c.wireOff += n
		if n == 0 {
			return nil
		}
	}
	c.state = StateReading
	return nil
}

func (c *CommandOp) ReadFrom(r Reader) error {
	if c.state != StateReading {
		return nil
	}

	if !c.haveHeader {
		avail := r.Bytes()
		take := frameHeaderSize - c.headerOff
		if take > len(avail) {
			take = len(avail)
		}
		copy(c.header[c.headerOff:], avail[:take])
		c.headerOff += take
		r.Advance(take)
		if c.headerOff < frameHeaderSize {
			return nil
		}
		c.bodyLen = binary.BigEndian.Uint32(c.header[:])
		const maxFrame = 1024 * 1024
		if c.bodyLen > maxFrame {
			perr := &ProtocolError{Op: c.id, Err: fmt.Errorf("response frame too large: %d bytes", c.bodyLen)}
			c.err = perr
			c.state = StateComplete
			c.signalDone()
			return perr
		}
		c.body = make([]byte, c.bodyLen)
		c.haveHeader = true
	}

	if c.bodyOff < len(c.body) {
		avail := r.Bytes()
		take := len(c.body) - c.bodyOff
		if take > len(avail) {
			take = len(avail)
		}
		copy(c.body[c.bodyOff:], avail[:take])
		c.bodyOff += take
		r.Advance(take)
		if c.bodyOff < len(c.body) {
			return nil
		}
	}

	resp, err := protocol.DeserializeResponse(c.body)
	if err != nil {
		perr := &ProtocolError{Op: c.id, Err: err}
		c.err = perr
		c.state = StateComplete
		c.signalDone()
		return perr
	}
	c.resp = resp
	c.state = StateComplete
	c.signalDone()
	return nil
}

func (c *CommandOp) State() State { return c.state }

// Result returns the deserialized response and/or the terminal error. It
// must only be read after Done() has been closed.
func (c *CommandOp) Result() (*protocol.Response, error) {
	return c.resp, c.err
}

// Done reports completion (success or failure) to the submitting caller.
func (c *CommandOp) Done() <-chan struct{} { return c.done }

func (c *CommandOp) signalDone() {
	if c.done != nil {
		select {
		case <-c.done:
			// already closed (e.g. CompleteWith raced a real response)
		default:
			close(c.done)
		}
	}
}

// CompleteWith forces this operation to COMPLETE with the given response,
// bypassing ReadFrom. Used by the multiplexer to demultiplex a coalesced
// multi-get response back onto its individual sub-operations.
func (c *CommandOp) CompleteWith(resp *protocol.Response) {
	c.resp = resp
	c.err = nil
	c.state = StateComplete
	c.signalDone()
}

// HasStartedWriting reports whether any request bytes have already been
// flushed, which makes the operation ineligible for GET coalescing.
func (c *CommandOp) HasStartedWriting() bool {
	return c.wireOff > 0
}
