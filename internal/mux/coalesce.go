package mux

import (
	"fmt"

	"github.com/cachemir/cachemir/internal/op"
	"github.com/cachemir/cachemir/pkg/protocol"
)

// coalescedOp merges a run of single-key GETs collected by
// Node.coalesceLeadingGets into one CmdMGet wire request. It behaves as a
// regular Operation to the rest of the node machinery; once its response
// arrives it demultiplexes each MultiGetEntry back onto the matching
// sub-operation via CompleteWith, so callers waiting on an individual
// GetOperation's Done channel never know coalescing happened.
type coalescedOp struct {
	*op.CommandOp
	keys []string
	subs []op.Combinable
}

func newCoalescedOp(keys []string, subs []op.Combinable) *coalescedOp {
	cmd := &protocol.Command{Type: protocol.CmdMGet, Keys: keys}
	c := &coalescedOp{
		CommandOp: op.NewCommandOp(cmd, nil),
		keys:      keys,
		subs:      subs,
	}
	c.Initialize()
	return c
}

// ReadFrom parses the single RespMultiGet frame and fans its entries out
// to each sub-operation in request order, then marks itself complete.
func (c *coalescedOp) ReadFrom(r op.Reader) error {
	if err := c.CommandOp.ReadFrom(r); err != nil {
		return err
	}
	if c.State() != op.StateComplete {
		return nil
	}

	resp, err := c.Result()
	if err != nil {
		c.failAll(err)
		return nil
	}

	entries, ok := resp.Data.([]protocol.MultiGetEntry)
	if !ok || len(entries) != len(c.subs) {
		c.failAll(fmt.Errorf("mux: multi-get response had %d entries for %d keys", len(entries), len(c.subs)))
		return nil
	}

	for i, sub := range c.subs {
		entry := entries[i]
		sub := sub
		if completer, ok := sub.(interface {
			CompleteWith(*protocol.Response)
		}); ok {
			var sr *protocol.Response
			if entry.Found {
				sr = &protocol.Response{Type: protocol.RespString, Data: entry.Value}
			} else {
				sr = &protocol.Response{Type: protocol.RespNil}
			}
			completer.CompleteWith(sr)
		}
	}
	return nil
}

func (c *coalescedOp) failAll(err error) {
	for _, sub := range c.subs {
		if completer, ok := sub.(interface {
			CompleteWith(*protocol.Response)
		}); ok {
			completer.CompleteWith(&protocol.Response{Type: protocol.RespError, Error: err.Error()})
		}
	}
}
