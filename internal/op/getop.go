package op

import "github.com/cachemir/cachemir/pkg/protocol"

// GetOperation is a single-key GET, eligible for coalescing with adjacent
// GETs on the same node into one multi-key wire request (spec §4.B).
type GetOperation struct {
	*CommandOp
	key string
}

// NewGetOperation builds a GET for key. done is closed once the response
// (individual, even if the request was wire-coalesced) is available.
func NewGetOperation(key string, done chan struct{}) *GetOperation {
	return &GetOperation{
		CommandOp: NewCommandOp(&protocol.Command{Type: protocol.CmdGet, Key: key}, done),
		key:       key,
	}
}

// CombineKey implements Combinable. A GET stops being eligible the moment
// any of its request bytes have been written, since at that point it is
// already committed to its own wire frame.
func (g *GetOperation) CombineKey() (string, bool) {
	if g.HasStartedWriting() {
		return "", false
	}
	return g.key, true
}
