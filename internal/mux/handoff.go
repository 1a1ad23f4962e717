package mux

import "sync"

// handoffQueue is the multi-producer / single-consumer queue of nodes
// that have newly enqueued work (spec §4.C). Producers push after adding
// to a node's own input queue and then wake the selector; the I/O loop
// drains it every iteration. A node appearing more than once is harmless
// (drain is idempotent) but wasteful, so handoffQueue deduplicates via a
// per-node "queued" flag.
type handoffQueue struct {
	mu    sync.Mutex
	nodes []*Node
}

func newHandoffQueue() *handoffQueue {
	return &handoffQueue{}
}

// Offer enqueues n unless it is already pending.
func (h *handoffQueue) Offer(n *Node) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n.handoffQueued.Swap(true) {
		return
	}
	h.nodes = append(h.nodes, n)
}

// Drain removes and returns every pending node, clearing their queued
// flag so a subsequent Offer will re-enqueue them.
func (h *handoffQueue) Drain() []*Node {
	h.mu.Lock()
	nodes := h.nodes
	h.nodes = nil
	h.mu.Unlock()
	for _, n := range nodes {
		n.handoffQueued.Store(false)
	}
	return nodes
}
