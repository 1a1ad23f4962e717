package mux

import (
	"container/heap"
	"time"
)

// DefaultMaxReconnectDelay is the backoff ceiling (spec §4.D, §6) used
// when a PoolConfig doesn't override it.
const DefaultMaxReconnectDelay = 30 * time.Second

// reconnectDelay computes the backoff for the given attempt count, capped
// at max.
//
// The original spymemcached source computes this as
// (100*reconnectAttempt) XOR 2, almost certainly a typo for squaring;
// spec.md §9 calls this out and directs implementations to the
// exponentiation reading rather than the literal XOR bug. Taking the
// spec's own worked schedule (§8, testable property 6) as the
// authoritative acceptance criterion disambiguates *which* squaring is
// meant: 0ms, 100ms, 400ms, 900ms, 1600ms, ... for attempts 0, 1, 2, 3,
// 4 is 100*attempt^2, not (100*attempt)^2 (the latter would give
// 10000ms at attempt 1, contradicting the worked schedule). See
// DESIGN.md for this decision.
func reconnectDelay(attempt int, max time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}
	ms := int64(100) * int64(attempt) * int64(attempt)
	d := time.Duration(ms) * time.Millisecond
	if d > max {
		return max
	}
	return d
}

// reconnectEntry is one pending reconnect: node n becomes eligible at
// deadline.
type reconnectEntry struct {
	deadline time.Time
	node     *Node
}

// reconnectHeap is a container/heap.Interface ordering entries by
// deadline, earliest first. Ties (same millisecond deadline on two
// different nodes) are broken arbitrarily but stably by heap order.
type reconnectHeap []*reconnectEntry

func (h reconnectHeap) Len() int            { return len(h) }
func (h reconnectHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h reconnectHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *reconnectHeap) Push(x interface{}) { *h = append(*h, x.(*reconnectEntry)) }
func (h *reconnectHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// reconnectScheduler is the time-ordered deadline -> node map of spec §4.D.
// It is only ever touched from the I/O thread, so it needs no locking.
type reconnectScheduler struct {
	h        reconnectHeap
	maxDelay time.Duration
}

// newReconnectScheduler builds a scheduler capping backoff at maxDelay.
// A zero maxDelay falls back to DefaultMaxReconnectDelay.
func newReconnectScheduler(maxDelay time.Duration) *reconnectScheduler {
	if maxDelay <= 0 {
		maxDelay = DefaultMaxReconnectDelay
	}
	s := &reconnectScheduler{maxDelay: maxDelay}
	heap.Init(&s.h)
	return s
}

// Schedule enqueues n to be reconnected no earlier than now+delay, where
// delay is derived from n's reconnectAttempt via reconnectDelay.
func (s *reconnectScheduler) Schedule(n *Node, now time.Time) {
	delay := reconnectDelay(n.reconnectAttempt, s.maxDelay)
	heap.Push(&s.h, &reconnectEntry{deadline: now.Add(delay), node: n})
}

func (s *reconnectScheduler) Empty() bool { return s.h.Len() == 0 }

// NextDeadline returns the earliest pending deadline.
func (s *reconnectScheduler) NextDeadline() (time.Time, bool) {
	if s.h.Len() == 0 {
		return time.Time{}, false
	}
	return s.h[0].deadline, true
}

// DrainDue removes and returns, in deadline order, every node whose
// deadline is at or before now.
func (s *reconnectScheduler) DrainDue(now time.Time) []*Node {
	var due []*Node
	for s.h.Len() > 0 && !s.h[0].deadline.After(now) {
		entry := heap.Pop(&s.h).(*reconnectEntry)
		due = append(due, entry.node)
	}
	return due
}
