package mux

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReconnectDelaySchedule(t *testing.T) {
	// Worked schedule from spec.md's testable properties: 0, 100, 400,
	// 900, 1600ms for attempts 0-4.
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, 100 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 900 * time.Millisecond},
		{4, 1600 * time.Millisecond},
	}
	for _, c := range cases {
		require.Equal(t, c.want, reconnectDelay(c.attempt, DefaultMaxReconnectDelay))
	}
}

func TestReconnectDelayClampsToMax(t *testing.T) {
	require.Equal(t, DefaultMaxReconnectDelay, reconnectDelay(1000, DefaultMaxReconnectDelay))
}

func TestReconnectSchedulerOrdersByDeadline(t *testing.T) {
	s := newReconnectScheduler(DefaultMaxReconnectDelay)
	now := time.Now()

	n1 := &Node{id: 1}
	n2 := &Node{id: 2}
	n3 := &Node{id: 3}

	n1.reconnectAttempt = 3
	n2.reconnectAttempt = 1
	n3.reconnectAttempt = 2

	s.Schedule(n1, now)
	s.Schedule(n2, now)
	s.Schedule(n3, now)

	require.False(t, s.Empty())
	due := s.DrainDue(now.Add(2 * time.Second))
	require.Equal(t, []*Node{n2, n3, n1}, due)
	require.True(t, s.Empty())
}

func TestReconnectSchedulerDrainDueOnlyReturnsExpired(t *testing.T) {
	s := newReconnectScheduler(DefaultMaxReconnectDelay)
	now := time.Now()
	n := &Node{id: 1}
	n.reconnectAttempt = 2 // 400ms delay
	s.Schedule(n, now)

	require.Empty(t, s.DrainDue(now))
	deadline, ok := s.NextDeadline()
	require.True(t, ok)
	require.Equal(t, now.Add(400*time.Millisecond), deadline)

	due := s.DrainDue(now.Add(400 * time.Millisecond))
	require.Equal(t, []*Node{n}, due)
}
