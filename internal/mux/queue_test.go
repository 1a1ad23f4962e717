package mux

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cachemir/cachemir/internal/op"
)

func newTestGet(key string) *op.GetOperation {
	return op.NewGetOperation(key, nil)
}

func TestSliceQueueFIFOOrder(t *testing.T) {
	a, b, c := newTestGet("a"), newTestGet("b"), newTestGet("c")
	q := &sliceQueue{}
	q.Push(a)
	q.Push(b)
	q.Push(c)
	require.Equal(t, 3, q.Len())

	head, ok := q.Peek()
	require.True(t, ok)
	require.Same(t, a, head)

	o, ok := q.Pop()
	require.True(t, ok)
	require.Same(t, a, o)

	head, ok = q.Peek()
	require.True(t, ok)
	require.Same(t, b, head)

	drained := q.Drain()
	require.Equal(t, []op.Operation{b, c}, drained)
	require.Equal(t, 0, q.Len())
}

func TestMutexQueueConcurrentPush(t *testing.T) {
	q := &mutexQueue{}
	var wg sync.WaitGroup
	const producers = 8
	const perProducer = 50

	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Push(newTestGet("k"))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, producers*perProducer, q.Len())
	drained := q.Drain()
	require.Len(t, drained, producers*perProducer)
	require.Equal(t, 0, q.Len())
}

func TestQueuePopEmpty(t *testing.T) {
	q := &sliceQueue{}
	_, ok := q.Pop()
	require.False(t, ok)

	m := &mutexQueue{}
	_, ok = m.Peek()
	require.False(t, ok)
}
