package mux

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWireBufferFillDrain(t *testing.T) {
	b := newWireBuffer(8)

	n, err := b.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, 5, b.Filled())
	require.Equal(t, 3, b.Avail())

	b.Flip()
	require.Equal(t, []byte("hello"), b.Bytes())
	require.Equal(t, 5, b.Remaining())

	b.Advance(2)
	require.Equal(t, []byte("llo"), b.Bytes())
	require.Equal(t, 3, b.Remaining())
}

func TestWireBufferCompactPreservesUnconsumedTail(t *testing.T) {
	b := newWireBuffer(8)
	_, _ = b.Write([]byte("abcde"))
	b.Flip()
	b.Advance(3) // consume "abc", "de" remains

	b.Compact()
	require.Equal(t, 2, b.Filled())
	require.Equal(t, 2, b.Remaining()) // "de" is still unconsumed, now at the front

	n, err := b.Write([]byte("XY"))
	require.NoError(t, err)
	require.Equal(t, 2, n)

	b.Flip()
	require.Equal(t, []byte("deXY"), b.Bytes())
}

func TestWireBufferClearDiscardsEverything(t *testing.T) {
	b := newWireBuffer(8)
	_, _ = b.Write([]byte("abcd"))
	b.Flip()
	b.Advance(1)

	b.Clear()
	require.Equal(t, 0, b.Filled())
	require.Equal(t, 8, b.Avail())
}

func TestWireBufferAdvancePastFilledPanics(t *testing.T) {
	b := newWireBuffer(4)
	_, _ = b.Write([]byte("ab"))
	b.Flip()
	require.Panics(t, func() {
		b.Advance(3)
	})
}
