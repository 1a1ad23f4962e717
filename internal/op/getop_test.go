package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetOperationCombineKeyEligibleBeforeWrite(t *testing.T) {
	g := NewGetOperation("mykey", nil)
	g.Initialize()

	key, eligible := g.CombineKey()
	require.True(t, eligible)
	require.Equal(t, "mykey", key)
}

func TestGetOperationCombineKeyIneligibleAfterWriteStarted(t *testing.T) {
	g := NewGetOperation("mykey", nil)
	g.Initialize()

	_ = g.WriteInto(newLoopback(1))
	require.True(t, g.HasStartedWriting())

	_, eligible := g.CombineKey()
	require.False(t, eligible)
}

func TestGetOperationSatisfiesCombinable(t *testing.T) {
	var _ Combinable = (*GetOperation)(nil)
}
