package mux

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cachemir/cachemir/internal/op"
	"github.com/cachemir/cachemir/internal/server"
	"github.com/cachemir/cachemir/pkg/config"
	"github.com/cachemir/cachemir/pkg/protocol"
)

func startTestServer(t *testing.T) string {
	t.Helper()
	srv := server.New(0, zap.NewNop().Sugar())
	go func() { _ = srv.Start() }()
	t.Cleanup(func() { _ = srv.Stop() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	addr, err := srv.Addr(ctx)
	require.NoError(t, err)
	return addr.String()
}

func waitForResult(t *testing.T, c *op.CommandOp, done <-chan struct{}) *protocol.Response {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("operation did not complete in time")
	}
	resp, err := c.Result()
	require.NoError(t, err)
	return resp
}

func TestPoolSetThenGet(t *testing.T) {
	addr := startTestServer(t)
	log := zap.NewNop().Sugar()

	pool, err := NewPool(&config.PoolConfig{Nodes: []string{addr}, BufferSize: 16 * 1024}, nil, log)
	require.NoError(t, err)
	defer pool.Shutdown()

	go func() { _ = pool.Run() }()

	done := make(chan struct{})
	setOp := op.NewCommandOp(&protocol.Command{Type: protocol.CmdSet, Key: "k", Args: []string{"v"}}, done)
	require.NoError(t, pool.AddOperation(0, setOp))
	resp := waitForResult(t, setOp, done)
	require.Equal(t, protocol.RespOK, resp.Type)

	getDone := make(chan struct{})
	getOp := op.NewGetOperation("k", getDone)
	require.NoError(t, pool.AddOperation(0, getOp))
	resp = waitForResult(t, getOp.CommandOp, getDone)
	require.Equal(t, protocol.RespString, resp.Type)
	require.Equal(t, "v", resp.Data)
}

func TestPoolCoalescesConsecutiveGets(t *testing.T) {
	addr := startTestServer(t)
	log := zap.NewNop().Sugar()

	pool, err := NewPool(&config.PoolConfig{Nodes: []string{addr}, BufferSize: 16 * 1024}, nil, log)
	require.NoError(t, err)
	defer pool.Shutdown()
	pool.SetGetOptimization(true)

	go func() { _ = pool.Run() }()

	setDone := make(chan struct{})
	setOp := op.NewCommandOp(&protocol.Command{Type: protocol.CmdSet, Key: "x", Args: []string{"1"}}, setDone)
	require.NoError(t, pool.AddOperation(0, setOp))
	waitForResult(t, setOp, setDone)

	keys := []string{"x", "missing-1", "missing-2"}
	dones := make([]chan struct{}, len(keys))
	ops := make([]*op.GetOperation, len(keys))
	for i, k := range keys {
		dones[i] = make(chan struct{})
		ops[i] = op.NewGetOperation(k, dones[i])
		require.NoError(t, pool.AddOperation(0, ops[i]))
	}

	resp0 := waitForResult(t, ops[0].CommandOp, dones[0])
	require.Equal(t, "1", resp0.Data)
	resp1 := waitForResult(t, ops[1].CommandOp, dones[1])
	require.Equal(t, protocol.RespNil, resp1.Type)
	resp2 := waitForResult(t, ops[2].CommandOp, dones[2])
	require.Equal(t, protocol.RespNil, resp2.Type)
}

func TestPoolAddOperationRejectsOutOfRangeIndex(t *testing.T) {
	addr := startTestServer(t)
	pool, err := NewPool(&config.PoolConfig{Nodes: []string{addr}, BufferSize: 16 * 1024}, nil, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer pool.Shutdown()

	err = pool.AddOperation(5, op.NewGetOperation("k", nil))
	require.Error(t, err)
}

func TestPoolGetAddressOfAndNumConnections(t *testing.T) {
	addr := startTestServer(t)
	pool, err := NewPool(&config.PoolConfig{Nodes: []string{addr}, BufferSize: 16 * 1024}, nil, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer pool.Shutdown()

	require.Equal(t, 1, pool.GetNumConnections())
	require.Equal(t, addr, pool.GetAddressOf(0).String())
	require.Nil(t, pool.GetAddressOf(1))
}
