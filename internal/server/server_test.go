package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cachemir/cachemir/pkg/protocol"
)

func startTestServer(t *testing.T) net.Addr {
	t.Helper()
	srv := New(0, zap.NewNop().Sugar())
	go func() {
		_ = srv.Start()
	}()
	t.Cleanup(func() { _ = srv.Stop() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	addr, err := srv.Addr(ctx)
	require.NoError(t, err)
	return addr
}

func TestServerSetGetRoundTrip(t *testing.T) {
	addr := startTestServer(t)

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, protocol.WriteCommand(conn, &protocol.Command{
		Type: protocol.CmdSet, Key: "greeting", Args: []string{"hello"},
	}))
	setResp, err := protocol.ReadResponse(conn)
	require.NoError(t, err)
	require.Equal(t, protocol.RespOK, setResp.Type)

	require.NoError(t, protocol.WriteCommand(conn, &protocol.Command{
		Type: protocol.CmdGet, Key: "greeting",
	}))
	getResp, err := protocol.ReadResponse(conn)
	require.NoError(t, err)
	require.Equal(t, protocol.RespString, getResp.Type)
	require.Equal(t, "hello", getResp.Data)
}

func TestServerMGetRoundTrip(t *testing.T) {
	addr := startTestServer(t)

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, protocol.WriteCommand(conn, &protocol.Command{
		Type: protocol.CmdSet, Key: "a", Args: []string{"1"},
	}))
	_, err = protocol.ReadResponse(conn)
	require.NoError(t, err)

	require.NoError(t, protocol.WriteCommand(conn, &protocol.Command{
		Type: protocol.CmdMGet, Keys: []string{"a", "missing"},
	}))
	resp, err := protocol.ReadResponse(conn)
	require.NoError(t, err)
	require.Equal(t, protocol.RespMultiGet, resp.Type)

	entries, ok := resp.Data.([]protocol.MultiGetEntry)
	require.True(t, ok)
	require.Len(t, entries, 2)
	require.True(t, entries[0].Found)
	require.Equal(t, "1", entries[0].Value)
	require.False(t, entries[1].Found)
}
