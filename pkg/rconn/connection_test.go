package rconn

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-db/redisgo/pkg/ioiface"
	"github.com/lattice-db/redisgo/pkg/resp"
	"github.com/lattice-db/redisgo/pkg/rerr"
)

// testSocket adapts one end of a net.Pipe into ioiface.Socket so
// tests can drive a Connection without a real TCP listener.
type testSocket struct {
	conn net.Conn
}

func (s *testSocket) Reader() io.Reader          { return s.conn }
func (s *testSocket) Writer() ioiface.FlushWriter { return flushNop{s.conn} }
func (s *testSocket) Close() error               { return s.conn.Close() }
func (s *testSocket) RemoteAddr() string         { return "pipe" }

// flushNop satisfies ioiface.FlushWriter over a net.Conn directly;
// net.Pipe writes are unbuffered so Flush is a no-op.
type flushNop struct{ net.Conn }

func (f flushNop) Flush() error { return nil }

func newTestConnection(t *testing.T) (*Connection, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	c := &Connection{
		spec:     Spec{Host: "pipe"},
		sock:     &testSocket{conn: client},
		reader:   resp.NewReader(client),
		writer:   resp.NewWriter(client),
		channels: xsync.NewMapOf[string, struct{}](),
		patterns: xsync.NewMapOf[string, struct{}](),
	}
	t.Cleanup(func() { _ = client.Close(); _ = server.Close() })
	return c, server
}

func TestConnection_Do_OrderingAndDecode(t *testing.T) {
	conn, server := newTestConnection(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 256)
		n, err := server.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "*3\r\n$3\r\nSET\r\n$4\r\nkey1\r\n$5\r\nhello\r\n", string(buf[:n]))
		_, err = server.Write([]byte("+OK\r\n"))
		require.NoError(t, err)
	}()

	reply, err := conn.Do("SET", "key1", "hello")
	require.NoError(t, err)
	assert.Equal(t, resp.Status{Text: "OK"}, reply)
	<-done
}

func TestConnection_Pull_SerializesCallers(t *testing.T) {
	conn, _ := newTestConnection(t)

	conn.busy.Store(true)
	_, err := conn.Pull()
	assert.ErrorIs(t, err, rerr.ErrConnectionBusy)
}

func TestConnection_SubscriberMode_RejectsDisallowedCommands(t *testing.T) {
	conn, server := newTestConnection(t)
	conn.mode.Store(int32(ModeSubscriber))

	err := conn.WriteCommand("GET", "foo")
	assert.ErrorIs(t, err, rerr.ErrSubscriberMode)

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 64)
		_, _ = server.Read(buf)
	}()
	err = conn.WriteCommand("PING")
	assert.NoError(t, err)
	<-done
}

func TestConnection_ApplySubscriptionAck_TracksModeAndCount(t *testing.T) {
	conn, _ := newTestConnection(t)

	conn.ApplySubscriptionAck("subscribe", "ch1", 1)
	assert.Equal(t, ModeSubscriber, conn.Mode())
	assert.EqualValues(t, 1, conn.SubscriptionCount())
	assert.Contains(t, conn.SubscribedChannels(), "ch1")

	conn.ApplySubscriptionAck("unsubscribe", "ch1", 0)
	assert.Equal(t, ModeNormal, conn.Mode())
	assert.EqualValues(t, 0, conn.SubscriptionCount())
	assert.NotContains(t, conn.SubscribedChannels(), "ch1")
}

func TestConnection_ApplySubscriptionAck_TracksPatternsSeparately(t *testing.T) {
	conn, _ := newTestConnection(t)

	conn.ApplySubscriptionAck("psubscribe", "news.*", 1)
	assert.Contains(t, conn.SubscribedPatterns(), "news.*")
	assert.Empty(t, conn.SubscribedChannels())

	conn.ApplySubscriptionAck("subscribe", "ch1", 2)
	assert.Contains(t, conn.SubscribedChannels(), "ch1")
	assert.Contains(t, conn.SubscribedPatterns(), "news.*")

	conn.ApplySubscriptionAck("punsubscribe", "news.*", 1)
	assert.NotContains(t, conn.SubscribedPatterns(), "news.*")
	assert.Contains(t, conn.SubscribedChannels(), "ch1")
}

func TestConnection_Disconnect_Idempotent(t *testing.T) {
	conn, _ := newTestConnection(t)
	require.NoError(t, conn.Disconnect())
	require.NoError(t, conn.Disconnect())

	_, err := conn.Pull()
	assert.ErrorIs(t, err, rerr.ErrConnectionClosed)
}

func TestWithConnection_ConnectErrorSkipsBody(t *testing.T) {
	// An unreachable port fails fast on Connect and must never call body.
	called := false
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := WithConnection(ctx, Spec{Host: "127.0.0.1", Port: 1, DialTimeout: 50 * time.Millisecond}, func(c *Connection) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}
