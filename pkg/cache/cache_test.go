package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-db/redisgo/pkg/client"
	"github.com/lattice-db/redisgo/pkg/ioiface"
	"github.com/lattice-db/redisgo/pkg/rconn"
)

type pipeEngine struct{ conn net.Conn }

func (e pipeEngine) Dial(_ context.Context, _ string, _ uint16) (ioiface.Socket, error) {
	return pipeSocket{e.conn}, nil
}
func (e pipeEngine) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type pipeSocket struct{ conn net.Conn }

func (s pipeSocket) Reader() io.Reader           { return s.conn }
func (s pipeSocket) Writer() ioiface.FlushWriter { return pipeFlusher{s.conn} }
func (s pipeSocket) Close() error                { return s.conn.Close() }
func (s pipeSocket) RemoteAddr() string          { return "pipe" }

type pipeFlusher struct{ net.Conn }

func (f pipeFlusher) Flush() error { return nil }

func pipeClient(t *testing.T) (*client.Client, net.Conn) {
	t.Helper()
	local, remote := net.Pipe()
	conn, err := rconn.Connect(context.Background(), rconn.Spec{Host: "pipe", Engine: pipeEngine{local}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close(); _ = remote.Close() })
	return client.New(conn), remote
}

func serve(t *testing.T, remote net.Conn, expect, respond string) {
	t.Helper()
	buf := make([]byte, len(expect)+256)
	n, err := remote.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, expect, string(buf[:n]))
	_, err = remote.Write([]byte(respond))
	require.NoError(t, err)
}

type record struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestCache_SetGet_StringCodec(t *testing.T) {
	cl, remote := pipeClient(t)
	c := New[string, string](cl, StringCodec())

	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n", "+OK\r\n")
		serve(t, remote, "*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n", "$3\r\nbar\r\n")
	}()

	require.NoError(t, c.Set("foo", "bar"))
	val, present, err := c.Get("foo")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "bar", val)
	<-done
}

func TestCache_JSONCodec_RoundTrip(t *testing.T) {
	cl, remote := pipeClient(t)
	c := New[string, record](cl, JSONCodec[record]())

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 256)
		n, err := remote.Read(buf)
		require.NoError(t, err)
		assert.Contains(t, string(buf[:n]), "SETEX")
		_, _ = remote.Write([]byte("+OK\r\n"))
		n, err = remote.Read(buf)
		require.NoError(t, err)
		assert.Contains(t, string(buf[:n]), "GET")
		body, err := json.Marshal(record{Name: "ada", Age: 30})
		require.NoError(t, err)
		_, _ = remote.Write([]byte(fmt.Sprintf("$%d\r\n%s\r\n", len(body), body)))
	}()

	cWithTTL := New[string, record](cl, JSONCodec[record](), WithTTL[string, record](30*time.Second))
	require.NoError(t, cWithTTL.Set("user:1", record{Name: "ada", Age: 30}))

	got, present, err := c.Get("user:1")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "ada", got.Name)
	assert.Equal(t, 30, got.Age)
	<-done
}

func TestCache_Delete(t *testing.T) {
	cl, remote := pipeClient(t)
	c := New[string, string](cl, StringCodec())

	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*2\r\n$3\r\nDEL\r\n$3\r\nfoo\r\n", ":1\r\n")
	}()

	ok, err := c.Delete("foo")
	require.NoError(t, err)
	assert.True(t, ok)
	<-done
}
