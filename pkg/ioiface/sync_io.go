package ioiface

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/lattice-db/redisgo/pkg/rerr"
)

// SyncIO is the blocking-socket realization: every Engine method
// completes before it returns. This is the realization most callers
// want; CooperativeIO exists for processes already built around an
// event loop that cannot afford to block a goroutine per connection.
type SyncIO struct {
	DialTimeout time.Duration
}

// NewSyncIO builds a SyncIO engine with the given dial timeout (zero
// means no timeout, i.e. net.Dial's default behavior).
func NewSyncIO(dialTimeout time.Duration) *SyncIO {
	return &SyncIO{DialTimeout: dialTimeout}
}

func (e *SyncIO) Dial(ctx context.Context, host string, port uint16) (Socket, error) {
	dialer := &net.Dialer{Timeout: e.DialTimeout}
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, rerr.ErrConnectTimeout
		}
		return nil, &rerr.IOError{Detail: "dial " + addr, Err: err}
	}
	return &syncSocket{conn: conn, w: bufio.NewWriter(conn)}, nil
}

func (e *SyncIO) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type syncSocket struct {
	conn net.Conn
	w    *bufio.Writer
}

func (s *syncSocket) Reader() io.Reader   { return retryReader{s.conn} }
func (s *syncSocket) Writer() FlushWriter { return retryWriter{s.w} }
func (s *syncSocket) Close() error        { return s.conn.Close() }
func (s *syncSocket) RemoteAddr() string  { return s.conn.RemoteAddr().String() }

// retryReader rides out one transient read failure (a classified
// timeout blip) before surfacing the error to the RESP codec, which
// otherwise treats any read error as fatal to the connection.
type retryReader struct{ r io.Reader }

func (r retryReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && rerr.IsTransient(err) {
		n, err = r.r.Read(p)
	}
	return n, err
}

// retryWriter mirrors retryReader on the write side: one internal
// retry of Write or Flush on a classified-transient error.
type retryWriter struct{ w FlushWriter }

func (w retryWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	if err != nil && rerr.IsTransient(err) {
		n, err = w.w.Write(p)
	}
	return n, err
}

func (w retryWriter) Flush() error {
	err := w.w.Flush()
	if err != nil && rerr.IsTransient(err) {
		err = w.w.Flush()
	}
	return err
}
