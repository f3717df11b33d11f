package ioiface

import (
	"context"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/gnet/v2"

	"github.com/lattice-db/redisgo/pkg/rerr"
)

// CooperativeIO is the non-blocking realization: sockets are driven
// by a single gnet event loop instead of one goroutine per blocking
// read. It exists for processes that already run their own
// gnet/epoll-based reactor and cannot afford to park a goroutine per
// Connection; most callers want SyncIO instead.
//
// Every OnTraffic delivery is bridged into an io.Pipe so the RESP
// codec — written once, against io.Reader — never has to know it is
// running inside an event loop. Writes are buffered until Flush,
// which hands them to gnet's AsyncWrite and blocks on a channel until
// the write callback reports completion.
type CooperativeIO struct {
	client  *gnet.Client
	handler *cooperativeHandler
}

// NewCooperativeIO starts the backing gnet client engine. opts are
// passed straight through to gnet.NewClient (multicore, number of
// event loops, etc.).
func NewCooperativeIO(opts ...gnet.Option) (*CooperativeIO, error) {
	eh := &cooperativeHandler{sockets: make(map[gnet.Conn]*cooperativeSocket)}
	client, err := gnet.NewClient(eh, opts...)
	if err != nil {
		return nil, &rerr.IOError{Detail: "start cooperative engine", Err: err}
	}
	if err := client.Start(); err != nil {
		return nil, &rerr.IOError{Detail: "start cooperative engine", Err: err}
	}
	return &CooperativeIO{client: client, handler: eh}, nil
}

func (e *CooperativeIO) Dial(ctx context.Context, host string, port uint16) (Socket, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))
	conn, err := e.client.Dial("tcp", addr)
	if err != nil {
		return nil, &rerr.IOError{Detail: "dial " + addr, Err: err}
	}
	sock := newCooperativeSocket(conn)
	e.handler.register(conn, sock)
	return sock, nil
}

func (e *CooperativeIO) Sleep(ctx context.Context, d time.Duration) error {
	// The event loop itself drives OnTick for engine-wide scheduling;
	// a per-call sleep just needs a timer, same as SyncIO, since
	// nothing below this blocks an OS thread either way.
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cooperativeHandler is the single gnet.EventHandler shared by every
// socket this engine dials; gnet dispatches all callbacks for all
// connections through one handler instance.
type cooperativeHandler struct {
	gnet.BuiltinEventEngine
	mu      sync.Mutex
	sockets map[gnet.Conn]*cooperativeSocket
}

func (h *cooperativeHandler) register(c gnet.Conn, s *cooperativeSocket) {
	h.mu.Lock()
	h.sockets[c] = s
	h.mu.Unlock()
}

func (h *cooperativeHandler) lookup(c gnet.Conn) *cooperativeSocket {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sockets[c]
}

func (h *cooperativeHandler) OnTraffic(c gnet.Conn) gnet.Action {
	sock := h.lookup(c)
	if sock == nil {
		return gnet.None
	}
	buf, err := c.Next(-1)
	if err != nil {
		sock.closeWithErr(err)
		return gnet.Close
	}
	if _, err := sock.pipeWriter.Write(buf); err != nil {
		return gnet.Close
	}
	return gnet.None
}

func (h *cooperativeHandler) OnClose(c gnet.Conn, err error) gnet.Action {
	if sock := h.lookup(c); sock != nil {
		sock.closeWithErr(err)
	}
	h.mu.Lock()
	delete(h.sockets, c)
	h.mu.Unlock()
	return gnet.None
}

// cooperativeSocket implements Socket by bridging a gnet.Conn's
// callback-driven reads into a synchronously readable io.Reader.
type cooperativeSocket struct {
	conn       gnet.Conn
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
}

func newCooperativeSocket(c gnet.Conn) *cooperativeSocket {
	pr, pw := io.Pipe()
	return &cooperativeSocket{conn: c, pipeReader: pr, pipeWriter: pw}
}

func (s *cooperativeSocket) closeWithErr(err error) {
	_ = s.pipeWriter.CloseWithError(err)
}

func (s *cooperativeSocket) Reader() io.Reader { return s.pipeReader }
func (s *cooperativeSocket) Writer() FlushWriter {
	return &asyncWriteFlusher{conn: s.conn}
}
func (s *cooperativeSocket) Close() error       { return s.conn.Close() }
func (s *cooperativeSocket) RemoteAddr() string { return s.conn.RemoteAddr().String() }

// asyncWriteFlusher buffers writes and hands them to gnet's
// AsyncWrite on Flush, the closest non-blocking analogue to
// bufio.Writer.Flush that the event-loop API offers.
type asyncWriteFlusher struct {
	conn gnet.Conn
	buf  []byte
}

func (a *asyncWriteFlusher) Write(p []byte) (int, error) {
	a.buf = append(a.buf, p...)
	return len(p), nil
}

func (a *asyncWriteFlusher) Flush() error {
	if len(a.buf) == 0 {
		return nil
	}
	done := make(chan error, 1)
	err := a.conn.AsyncWrite(a.buf, func(c gnet.Conn, err error) error {
		done <- err
		return nil
	})
	a.buf = nil
	if err != nil {
		return err
	}
	return <-done
}
