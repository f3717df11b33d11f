package rconn

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/lattice-db/redisgo/pkg/ioiface"
	"github.com/lattice-db/redisgo/pkg/resp"
	"github.com/lattice-db/redisgo/pkg/rerr"
)

// Mode is the connection's dual operating mode: normal request/reply,
// or subscriber mode once a SUBSCRIBE/PSUBSCRIBE ack has landed.
type Mode int32

const (
	ModeNormal Mode = iota
	ModeSubscriber
)

// TransactionState is the per-connection MULTI state.
type TransactionState int32

const (
	Idle TransactionState = iota
	Queueing
	Aborted
)

func (s TransactionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Queueing:
		return "queueing"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// subscriberAllowed is the set of commands a real Redis server accepts
// while a connection is subscribed; anything else fails locally before
// a byte is written.
var subscriberAllowed = map[string]struct{}{
	"SUBSCRIBE":     {},
	"UNSUBSCRIBE":   {},
	"PSUBSCRIBE":    {},
	"PUNSUBSCRIBE":  {},
	"PING":          {},
	"QUIT":          {},
}

// Connection owns one socket pair and the lazy reply sequence parsed
// from it. A Connection must not be used from more than one goroutine
// at a time without external synchronization; Pull enforces that with
// a non-blocking check rather than silently corrupting request/reply
// correlation.
type Connection struct {
	spec   Spec
	engine ioiface.Engine
	sock   ioiface.Socket
	reader *resp.Reader
	writer *resp.Writer

	pullMu sync.Mutex
	busy   atomic.Bool
	closed atomic.Bool

	mode     atomic.Int32
	subCount atomic.Int64
	channels *xsync.MapOf[string, struct{}]
	patterns *xsync.MapOf[string, struct{}]

	txState    atomic.Int32
	selectedDB atomic.Int32
	authed     atomic.Bool
}

// Connect opens the socket, wraps it in buffered RESP streams, and
// returns a Connection ready to issue commands.
func Connect(ctx context.Context, spec Spec) (*Connection, error) {
	engine := spec.engine()
	sock, err := engine.Dial(ctx, spec.Host, spec.Port)
	if err != nil {
		return nil, err
	}
	c := &Connection{
		spec:     spec,
		engine:   engine,
		sock:     sock,
		reader:   resp.NewReader(sock.Reader()),
		writer:   resp.NewWriter(sock.Writer()),
		channels: xsync.NewMapOf[string, struct{}](),
		patterns: xsync.NewMapOf[string, struct{}](),
	}
	return c, nil
}

// WithConnection acquires a Connection, runs body, and releases the
// connection on every exit path — normal return, error, or panic.
func WithConnection(ctx context.Context, spec Spec, body func(*Connection) error) error {
	conn, err := Connect(ctx, spec)
	if err != nil {
		return err
	}
	defer conn.Disconnect()
	return body(conn)
}

// Disconnect closes the socket. Idempotent; any in-flight Pull fails
// with rerr.ErrConnectionClosed.
func (c *Connection) Disconnect() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.sock.Close()
}

// Mode reports whether the connection is in request/reply or
// subscriber mode.
func (c *Connection) Mode() Mode { return Mode(c.mode.Load()) }

// TxState reports the current MULTI state.
func (c *Connection) TxState() TransactionState { return TransactionState(c.txState.Load()) }

// SetTxState is used by the transaction engine (pkg/client/tx.go) to
// record MULTI/EXEC/DISCARD/abort transitions; it is not meant to be
// called by ordinary command wrappers.
func (c *Connection) SetTxState(s TransactionState) { c.txState.Store(int32(s)) }

// SelectedDB reports the database index selected via the last
// successful SELECT, defaulting to 0.
func (c *Connection) SelectedDB() int { return int(c.selectedDB.Load()) }

// SetSelectedDB is used by the SELECT command wrapper after a
// successful reply.
func (c *Connection) SetSelectedDB(db int) { c.selectedDB.Store(int32(db)) }

// Authenticated reports whether AUTH has been issued successfully.
func (c *Connection) Authenticated() bool { return c.authed.Load() }

// SetAuthenticated is used by the AUTH command wrapper.
func (c *Connection) SetAuthenticated(v bool) { c.authed.Store(v) }

// RemoteAddr returns the peer address, for diagnostics/logging.
func (c *Connection) RemoteAddr() string { return c.sock.RemoteAddr() }

// WriteCommand encodes and flushes a request. In subscriber mode it
// rejects anything outside subscriberAllowed before writing a byte.
func (c *Connection) WriteCommand(args ...string) error {
	if c.closed.Load() {
		return rerr.ErrConnectionClosed
	}
	if c.Mode() == ModeSubscriber {
		if len(args) == 0 {
			return rerr.ErrSubscriberMode
		}
		if _, ok := subscriberAllowed[strings.ToUpper(args[0])]; !ok {
			return rerr.ErrSubscriberMode
		}
	}
	if err := c.writer.WriteStrings(args...); err != nil {
		return c.poison(err)
	}
	if err := c.writer.Flush(); err != nil {
		return c.poison(err)
	}
	return nil
}

// Pull reads exactly one reply off the wire. It is the only
// legitimate source of parsed replies; callers must never read the
// socket directly. At most one caller may be inside Pull at a time —
// a concurrent second caller gets rerr.ErrConnectionBusy instead of a
// silently misrouted reply.
func (c *Connection) Pull() (resp.Reply, error) {
	if c.closed.Load() {
		return nil, rerr.ErrConnectionClosed
	}
	if !c.busy.CompareAndSwap(false, true) {
		return nil, rerr.ErrConnectionBusy
	}
	defer c.busy.Store(false)

	c.pullMu.Lock()
	defer c.pullMu.Unlock()

	reply, err := c.reader.Read()
	if err != nil {
		return nil, c.poison(err)
	}
	return reply, nil
}

// Do writes a request and returns its single reply — the one
// caller/one reply contract that covers the overwhelming majority of
// command wrappers. Pub/Sub acknowledgement frames and transaction
// queueing are handled separately because they do not fit this
// one-shot shape.
func (c *Connection) Do(args ...string) (resp.Reply, error) {
	if err := c.WriteCommand(args...); err != nil {
		return nil, err
	}
	return c.Pull()
}

// poison marks the connection unusable after a fatal codec/transport
// failure and returns the classified error to the caller: codec
// framing errors and EOF mid-reply are fatal to the connection.
func (c *Connection) poison(err error) error {
	c.closed.Store(true)
	_ = c.sock.Close()
	if rerr.IsConnectionError(err) {
		return rerr.ErrConnectionClosed
	}
	return &rerr.IOError{Detail: "connection " + c.spec.String(), Err: err}
}

// --- subscriber mode bookkeeping, driven by pkg/client/pubsub.go ---

// ApplySubscriptionAck updates mode/refcount state from a parsed
// ["subscribe"|"unsubscribe"|"psubscribe"|"punsubscribe", channel,
// count] acknowledgement frame. count is the server's authoritative
// total subscription count for this connection, not a per-channel
// refcount, matching real Redis ack semantics.
func (c *Connection) ApplySubscriptionAck(kind, channel string, count int64) {
	switch strings.ToLower(kind) {
	case "subscribe":
		c.channels.Store(channel, struct{}{})
	case "psubscribe":
		c.patterns.Store(channel, struct{}{})
	case "unsubscribe":
		c.channels.Delete(channel)
	case "punsubscribe":
		c.patterns.Delete(channel)
	}
	c.subCount.Store(count)
	if count > 0 {
		c.mode.Store(int32(ModeSubscriber))
	} else {
		c.mode.Store(int32(ModeNormal))
	}
}

// SubscriptionCount reports the server's last-reported total
// subscription count.
func (c *Connection) SubscriptionCount() int64 { return c.subCount.Load() }

// SubscribedChannels returns the channel names currently tracked as
// subscribed via SUBSCRIBE, for introspection and for computing how
// many acknowledgement frames an UNSUBSCRIBE with no arguments will
// produce.
func (c *Connection) SubscribedChannels() []string { return keys(c.channels) }

// SubscribedPatterns returns the glob patterns currently tracked as
// subscribed via PSUBSCRIBE, for introspection and for computing how
// many acknowledgement frames a PUNSUBSCRIBE with no arguments will
// produce.
func (c *Connection) SubscribedPatterns() []string { return keys(c.patterns) }

func keys(m *xsync.MapOf[string, struct{}]) []string {
	out := make([]string, 0, m.Size())
	m.Range(func(key string, _ struct{}) bool {
		out = append(out, key)
		return true
	})
	return out
}
