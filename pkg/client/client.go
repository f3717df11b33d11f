// Package client implements the command catalogue: thin wrappers that
// marshal typed arguments into RESP arrays, pull the next reply from
// a Connection, and decode the expected shape, raising typed errors
// on mismatch.
package client

import (
	"context"

	"github.com/lattice-db/redisgo/pkg/rconn"
	"github.com/lattice-db/redisgo/pkg/resp"
	"github.com/lattice-db/redisgo/pkg/rerr"
)

// Client is the command-layer façade over one Connection. It is not
// safe for concurrent use by multiple goroutines, matching the
// Connection it wraps.
type Client struct {
	conn *rconn.Connection
}

// New wraps an already-open Connection.
func New(conn *rconn.Connection) *Client { return &Client{conn: conn} }

// Dial opens a Connection and wraps it, optionally authenticating with
// AUTH and selecting a database with SELECT before returning, so the
// Client is immediately ready for ordinary commands.
func Dial(ctx context.Context, spec rconn.Spec, opts ...DialOption) (*Client, error) {
	conn, err := rconn.Connect(ctx, spec)
	if err != nil {
		return nil, err
	}
	cl := New(conn)
	cfg := &dialConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.password != "" {
		if cfg.username != "" {
			if err := cl.AuthUser(cfg.username, cfg.password); err != nil {
				_ = conn.Disconnect()
				return nil, err
			}
		} else if err := cl.Auth(cfg.password); err != nil {
			_ = conn.Disconnect()
			return nil, err
		}
	}
	if cfg.db != 0 {
		if err := cl.Select(cfg.db); err != nil {
			_ = conn.Disconnect()
			return nil, err
		}
	}
	return cl, nil
}

// DialOption configures Dial's post-connect negotiation.
type DialOption func(*dialConfig)

type dialConfig struct {
	username string
	password string
	db       int
}

// WithAuth authenticates with a password (AUTH password) or, if
// username is non-empty, with ACL-style credentials (AUTH user pass).
func WithAuth(username, password string) DialOption {
	return func(c *dialConfig) { c.username = username; c.password = password }
}

// WithDB selects a database after connecting (SELECT db).
func WithDB(db int) DialOption {
	return func(c *dialConfig) { c.db = db }
}

// Close releases the underlying Connection.
func (cl *Client) Close() error { return cl.conn.Disconnect() }

// Conn exposes the underlying Connection for callers that need
// lower-level access (the transaction engine, pub/sub streaming).
func (cl *Client) Conn() *rconn.Connection { return cl.conn }

// exec is the common request/reply primitive every ordinary command
// wrapper goes through. When the connection is mid-MULTI it
// transparently consumes the server's QUEUED acknowledgement instead
// of the command's real reply shape, signalled to the caller via the
// queued return so typed wrappers can skip decoding.
func (cl *Client) exec(args ...string) (reply resp.Reply, queued bool, err error) {
	if err := cl.conn.WriteCommand(args...); err != nil {
		return nil, false, err
	}
	reply, err = cl.conn.Pull()
	if err != nil {
		return nil, false, err
	}
	if cl.conn.TxState() == rconn.Queueing {
		status, ok := reply.(resp.Status)
		if !ok || status.Text != "QUEUED" {
			cl.conn.SetTxState(rconn.Aborted)
			return nil, false, &rerr.UnexpectedReply{Command: args[0], Reply: reply}
		}
		return nil, true, nil
	}
	return reply, false, nil
}
