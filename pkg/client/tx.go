package client

import (
	"github.com/samber/lo"

	"github.com/lattice-db/redisgo/pkg/rconn"
	"github.com/lattice-db/redisgo/pkg/resp"
	"github.com/lattice-db/redisgo/pkg/rerr"
)

// Tx drives the connection's MULTI/EXEC/DISCARD/WATCH state machine.
// Ordinary command wrappers on the underlying Client already know how
// to consume the server's QUEUED acknowledgements while the
// connection is mid-transaction (Client.exec); Tx only owns the state
// transitions around that window.
type Tx struct {
	cl      *Client
	watched []string
	queued  []*QueuedCommand
}

// Tx returns the transaction driver for this client's connection.
func (cl *Client) Tx() *Tx { return &Tx{cl: cl} }

// QueuedCommand is the placeholder Tx.Command returns for each call
// queued inside a transaction. Reply is nil until Exec runs; after
// Exec it holds this command's resolved reply, i.e. the item landing
// at this placeholder's position in EXEC's array.
type QueuedCommand struct {
	reply resp.Reply
}

// Reply returns the reply this queued command resolved to once Exec
// has run. The command-layer call wrapped by Tx.Command already ran
// and decoded nothing (Client.exec reports queued=true and every
// wrapper skips its own decode in that case), so Reply is the only way
// to see what the call actually returned.
func (q *QueuedCommand) Reply() resp.Reply { return q.reply }

// Command runs thunk — expected to wrap exactly one command-layer call
// on the same Client, e.g. func() error { _, err := cl.Incr("ctr");
// return err } — while the connection is mid-MULTI, and returns a
// QueuedCommand placeholder tracking where thunk's reply will land in
// EXEC's array. Command-layer wrappers already know how to consume the
// QUEUED acknowledgement via Client.exec; Command's job is only to
// reject calls made outside Begin/Exec and to hand the caller
// something to resolve after Exec.
func (tx *Tx) Command(thunk func() error) (*QueuedCommand, error) {
	if tx.cl.conn.TxState() != rconn.Queueing {
		return nil, rerr.ErrNotInTransaction
	}
	if err := thunk(); err != nil {
		return nil, err
	}
	qc := &QueuedCommand{}
	tx.queued = append(tx.queued, qc)
	return qc, nil
}

// Watch arms optimistic-lock checks on one or more keys. Must be
// called before Begin.
func (tx *Tx) Watch(keys ...string) error {
	if tx.cl.conn.TxState() == rconn.Queueing {
		return rerr.ErrAlreadyQueueing
	}
	reply, err := tx.cl.conn.Do(append([]string{"WATCH"}, keys...)...)
	if err != nil {
		return err
	}
	if err := expectStatus("WATCH", reply, "OK"); err != nil {
		return err
	}
	tx.watched = lo.Uniq(append(tx.watched, keys...))
	return nil
}

// Watched reports which keys are currently armed by Watch.
func (tx *Tx) Watched() []string { return tx.watched }

// Unwatch clears any keys armed by Watch.
func (tx *Tx) Unwatch() error {
	reply, err := tx.cl.conn.Do("UNWATCH")
	if err != nil {
		return err
	}
	if err := expectStatus("UNWATCH", reply, "OK"); err != nil {
		return err
	}
	tx.watched = nil
	return nil
}

// Begin starts queueing: every subsequent command-layer call on the
// same Client is queued server-side instead of executed immediately,
// until Exec or Discard.
func (tx *Tx) Begin() error {
	if tx.cl.conn.TxState() == rconn.Queueing {
		return rerr.ErrAlreadyQueueing
	}
	reply, err := tx.cl.conn.Do("MULTI")
	if err != nil {
		return err
	}
	if err := expectStatus("MULTI", reply, "OK"); err != nil {
		return err
	}
	tx.cl.conn.SetTxState(rconn.Queueing)
	tx.queued = nil
	return nil
}

// Exec runs every queued command atomically and returns its replies
// in submission order. A nil slice with a nil error never happens;
// rerr.ErrTxAborted is returned both when a queued command was
// locally detected as malformed (Client.exec already marked the
// connection Aborted) and when the server reports the transaction was
// invalidated by a watched key changing (the null-array EXEC reply).
func (tx *Tx) Exec() ([]resp.Reply, error) {
	conn := tx.cl.conn
	switch conn.TxState() {
	case rconn.Idle:
		return nil, rerr.ErrNotInTransaction
	case rconn.Aborted:
		defer conn.SetTxState(rconn.Idle)
		if _, err := conn.Do("DISCARD"); err != nil {
			return nil, err
		}
		return nil, rerr.ErrTxAborted
	}
	defer conn.SetTxState(rconn.Idle)
	defer func() { tx.watched = nil; tx.queued = nil }()

	reply, err := conn.Do("EXEC")
	if err != nil {
		return nil, err
	}
	if err := asServerError(reply); err != nil {
		return nil, err
	}
	arr, ok := reply.(resp.Array)
	if !ok {
		return nil, &rerr.UnexpectedReply{Command: "EXEC", Reply: reply}
	}
	if !arr.Present {
		return nil, rerr.ErrTxAborted
	}
	for i, item := range arr.Items {
		if i < len(tx.queued) {
			tx.queued[i].reply = item
		}
	}
	return arr.Items, nil
}

// Discard abandons a queued transaction without running it.
func (tx *Tx) Discard() error {
	conn := tx.cl.conn
	if conn.TxState() == rconn.Idle {
		return rerr.ErrNotInTransaction
	}
	defer conn.SetTxState(rconn.Idle)
	defer func() { tx.watched = nil; tx.queued = nil }()
	reply, err := conn.Do("DISCARD")
	if err != nil {
		return err
	}
	return expectStatus("DISCARD", reply, "OK")
}
