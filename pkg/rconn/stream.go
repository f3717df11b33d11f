package rconn

import (
	"github.com/samber/lo"

	"github.com/lattice-db/redisgo/pkg/resp"
	"github.com/lattice-db/redisgo/pkg/rerr"
)

var ackKinds = []string{"subscribe", "unsubscribe", "psubscribe", "punsubscribe"}

// Stream is the public handle onto a subscriber-mode connection's
// lazy sequence of Array frames. It has exactly one consumer; Pull
// already enforces that at the Connection level.
type Stream struct {
	conn *Connection
}

// Stream returns the subscriber-mode frame sequence for conn. It is
// valid to call regardless of current Mode — a connection that has
// not yet subscribed to anything simply blocks on Next until it has.
func (c *Connection) Stream() *Stream { return &Stream{conn: c} }

// Next pulls and decodes the next pub/sub frame: a message
// (["message", channel, payload]), a pattern message
// (["pmessage", pattern, channel, payload]), or an acknowledgement
// frame. Acknowledgement frames are applied to the connection's
// subscription bookkeeping and returned to the caller like any other
// frame, so a consumer driving Stream directly (rather than through
// the pubsub command wrappers) still sees every frame in order.
func (s *Stream) Next() (resp.Array, error) {
	reply, err := s.conn.Pull()
	if err != nil {
		return resp.Array{}, err
	}
	arr, ok := reply.(resp.Array)
	if !ok || !arr.Present {
		return resp.Array{}, &rerr.UnexpectedReply{Command: "subscriber stream", Reply: reply}
	}
	if kind, channel, count, ok := parseAck(arr); ok {
		s.conn.ApplySubscriptionAck(kind, channel, count)
	}
	return arr, nil
}

// parseAck recognizes ["subscribe"|"unsubscribe"|"psubscribe"|
// "punsubscribe", channel, count] frames.
func parseAck(arr resp.Array) (kind, channel string, count int64, ok bool) {
	if len(arr.Items) != 3 {
		return "", "", 0, false
	}
	kindBulk, isBulk := arr.Items[0].(resp.Bulk)
	if !isBulk || !kindBulk.Present {
		return "", "", 0, false
	}
	if !lo.Contains(ackKinds, string(kindBulk.Data)) {
		return "", "", 0, false
	}
	chBulk, isBulk := arr.Items[1].(resp.Bulk)
	if !isBulk || !chBulk.Present {
		return "", "", 0, false
	}
	countInt, isInt := arr.Items[2].(resp.Integer)
	if !isInt {
		return "", "", 0, false
	}
	return string(kindBulk.Data), string(chBulk.Data), countInt.N, true
}
