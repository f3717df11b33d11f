package client

import (
	"github.com/lattice-db/redisgo/pkg/resp"
	"github.com/lattice-db/redisgo/pkg/rerr"
)

// ZMember pairs a sorted-set member with its score, the shape
// ZRangeWithScores decodes into.
type ZMember struct {
	Member string
	Score  float64
}

// ZAdd adds member with score to the sorted set at key, or updates
// its score if member already exists, returning the number of new
// members added.
func (cl *Client) ZAdd(key string, score float64, member string) (int64, error) {
	reply, queued, err := cl.exec("ZADD", key, formatScore(score), member)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("ZADD", reply)
}

// ZRem removes one or more members from the sorted set at key,
// returning the number actually removed.
func (cl *Client) ZRem(key string, members ...string) (int64, error) {
	reply, queued, err := cl.exec(append([]string{"ZREM", key}, members...)...)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("ZREM", reply)
}

// ZScore returns member's score in the sorted set at key.
func (cl *Client) ZScore(key, member string) (score float64, present bool, err error) {
	reply, queued, err := cl.exec("ZSCORE", key, member)
	if err != nil || queued {
		return 0, false, err
	}
	text, present, err := expectBulkOptional("ZSCORE", reply)
	if err != nil || !present {
		return 0, present, err
	}
	score, err = parseScore(text)
	return score, true, err
}

// ZCard returns the number of members in the sorted set at key.
func (cl *Client) ZCard(key string) (int64, error) {
	reply, queued, err := cl.exec("ZCARD", key)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("ZCARD", reply)
}

// ZRank returns member's zero-based rank by ascending score.
func (cl *Client) ZRank(key, member string) (rank int64, present bool, err error) {
	reply, queued, err := cl.exec("ZRANK", key, member)
	if err != nil || queued {
		return 0, false, err
	}
	if err := asServerError(reply); err != nil {
		return 0, false, err
	}
	if n, ok := reply.(resp.Integer); ok {
		return n.N, true, nil
	}
	if b, ok := reply.(resp.Bulk); ok && !b.Present {
		return 0, false, nil
	}
	return 0, false, &rerr.UnexpectedReply{Command: "ZRANK", Reply: reply}
}

// ZIncrBy atomically increments member's score in the sorted set at
// key by delta, returning the resulting score.
func (cl *Client) ZIncrBy(key string, delta float64, member string) (float64, error) {
	reply, queued, err := cl.exec("ZINCRBY", key, formatScore(delta), member)
	if err != nil || queued {
		return 0, err
	}
	text, _, err := expectBulkOptional("ZINCRBY", reply)
	if err != nil {
		return 0, err
	}
	return parseScore(text)
}

// ZRangeWithScores returns the slice [start, stop] (inclusive, may be
// negative to index from the tail) of the sorted set at key, lowest
// score first, alongside each member's score.
func (cl *Client) ZRangeWithScores(key string, start, stop int64) ([]ZMember, error) {
	return cl.zRangeOp("ZRANGE", key, formatInt(start), formatInt(stop))
}

// ZRevRangeWithScores is ZRangeWithScores with highest score first.
func (cl *Client) ZRevRangeWithScores(key string, start, stop int64) ([]ZMember, error) {
	return cl.zRangeOp("ZREVRANGE", key, formatInt(start), formatInt(stop))
}

// ZRangeByScoreWithScores returns every member of the sorted set at
// key whose score falls within [min, max] (inclusive), ascending by
// score, alongside each member's score. Use "-inf"/"+inf" for
// unbounded ends.
func (cl *Client) ZRangeByScoreWithScores(key, min, max string) ([]ZMember, error) {
	return cl.zRangeOp("ZRANGEBYSCORE", key, min, max)
}

func (cl *Client) zRangeOp(cmd, key, lo, hi string) ([]ZMember, error) {
	reply, queued, err := cl.exec(cmd, key, lo, hi, "WITHSCORES")
	if err != nil || queued {
		return nil, err
	}
	arr, err := expectArray(cmd, reply)
	if err != nil {
		return nil, err
	}
	flat, err := decodeStringSlice(cmd, arr)
	if err != nil {
		return nil, err
	}
	out := make([]ZMember, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		score, err := parseScore(flat[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, ZMember{Member: flat[i], Score: score})
	}
	return out, nil
}
