package client

import (
	"math"
	"time"
)

// LPush prepends one or more values to the list at key, returning the
// resulting length.
func (cl *Client) LPush(key string, values ...string) (int64, error) {
	reply, queued, err := cl.exec(append([]string{"LPUSH", key}, values...)...)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("LPUSH", reply)
}

// RPush appends one or more values to the list at key, returning the
// resulting length.
func (cl *Client) RPush(key string, values ...string) (int64, error) {
	reply, queued, err := cl.exec(append([]string{"RPUSH", key}, values...)...)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("RPUSH", reply)
}

// LPop removes and returns the head of the list at key.
func (cl *Client) LPop(key string) (value string, present bool, err error) {
	reply, queued, err := cl.exec("LPOP", key)
	if err != nil || queued {
		return "", false, err
	}
	return expectBulkOptional("LPOP", reply)
}

// RPop removes and returns the tail of the list at key.
func (cl *Client) RPop(key string) (value string, present bool, err error) {
	reply, queued, err := cl.exec("RPOP", key)
	if err != nil || queued {
		return "", false, err
	}
	return expectBulkOptional("RPOP", reply)
}

// LLen returns the length of the list at key.
func (cl *Client) LLen(key string) (int64, error) {
	reply, queued, err := cl.exec("LLEN", key)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("LLEN", reply)
}

// LRange returns the slice [start, stop] (inclusive, may be negative
// to index from the tail) of the list at key.
func (cl *Client) LRange(key string, start, stop int64) ([]string, error) {
	reply, queued, err := cl.exec("LRANGE", key, formatInt(start), formatInt(stop))
	if err != nil || queued {
		return nil, err
	}
	arr, err := expectArray("LRANGE", reply)
	if err != nil {
		return nil, err
	}
	return decodeStringSlice("LRANGE", arr)
}

// LIndex returns the element at index in the list at key.
func (cl *Client) LIndex(key string, index int64) (value string, present bool, err error) {
	reply, queued, err := cl.exec("LINDEX", key, formatInt(index))
	if err != nil || queued {
		return "", false, err
	}
	return expectBulkOptional("LINDEX", reply)
}

// LRem removes up to count occurrences of value from the list at key
// (count > 0: head to tail, count < 0: tail to head, count == 0: all),
// returning the number actually removed.
func (cl *Client) LRem(key string, count int64, value string) (int64, error) {
	reply, queued, err := cl.exec("LREM", key, formatInt(count), value)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("LREM", reply)
}

// LSet overwrites the element at index in the list at key.
func (cl *Client) LSet(key string, index int64, value string) error {
	reply, queued, err := cl.exec("LSET", key, formatInt(index), value)
	if err != nil || queued {
		return err
	}
	return expectStatus("LSET", reply, "OK")
}

// LTrim keeps only the slice [start, stop] of the list at key,
// removing everything outside it.
func (cl *Client) LTrim(key string, start, stop int64) error {
	reply, queued, err := cl.exec("LTRIM", key, formatInt(start), formatInt(stop))
	if err != nil || queued {
		return err
	}
	return expectStatus("LTRIM", reply, "OK")
}

// LInsert inserts value before (before=true) or after (before=false)
// the first occurrence of pivot in the list at key, returning the
// server's reply unchanged: the resulting length, -1 if pivot was not
// found, or 0 if key does not exist.
func (cl *Client) LInsert(key string, before bool, pivot, value string) (int64, error) {
	where := "AFTER"
	if before {
		where = "BEFORE"
	}
	reply, queued, err := cl.exec("LINSERT", key, where, pivot, value)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("LINSERT", reply)
}

// BLPop blocks until one of keys has an element to pop, or timeout
// elapses, returning the key and the popped value. It occupies the
// connection for up to timeout — no other command can be issued on
// it until BLPop returns; timeout 0 means block indefinitely.
func (cl *Client) BLPop(timeout time.Duration, keys ...string) (key, value string, present bool, err error) {
	return cl.blockingPop("BLPOP", timeout, keys)
}

// BRPop is BLPop's tail-end counterpart.
func (cl *Client) BRPop(timeout time.Duration, keys ...string) (key, value string, present bool, err error) {
	return cl.blockingPop("BRPOP", timeout, keys)
}

func (cl *Client) blockingPop(cmd string, timeout time.Duration, keys []string) (key, value string, present bool, err error) {
	args := append([]string{cmd}, keys...)
	args = append(args, formatScore(math.Max(0, timeout.Seconds())))
	reply, queued, err := cl.exec(args...)
	if err != nil || queued {
		return "", "", false, err
	}
	arr, err := expectArray(cmd, reply)
	if err != nil {
		return "", "", false, err
	}
	if !arr.Present {
		return "", "", false, nil
	}
	parts, err := decodeStringSlice(cmd, arr)
	if err != nil || len(parts) != 2 {
		return "", "", false, err
	}
	return parts[0], parts[1], true, nil
}

// BRPopLPush blocks until src has an element, pops it from src's
// tail, and pushes it onto dst's head, returning the moved value.
func (cl *Client) BRPopLPush(src, dst string, timeout time.Duration) (value string, present bool, err error) {
	reply, queued, err := cl.exec("BRPOPLPUSH", src, dst, formatScore(math.Max(0, timeout.Seconds())))
	if err != nil || queued {
		return "", false, err
	}
	return expectBulkOptional("BRPOPLPUSH", reply)
}
