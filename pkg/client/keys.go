package client

import (
	"strconv"

	"github.com/lattice-db/redisgo/pkg/rerr"
)

// Del removes one or more keys, returning the number actually removed.
func (cl *Client) Del(keys ...string) (int64, error) {
	reply, queued, err := cl.exec(append([]string{"DEL"}, keys...)...)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("DEL", reply)
}

// Exists counts how many of the given keys exist.
func (cl *Client) Exists(keys ...string) (int64, error) {
	reply, queued, err := cl.exec(append([]string{"EXISTS"}, keys...)...)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("EXISTS", reply)
}

// Expire sets a TTL in seconds on key, reporting whether key existed.
func (cl *Client) Expire(key string, ttlSeconds int64) (bool, error) {
	reply, queued, err := cl.exec("EXPIRE", key, strconv.FormatInt(ttlSeconds, 10))
	if err != nil || queued {
		return false, err
	}
	return expectBool("EXPIRE", reply)
}

// TTL returns the remaining time to live in seconds, -1 if key has no
// TTL, -2 if key does not exist.
func (cl *Client) TTL(key string) (int64, error) {
	reply, queued, err := cl.exec("TTL", key)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("TTL", reply)
}

// PExpire sets a TTL in milliseconds on key, reporting whether key
// existed.
func (cl *Client) PExpire(key string, ttlMillis int64) (bool, error) {
	reply, queued, err := cl.exec("PEXPIRE", key, strconv.FormatInt(ttlMillis, 10))
	if err != nil || queued {
		return false, err
	}
	return expectBool("PEXPIRE", reply)
}

// PTTL returns the remaining time to live in milliseconds, -1 if key
// has no TTL, -2 if key does not exist.
func (cl *Client) PTTL(key string) (int64, error) {
	reply, queued, err := cl.exec("PTTL", key)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("PTTL", reply)
}

// RenameNX renames src to dst only if dst does not already exist.
func (cl *Client) RenameNX(src, dst string) (bool, error) {
	reply, queued, err := cl.exec("RENAMENX", src, dst)
	if err != nil || queued {
		return false, err
	}
	return expectBool("RENAMENX", reply)
}

// Scan returns the next cursor and a batch of keys matching pattern,
// cursor 0 signaling the scan is complete. Safe to call repeatedly
// against a large keyspace, unlike Keys, since each call only touches
// a bounded slice of the keyspace.
func (cl *Client) Scan(cursor int64, pattern string, count int64) (next int64, keys []string, err error) {
	args := []string{"SCAN", strconv.FormatInt(cursor, 10)}
	if pattern != "" {
		args = append(args, "MATCH", pattern)
	}
	if count > 0 {
		args = append(args, "COUNT", strconv.FormatInt(count, 10))
	}
	reply, queued, err := cl.exec(args...)
	if err != nil || queued {
		return 0, nil, err
	}
	arr, err := expectArray("SCAN", reply)
	if err != nil {
		return 0, nil, err
	}
	if len(arr.Items) != 2 {
		return 0, nil, &rerr.UnexpectedReply{Command: "SCAN", Reply: reply}
	}
	cursorText, _, err := expectBulkOptional("SCAN", arr.Items[0])
	if err != nil {
		return 0, nil, err
	}
	next, err = strconv.ParseInt(cursorText, 10, 64)
	if err != nil {
		return 0, nil, err
	}
	keysArr, err := expectArray("SCAN", arr.Items[1])
	if err != nil {
		return 0, nil, err
	}
	keys, err = decodeStringSlice("SCAN", keysArr)
	return next, keys, err
}

// Persist removes any TTL on key, reporting whether one was removed.
func (cl *Client) Persist(key string) (bool, error) {
	reply, queued, err := cl.exec("PERSIST", key)
	if err != nil || queued {
		return false, err
	}
	return expectBool("PERSIST", reply)
}

// Keys returns every key matching pattern. Intended for small
// keyspaces and tooling, not production hot paths — it walks the
// entire keyspace in one blocking call; prefer Scan for anything
// large.
func (cl *Client) Keys(pattern string) ([]string, error) {
	reply, queued, err := cl.exec("KEYS", pattern)
	if err != nil || queued {
		return nil, err
	}
	arr, err := expectArray("KEYS", reply)
	if err != nil {
		return nil, err
	}
	return decodeStringSlice("KEYS", arr)
}

// Type returns the server's type tag for key ("string", "list",
// "set", "zset", "hash", or "none").
func (cl *Client) Type(key string) (string, error) {
	reply, queued, err := cl.exec("TYPE", key)
	if err != nil || queued {
		return "", err
	}
	return expectStatusText("TYPE", reply)
}

// Rename renames src to dst, overwriting dst if it exists.
func (cl *Client) Rename(src, dst string) error {
	reply, queued, err := cl.exec("RENAME", src, dst)
	if err != nil || queued {
		return err
	}
	return expectStatus("RENAME", reply, "OK")
}
