package client

import "sort"

// HSet sets field to value within the hash at key, reporting whether
// the field is newly created (1) or overwritten (0).
func (cl *Client) HSet(key, field, value string) (bool, error) {
	reply, queued, err := cl.exec("HSET", key, field, value)
	if err != nil || queued {
		return false, err
	}
	return expectBool("HSET", reply)
}

// HGet reads field from the hash at key.
func (cl *Client) HGet(key, field string) (value string, present bool, err error) {
	reply, queued, err := cl.exec("HGET", key, field)
	if err != nil || queued {
		return "", false, err
	}
	return expectBulkOptional("HGET", reply)
}

// HDel removes one or more fields from the hash at key, returning the
// number actually removed.
func (cl *Client) HDel(key string, fields ...string) (int64, error) {
	reply, queued, err := cl.exec(append([]string{"HDEL", key}, fields...)...)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("HDEL", reply)
}

// HExists reports whether field exists in the hash at key.
func (cl *Client) HExists(key, field string) (bool, error) {
	reply, queued, err := cl.exec("HEXISTS", key, field)
	if err != nil || queued {
		return false, err
	}
	return expectBool("HEXISTS", reply)
}

// HLen returns the number of fields in the hash at key.
func (cl *Client) HLen(key string) (int64, error) {
	reply, queued, err := cl.exec("HLEN", key)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("HLEN", reply)
}

// HashField is one field/value pair from HGetAll, in the order the
// server returned it.
type HashField struct {
	Field string
	Value string
}

// HGetAll returns every field/value pair in the hash at key, decoded
// from the server's interleaved field,value,field,value array and
// preserving that order. Redis hashes have no defined iteration order
// of their own, but callers comparing or replaying a server's actual
// reply need the pairs exactly as received, so this returns a slice
// rather than a map.
func (cl *Client) HGetAll(key string) ([]HashField, error) {
	reply, queued, err := cl.exec("HGETALL", key)
	if err != nil || queued {
		return nil, err
	}
	arr, err := expectArray("HGETALL", reply)
	if err != nil {
		return nil, err
	}
	items, err := decodeStringSlice("HGETALL", arr)
	if err != nil {
		return nil, err
	}
	out := make([]HashField, 0, len(items)/2)
	for i := 0; i+1 < len(items); i += 2 {
		out = append(out, HashField{Field: items[i], Value: items[i+1]})
	}
	return out, nil
}

// HKeys returns every field name in the hash at key.
func (cl *Client) HKeys(key string) ([]string, error) {
	reply, queued, err := cl.exec("HKEYS", key)
	if err != nil || queued {
		return nil, err
	}
	arr, err := expectArray("HKEYS", reply)
	if err != nil {
		return nil, err
	}
	return decodeStringSlice("HKEYS", arr)
}

// HIncrBy atomically increments field in the hash at key by delta.
func (cl *Client) HIncrBy(key, field string, delta int64) (int64, error) {
	reply, queued, err := cl.exec("HINCRBY", key, field, formatInt(delta))
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("HINCRBY", reply)
}

// HIncrByFloat atomically increments field in the hash at key by a
// floating-point delta, returning the resulting value.
func (cl *Client) HIncrByFloat(key, field string, delta float64) (float64, error) {
	reply, queued, err := cl.exec("HINCRBYFLOAT", key, field, formatScore(delta))
	if err != nil || queued {
		return 0, err
	}
	text, _, err := expectBulkOptional("HINCRBYFLOAT", reply)
	if err != nil {
		return 0, err
	}
	return parseScore(text)
}

// HMGet reads multiple fields from the hash at key in one round trip,
// nil in the result for each field that does not exist.
func (cl *Client) HMGet(key string, fields ...string) ([]*string, error) {
	reply, queued, err := cl.exec(append([]string{"HMGET", key}, fields...)...)
	if err != nil || queued {
		return nil, err
	}
	arr, err := expectArray("HMGET", reply)
	if err != nil {
		return nil, err
	}
	return decodeBulkSlice("HMGET", arr)
}

// HMSet sets multiple field/value pairs in the hash at key atomically.
func (cl *Client) HMSet(key string, fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	sort.Strings(names)
	args := make([]string, 0, 2+2*len(fields))
	args = append(args, "HMSET", key)
	for _, f := range names {
		args = append(args, f, fields[f])
	}
	reply, queued, err := cl.exec(args...)
	if err != nil || queued {
		return err
	}
	return expectStatus("HMSET", reply, "OK")
}

// HVals returns every value in the hash at key.
func (cl *Client) HVals(key string) ([]string, error) {
	reply, queued, err := cl.exec("HVALS", key)
	if err != nil || queued {
		return nil, err
	}
	arr, err := expectArray("HVALS", reply)
	if err != nil {
		return nil, err
	}
	return decodeStringSlice("HVALS", arr)
}

// HSetNX sets field to value only if field does not already exist in
// the hash at key, reporting whether the write happened.
func (cl *Client) HSetNX(key, field, value string) (bool, error) {
	reply, queued, err := cl.exec("HSETNX", key, field, value)
	if err != nil || queued {
		return false, err
	}
	return expectBool("HSETNX", reply)
}
