package client

import (
	"sort"
	"strconv"
)

// Set stores value at key, overwriting any existing value and type.
func (cl *Client) Set(key, value string) error {
	_, err := cl.SetWithOptions(key, value, SetOptions{})
	return err
}

// SetOptions carries SET's optional EX/PX/NX/XX modifiers. ExSeconds
// and PxMillis are mutually exclusive; NX and XX are mutually
// exclusive. The zero value is a plain unconditional SET.
type SetOptions struct {
	ExSeconds int64
	PxMillis  int64
	NX        bool
	XX        bool
}

// SetWithOptions runs SET with the given modifiers, reporting applied
// as false when a conditional NX/XX write did not happen (the null
// bulk reply).
func (cl *Client) SetWithOptions(key, value string, opts SetOptions) (applied bool, err error) {
	args := []string{"SET", key, value}
	if opts.ExSeconds > 0 {
		args = append(args, "EX", strconv.FormatInt(opts.ExSeconds, 10))
	}
	if opts.PxMillis > 0 {
		args = append(args, "PX", strconv.FormatInt(opts.PxMillis, 10))
	}
	if opts.NX {
		args = append(args, "NX")
	}
	if opts.XX {
		args = append(args, "XX")
	}
	reply, queued, err := cl.exec(args...)
	if err != nil || queued {
		return false, err
	}
	if opts.NX || opts.XX {
		_, present, err := expectBulkOrStatusOptional("SET", reply)
		return present, err
	}
	return true, expectStatus("SET", reply, "OK")
}

// SetEx stores value at key with a TTL in seconds.
func (cl *Client) SetEx(key, value string, ttlSeconds int64) error {
	reply, queued, err := cl.exec("SETEX", key, strconv.FormatInt(ttlSeconds, 10), value)
	if err != nil || queued {
		return err
	}
	return expectStatus("SETEX", reply, "OK")
}

// SetNX stores value at key only if key does not already exist,
// reporting whether the write happened.
func (cl *Client) SetNX(key, value string) (bool, error) {
	reply, queued, err := cl.exec("SETNX", key, value)
	if err != nil || queued {
		return false, err
	}
	return expectBool("SETNX", reply)
}

// Get reads the value at key. present is false when the key does not
// exist — the RESP null bulk, not an empty string.
func (cl *Client) Get(key string) (value string, present bool, err error) {
	reply, queued, err := cl.exec("GET", key)
	if err != nil || queued {
		return "", false, err
	}
	return expectBulkOptional("GET", reply)
}

// MGet reads multiple keys in one round trip. The result slice has
// one entry per key, nil where the key did not exist.
func (cl *Client) MGet(keys ...string) ([]*string, error) {
	reply, queued, err := cl.exec(append([]string{"MGET"}, keys...)...)
	if err != nil || queued {
		return nil, err
	}
	arr, err := expectArray("MGET", reply)
	if err != nil {
		return nil, err
	}
	return decodeBulkSlice("MGET", arr)
}

// Incr atomically increments the integer value at key by one.
func (cl *Client) Incr(key string) (int64, error) {
	reply, queued, err := cl.exec("INCR", key)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("INCR", reply)
}

// IncrBy atomically increments the integer value at key by delta.
func (cl *Client) IncrBy(key string, delta int64) (int64, error) {
	reply, queued, err := cl.exec("INCRBY", key, strconv.FormatInt(delta, 10))
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("INCRBY", reply)
}

// Decr atomically decrements the integer value at key by one.
func (cl *Client) Decr(key string) (int64, error) {
	reply, queued, err := cl.exec("DECR", key)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("DECR", reply)
}

// Append appends value to the string at key, creating it if absent,
// and returns the resulting length.
func (cl *Client) Append(key, value string) (int64, error) {
	reply, queued, err := cl.exec("APPEND", key, value)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("APPEND", reply)
}

// StrLen returns the length of the string at key, or 0 if absent.
func (cl *Client) StrLen(key string) (int64, error) {
	reply, queued, err := cl.exec("STRLEN", key)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("STRLEN", reply)
}

// GetSet atomically sets key to value and returns its previous value.
func (cl *Client) GetSet(key, value string) (previous string, present bool, err error) {
	reply, queued, err := cl.exec("GETSET", key, value)
	if err != nil || queued {
		return "", false, err
	}
	return expectBulkOptional("GETSET", reply)
}

// MSet sets multiple key/value pairs atomically.
func (cl *Client) MSet(pairs map[string]string) error {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, 1+2*len(pairs))
	args = append(args, "MSET")
	for _, k := range keys {
		args = append(args, k, pairs[k])
	}
	reply, queued, err := cl.exec(args...)
	if err != nil || queued {
		return err
	}
	return expectStatus("MSET", reply, "OK")
}

// PSetEx stores value at key with a TTL in milliseconds.
func (cl *Client) PSetEx(key, value string, ttlMillis int64) error {
	reply, queued, err := cl.exec("PSETEX", key, strconv.FormatInt(ttlMillis, 10), value)
	if err != nil || queued {
		return err
	}
	return expectStatus("PSETEX", reply, "OK")
}

// DecrBy atomically decrements the integer value at key by delta.
func (cl *Client) DecrBy(key string, delta int64) (int64, error) {
	reply, queued, err := cl.exec("DECRBY", key, strconv.FormatInt(delta, 10))
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("DECRBY", reply)
}

// IncrByFloat atomically increments the floating-point value at key
// by delta, returning the resulting value.
func (cl *Client) IncrByFloat(key string, delta float64) (float64, error) {
	reply, queued, err := cl.exec("INCRBYFLOAT", key, formatScore(delta))
	if err != nil || queued {
		return 0, err
	}
	text, _, err := expectBulkOptional("INCRBYFLOAT", reply)
	if err != nil {
		return 0, err
	}
	return parseScore(text)
}

// GetRange returns the substring of the string at key between the
// byte offsets start and end, inclusive (either may be negative to
// index from the tail).
func (cl *Client) GetRange(key string, start, end int64) (string, error) {
	reply, queued, err := cl.exec("GETRANGE", key, formatInt(start), formatInt(end))
	if err != nil || queued {
		return "", err
	}
	s, _, err := expectBulkOptional("GETRANGE", reply)
	return s, err
}

// SetRange overwrites the string at key starting at byte offset,
// extending it with zero bytes if necessary, and returns the
// resulting length.
func (cl *Client) SetRange(key string, offset int64, value string) (int64, error) {
	reply, queued, err := cl.exec("SETRANGE", key, formatInt(offset), value)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("SETRANGE", reply)
}

// GetBit returns the bit value at offset in the string at key.
func (cl *Client) GetBit(key string, offset int64) (int64, error) {
	reply, queued, err := cl.exec("GETBIT", key, formatInt(offset))
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("GETBIT", reply)
}

// SetBit sets the bit value at offset in the string at key, returning
// the bit's previous value.
func (cl *Client) SetBit(key string, offset int64, value int) (int64, error) {
	reply, queued, err := cl.exec("SETBIT", key, formatInt(offset), formatInt(int64(value)))
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("SETBIT", reply)
}

// BitCount counts the set bits in the string at key.
func (cl *Client) BitCount(key string) (int64, error) {
	reply, queued, err := cl.exec("BITCOUNT", key)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("BITCOUNT", reply)
}

// BitOp is the bitwise operator BitOpApply runs across source keys.
type BitOp int

const (
	BitOpAnd BitOp = iota
	BitOpOr
	BitOpXor
	BitOpNot
)

func (op BitOp) String() string {
	switch op {
	case BitOpAnd:
		return "AND"
	case BitOpOr:
		return "OR"
	case BitOpXor:
		return "XOR"
	case BitOpNot:
		return "NOT"
	default:
		return "AND"
	}
}

// BitOpApply applies op across srcKeys and stores the result at
// destKey, returning the resulting string's length. BitOpNot accepts
// exactly one source key.
func (cl *Client) BitOpApply(op BitOp, destKey string, srcKeys ...string) (int64, error) {
	args := append([]string{"BITOP", op.String(), destKey}, srcKeys...)
	reply, queued, err := cl.exec(args...)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("BITOP", reply)
}
