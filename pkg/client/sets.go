package client

// SAdd adds one or more members to the set at key, returning the
// number of members actually added (excluding ones already present).
func (cl *Client) SAdd(key string, members ...string) (int64, error) {
	reply, queued, err := cl.exec(append([]string{"SADD", key}, members...)...)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("SADD", reply)
}

// SRem removes one or more members from the set at key, returning the
// number actually removed.
func (cl *Client) SRem(key string, members ...string) (int64, error) {
	reply, queued, err := cl.exec(append([]string{"SREM", key}, members...)...)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("SREM", reply)
}

// SIsMember reports whether member belongs to the set at key.
func (cl *Client) SIsMember(key, member string) (bool, error) {
	reply, queued, err := cl.exec("SISMEMBER", key, member)
	if err != nil || queued {
		return false, err
	}
	return expectBool("SISMEMBER", reply)
}

// SMembers returns every member of the set at key, in unspecified
// order.
func (cl *Client) SMembers(key string) ([]string, error) {
	reply, queued, err := cl.exec("SMEMBERS", key)
	if err != nil || queued {
		return nil, err
	}
	arr, err := expectArray("SMEMBERS", reply)
	if err != nil {
		return nil, err
	}
	return decodeStringSlice("SMEMBERS", arr)
}

// SCard returns the number of members in the set at key.
func (cl *Client) SCard(key string) (int64, error) {
	reply, queued, err := cl.exec("SCARD", key)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("SCARD", reply)
}

// SPop removes and returns a random member of the set at key.
func (cl *Client) SPop(key string) (member string, present bool, err error) {
	reply, queued, err := cl.exec("SPOP", key)
	if err != nil || queued {
		return "", false, err
	}
	return expectBulkOptional("SPOP", reply)
}

// SRandMember returns a random member of the set at key without
// removing it.
func (cl *Client) SRandMember(key string) (member string, present bool, err error) {
	reply, queued, err := cl.exec("SRANDMEMBER", key)
	if err != nil || queued {
		return "", false, err
	}
	return expectBulkOptional("SRANDMEMBER", reply)
}

// SUnion returns the union of the sets at keys.
func (cl *Client) SUnion(keys ...string) ([]string, error) {
	return cl.setOp("SUNION", keys)
}

// SInter returns the intersection of the sets at keys.
func (cl *Client) SInter(keys ...string) ([]string, error) {
	return cl.setOp("SINTER", keys)
}

// SDiff returns the members of the first set at keys not present in
// any of the others.
func (cl *Client) SDiff(keys ...string) ([]string, error) {
	return cl.setOp("SDIFF", keys)
}

func (cl *Client) setOp(cmd string, keys []string) ([]string, error) {
	reply, queued, err := cl.exec(append([]string{cmd}, keys...)...)
	if err != nil || queued {
		return nil, err
	}
	arr, err := expectArray(cmd, reply)
	if err != nil {
		return nil, err
	}
	return decodeStringSlice(cmd, arr)
}

// SUnionStore computes the union of the sets at srcKeys and stores it
// at destKey, returning the resulting cardinality.
func (cl *Client) SUnionStore(destKey string, srcKeys ...string) (int64, error) {
	return cl.setStoreOp("SUNIONSTORE", destKey, srcKeys)
}

// SInterStore computes the intersection of the sets at srcKeys and
// stores it at destKey, returning the resulting cardinality.
func (cl *Client) SInterStore(destKey string, srcKeys ...string) (int64, error) {
	return cl.setStoreOp("SINTERSTORE", destKey, srcKeys)
}

// SDiffStore computes the difference of the sets at srcKeys and
// stores it at destKey, returning the resulting cardinality.
func (cl *Client) SDiffStore(destKey string, srcKeys ...string) (int64, error) {
	return cl.setStoreOp("SDIFFSTORE", destKey, srcKeys)
}

func (cl *Client) setStoreOp(cmd, destKey string, srcKeys []string) (int64, error) {
	args := append([]string{cmd, destKey}, srcKeys...)
	reply, queued, err := cl.exec(args...)
	if err != nil || queued {
		return 0, err
	}
	return expectInteger(cmd, reply)
}
