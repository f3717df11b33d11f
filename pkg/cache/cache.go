// Package cache implements a parametric key/value shim over the
// command layer with a pluggable key encoding, value codec, and
// optional expiration.
package cache

import (
	"fmt"
	"time"

	"github.com/lattice-db/redisgo/pkg/client"
)

// Codec converts between a typed value and the bytes stored at a key.
type Codec[V any] struct {
	Encode func(V) ([]byte, error)
	Decode func([]byte) (V, error)
}

// StringCodec round-trips plain strings without any transcoding.
func StringCodec() Codec[string] {
	return Codec[string]{
		Encode: func(v string) ([]byte, error) { return []byte(v), nil },
		Decode: func(b []byte) (string, error) { return string(b), nil },
	}
}

// Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithTTL gives every Set a fixed expiration. Zero (the default)
// means no expiration.
func WithTTL[K comparable, V any](ttl time.Duration) Option[K, V] {
	return func(c *Cache[K, V]) { c.ttl = ttl }
}

// WithKeyFunc overrides the default key encoding (fmt.Sprint-based).
func WithKeyFunc[K comparable, V any](fn func(K) string) Option[K, V] {
	return func(c *Cache[K, V]) { c.keyFunc = fn }
}

// Cache is a typed key/value shim over a single Client's string
// commands. It is not safe for concurrent use by multiple goroutines,
// matching the Connection it wraps.
type Cache[K comparable, V any] struct {
	cl      *client.Client
	codec   Codec[V]
	keyFunc func(K) string
	ttl     time.Duration
}

// New builds a Cache bound to cl, encoding values with codec.
func New[K comparable, V any](cl *client.Client, codec Codec[V], opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		cl:      cl,
		codec:   codec,
		keyFunc: defaultKeyFunc[K],
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultKeyFunc[K comparable](key K) string {
	if s, ok := any(key).(string); ok {
		return s
	}
	return fmt.Sprint(key)
}

// Set encodes value and writes it, applying the Cache's TTL if set.
func (c *Cache[K, V]) Set(key K, value V) error {
	data, err := c.codec.Encode(value)
	if err != nil {
		return err
	}
	k := c.keyFunc(key)
	if c.ttl <= 0 {
		return c.cl.Set(k, string(data))
	}
	return c.cl.SetEx(k, string(data), int64(c.ttl/time.Second))
}

// Get reads and decodes the value at key. present is false when the
// key is absent.
func (c *Cache[K, V]) Get(key K) (value V, present bool, err error) {
	raw, present, err := c.cl.Get(c.keyFunc(key))
	if err != nil || !present {
		return value, present, err
	}
	value, err = c.codec.Decode([]byte(raw))
	return value, true, err
}

// Delete removes key, reporting whether it existed.
func (c *Cache[K, V]) Delete(key K) (bool, error) {
	n, err := c.cl.Del(c.keyFunc(key))
	return n > 0, err
}
