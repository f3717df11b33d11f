// Package rlock implements a named distributed lock over a Redis
// connection: SETNX+EXPIRE acquisition with bounded retry, and a
// compare-and-delete release via a Lua script loaded once and invoked
// with EVALSHA, falling back to EVAL on a NOSCRIPT miss.
package rlock

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/lithammer/shortuuid/v4"

	"github.com/lattice-db/redisgo/pkg/client"
	"github.com/lattice-db/redisgo/pkg/resp"
	"github.com/lattice-db/redisgo/pkg/rerr"
)

// releaseScript releases only the lock this token currently owns, so
// a holder that lost the lock to expiration cannot delete whatever
// new lock took its place.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end`

// NewToken returns a fresh random lock-holder token. Every Acquire
// call should use a token unique to that holder so Release can never
// delete a lock it does not own.
func NewToken() string { return shortuuid.New() }

// Mutex is a named distributed lock backed by one Client's
// connection. Like the Client it wraps, it is not safe for concurrent
// use from multiple goroutines against the same underlying
// connection; separate Mutex values over separate connections may
// race against the server as intended.
type Mutex struct {
	cl        *client.Client
	name      string
	retryBase time.Duration

	sha1 string
}

// New builds a Mutex named name over cl's connection. retryBase is the
// bounded poll interval used while waiting for a held lock; zero
// selects a default of 100ms.
func New(cl *client.Client, name string, retryBase time.Duration) *Mutex {
	if retryBase <= 0 {
		retryBase = 100 * time.Millisecond
	}
	return &Mutex{cl: cl, name: name, retryBase: retryBase}
}

// Acquire attempts SETNX name token, retrying on a bounded backoff
// until atime elapses, then issues EXPIRE name ltime on success so a
// crashed holder's lock self-expires. ltime must be at least one
// second.
func (m *Mutex) Acquire(ctx context.Context, token string, atime, ltime time.Duration) error {
	if ltime < time.Second {
		ltime = time.Second
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = m.retryBase
	policy.MaxInterval = 2 * time.Second

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		ok, err := m.cl.SetNX(m.name, token)
		if err != nil {
			return struct{}{}, err
		}
		if !ok {
			return struct{}{}, errNotAcquired
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(policy), backoff.WithMaxElapsedTime(atime))
	if err != nil {
		return &rerr.MutexTimeout{Name: m.name}
	}

	if _, err := m.cl.Expire(m.name, int64(ltime/time.Second)); err != nil {
		return &rerr.MutexError{Msg: "EXPIRE after acquire: " + err.Error()}
	}
	return nil
}

// errNotAcquired marks a SETNX failure as retryable to backoff.Retry;
// it never escapes Acquire.
var errNotAcquired = &rerr.MutexError{Msg: "lock held"}

// Release runs the compare-and-delete script, loading it once per
// Mutex and reusing the cached SHA1 on subsequent calls. Releasing a
// lock this token does not currently own is a silent no-op, matching
// real Redis mutex semantics — a holder that lost the lock to
// expiration must not be able to delete someone else's lock.
func (m *Mutex) Release(token string) error {
	if m.sha1 == "" {
		sha1, err := m.cl.ScriptLoad(releaseScript)
		if err != nil {
			return &rerr.MutexError{Msg: "SCRIPT LOAD: " + err.Error()}
		}
		m.sha1 = sha1
	}
	reply, err := m.cl.EvalSha(m.sha1, 1, m.name, token)
	if err != nil {
		return &rerr.MutexError{Msg: "release: " + err.Error()}
	}
	// EvalSha passes the raw reply through unconverted: a NOSCRIPT miss
	// lands here as a resp.ServerError, not a Go error, so the fallback
	// must inspect the reply itself rather than err.
	if se, ok := reply.(resp.ServerError); ok {
		if !strings.Contains(se.Text, "NOSCRIPT") {
			return &rerr.MutexError{Msg: "release: " + se.Text}
		}
		reply, err = m.cl.Eval(releaseScript, 1, m.name, token)
		if err != nil {
			return &rerr.MutexError{Msg: "release: " + err.Error()}
		}
		if se, ok := reply.(resp.ServerError); ok {
			return &rerr.MutexError{Msg: "release: " + se.Text}
		}
	}
	return nil
}

// WithMutex acquires the lock, runs body, and releases on every exit
// path including cancellation and panic.
func WithMutex(ctx context.Context, cl *client.Client, name string, atime, ltime time.Duration, body func() error) error {
	m := New(cl, name, 0)
	token := NewToken()
	if err := m.Acquire(ctx, token, atime, ltime); err != nil {
		return err
	}
	defer m.Release(token)
	return body()
}
