package ioiface

import (
	"net"

	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timeoutErr satisfies net.Error with Timeout() true, the shape
// rerr.IsTransient classifies as retryable.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

type flakyReader struct {
	failures int
	calls    int
}

func (r *flakyReader) Read(p []byte) (int, error) {
	r.calls++
	if r.calls <= r.failures {
		return 0, &net.OpError{Op: "read", Err: timeoutErr{}}
	}
	return copy(p, "ok"), nil
}

func TestRetryReader_RetriesOnceOnTransientError(t *testing.T) {
	fr := &flakyReader{failures: 1}
	r := retryReader{fr}

	buf := make([]byte, 2)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "ok", string(buf))
	assert.Equal(t, 2, fr.calls)
}

func TestRetryReader_GivesUpAfterOneRetry(t *testing.T) {
	fr := &flakyReader{failures: 2}
	r := retryReader{fr}

	_, err := r.Read(make([]byte, 2))
	require.Error(t, err)
	assert.Equal(t, 2, fr.calls)
}

func TestRetryReader_DoesNotRetryNonTransientError(t *testing.T) {
	fr := &flakyReaderWithErr{err: net.ErrClosed}
	r := retryReader{fr}

	_, err := r.Read(make([]byte, 2))
	require.Error(t, err)
	assert.Equal(t, 1, fr.calls)
}

type flakyReaderWithErr struct {
	err   error
	calls int
}

func (r *flakyReaderWithErr) Read(p []byte) (int, error) {
	r.calls++
	return 0, r.err
}

type flakyFlushWriter struct {
	writeFailures int
	flushFailures int
	writeCalls    int
	flushCalls    int
}

func (w *flakyFlushWriter) Write(p []byte) (int, error) {
	w.writeCalls++
	if w.writeCalls <= w.writeFailures {
		return 0, &net.OpError{Op: "write", Err: timeoutErr{}}
	}
	return len(p), nil
}

func (w *flakyFlushWriter) Flush() error {
	w.flushCalls++
	if w.flushCalls <= w.flushFailures {
		return &net.OpError{Op: "write", Err: timeoutErr{}}
	}
	return nil
}

func TestRetryWriter_RetriesWriteOnceOnTransientError(t *testing.T) {
	fw := &flakyFlushWriter{writeFailures: 1}
	w := retryWriter{fw}

	n, err := w.Write([]byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, fw.writeCalls)
}

func TestRetryWriter_RetriesFlushOnceOnTransientError(t *testing.T) {
	fw := &flakyFlushWriter{flushFailures: 1}
	w := retryWriter{fw}

	err := w.Flush()
	require.NoError(t, err)
	assert.Equal(t, 2, fw.flushCalls)
}
