package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_MSetMGet_SortedKeyOrder(t *testing.T) {
	cl, remote := pipeConn(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*5\r\n$4\r\nMSET\r\n$1\r\na\r\n$1\r\n1\r\n$1\r\nb\r\n$1\r\n2\r\n", "+OK\r\n")
		serve(t, remote, "*3\r\n$4\r\nMGET\r\n$1\r\na\r\n$1\r\nc\r\n", "*2\r\n$1\r\n1\r\n$-1\r\n")
	}()

	require.NoError(t, cl.MSet(map[string]string{"b": "2", "a": "1"}))
	got, err := cl.MGet("a", "c")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0])
	assert.Equal(t, "1", *got[0])
	assert.Nil(t, got[1])
	<-done
}

func TestClient_SetWithOptions_NXNotApplied(t *testing.T) {
	cl, remote := pipeConn(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*4\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n$2\r\nNX\r\n", "$-1\r\n")
	}()
	applied, err := cl.SetWithOptions("foo", "bar", SetOptions{NX: true})
	require.NoError(t, err)
	assert.False(t, applied)
	<-done
}

func TestClient_SetWithOptions_EX(t *testing.T) {
	cl, remote := pipeConn(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*5\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n$2\r\nEX\r\n$2\r\n30\r\n", "+OK\r\n")
	}()
	applied, err := cl.SetWithOptions("foo", "bar", SetOptions{ExSeconds: 30})
	require.NoError(t, err)
	assert.True(t, applied)
	<-done
}

func TestClient_GetSet(t *testing.T) {
	cl, remote := pipeConn(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*3\r\n$6\r\nGETSET\r\n$3\r\nfoo\r\n$3\r\nnew\r\n", "$3\r\nold\r\n")
	}()
	prev, present, err := cl.GetSet("foo", "new")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "old", prev)
	<-done
}

func TestClient_IncrByFloat(t *testing.T) {
	cl, remote := pipeConn(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*3\r\n$11\r\nINCRBYFLOAT\r\n$3\r\nctr\r\n$3\r\n2.5\r\n", "$3\r\n4.5\r\n")
	}()
	n, err := cl.IncrByFloat("ctr", 2.5)
	require.NoError(t, err)
	assert.Equal(t, 4.5, n)
	<-done
}

func TestClient_BitOpApply(t *testing.T) {
	cl, remote := pipeConn(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*5\r\n$5\r\nBITOP\r\n$3\r\nAND\r\n$4\r\ndest\r\n$1\r\na\r\n$1\r\nb\r\n", ":4\r\n")
	}()
	n, err := cl.BitOpApply(BitOpAnd, "dest", "a", "b")
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	<-done
}

func TestClient_SetBitGetBit(t *testing.T) {
	cl, remote := pipeConn(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*4\r\n$6\r\nSETBIT\r\n$3\r\nfoo\r\n$1\r\n7\r\n$1\r\n1\r\n", ":0\r\n")
		serve(t, remote, "*3\r\n$6\r\nGETBIT\r\n$3\r\nfoo\r\n$1\r\n7\r\n", ":1\r\n")
	}()
	prev, err := cl.SetBit("foo", 7, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, prev)
	bit, err := cl.GetBit("foo", 7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, bit)
	<-done
}
