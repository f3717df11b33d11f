package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_HMSetHMGet_SortedFieldOrder(t *testing.T) {
	cl, remote := pipeConn(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*6\r\n$5\r\nHMSET\r\n$1\r\nh\r\n$1\r\na\r\n$1\r\n1\r\n$1\r\nb\r\n$1\r\n2\r\n", "+OK\r\n")
		serve(t, remote, "*4\r\n$5\r\nHMGET\r\n$1\r\nh\r\n$1\r\na\r\n$1\r\nc\r\n", "*2\r\n$1\r\n1\r\n$-1\r\n")
	}()

	require.NoError(t, cl.HMSet("h", map[string]string{"b": "2", "a": "1"}))
	got, err := cl.HMGet("h", "a", "c")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0])
	assert.Equal(t, "1", *got[0])
	assert.Nil(t, got[1])
	<-done
}

func TestClient_HIncrByFloat(t *testing.T) {
	cl, remote := pipeConn(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*4\r\n$12\r\nHINCRBYFLOAT\r\n$1\r\nh\r\n$1\r\nf\r\n$3\r\n1.5\r\n", "$3\r\n2.5\r\n")
	}()
	n, err := cl.HIncrByFloat("h", "f", 1.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, n)
	<-done
}

func TestClient_HSetNX(t *testing.T) {
	cl, remote := pipeConn(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*4\r\n$6\r\nHSETNX\r\n$1\r\nh\r\n$1\r\nf\r\n$1\r\nv\r\n", ":0\r\n")
	}()
	ok, err := cl.HSetNX("h", "f", "v")
	require.NoError(t, err)
	assert.False(t, ok)
	<-done
}

func TestClient_HGetAll_PreservesServerOrder(t *testing.T) {
	cl, remote := pipeConn(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*2\r\n$7\r\nHGETALL\r\n$1\r\nh\r\n",
			"*8\r\n$1\r\nc\r\n$1\r\n3\r\n$1\r\na\r\n$1\r\n1\r\n$1\r\nd\r\n$1\r\n4\r\n$1\r\nb\r\n$1\r\n2\r\n")
	}()
	got, err := cl.HGetAll("h")
	require.NoError(t, err)
	assert.Equal(t, []HashField{
		{Field: "c", Value: "3"},
		{Field: "a", Value: "1"},
		{Field: "d", Value: "4"},
		{Field: "b", Value: "2"},
	}, got)
	<-done
}

func TestClient_HVals(t *testing.T) {
	cl, remote := pipeConn(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(t, remote, "*2\r\n$5\r\nHVALS\r\n$1\r\nh\r\n", "*2\r\n$1\r\n1\r\n$1\r\n2\r\n")
	}()
	vals, err := cl.HVals("h")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, vals)
	<-done
}
