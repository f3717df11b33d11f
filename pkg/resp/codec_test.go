package resp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCommand_EncodingStability(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteStrings("SET", "foo", "bar"))
	require.NoError(t, w.Flush())
	assert.Equal(t, "*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n", buf.String())
}

func TestReader_Read(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Reply
	}{
		{"status", "+OK\r\n", Status{Text: "OK"}},
		{"error", "-ERR wrong kind\r\n", ServerError{Text: "ERR wrong kind"}},
		{"integer", ":1000\r\n", Integer{N: 1000}},
		{"negative integer", ":-7\r\n", Integer{N: -7}},
		{"bulk", "$5\r\nhello\r\n", Bulk{Present: true, Data: []byte("hello")}},
		{"empty bulk", "$0\r\n\r\n", Bulk{Present: true, Data: []byte{}}},
		{"null bulk", "$-1\r\n", Bulk{Present: false}},
		{"empty array", "*0\r\n", Array{Present: true, Items: []Reply{}}},
		{"null array", "*-1\r\n", Array{Present: false}},
		{
			"nested array",
			"*2\r\n$5\r\nHello\r\n*-1\r\n",
			Array{Present: true, Items: []Reply{
				Bulk{Present: true, Data: []byte("Hello")},
				Array{Present: false},
			}},
		},
		{
			"binary-safe bulk with NUL and CR",
			"$4\r\na\x00\rb\r\n",
			Bulk{Present: true, Data: []byte("a\x00\rb")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReaderFromBytes([]byte(tt.input))
			got, err := r.Read()
			require.NoError(t, err)
			assertReplyEqual(t, tt.want, got)
		})
	}
}

func TestReader_RoundTrip(t *testing.T) {
	values := []Reply{
		Status{Text: "OK"},
		ServerError{Text: "ERR boom"},
		Integer{N: 42},
		Integer{N: -9223372036854775808},
		Bulk{Present: true, Data: []byte("hello world")},
		Bulk{Present: true, Data: []byte{}},
		Bulk{Present: false},
		Array{Present: false},
		Array{Present: true, Items: []Reply{}},
		Array{Present: true, Items: []Reply{
			Status{Text: "a"},
			Integer{N: 1},
			Bulk{Present: false},
			Array{Present: true, Items: []Reply{Integer{N: 2}}},
		}},
	}
	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, encodeReplyForTest(&buf, v))
		r := NewReaderFromBytes(buf.Bytes())
		got, err := r.Read()
		require.NoError(t, err)
		assertReplyEqual(t, v, got)
	}
}

func TestReader_UnrecognizedTag(t *testing.T) {
	r := NewReaderFromBytes([]byte("@nope\r\n"))
	_, err := r.Read()
	require.Error(t, err)
}

// assertReplyEqual compares two Reply values structurally; reflect.DeepEqual
// over the exported fields is enough since all variants are plain structs.
func assertReplyEqual(t *testing.T, want, got Reply) {
	t.Helper()
	assert.Equal(t, want, got)
}

// encodeReplyForTest writes v back onto the wire using the server-format
// encoding so TestReader_RoundTrip can decode what it just produced; this
// is deliberately independent of Writer, which only ever emits command
// arrays, never arbitrary reply shapes.
func encodeReplyForTest(buf *bytes.Buffer, v Reply) error {
	switch r := v.(type) {
	case Status:
		buf.WriteString("+" + r.Text + "\r\n")
	case ServerError:
		buf.WriteString("-" + r.Text + "\r\n")
	case Integer:
		buf.WriteString(":" + FormatInt64(r.N) + "\r\n")
	case Bulk:
		if !r.Present {
			buf.WriteString("$-1\r\n")
			return nil
		}
		buf.WriteString("$" + FormatInt64(int64(len(r.Data))) + "\r\n")
		buf.Write(r.Data)
		buf.WriteString("\r\n")
	case Array:
		if !r.Present {
			buf.WriteString("*-1\r\n")
			return nil
		}
		buf.WriteString("*" + FormatInt64(int64(len(r.Items))) + "\r\n")
		for _, item := range r.Items {
			if err := encodeReplyForTest(buf, item); err != nil {
				return err
			}
		}
	}
	return nil
}
