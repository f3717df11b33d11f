// Package resp implements the RESP2 wire codec: encoding outgoing
// command arrays and decoding inbound replies into a tagged Reply
// value. It is pure over a buffered byte stream and knows nothing
// about sockets or connection state.
package resp

import (
	"fmt"
	"strconv"
)

// Reply is the recursive tagged reply value RESP decodes into. It has
// exactly the five variants the wire protocol defines.
type Reply interface {
	fmt.Stringer
	replyMarker()
}

// Status is a "+OK"-style simple string.
type Status struct{ Text string }

func (Status) replyMarker()    {}
func (s Status) String() string { return fmt.Sprintf("Status(%q)", s.Text) }

// ServerError is a "-ERR ..."-style error string.
type ServerError struct{ Text string }

func (ServerError) replyMarker()    {}
func (e ServerError) String() string { return fmt.Sprintf("ServerError(%q)", e.Text) }

// Integer is a ":n" reply, 64-bit signed.
type Integer struct{ N int64 }

func (Integer) replyMarker()    {}
func (i Integer) String() string { return fmt.Sprintf("Integer(%d)", i.N) }

// Bulk is a "$len\r\n...\r\n" reply. Present is false when the server
// sent a null bulk ("$-1\r\n"); Data is nil in that case. A present,
// empty bulk has Present=true and Data=[]byte{} — the two must never
// be confused.
type Bulk struct {
	Present bool
	Data    []byte
}

func (Bulk) replyMarker() {}
func (b Bulk) String() string {
	if !b.Present {
		return "Bulk(nil)"
	}
	return fmt.Sprintf("Bulk(%q)", string(b.Data))
}

// Optional returns the bulk's payload as an (string, ok) pair, the
// shape most command wrappers expose to callers.
func (b Bulk) Optional() (string, bool) {
	if !b.Present {
		return "", false
	}
	return string(b.Data), true
}

// Array is a "*len\r\n..." reply. Present is false for a null array
// ("*-1\r\n"); Items is nil in that case. A present, empty array has
// Present=true and Items=[]Reply{}.
type Array struct {
	Present bool
	Items   []Reply
}

func (Array) replyMarker() {}
func (a Array) String() string {
	if !a.Present {
		return "Array(nil)"
	}
	out := "Array(["
	for i, item := range a.Items {
		if i > 0 {
			out += ", "
		}
		out += item.String()
	}
	return out + "])"
}

// FormatInt64 decimalizes a numeric argument to ASCII before framing;
// RESP has no binary integer encoding, so every length and count
// field is sent as a decimal string.
func FormatInt64(n int64) string { return strconv.FormatInt(n, 10) }
