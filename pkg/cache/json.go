package cache

import "encoding/json"

// JSONCodec encodes/decodes values with encoding/json, for any value
// type that round-trips through JSON marshaling.
func JSONCodec[V any]() Codec[V] {
	return Codec[V]{
		Encode: func(v V) ([]byte, error) { return json.Marshal(v) },
		Decode: func(b []byte) (V, error) {
			var v V
			err := json.Unmarshal(b, &v)
			return v, err
		},
	}
}
