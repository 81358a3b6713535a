// Package codec holds the encodings records travel in. JSON is spoken to the API and
// used for in-memory copies; CBOR is used for what lands on disk.
//
// Both encodings work on objects keyed by field name, which is what MergeFields relies
// on to apply partial records.
package codec

import "io"

type Encoder interface {
	Encode(v any) error
}

type Decoder interface {
	Decode(v any) error
}

type Marshaler interface {
	Marshal(v any) ([]byte, error)
	NewEncoder(w io.Writer) Encoder
}

type Unmarshaler interface {
	Unmarshal(data []byte, dst any) error
	NewDecoder(r io.Reader) Decoder
}

// Codec encodes and decodes one format.
type Codec interface {
	Marshaler
	Unmarshaler

	// MergeFields copies every top-level field of patch over base and returns the
	// encoded result. Both must be encoded objects.
	MergeFields(base, patch []byte) ([]byte, error)
}
