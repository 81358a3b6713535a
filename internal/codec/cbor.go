package codec

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// CBOR returns a codec with canonical encoding, suitable for snapshots on disk.
func CBOR() Codec {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
	return &cborCodec{enc: enc, dec: dec}
}

func (c *cborCodec) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c *cborCodec) NewEncoder(w io.Writer) Encoder {
	return c.enc.NewEncoder(w)
}

func (c *cborCodec) Unmarshal(data []byte, dst any) error {
	return c.dec.Unmarshal(data, dst)
}

func (c *cborCodec) NewDecoder(r io.Reader) Decoder {
	return c.dec.NewDecoder(r)
}

func (c *cborCodec) MergeFields(base, patch []byte) ([]byte, error) {
	var fields, overlay map[string]cbor.RawMessage
	if err := c.dec.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	if err := c.dec.Unmarshal(patch, &overlay); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = make(map[string]cbor.RawMessage, len(overlay))
	}
	for k, v := range overlay {
		fields[k] = v
	}
	return c.enc.Marshal(fields)
}
