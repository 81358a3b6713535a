package codec

import (
	"io"

	"github.com/goccy/go-json"
)

type jsonCodec struct{}

// JSON returns the codec used for API bodies and in-memory record copies.
func JSON() Codec {
	return jsonCodec{}
}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) NewEncoder(w io.Writer) Encoder {
	return json.NewEncoder(w)
}

func (jsonCodec) Unmarshal(data []byte, dst any) error {
	return json.Unmarshal(data, dst)
}

func (jsonCodec) NewDecoder(r io.Reader) Decoder {
	return json.NewDecoder(r)
}

func (jsonCodec) MergeFields(base, patch []byte) ([]byte, error) {
	var fields, overlay map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, len(overlay))
	}
	for k, v := range overlay {
		fields[k] = v
	}
	return json.Marshal(fields)
}
