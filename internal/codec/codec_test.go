package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID   int      `json:"id" cbor:"id"`
	Name string   `json:"name" cbor:"name"`
	Tags []string `json:"tags" cbor:"tags"`
}

func TestCodecs(t *testing.T) {
	for name, c := range map[string]Codec{"json": JSON(), "cbor": CBOR()} {
		t.Run(name, func(t *testing.T) {
			in := sample{ID: 7, Name: "Ghent", Tags: []string{"a:b"}}

			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out sample
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)

			var buf bytes.Buffer
			require.NoError(t, c.NewEncoder(&buf).Encode(in))
			var streamed sample
			require.NoError(t, c.NewDecoder(&buf).Decode(&streamed))
			assert.Equal(t, in, streamed)
		})
	}
}

func TestJSONUnmarshalMergesIntoExisting(t *testing.T) {
	dst := sample{ID: 1, Name: "before", Tags: []string{"x:y"}}
	require.NoError(t, JSON().Unmarshal([]byte(`{"name":"after"}`), &dst))
	assert.Equal(t, sample{ID: 1, Name: "after", Tags: []string{"x:y"}}, dst)
}

func TestMergeFields(t *testing.T) {
	for name, c := range map[string]Codec{"json": JSON(), "cbor": CBOR()} {
		t.Run(name, func(t *testing.T) {
			base, err := c.Marshal(sample{ID: 3, Name: "before", Tags: []string{"a:b", "c:d"}})
			require.NoError(t, err)
			patch, err := c.Marshal(map[string]any{"tags": []string{"e:f"}})
			require.NoError(t, err)

			merged, err := c.MergeFields(base, patch)
			require.NoError(t, err)

			var out sample
			require.NoError(t, c.Unmarshal(merged, &out))
			assert.Equal(t, sample{ID: 3, Name: "before", Tags: []string{"e:f"}}, out)
		})
	}
}

func TestMergeFieldsRejectsNonObject(t *testing.T) {
	_, err := JSON().MergeFields([]byte(`{"id":1}`), []byte(`"text"`))
	assert.Error(t, err)
}
