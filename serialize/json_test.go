package serialize

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrijantasevski-bs/bc-al-chunker/core"
)

func sampleChunks() []core.Chunk {
	src := `enum 50100 "Customer Loyalty"
{
    Extensible = true;
    value(0; Bronze) { Caption = 'Bronze'; }
}`
	chunks, _ := core.ChunkFile(src, "sample.al", core.DefaultChunkingConfig())
	return chunks
}

func TestJSONRoundTrip(t *testing.T) {
	chunks := sampleChunks()
	require.NotEmpty(t, chunks)

	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, chunks))

	decoded, err := DecodeJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, chunks, decoded)
}

func TestJSONLinesRoundTrip(t *testing.T) {
	chunks := sampleChunks()
	require.NotEmpty(t, chunks)

	var buf bytes.Buffer
	require.NoError(t, EncodeJSONLines(&buf, chunks))

	decoded, err := DecodeJSONLines(&buf)
	require.NoError(t, err)
	assert.Equal(t, chunks, decoded)
}

func TestEncodeJSONNullableMetadataFields(t *testing.T) {
	chunks := sampleChunks()
	require.NotEmpty(t, chunks)

	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, chunks))

	// attributes must always serialize as an array, never null, even when
	// empty, per the wire schema in spec §6.
	assert.NotContains(t, buf.String(), `"attributes": null`)

	// section_name, procedure_name, extends and source_table are absent for
	// this chunk (a whole_object enum with no extends/SourceTable), but
	// spec §6/§9 still requires the keys to appear with a null value rather
	// than being dropped.
	out := buf.String()
	assert.Contains(t, out, `"section_name": null`)
	assert.Contains(t, out, `"procedure_name": null`)
	assert.Contains(t, out, `"extends": null`)
	assert.Contains(t, out, `"source_table": null`)
}
