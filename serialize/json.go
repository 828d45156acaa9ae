// Package serialize converts core.Chunk values to and from the JSON wire
// schema of spec §6, and writes them to disk as JSON or JSON Lines.
package serialize

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/andrijantasevski-bs/bc-al-chunker/core"
)

// wireChunk is an alias of core.Chunk, which already carries the json tags
// of the wire schema; DecodeJSON and DecodeJSONLines decode into it.
type wireChunk = core.Chunk

// EncodeJSON writes chunks as a single JSON array, matching the schema in
// spec §6.
func EncodeJSON(w io.Writer, chunks []core.Chunk) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(chunks); err != nil {
		return fmt.Errorf("serialize: encode json: %w", err)
	}
	return nil
}

// EncodeJSONLines writes one compact JSON object per chunk, newline
// separated (JSONL), the shape embedding pipelines typically consume.
func EncodeJSONLines(w io.Writer, chunks []core.Chunk) error {
	enc := json.NewEncoder(w)
	for _, c := range chunks {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("serialize: encode jsonl: %w", err)
		}
	}
	return nil
}

// DecodeJSON reads a chunk array previously written by EncodeJSON.
func DecodeJSON(r io.Reader) ([]core.Chunk, error) {
	var chunks []wireChunk
	if err := json.NewDecoder(r).Decode(&chunks); err != nil {
		return nil, fmt.Errorf("serialize: decode json: %w", err)
	}
	return chunks, nil
}

// DecodeJSONLines reads a JSONL stream previously written by
// EncodeJSONLines.
func DecodeJSONLines(r io.Reader) ([]core.Chunk, error) {
	dec := json.NewDecoder(r)
	var chunks []core.Chunk
	for dec.More() {
		var c wireChunk
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("serialize: decode jsonl: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}
