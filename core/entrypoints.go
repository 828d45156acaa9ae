package core

// This file implements the four pure public entry points of spec §4.6.

// ParseSource strips a leading BOM, computes the file's BLAKE2b-8 hash, and
// returns every top-level object found in text, in source order, alongside
// any non-fatal diagnostics (spec §7). A malformed object does not abort
// the file: parsing resumes one byte past the point of failure, searching
// for the next recognizable header.
func ParseSource(text, filePath string) ([]Object, []Diagnostic) {
	normalized := stripBOM(text)
	hash := HashSource(text)

	var (
		objects []Object
		diags   []Diagnostic
	)

	pos := 0
	for {
		hdr, found, err := findNextObjectHeader(normalized, pos)
		if err != nil {
			offset := pos
			if pe, ok := err.(*parseError); ok {
				offset = pe.offset
			}
			diags = append(diags, Diagnostic{
				Err:       err,
				Message:   err.Error(),
				LineStart: lineOf(normalized, offset),
			})
			pos = offset + 1
			continue
		}
		if !found {
			break
		}

		obj, berr := buildObject(normalized, hdr, hash)
		if berr != nil {
			diags = append(diags, Diagnostic{
				Err:       berr,
				Message:   berr.Error(),
				LineStart: lineOf(normalized, hdr.keywordAt),
			})
			pos = hdr.keywordAt + 1
			continue
		}

		objects = append(objects, obj)
		pos = hdr.braceClose + 1
	}

	return objects, diags
}

// buildObject assembles an Object from a located header plus the parsed
// body of its brace block.
func buildObject(s string, hdr objectHeader, fileHash string) (Object, error) {
	properties, sections, procedures, err := parseObjectBody(s, hdr.braceOpen+1, hdr.braceClose, hdr.keywordAt)
	if err != nil {
		return Object{}, err
	}

	var extends *string
	if hdr.extends != nil {
		v := *hdr.extends
		extends = &v
	}

	return Object{
		Kind:           hdr.kind,
		ID:             hdr.id,
		Name:           hdr.name,
		Extends:        extends,
		Properties:     properties,
		Sections:       sections,
		Procedures:     procedures,
		SourceText:     s[hdr.keywordAt : hdr.braceClose+1],
		LineStart:      lineOf(s, hdr.keywordAt),
		LineEnd:        lineOf(s, hdr.braceClose),
		FileHash:       fileHash,
		bodyOpenOffset: (hdr.braceOpen + 1) - hdr.keywordAt,
	}, nil
}

// ChunkFile parses text into objects and chunks every one of them with cfg,
// concatenating the results in source order.
func ChunkFile(text, filePath string, cfg ChunkingConfig) ([]Chunk, []Diagnostic) {
	objects, diags := ParseSource(text, filePath)
	var chunks []Chunk
	for _, obj := range objects {
		chunks = append(chunks, ChunkObject(obj, filePath, cfg)...)
	}
	return chunks, diags
}
