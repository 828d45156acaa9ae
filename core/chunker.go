package core

import (
	"fmt"
	"strings"
)

// This file implements the hierarchical chunker of spec §4.5: a size gate
// that emits a single whole_object chunk for small objects, and otherwise
// a header chunk, one chunk per section (recursively split when
// oversized), and one chunk per procedure/trigger.

// ChunkObject splits obj into embeddable chunks per cfg. It never fails: a
// caller-supplied Object whose SourceText is shorter than its declared
// range degrades to a single whole_object chunk rather than raising.
func ChunkObject(obj Object, filePath string, cfg ChunkingConfig) []Chunk {
	if len(obj.SourceText) <= cfg.MaxChunkChars {
		return []Chunk{wholeObjectChunk(obj, filePath, cfg)}
	}
	if obj.bodyOpenOffset <= 0 || obj.bodyOpenOffset > len(obj.SourceText) {
		// Degenerate/caller-bug input: the object claims a body we can't
		// locate inside its own SourceText. Fall back rather than panic.
		return []Chunk{wholeObjectChunk(obj, filePath, cfg)}
	}

	var chunks []Chunk

	if hc, ok := buildHeaderChunk(obj, filePath, cfg); ok {
		chunks = append(chunks, hc)
	}
	for _, sec := range obj.Sections {
		chunks = append(chunks, buildSectionChunks(obj, sec, filePath, cfg)...)
	}
	for _, proc := range obj.Procedures {
		if c, ok := buildProcedureChunk(obj, proc, filePath, cfg); ok {
			chunks = append(chunks, c)
		}
	}

	return chunks
}

func wholeObjectChunk(obj Object, filePath string, cfg ChunkingConfig) Chunk {
	content := obj.SourceText
	meta := ChunkMetadata{
		FilePath:    filePath,
		ObjectType:  obj.Kind,
		ObjectID:    obj.ID,
		ObjectName:  obj.Name,
		ChunkType:   ChunkWholeObject,
		Extends:     obj.Extends,
		SourceTable: sourceTableOf(obj),
		Attributes:  []string{},
		LineStart:   obj.LineStart,
		LineEnd:     obj.LineEnd,
		FileHash:    obj.FileHash,
	}
	return Chunk{
		Content:       content,
		Metadata:      meta,
		TokenEstimate: tokenEstimate(content, cfg.EstimateTokens),
	}
}

// buildHeaderChunk assembles the declaration-through-brace text plus every
// top-level property line, per spec §4.5 point 1.
func buildHeaderChunk(obj Object, filePath string, cfg ChunkingConfig) (Chunk, bool) {
	decl := obj.SourceText[:indexOfLineEnd(obj.SourceText, obj.bodyOpenOffset-1)]
	parts := []string{decl}

	lineEnd := globalLine(obj, obj.bodyOpenOffset-1)
	for _, prop := range obj.Properties {
		parts = append(parts, obj.SourceText[prop.rawStart:prop.rawEnd])
		lineEnd = prop.LineEnd
	}

	rawBody := strings.Join(parts, "\n")
	return finalizeChunk(rawBody, ChunkHeader, obj.LineStart, lineEnd, nil, obj, filePath, cfg)
}

// buildSectionChunks emits either one chunk for sec, or (when sec's full
// text exceeds the size gate and it contains two or more nested
// sub-blocks) one chunk per greedily-grouped run of sub-blocks, per spec
// §4.5 point 2.
func buildSectionChunks(obj Object, sec Section, filePath string, cfg ChunkingConfig) []Chunk {
	full := obj.SourceText[sec.rawStart:sec.rawEnd]
	name := sec.Name

	withName := func(m *ChunkMetadata) { m.SectionName = &name }

	if len(full) <= cfg.MaxChunkChars {
		if c, ok := finalizeChunk(full, ChunkSection, sec.LineStart, sec.LineEnd, withName, obj, filePath, cfg); ok {
			return []Chunk{c}
		}
		return nil
	}

	subBlocks := splitSectionSubBlocks(obj, sec)
	if len(subBlocks) < 2 {
		if c, ok := finalizeChunk(full, ChunkSection, sec.LineStart, sec.LineEnd, withName, obj, filePath, cfg); ok {
			return []Chunk{c}
		}
		return nil
	}

	var chunks []Chunk
	i := 0
	for i < len(subBlocks) {
		groupStart := subBlocks[i].start
		j := i
		for j+1 < len(subBlocks) && (subBlocks[j+1].end-groupStart) <= cfg.MaxChunkChars {
			j++
		}
		text := obj.SourceText[groupStart:subBlocks[j].end]
		if c, ok := finalizeChunk(text, ChunkSection, subBlocks[i].lineStart, subBlocks[j].lineEnd, withName, obj, filePath, cfg); ok {
			chunks = append(chunks, c)
		}
		i = j + 1
	}
	return chunks
}

// buildProcedureChunk emits the full attributes-through-terminator text of
// proc as a procedure or trigger chunk, per spec §4.5 point 3. Oversized
// procedures are never subdivided.
func buildProcedureChunk(obj Object, proc Procedure, filePath string, cfg ChunkingConfig) (Chunk, bool) {
	content := obj.SourceText[proc.rawStart:proc.rawEnd]
	ct := ChunkProcedure
	if proc.Kind == ProcedureKindTrigger {
		ct = ChunkTrigger
	}
	name := proc.Name
	attrs := proc.Attributes
	if attrs == nil {
		attrs = []string{}
	}
	return finalizeChunk(content, ct, proc.LineStart, proc.LineEnd, func(m *ChunkMetadata) {
		m.ProcedureName = &name
		m.Attributes = attrs
	}, obj, filePath, cfg)
}

// subBlock is a nested named construct found inside a section body
// (area/group/field/dataitem/value/action/... — any identifier optionally
// followed by a parenthesized argument list and then a brace block).
// start/end are byte offsets relative to the owning Object's SourceText.
type subBlock struct {
	start, end          int
	lineStart, lineEnd  int
}

// splitSectionSubBlocks scans sec's interior for top-level nested
// sub-blocks. It returns nil if the body doesn't cleanly decompose into a
// sequence of `name[(...)] { ... }` constructs, in which case the caller
// falls back to emitting the section whole.
func splitSectionSubBlocks(obj Object, sec Section) []subBlock {
	s := obj.SourceText
	pos := sec.innerStart
	end := sec.innerEnd
	var blocks []subBlock

	for {
		var werr error
		pos, werr = skipWhitespaceAndComments(s, pos)
		if werr != nil {
			return nil
		}
		if pos >= end {
			break
		}
		start := pos
		name, after, err := readNameToken(s, pos)
		if err != nil || name == "" {
			return nil
		}
		pos, werr = skipWhitespaceAndComments(s, after)
		if werr != nil {
			return nil
		}
		if pos < end && pos < len(s) && s[pos] == '(' {
			_, close, perr := findParenBlock(s, pos)
			if perr != nil {
				return nil
			}
			pos, werr = skipWhitespaceAndComments(s, close+1)
			if werr != nil {
				return nil
			}
		}
		if pos >= end || pos >= len(s) || s[pos] != '{' {
			return nil
		}
		_, close, berr := findBraceBlock(s, pos)
		if berr != nil {
			return nil
		}
		blocks = append(blocks, subBlock{
			start:     start,
			end:       close + 1,
			lineStart: globalLine(obj, start),
			lineEnd:   globalLine(obj, close),
		})
		pos = close + 1
	}
	return blocks
}

// globalLine converts a byte offset relative to obj.SourceText into a
// 1-based line number in the original file obj was parsed from.
func globalLine(obj Object, relOffset int) int {
	if relOffset > len(obj.SourceText) {
		relOffset = len(obj.SourceText)
	}
	if relOffset < 0 {
		relOffset = 0
	}
	return obj.LineStart + strings.Count(obj.SourceText[:relOffset], "\n")
}

// sourceTableOf returns the value of a property named "SourceTable"
// (case-insensitive), or nil if the object has none.
func sourceTableOf(obj Object) *string {
	for _, p := range obj.Properties {
		if strings.EqualFold(p.Name, "SourceTable") {
			v := p.Value
			return &v
		}
	}
	return nil
}

// makeContextHeader synthesizes the two-line AL comment prefix of spec
// §4.5. The object id is omitted for interfaces, which have none.
func makeContextHeader(obj Object, filePath string) string {
	if obj.Kind == KindInterface {
		return fmt.Sprintf("// Object: %s %q\n// File: %s\n\n", obj.Kind, obj.Name, filePath)
	}
	return fmt.Sprintf("// Object: %s %d %q\n// File: %s\n\n", obj.Kind, obj.ID, obj.Name, filePath)
}

// tokenEstimate implements the token_estimate formula of spec §3: the char
// count divided by 4, floored, with a floor of 1; 0 when disabled.
func tokenEstimate(content string, enabled bool) int {
	if !enabled {
		return 0
	}
	n := len(content) / 4
	if n < 1 {
		n = 1
	}
	return n
}

// finalizeChunk applies the empty-result policy (discard whitespace-only
// content), prefixes the context header when enabled, and assembles the
// Chunk plus its metadata. extra, if non-nil, sets chunk-type-specific
// metadata fields (section_name or procedure_name/attributes).
func finalizeChunk(
	rawBody string,
	ct ChunkType,
	lineStart, lineEnd int,
	extra func(*ChunkMetadata),
	obj Object,
	filePath string,
	cfg ChunkingConfig,
) (Chunk, bool) {
	if strings.TrimSpace(rawBody) == "" {
		return Chunk{}, false
	}

	meta := ChunkMetadata{
		FilePath:    filePath,
		ObjectType:  obj.Kind,
		ObjectID:    obj.ID,
		ObjectName:  obj.Name,
		ChunkType:   ct,
		Extends:     obj.Extends,
		SourceTable: sourceTableOf(obj),
		Attributes:  []string{},
		LineStart:   lineStart,
		LineEnd:     lineEnd,
		FileHash:    obj.FileHash,
	}
	if extra != nil {
		extra(&meta)
	}

	content := rawBody
	if cfg.IncludeContextHeader {
		content = makeContextHeader(obj, filePath) + rawBody
	}

	return Chunk{
		Content:       content,
		Metadata:      meta,
		TokenEstimate: tokenEstimate(content, cfg.EstimateTokens),
	}, true
}
