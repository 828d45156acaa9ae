// Package core implements the structural parser and hierarchical chunker
// for Business Central AL source files. Every function in this package is
// pure: given the same input it returns the same output, performs no I/O,
// and shares no state across calls.
package core

// ObjectKind enumerates the 19 top-level AL object kinds this package
// recognizes. The zero value is not a valid kind.
type ObjectKind string

const (
	KindTable                    ObjectKind = "table"
	KindTableExtension           ObjectKind = "tableextension"
	KindPage                     ObjectKind = "page"
	KindPageExtension            ObjectKind = "pageextension"
	KindCodeunit                 ObjectKind = "codeunit"
	KindReport                   ObjectKind = "report"
	KindReportExtension          ObjectKind = "reportextension"
	KindQuery                    ObjectKind = "query"
	KindXmlPort                  ObjectKind = "xmlport"
	KindEnum                     ObjectKind = "enum"
	KindEnumExtension            ObjectKind = "enumextension"
	KindInterface                ObjectKind = "interface"
	KindPermissionSet            ObjectKind = "permissionset"
	KindPermissionSetExtension   ObjectKind = "permissionsetextension"
	KindProfile                  ObjectKind = "profile"
	KindControlAddIn             ObjectKind = "controladdin"
	KindEntitlement              ObjectKind = "entitlement"
	KindDotNet                   ObjectKind = "dotnet"
	KindPageCustomization        ObjectKind = "pageCustomization"
)

// objectKinds lists every recognized kind keyword, longest-first within
// shared prefixes so the header recognizer matches greedily (e.g.
// "tableextension" before "table").
var objectKinds = []ObjectKind{
	KindTableExtension,
	KindTable,
	KindPageExtension,
	KindPageCustomization,
	KindPage,
	KindCodeunit,
	KindReportExtension,
	KindReport,
	KindQuery,
	KindXmlPort,
	KindEnumExtension,
	KindEnum,
	KindInterface,
	KindPermissionSetExtension,
	KindPermissionSet,
	KindProfile,
	KindControlAddIn,
	KindEntitlement,
	KindDotNet,
}

// extensionKinds identifies kinds whose header carries an "extends" target.
var extensionKinds = map[ObjectKind]bool{
	KindTableExtension:         true,
	KindPageExtension:          true,
	KindReportExtension:        true,
	KindEnumExtension:          true,
	KindPermissionSetExtension: true,
	KindPageCustomization:      true,
}

// Property is a single top-level `name = value;` assignment inside an
// object body. Value is trimmed and has its terminating semicolon removed.
type Property struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`

	// rawStart/rawEnd delimit this property's full source lines, relative
	// to the owning Object's SourceText, for use by the chunker when
	// assembling a header chunk (§4.5). Not part of the public data model.
	rawStart, rawEnd int
}

// Section is a named `{ ... }` region at object-body depth 1 (fields,
// keys, layout, actions, ...). BodyText is the verbatim text between (not
// including) the outer braces. Children is always empty at parse time;
// the core parser never recursively decomposes a section.
type Section struct {
	Name      string    `json:"name"`
	BodyText  string    `json:"body_text"`
	LineStart int       `json:"line_start"`
	LineEnd   int       `json:"line_end"`
	Children  []Section `json:"children,omitempty"`

	// rawStart/rawEnd delimit this section's full text ("name { ... }"),
	// relative to the owning Object's SourceText. innerStart/innerEnd are
	// the same range BodyText was sliced from, kept so the chunker can
	// relocate nested sub-blocks without re-deriving offsets.
	rawStart, rawEnd     int
	innerStart, innerEnd int
}

// ProcedureKind distinguishes a user-declared procedure from a
// platform-named trigger.
type ProcedureKind string

const (
	ProcedureKindProcedure ProcedureKind = "procedure"
	ProcedureKindTrigger   ProcedureKind = "trigger"
)

// Access is the visibility modifier of a procedure. Triggers never carry
// one and are always reported as AccessPublic.
type Access string

const (
	AccessPublic    Access = "public"
	AccessLocal     Access = "local"
	AccessInternal  Access = "internal"
	AccessProtected Access = "protected"
)

// Procedure is a parsed procedure or trigger declaration.
type Procedure struct {
	Kind         ProcedureKind `json:"kind"`
	Name         string        `json:"name"`
	Access       Access        `json:"access"`
	Attributes   []string      `json:"attributes,omitempty"`
	ReturnType   string        `json:"return_type,omitempty"`
	SignatureText string       `json:"signature_text"`
	BodyText     string        `json:"body_text"`
	LineStart    int           `json:"line_start"`
	LineEnd      int           `json:"line_end"`

	// rawStart/rawEnd delimit this procedure's full text (attributes
	// through the terminating ';'), relative to the owning Object's
	// SourceText.
	rawStart, rawEnd int
}

// Object is one parsed top-level AL object.
type Object struct {
	Kind       ObjectKind  `json:"kind"`
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Extends    *string     `json:"extends,omitempty"`
	Properties []Property  `json:"properties"`
	Sections   []Section   `json:"sections"`
	Procedures []Procedure `json:"procedures"`
	SourceText string      `json:"source_text"`
	LineStart  int         `json:"line_start"`
	LineEnd    int         `json:"line_end"`
	FileHash   string      `json:"file_hash"`

	// bodyOpenOffset is the byte offset, relative to SourceText, of the
	// first byte after the object's own opening '{'. It lets the chunker
	// slice the declaration-through-brace header text without re-scanning.
	bodyOpenOffset int
}

// ChunkType is the closed set of chunk kinds this package emits.
type ChunkType string

const (
	ChunkWholeObject ChunkType = "whole_object"
	ChunkHeader      ChunkType = "header"
	ChunkSection     ChunkType = "section"
	ChunkProcedure   ChunkType = "procedure"
	ChunkTrigger     ChunkType = "trigger"
)

// ChunkMetadata is the immutable descriptor attached to every chunk. Fields
// that don't apply to a given ChunkType are left as their zero value (nil
// for pointers, empty for the attribute tuple).
type ChunkMetadata struct {
	FilePath      string     `json:"file_path"`
	ObjectType    ObjectKind `json:"object_type"`
	ObjectID      int        `json:"object_id"`
	ObjectName    string     `json:"object_name"`
	ChunkType     ChunkType  `json:"chunk_type"`
	SectionName   *string    `json:"section_name"`
	ProcedureName *string    `json:"procedure_name"`
	Extends       *string    `json:"extends"`
	SourceTable   *string    `json:"source_table"`
	Attributes    []string   `json:"attributes"`
	LineStart     int        `json:"line_start"`
	LineEnd       int        `json:"line_end"`
	FileHash      string     `json:"file_hash"`
}

// Chunk is a self-contained, embeddable text fragment plus its metadata.
type Chunk struct {
	Content       string        `json:"content"`
	Metadata      ChunkMetadata `json:"metadata"`
	TokenEstimate int           `json:"token_estimate"`
}

// ChunkingConfig controls the hierarchical chunker's size gating and
// output shape. The zero value is not valid; use DefaultChunkingConfig.
type ChunkingConfig struct {
	MaxChunkChars        int  `yaml:"max_chunk_chars"`
	MinChunkChars        int  `yaml:"min_chunk_chars"`
	IncludeContextHeader bool `yaml:"include_context_header"`
	EstimateTokens       bool `yaml:"estimate_tokens"`
}

// DefaultChunkingConfig returns the spec-mandated defaults: 1500/100 char
// thresholds, context headers on, token estimation on.
func DefaultChunkingConfig() ChunkingConfig {
	return ChunkingConfig{
		MaxChunkChars:        1500,
		MinChunkChars:        100,
		IncludeContextHeader: true,
		EstimateTokens:       true,
	}
}
