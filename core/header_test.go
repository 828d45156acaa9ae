package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchAnyKindPrefersLongestMatch(t *testing.T) {
	kind, after, ok := matchAnyKind("tableextension 50100 \"X\"", 0)
	require.True(t, ok)
	assert.Equal(t, KindTableExtension, kind)
	assert.Equal(t, len("tableextension"), after)
}

func TestMatchAnyKindDoesNotMatchPrefixOfLongerWord(t *testing.T) {
	// "tablething" must not be mistaken for the "table" keyword.
	_, _, ok := matchAnyKind("tablething 1 \"X\" {}", 0)
	assert.False(t, ok)
}

func TestFindNextObjectHeaderParsesTable(t *testing.T) {
	src := `table 50100 "Customer Loyalty" { }`
	hdr, found, err := findNextObjectHeader(src, 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, KindTable, hdr.kind)
	assert.Equal(t, 50100, hdr.id)
	assert.Equal(t, "Customer Loyalty", hdr.name)
	assert.Nil(t, hdr.extends)
}

func TestFindNextObjectHeaderParsesExtensionWithExtends(t *testing.T) {
	src := `tableextension 50101 "Loyalty Ext" extends Customer { }`
	hdr, found, err := findNextObjectHeader(src, 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, KindTableExtension, hdr.kind)
	require.NotNil(t, hdr.extends)
	assert.Equal(t, "Customer", *hdr.extends)
}

func TestFindNextObjectHeaderInterfaceHasNoId(t *testing.T) {
	src := `interface "IAddress Provider" { }`
	hdr, found, err := findNextObjectHeader(src, 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, KindInterface, hdr.kind)
	assert.Equal(t, 0, hdr.id)
	assert.Equal(t, "IAddress Provider", hdr.name)
}

func TestFindNextObjectHeaderMalformedMissingBrace(t *testing.T) {
	src := `table 1 "X"`
	_, _, err := findNextObjectHeader(src, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestFindNextObjectHeaderNotFoundReturnsFalse(t *testing.T) {
	_, found, err := findNextObjectHeader("no object here at all", 0)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReadNameTokenBareIdentifier(t *testing.T) {
	name, after, err := readNameToken("MyField rest", 0)
	require.NoError(t, err)
	assert.Equal(t, "MyField", name)
	assert.Equal(t, len("MyField"), after)
}

func TestReadNameTokenQuotedIdentifier(t *testing.T) {
	name, after, err := readNameToken(`"My Field" rest`, 0)
	require.NoError(t, err)
	assert.Equal(t, "My Field", name)
	assert.Equal(t, len(`"My Field"`), after)
}
