package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashSourceDeterministic(t *testing.T) {
	text := "table 50100 \"Customer Loyalty\" { }"
	assert.Equal(t, HashSource(text), HashSource(text))
}

func TestHashSourceLength(t *testing.T) {
	h := HashSource("table 50100 \"X\" { }")
	assert.Len(t, h, 16, "blake2b-8 hex digest should be 16 lowercase hex chars")
}

func TestHashSourceBOMStability(t *testing.T) {
	text := "table 50100 \"X\" { }"
	withBOM := "\xef\xbb\xbf" + text
	assert.Equal(t, HashSource(text), HashSource(withBOM))
}

func TestHashSourceDiffersOnContentChange(t *testing.T) {
	a := HashSource("table 1 \"A\" { }")
	b := HashSource("table 2 \"B\" { }")
	assert.NotEqual(t, a, b)
}
