package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipWhitespaceAndComments(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want int
	}{
		{"plain whitespace", "   x", 3},
		{"line comment", "// hi\nx", 6},
		{"block comment", "/* a { b */x", 11},
		{"mixed", "  // c\n  /* d */  x", 18},
		{"none", "x", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := skipWhitespaceAndComments(tc.src, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSkipWhitespaceAndCommentsUnterminatedBlockComment(t *testing.T) {
	_, err := skipWhitespaceAndComments("/* never closed", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnterminatedComment)
}

func TestSkipStringHandlesDoubledQuoteEscape(t *testing.T) {
	src := "'it''s fine' rest"
	end, err := skipString(src, 0)
	require.NoError(t, err)
	assert.Equal(t, "'it''s fine'", src[0:end])
}

func TestSkipStringUnterminated(t *testing.T) {
	_, err := skipString("'never closed", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnterminatedString)
}

func TestSkipQuotedIdentifierNoEscape(t *testing.T) {
	src := `"My Field" rest`
	end, err := skipQuotedIdentifier(src, 0)
	require.NoError(t, err)
	assert.Equal(t, `"My Field"`, src[0:end])
}

func TestFindBraceBlockIgnoresBracesInStringsAndComments(t *testing.T) {
	src := "{ a = '{{{{'; // }\n b = 1; /* { */ }"
	open, close, err := findBraceBlock(src, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, open)
	assert.Equal(t, len(src)-1, close)
}

func TestFindBraceBlockUnterminated(t *testing.T) {
	_, _, err := findBraceBlock("{ a = 1;", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnterminatedBlock)
}

func TestFindEndSemicolonSkipsNestedQuotes(t *testing.T) {
	src := `"a;b" = 'x;y'; next`
	semi, err := findEndSemicolon(src, 0)
	require.NoError(t, err)
	assert.Equal(t, src[:semi], `"a;b" = 'x;y'`)
}
