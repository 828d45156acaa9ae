package core

import "strconv"

// This file implements the object header recognizer of spec §4.2:
//
//	<kind> [id] <name> [extends <target>] {
//
// Matching happens whole-word and case-insensitively against the 19 known
// kind keywords (longest-prefix first, see objectKinds in types.go), and
// ignores any text inside strings, comments or quoted identifiers by
// routing all skipping through lexer.go.

type objectHeader struct {
	kind        ObjectKind
	id          int
	name        string
	extends     *string
	keywordAt   int // byte offset of the kind keyword, used for line numbers
	braceOpen   int
	braceClose  int
}

// findNextObjectHeader scans s starting at i for the next well-formed
// object header. It returns found=false once no more kind keywords appear.
// When a kind keyword is found but the surrounding structure does not
// match §4.2, it returns a MalformedHeader error with the offset of the
// keyword that triggered recovery; the caller should resume scanning one
// byte past that keyword.
func findNextObjectHeader(s string, i int) (hdr objectHeader, found bool, err error) {
	n := len(s)
	pos := i
	for pos < n {
		var werr error
		pos, werr = skipWhitespaceAndComments(s, pos)
		if werr != nil {
			return objectHeader{}, false, werr
		}
		if pos >= n {
			return objectHeader{}, false, nil
		}
		kind, after, ok := matchAnyKind(s, pos)
		if !ok {
			// Not a keyword start; advance one byte (or skip a string/
			// quoted identifier wholesale) and keep looking.
			var nextPos int
			nextPos, err = advanceOne(s, pos)
			if err != nil {
				return objectHeader{}, false, err
			}
			if nextPos == pos {
				nextPos = pos + 1
			}
			pos = nextPos
			continue
		}

		hdr, err = parseHeaderAt(s, pos, after, kind)
		if err != nil {
			return objectHeader{}, false, newParseError(ErrMalformedHeader, pos, err.Error())
		}
		return hdr, true, nil
	}
	return objectHeader{}, false, nil
}

// parseHeaderAt parses the remainder of a header once the kind keyword has
// been matched at [keywordStart, afterKeyword).
func parseHeaderAt(s string, keywordStart, afterKeyword int, kind ObjectKind) (objectHeader, error) {
	pos, err := skipWhitespaceAndComments(s, afterKeyword)
	if err != nil {
		return objectHeader{}, err
	}

	var id int
	if kind != KindInterface {
		val, next, ok := readInteger(s, pos)
		if !ok {
			return objectHeader{}, errMissing("object id")
		}
		id = val
		pos, err = skipWhitespaceAndComments(s, next)
		if err != nil {
			return objectHeader{}, err
		}
	}

	name, pos, err := readNameToken(s, pos)
	if err != nil {
		return objectHeader{}, err
	}
	if name == "" {
		return objectHeader{}, errMissing("object name")
	}

	pos, err = skipWhitespaceAndComments(s, pos)
	if err != nil {
		return objectHeader{}, err
	}

	var extends *string
	if extensionKinds[kind] {
		if afterExtends, ok := matchKeywordCI(s, pos, "extends"); ok {
			pos, err = skipWhitespaceAndComments(s, afterExtends)
			if err != nil {
				return objectHeader{}, err
			}
			target, next, terr := readNameToken(s, pos)
			if terr != nil {
				return objectHeader{}, terr
			}
			if target == "" {
				return objectHeader{}, errMissing("extends target")
			}
			extends = &target
			pos, err = skipWhitespaceAndComments(s, next)
			if err != nil {
				return objectHeader{}, err
			}
		}
	}

	if pos >= len(s) || s[pos] != '{' {
		return objectHeader{}, errMissing("opening '{'")
	}
	open, close, berr := findBraceBlock(s, pos)
	if berr != nil {
		return objectHeader{}, berr
	}

	return objectHeader{
		kind:       kind,
		id:         id,
		name:       name,
		extends:    extends,
		keywordAt:  keywordStart,
		braceOpen:  open,
		braceClose: close,
	}, nil
}

type headerFieldError struct{ field string }

func (e *headerFieldError) Error() string { return "missing " + e.field }

func errMissing(field string) error { return &headerFieldError{field: field} }

// matchAnyKind tries every known object kind keyword at position i,
// longest match first (objectKinds is already ordered that way), and
// returns the matched kind plus the index just past it.
func matchAnyKind(s string, i int) (ObjectKind, int, bool) {
	for _, k := range objectKinds {
		if after, ok := matchKeywordCI(s, i, string(k)); ok {
			return k, after, true
		}
	}
	return "", i, false
}

// matchKeywordCI matches kw case-insensitively at s[i] as a whole word: the
// byte before i (if any) and the byte after the match must not be a word
// character.
func matchKeywordCI(s string, i int, kw string) (int, bool) {
	n := len(s)
	if i > 0 && isWordByte(s[i-1]) {
		return i, false
	}
	if i+len(kw) > n {
		return i, false
	}
	for k := 0; k < len(kw); k++ {
		if lower(s[i+k]) != lower(kw[k]) {
			return i, false
		}
	}
	end := i + len(kw)
	if end < n && isWordByte(s[end]) {
		return i, false
	}
	return end, true
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// readInteger reads a non-negative decimal integer starting at i.
func readInteger(s string, i int) (int, int, bool) {
	n := len(s)
	start := i
	for i < n && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, start, false
	}
	val, err := strconv.Atoi(s[start:i])
	if err != nil {
		return 0, start, false
	}
	return val, i, true
}

// readNameToken reads a header name/target: either a quoted identifier
// (content between, not including, the quotes) or a bare word-character
// identifier.
func readNameToken(s string, i int) (string, int, error) {
	n := len(s)
	if i < n && s[i] == '"' {
		end, err := skipQuotedIdentifier(s, i)
		if err != nil {
			return "", end, err
		}
		return s[i+1 : end-1], end, nil
	}
	start := i
	for i < n && isWordByte(s[i]) {
		i++
	}
	return s[start:i], i, nil
}
