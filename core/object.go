package core

import "strings"

// This file implements the object body parser of spec §4.3: given the
// brace-delimited body of a located object, it classifies each top-level
// construct (property, section, procedure/trigger) by peeking the first
// token after skipping whitespace and comments, per the dispatch table in
// §4.3.

// parseObjectBody walks s[bodyStart:bodyEnd] (the text strictly inside an
// object's outer braces) and returns its properties, sections and
// procedures in source order. base is the absolute offset (within s) of
// the owning object's declaration start; every raw offset recorded on the
// returned structs is relative to base so it can be used directly against
// that object's SourceText by the chunker.
func parseObjectBody(s string, bodyStart, bodyEnd, base int) ([]Property, []Section, []Procedure, error) {
	var (
		properties []Property
		sections   []Section
		procedures []Procedure
	)

	pos := bodyStart
	for {
		var werr error
		pos, werr = skipWhitespaceAndComments(s, pos)
		if werr != nil {
			return nil, nil, nil, werr
		}
		if pos >= bodyEnd {
			break
		}

		constructStart := pos
		var attrs []string
		for pos < bodyEnd && s[pos] == '[' {
			open, close, err := findBracketBlock(s, pos)
			if err != nil {
				return nil, nil, nil, err
			}
			attrs = append(attrs, s[open:close+1])
			pos, err = skipWhitespaceAndComments(s, close+1)
			if err != nil {
				return nil, nil, nil, err
			}
			if pos >= bodyEnd {
				break
			}
		}

		access := AccessPublic
		for _, kw := range []struct {
			word string
			acc  Access
		}{{"local", AccessLocal}, {"internal", AccessInternal}, {"protected", AccessProtected}} {
			if after, ok := matchKeywordCI(s, pos, kw.word); ok {
				lookahead, lerr := skipWhitespaceAndComments(s, after)
				if lerr != nil {
					return nil, nil, nil, lerr
				}
				if _, isProc := matchKeywordCI(s, lookahead, "procedure"); isProc {
					access = kw.acc
					pos = lookahead
				}
				break
			}
		}

		if after, ok := matchKeywordCI(s, pos, "procedure"); ok {
			proc, next, err := parseProcedure(s, constructStart, pos, after, ProcedureKindProcedure, access, attrs, bodyEnd, base)
			if err != nil {
				return nil, nil, nil, err
			}
			procedures = append(procedures, proc)
			pos = next
			continue
		}
		if after, ok := matchKeywordCI(s, pos, "trigger"); ok {
			proc, next, err := parseProcedure(s, constructStart, pos, after, ProcedureKindTrigger, AccessPublic, attrs, bodyEnd, base)
			if err != nil {
				return nil, nil, nil, err
			}
			procedures = append(procedures, proc)
			pos = next
			continue
		}

		// Attributes (and any stray access keyword) that precede
		// anything other than a procedure/trigger are discarded per
		// spec §9's open question.
		nameStart := pos
		name, after, err := readNameToken(s, pos)
		if err != nil {
			return nil, nil, nil, err
		}
		if name == "" {
			// Unrecognized byte at top level; skip it defensively so a
			// stray character can't stall the walk.
			pos = constructStart + 1
			continue
		}
		after, err = skipWhitespaceAndComments(s, after)
		if err != nil {
			return nil, nil, nil, err
		}

		if after < bodyEnd && s[after] == '{' {
			open, close, berr := findBraceBlock(s, after)
			if berr != nil {
				return nil, nil, nil, berr
			}
			rawStart := indexOfLineStart(s, nameStart)
			rawEnd := indexOfLineEnd(s, close)
			sections = append(sections, Section{
				Name:       name,
				BodyText:   s[open+1 : close],
				LineStart:  lineOf(s, nameStart),
				LineEnd:    lineOf(s, close),
				rawStart:   rawStart - base,
				rawEnd:     rawEnd - base,
				innerStart: (open + 1) - base,
				innerEnd:   close - base,
			})
			pos = close + 1
			continue
		}
		if after < bodyEnd && s[after] == '=' {
			rhsStart, rerr := skipWhitespaceAndComments(s, after+1)
			if rerr != nil {
				return nil, nil, nil, rerr
			}
			semi, serr := findEndSemicolon(s, rhsStart)
			if serr != nil {
				return nil, nil, nil, serr
			}
			properties = append(properties, Property{
				Name:      name,
				Value:     strings.TrimSpace(s[rhsStart:semi]),
				LineStart: lineOf(s, nameStart),
				LineEnd:   lineOf(s, semi),
				rawStart:  indexOfLineStart(s, nameStart) - base,
				rawEnd:    indexOfLineEnd(s, semi) - base,
			})
			pos = semi + 1
			continue
		}

		// Neither a section nor a property: skip past the token to make
		// forward progress.
		pos = after
		if pos == nameStart {
			pos = nameStart + 1
		}
	}

	return properties, sections, procedures, nil
}

// findBracketBlock requires s[i] == '[' and returns the matching close
// index, ignoring brackets inside strings/quoted identifiers/comments. AL
// attribute blocks don't nest.
func findBracketBlock(s string, i int) (open int, close int, err error) {
	n := len(s)
	if i >= n || s[i] != '[' {
		return 0, 0, newParseError(ErrMalformedHeader, i, "expected '['")
	}
	open = i
	j := i + 1
	for j < n {
		j, err = skipWhitespaceAndComments(s, j)
		if err != nil {
			return 0, 0, err
		}
		if j >= n {
			break
		}
		switch s[j] {
		case ']':
			return open, j, nil
		case '\'':
			j, err = skipString(s, j)
			if err != nil {
				return 0, 0, err
			}
		case '"':
			j, err = skipQuotedIdentifier(s, j)
			if err != nil {
				return 0, 0, err
			}
		default:
			j++
		}
	}
	return 0, 0, newParseError(ErrUnterminatedBlock, open, "unterminated attribute")
}

// findParenBlock requires s[i] == '(' and returns the matching close index,
// with paren nesting and the usual string/comment/quoted-identifier skip
// rules.
func findParenBlock(s string, i int) (open int, close int, err error) {
	n := len(s)
	if i >= n || s[i] != '(' {
		return 0, 0, newParseError(ErrMalformedHeader, i, "expected '('")
	}
	open = i
	depth := 0
	j := i
	for j < n {
		j, err = skipWhitespaceAndComments(s, j)
		if err != nil {
			return 0, 0, err
		}
		if j >= n {
			break
		}
		switch s[j] {
		case '(':
			depth++
			j++
		case ')':
			depth--
			j++
			if depth == 0 {
				return open, j - 1, nil
			}
		case '\'':
			j, err = skipString(s, j)
			if err != nil {
				return 0, 0, err
			}
		case '"':
			j, err = skipQuotedIdentifier(s, j)
			if err != nil {
				return 0, 0, err
			}
		default:
			j++
		}
	}
	return 0, 0, newParseError(ErrUnterminatedBlock, open, "unterminated parameter list")
}

// parseProcedure parses one procedure or trigger declaration. keywordPos is
// the index of the "procedure"/"trigger" token itself; afterKeyword is the
// index just past it; lineStart is the index from which the construct's
// reported line range begins (covering any attributes/access modifier).
func parseProcedure(
	s string,
	lineStart, keywordPos, afterKeyword int,
	kind ProcedureKind,
	access Access,
	attrs []string,
	bodyEnd int,
	base int,
) (Procedure, int, error) {
	pos, err := skipWhitespaceAndComments(s, afterKeyword)
	if err != nil {
		return Procedure{}, 0, err
	}
	name, pos, err := readNameToken(s, pos)
	if err != nil {
		return Procedure{}, 0, err
	}
	pos, err = skipWhitespaceAndComments(s, pos)
	if err != nil {
		return Procedure{}, 0, err
	}

	if pos < len(s) && s[pos] == '(' {
		_, close, perr := findParenBlock(s, pos)
		if perr != nil {
			return Procedure{}, 0, perr
		}
		pos, err = skipWhitespaceAndComments(s, close+1)
		if err != nil {
			return Procedure{}, 0, err
		}
	}

	returnType := ""
	if pos < len(s) && s[pos] == ':' {
		pos, err = skipWhitespaceAndComments(s, pos+1)
		if err != nil {
			return Procedure{}, 0, err
		}
		rtStart := pos
		for pos < len(s) && s[pos] != ';' && !isBeginKeywordAt(s, pos) {
			if _, isVar := matchKeywordCI(s, pos, "var"); isVar {
				break
			}
			next, aerr := advanceOne(s, pos)
			if aerr != nil {
				return Procedure{}, 0, aerr
			}
			if next == pos {
				pos++
			} else {
				pos = next
			}
			pos, err = skipWhitespaceAndComments(s, pos)
			if err != nil {
				return Procedure{}, 0, err
			}
		}
		returnType = strings.TrimSpace(s[rtStart:pos])
	}

	pos, err = skipWhitespaceAndComments(s, pos)
	if err != nil {
		return Procedure{}, 0, err
	}

	// A local `var` block sits between the signature and `begin`; skip its
	// declarations so their ';' is not taken as the declaration terminator.
	if afterVar, ok := matchKeywordCI(s, pos, "var"); ok {
		pos, err = skipWhitespaceAndComments(s, afterVar)
		for err == nil && pos < bodyEnd && !isBeginKeywordAt(s, pos) {
			var semi int
			if semi, err = findEndSemicolon(s, pos); err == nil {
				pos, err = skipWhitespaceAndComments(s, semi+1)
			}
		}
		if err != nil {
			return Procedure{}, 0, err
		}
	}

	if beginAfter, ok := matchKeywordCI(s, pos, "begin"); ok {
		bodyStart := pos
		endIdx, nerr := findMatchingEnd(s, beginAfter)
		if nerr != nil {
			return Procedure{}, 0, nerr
		}
		afterEnd, aerr := skipWhitespaceAndComments(s, endIdx+3)
		if aerr != nil {
			return Procedure{}, 0, aerr
		}
		semi, serr := findEndSemicolon(s, afterEnd)
		if serr != nil {
			return Procedure{}, 0, serr
		}
		lineOfBegin := indexOfLineEnd(s, bodyStart)
		sigEnd := lineOfBegin
		if sigEnd > semi+1 {
			sigEnd = semi + 1
		}
		return Procedure{
			Kind:          kind,
			Name:          name,
			Access:        access,
			Attributes:    attrs,
			ReturnType:    returnType,
			SignatureText: s[keywordPos:sigEnd],
			BodyText:      s[bodyStart : semi+1],
			LineStart:     lineOf(s, lineStart),
			LineEnd:       lineOf(s, semi),
			rawStart:      indexOfLineStart(s, lineStart) - base,
			rawEnd:        indexOfLineEnd(s, semi) - base,
		}, semi + 1, nil
	}

	// No body: a bare declaration terminated by ';' (interface methods,
	// forward declarations).
	semi, serr := findEndSemicolon(s, pos)
	if serr != nil {
		return Procedure{}, 0, serr
	}
	return Procedure{
		Kind:          kind,
		Name:          name,
		Access:        access,
		Attributes:    attrs,
		ReturnType:    returnType,
		SignatureText: s[keywordPos : semi+1],
		BodyText:      "",
		LineStart:     lineOf(s, lineStart),
		LineEnd:       lineOf(s, semi),
		rawStart:      indexOfLineStart(s, lineStart) - base,
		rawEnd:        indexOfLineEnd(s, semi) - base,
	}, semi + 1, nil
}

// indexOfLineStart returns the offset of the first byte of the line
// containing i (one past the previous '\n', or 0).
func indexOfLineStart(s string, i int) int {
	j := i
	for j > 0 && s[j-1] != '\n' {
		j--
	}
	return j
}

func isBeginKeywordAt(s string, i int) bool {
	_, ok := matchKeywordCI(s, i, "begin")
	return ok
}

// indexOfLineEnd returns the index just past the end of the line
// containing i (the index of the '\n', or len(s) if i's line is the last).
func indexOfLineEnd(s string, i int) int {
	j := i
	for j < len(s) && s[j] != '\n' {
		j++
	}
	return j
}

// findMatchingEnd scans forward from just past a "begin" keyword, tracking
// begin/case-of/repeat nesting, and returns the index of the matching
// "end" keyword. Tokens inside strings, quoted identifiers and comments
// are ignored.
func findMatchingEnd(s string, pos int) (int, error) {
	type opener int
	const (
		openBegin opener = iota
		openRepeat
	)
	stack := []opener{openBegin}
	start := pos
	n := len(s)

	for pos < n {
		var werr error
		pos, werr = skipWhitespaceAndComments(s, pos)
		if werr != nil {
			return 0, werr
		}
		if pos >= n {
			break
		}
		if after, ok := matchKeywordCI(s, pos, "begin"); ok {
			stack = append(stack, openBegin)
			pos = after
			continue
		}
		if after, ok := matchKeywordCI(s, pos, "repeat"); ok {
			stack = append(stack, openRepeat)
			pos = after
			continue
		}
		if after, ok := matchKeywordCI(s, pos, "case"); ok {
			isCaseOf, afterOf, cerr := lookaheadCaseOf(s, after)
			if cerr != nil {
				return 0, cerr
			}
			if isCaseOf {
				stack = append(stack, openBegin)
				pos = afterOf
				continue
			}
			pos = after
			continue
		}
		if after, ok := matchKeywordCI(s, pos, "until"); ok {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			pos = after
			continue
		}
		if after, ok := matchKeywordCI(s, pos, "end"); ok {
			endIdx := pos
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return endIdx, nil
			}
			pos = after
			continue
		}
		next, err := advanceOne(s, pos)
		if err != nil {
			return 0, err
		}
		if next == pos {
			pos++
		} else {
			pos = next
		}
	}
	return 0, newParseError(ErrUnterminatedStatement, start, "no matching end")
}

// lookaheadCaseOf decides whether a "case" keyword just matched at
// position after is really a case-statement opener, i.e. is followed
// (before any begin/end/until/';') by an "of" keyword. It returns the
// index just past "of" when it is.
func lookaheadCaseOf(s string, after int) (bool, int, error) {
	pos := after
	n := len(s)
	for pos < n {
		var werr error
		pos, werr = skipWhitespaceAndComments(s, pos)
		if werr != nil {
			return false, after, werr
		}
		if pos >= n {
			return false, after, nil
		}
		if ofAfter, ok := matchKeywordCI(s, pos, "of"); ok {
			return true, ofAfter, nil
		}
		if s[pos] == ';' {
			return false, after, nil
		}
		for _, kw := range []string{"begin", "end", "until"} {
			if _, ok := matchKeywordCI(s, pos, kw); ok {
				return false, after, nil
			}
		}
		next, err := advanceOne(s, pos)
		if err != nil || next == pos {
			pos++
		} else {
			pos = next
		}
	}
	return false, after, nil
}

// lineOf returns the 1-based line number of byte offset i in s.
func lineOf(s string, i int) int {
	if i > len(s) {
		i = len(s)
	}
	return 1 + strings.Count(s[:i], "\n")
}
