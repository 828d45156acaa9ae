// Package verify re-derives the coverage property a correctly chunked
// object must satisfy and reports a unified diff when it doesn't hold,
// for use by the CLI's verify subcommand.
package verify

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/andrijantasevski-bs/bc-al-chunker/core"
)

// Result is the outcome of comparing an object's reconstructed line
// coverage against its source.
type Result struct {
	OK   bool
	Diff string
}

// RoundTrip checks that the set of source lines covered by chunks (every
// chunk except a whole_object one) equals the object's full line range
// minus lines that are blank or hold only a depth-<=1 close brace — the
// invariant described in spec §8 point 7. lines is the full file split on
// "\n", 0-indexed; obj.LineStart/LineEnd are 1-indexed.
func RoundTrip(lines []string, obj core.Object, chunks []core.Chunk) Result {
	if isWholeObjectOnly(chunks) {
		// The coverage property is about how a split object's non-whole
		// chunks cover its lines; an object small enough to stay whole
		// never enters that split and trivially satisfies it.
		return Result{OK: true}
	}

	expected := expectedLines(lines, obj)
	got := coveredLines(chunks)

	if linesEqual(expected, got) {
		return Result{OK: true}
	}

	expectedText := strings.Join(renderLineSet(lines, expected), "\n")
	gotText := strings.Join(renderLineSet(lines, got), "\n")

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(expectedText),
		B:        difflib.SplitLines(gotText),
		FromFile: "expected",
		ToFile:   "chunked",
		Context:  2,
	}
	text, _ := difflib.GetUnifiedDiffString(diff)
	return Result{OK: false, Diff: text}
}

// expectedLines returns the 1-indexed line numbers a faithful chunking
// must cover: every line of the object except blank lines and lines
// holding only a closing brace at section/object depth.
func expectedLines(lines []string, obj core.Object) map[int]bool {
	set := make(map[int]bool)
	for ln := obj.LineStart; ln <= obj.LineEnd; ln++ {
		if ln < 1 || ln > len(lines) {
			continue
		}
		trimmed := strings.TrimSpace(lines[ln-1])
		if trimmed == "" || trimmed == "}" {
			continue
		}
		set[ln] = true
	}
	return set
}

// coveredLines returns every line number spanned by a non-whole_object
// chunk's metadata range.
func coveredLines(chunks []core.Chunk) map[int]bool {
	set := make(map[int]bool)
	for _, c := range chunks {
		if c.Metadata.ChunkType == core.ChunkWholeObject {
			continue
		}
		for ln := c.Metadata.LineStart; ln <= c.Metadata.LineEnd; ln++ {
			set[ln] = true
		}
	}
	return set
}

func isWholeObjectOnly(chunks []core.Chunk) bool {
	if len(chunks) != 1 {
		return false
	}
	return chunks[0].Metadata.ChunkType == core.ChunkWholeObject
}

func linesEqual(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for ln := range a {
		if !b[ln] {
			return false
		}
	}
	return true
}

func renderLineSet(lines []string, set map[int]bool) []string {
	out := make([]string, 0, len(set))
	for ln := 1; ln <= len(lines); ln++ {
		if set[ln] {
			out = append(out, fmt.Sprintf("%d: %s", ln, lines[ln-1]))
		}
	}
	return out
}
