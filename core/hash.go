package core

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const bomRune = "\xef\xbb\xbf"

// stripBOM removes a single leading UTF-8 byte-order mark, if present.
func stripBOM(text string) string {
	return strings.TrimPrefix(text, bomRune)
}

// HashSource computes the 16-lowercase-hex-character BLAKE2b-8-byte
// fingerprint of text after stripping a leading BOM (spec §4.4). Two
// inputs differing only by a leading BOM hash equal.
func HashSource(text string) string {
	normalized := stripBOM(text)
	h, err := blake2b.New(8, nil)
	if err != nil {
		// blake2b.New only fails for an invalid key or out-of-range
		// size; both are compile-time-fixed constants here.
		panic(err)
	}
	h.Write([]byte(normalized))
	return hex.EncodeToString(h.Sum(nil))
}
