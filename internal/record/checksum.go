package record

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ChecksumLen is the length of the integrity code in hex characters.
const ChecksumLen = 8

// Checksum computes the 8-character uppercase integrity code for a line:
// hex of the first four bytes of SHA-256 over the line without the chkS
// field.
//
// This is NOT a cryptographic protection. The truncated digest exists only
// to detect accidental corruption of stored lines; it authenticates
// nothing.
func Checksum(line string) string {
	sum := sha256.Sum256([]byte(line))
	return strings.ToUpper(hex.EncodeToString(sum[:ChecksumLen/2]))
}
