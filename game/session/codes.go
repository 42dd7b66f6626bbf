package session

import (
	"strings"

	"lukechampine.com/frand"
)

// CodeLength is the length of generated room codes.
const CodeLength = 4

// Letters only, without I and O, so codes read aloud cleanly.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// maxCodeAttempts bounds the retries when a generated code is already taken.
const maxCodeAttempts = 64

// CodeGenerator returns a candidate room code.
type CodeGenerator func() string

// RandomCode generates a random room code.
func RandomCode() string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = codeAlphabet[frand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// NormalizeCode makes room code lookups case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
