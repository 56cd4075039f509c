// Package token provides download-token generation utilities.
package token

import (
	"crypto/rand"
	"encoding/hex"
)

// DefaultLength is the default token length in random bytes.
const DefaultLength = 32

// EncodedLength is the hex-encoded length of a default token.
const EncodedLength = DefaultLength * 2

// Generate generates a cryptographically secure random download token.
//
// The returned token is lowercase hex, safe for use in URLs and as a
// storage key without further encoding.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength generates a token with the specified byte length.
func GenerateWithLength(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Valid reports whether s has the shape of a generated token:
// EncodedLength lowercase hex characters.
func Valid(s string) bool {
	if len(s) != EncodedLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
