// Package sharetoken issues the public identifiers used in share links.
package sharetoken

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// entropyBytes is the amount of randomness behind each token (256 bits).
const entropyBytes = 32

// Length is the encoded length of a token: 32 bytes in unpadded base64url.
var Length = base64.RawURLEncoding.EncodedLen(entropyBytes)

// Generate returns a fresh URL-safe token read from the system CSPRNG.
func Generate() (string, error) {
	b := make([]byte, entropyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Valid reports whether token has the shape Generate produces.
func Valid(token string) bool {
	if len(token) != Length {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
