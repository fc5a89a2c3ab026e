// Package token generates random confirmation keys.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// keyLength is the hex-encoded length of a generated key. It fits the
// 64-character column on confirm_email_tokens.
const keyLength = 64

// Generate returns a hex-encoded random key from crypto/rand.
func Generate() (string, error) {
	buf := make([]byte, keyLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
