package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeAnswer lowercases a recovery answer and trims surrounding whitespace.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// HashAnswer returns the hex SHA-256 of the normalized answer.
func HashAnswer(answer string) string {
	sum := sha256.Sum256([]byte(NormalizeAnswer(answer)))
	return hex.EncodeToString(sum[:])
}
