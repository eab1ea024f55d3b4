// Package fingerprint identifies cards by their normalized content so the
// same question and answer are not imported twice.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Normalize lowercases and trims each part and normalizes line endings. Each
// part is prefixed with its byte length, so no split of the same text
// between question and answer yields the same string.
func Normalize(question, answer string) string {
	q, a := clean(question), clean(answer)
	return fmt.Sprintf("%d:%s%d:%s", len(q), q, len(a), a)
}

func clean(part string) string {
	p := strings.ReplaceAll(part, "\r\n", "\n")
	return strings.ToLower(strings.TrimSpace(p))
}

// Of returns the hex SHA-256 of the normalized question and answer.
func Of(question, answer string) string {
	sum := sha256.Sum256([]byte(Normalize(question, answer)))
	return hex.EncodeToString(sum[:])
}
