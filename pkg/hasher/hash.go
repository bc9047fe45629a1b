package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash возвращает SHA-256 хэш входной строки в виде hex.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// ShortHash returns the first n hex characters of the SHA-256 hash.
// Used for dataset version keys where the full digest is too noisy for logs.
func ShortHash(s string, n int) string {
	h := Hash(s)
	if n <= 0 || n > len(h) {
		return h
	}
	return h[:n]
}

// SumBytes — та же функция, но на вход принимает []byte.
func SumBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
