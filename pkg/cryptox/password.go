package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Configuration for PBKDF2-HMAC-SHA256 hashing. The derivation is
// deliberately slow so that offline guessing stays expensive even with the
// salt known.
const (
	iterations = 10_000 // PBKDF2 iteration count
	keyLength  = 32     // Length of the derived key in bytes (256 bits)
	saltLength = 16     // Length of the salt in bytes
)

// ErrEmptyInput is returned by HashPassword when the password or salt is
// empty. These are programming errors, not recoverable runtime conditions.
var ErrEmptyInput = errors.New("cryptox: empty password or salt")

// GenerateSalt returns a fresh 16-byte salt from a cryptographically secure
// random source.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// HashPassword derives a base64-encoded PBKDF2-HMAC-SHA256 key from the
// password and salt. The result is a pure function of its inputs: identical
// (password, salt) pairs always produce identical output, which is what
// makes later verification possible without retaining the plaintext.
func HashPassword(password string, salt []byte) (string, error) {
	if password == "" || len(salt) == 0 {
		return "", ErrEmptyInput
	}
	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)
	return base64.RawStdEncoding.EncodeToString(key), nil
}

// VerifyPassword re-derives the hash from candidate and storedSalt and
// compares it against storedHash in constant time. Any malformed input
// (empty candidate, hash, or salt) reports false exactly like a wrong
// password, so the two cases are indistinguishable to the caller.
func VerifyPassword(candidate, storedHash string, storedSalt []byte) bool {
	if candidate == "" || storedHash == "" || len(storedSalt) == 0 {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(storedHash)
	if err != nil {
		return false
	}
	computed := pbkdf2.Key([]byte(candidate), storedSalt, iterations, keyLength, sha256.New)
	return subtle.ConstantTimeCompare(computed, expected) == 1
}
