// Package auth implements the credential hasher and the token issuer:
// PBKDF2 password digests and HS256-signed access/refresh tokens plus
// opaque invite tokens.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// pbkdf2Iterations is the PBKDF2 iteration count. Deliberately slow.
	pbkdf2Iterations = 100_000

	// saltLength is the random salt size in bytes (128 bits).
	saltLength = 16

	// keyLength is the derived key size in bytes (256 bits).
	keyLength = 32
)

// HashPassword derives a salted PBKDF2-SHA256 digest from the password.
// The result is encoded as hex(salt):hex(key). Two calls with the same
// password yield different digests because the salt is fresh each time.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keyLength, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword re-derives the key from the stored salt and compares it to
// the stored key in constant time. Digests produced by the legacy bcrypt
// scheme (prefix "$2") always verify false: those users must reset their
// password. Malformed digests also verify false, never error.
func VerifyPassword(password, digest string) bool {
	if strings.HasPrefix(digest, "$2") {
		return false
	}

	saltHex, keyHex, ok := strings.Cut(digest, ":")
	if !ok || saltHex == "" || keyHex == "" {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	stored, err := hex.DecodeString(keyHex)
	if err != nil {
		return false
	}

	derived := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, len(stored), sha256.New)
	return subtle.ConstantTimeCompare(derived, stored) == 1
}

// ValidatePassword checks password strength: minimum 8 characters with at
// least one uppercase letter, one lowercase letter, and one digit. Returns
// false with a human-readable reason on failure.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}

	if !hasUpper {
		return false, "Password must contain at least one uppercase letter"
	}
	if !hasLower {
		return false, "Password must contain at least one lowercase letter"
	}
	if !hasDigit {
		return false, "Password must contain at least one number"
	}
	return true, ""
}
