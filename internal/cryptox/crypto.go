// Package cryptox derives password verifiers for local accounts.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the per-user salt in bytes.
const SaltSize = 16

// DeriveMasterKey stretches password with Argon2id (1 pass, 64 MiB, 4 lanes)
// into a 32-byte key.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a master key into the value that is stored with the
// user record. The key itself is never persisted.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// CheckPassword derives the verifier for password and salt and compares it
// with want in constant time.
func CheckPassword(password, salt, want []byte) bool {
	key := DeriveMasterKey(password, salt)
	got := MakeVerifier(key)
	return subtle.ConstantTimeCompare(got, want) == 1
}
