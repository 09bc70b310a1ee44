// Package auth provides the credential and token primitives of the
// identity core: password hashing, JWT issuance/verification, and the
// bearer-token middleware.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned by Hash for plaintexts over 72 bytes,
// the bcrypt input limit. Callers treat it as invalid input, not a fault.
var ErrPasswordTooLong = errors.New("auth: password must be 72 bytes or fewer")

// defaultCost is the bcrypt work factor. Cost 12 takes roughly 250ms on a
// modern server, which is acceptable for login and expensive for attackers.
const defaultCost = 12

// Scheme selects the hashing algorithm a PasswordManager writes.
//
// SchemeBcrypt is the primary scheme: adaptive, salted, and the only one
// that should ever be chosen in production. SchemeSHA256 is a deliberate
// degradation, kept so that hashes written by an environment without a
// bcrypt implementation still verify. It is selected once at construction,
// never per call.
type Scheme int

const (
	SchemeBcrypt Scheme = iota
	SchemeSHA256
)

// PasswordManager hashes and verifies passwords.
//
// Verification is scheme-agnostic: the stored hash's format decides how it
// is checked, so a database containing a mix of bcrypt and fallback hashes
// keeps working regardless of which scheme the manager writes.
type PasswordManager struct {
	scheme Scheme
	cost   int
}

// NewPasswordManager returns a manager writing bcrypt hashes at the
// default cost.
func NewPasswordManager() *PasswordManager {
	return &PasswordManager{scheme: SchemeBcrypt, cost: defaultCost}
}

// NewPasswordManagerWithScheme returns a manager writing hashes with the
// given scheme. Used at startup when the environment cannot provide the
// primary scheme, and in tests exercising the fallback path.
func NewPasswordManagerWithScheme(scheme Scheme) *PasswordManager {
	return &PasswordManager{scheme: scheme, cost: defaultCost}
}

// NewPasswordManagerForTest returns a bcrypt manager with a reduced cost.
// Cost 4 is the bcrypt minimum; it keeps test suites fast. Do not use in
// production.
func NewPasswordManagerForTest(cost int) *PasswordManager {
	return &PasswordManager{scheme: SchemeBcrypt, cost: cost}
}

// Hash hashes the given plaintext password with the configured scheme.
//
// Under bcrypt the output embeds a random salt, so equal plaintexts
// produce different hashes. Under the fallback scheme the output is the
// unsalted SHA-256 hex digest and therefore deterministic.
//
// Returns an error for plaintexts over 72 bytes: bcrypt silently truncates
// beyond that, and we reject rather than surprise the caller.
func (p *PasswordManager) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", ErrPasswordTooLong
	}

	if p.scheme == SchemeSHA256 {
		sum := sha256.Sum256([]byte(plaintext))
		return hex.EncodeToString(sum[:]), nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches stored.
//
// The stored hash's format selects the scheme: a "$2" prefix means bcrypt,
// a 64-character hex string means the SHA-256 fallback. An unrecognized
// format is treated as a failed verification, not an error: library-level
// problems never cross this boundary.
func (p *PasswordManager) Verify(plaintext, stored string) bool {
	switch {
	case strings.HasPrefix(stored, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
	case isHexDigest(stored):
		sum := sha256.Sum256([]byte(plaintext))
		digest := []byte(hex.EncodeToString(sum[:]))
		return subtle.ConstantTimeCompare(digest, []byte(stored)) == 1
	default:
		return false
	}
}

// isHexDigest reports whether s looks like a SHA-256 hex digest.
func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
