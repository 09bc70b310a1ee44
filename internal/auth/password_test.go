package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

// Cost 4 is the bcrypt minimum; it keeps these tests fast.
const testCost = 4

func TestHashAndVerify_Bcrypt(t *testing.T) {
	pm := NewPasswordManagerForTest(testCost)

	hash, err := pm.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("Hash() = %q, want bcrypt format", hash)
	}

	if !pm.Verify("correct horse battery staple", hash) {
		t.Error("Verify() = false for the correct password")
	}
	if pm.Verify("wrong password", hash) {
		t.Error("Verify() = true for a wrong password")
	}
}

func TestHash_BcryptIsSalted(t *testing.T) {
	pm := NewPasswordManagerForTest(testCost)

	h1, err := pm.Hash("same input")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := pm.Hash("same input")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if h1 == h2 {
		t.Error("two bcrypt hashes of the same input are identical; salt missing")
	}
}

func TestHashAndVerify_FallbackScheme(t *testing.T) {
	pm := NewPasswordManagerWithScheme(SchemeSHA256)

	hash, err := pm.Hash("secret-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// The fallback is a deterministic unsalted digest.
	want := sha256.Sum256([]byte("secret-password"))
	if hash != hex.EncodeToString(want[:]) {
		t.Fatalf("Hash() = %q, want sha256 hex digest", hash)
	}

	if !pm.Verify("secret-password", hash) {
		t.Error("Verify() = false for the correct password")
	}
	if pm.Verify("other-password", hash) {
		t.Error("Verify() = true for a wrong password")
	}
}

func TestVerify_DetectsSchemeFromStoredFormat(t *testing.T) {
	// A bcrypt-writing manager must still verify hashes written by the
	// fallback scheme, and the other way round.
	bcryptPM := NewPasswordManagerForTest(testCost)
	fallbackPM := NewPasswordManagerWithScheme(SchemeSHA256)

	fallbackHash, err := fallbackPM.Hash("pw-one")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !bcryptPM.Verify("pw-one", fallbackHash) {
		t.Error("bcrypt manager did not verify a fallback hash")
	}

	bcryptHash, err := bcryptPM.Hash("pw-two")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !fallbackPM.Verify("pw-two", bcryptHash) {
		t.Error("fallback manager did not verify a bcrypt hash")
	}
}

func TestVerify_UnrecognizedFormatFails(t *testing.T) {
	pm := NewPasswordManagerForTest(testCost)

	// A plaintext leak or corrupted column must never verify, and must not
	// panic or error either.
	for _, stored := range []string{"", "plaintext", "not-a-hash-at-all", "zz" + strings.Repeat("0", 62)} {
		if pm.Verify("anything", stored) {
			t.Errorf("Verify(_, %q) = true, want false", stored)
		}
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	pm := NewPasswordManagerForTest(testCost)

	_, err := pm.Hash(strings.Repeat("x", 73))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("Hash() error = %v, want ErrPasswordTooLong", err)
	}

	if _, err := pm.Hash(strings.Repeat("x", 72)); err != nil {
		t.Errorf("Hash() error = %v for a 72-byte password, want nil", err)
	}
}
