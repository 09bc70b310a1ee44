package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-at-least-16-chars!!"

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(testSecret, "HS256", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return tm
}

func TestNewTokenManager_Validation(t *testing.T) {
	if _, err := NewTokenManager("short", "HS256", time.Minute); err == nil {
		t.Error("NewTokenManager accepted a too-short secret")
	}
	if _, err := NewTokenManager(testSecret, "HS9000", time.Minute); err == nil {
		t.Error("NewTokenManager accepted an unknown algorithm")
	}
	if _, err := NewTokenManager(testSecret, "RS256", time.Minute); err == nil {
		t.Error("NewTokenManager accepted a non-HMAC algorithm")
	}
	if _, err := NewTokenManager(testSecret, "HS384", time.Minute); err != nil {
		t.Errorf("NewTokenManager rejected HS384: %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := newTestTokenManager(t)

	token, err := tm.CreateAccessToken("user-123", 0, map[string]any{"username": "alice"})
	if err != nil {
		t.Fatalf("CreateAccessToken() error = %v", err)
	}

	claims, err := tm.DecodeToken(token)
	if err != nil {
		t.Fatalf("DecodeToken() error = %v", err)
	}

	if sub, _ := claims["sub"].(string); sub != "user-123" {
		t.Errorf("sub = %v, want user-123", claims["sub"])
	}
	if username, _ := claims["username"].(string); username != "alice" {
		t.Errorf("username claim = %v, want alice", claims["username"])
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Error("jti claim is missing")
	}

	// exp must be iat + default expiry (15 minutes here).
	iat, ok := claims["iat"].(float64)
	if !ok {
		t.Fatal("iat claim is missing")
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatal("exp claim is missing")
	}
	if got := exp - iat; got != (15 * time.Minute).Seconds() {
		t.Errorf("exp-iat = %v seconds, want %v", got, (15 * time.Minute).Seconds())
	}
}

func TestCreateAccessToken_ExtraClaimsCannotOverrideRegistered(t *testing.T) {
	tm := newTestTokenManager(t)

	token, err := tm.CreateAccessToken("real-subject", 0, map[string]any{
		"sub": "forged-subject",
		"exp": 1,
	})
	if err != nil {
		t.Fatalf("CreateAccessToken() error = %v", err)
	}

	claims, err := tm.DecodeToken(token)
	if err != nil {
		t.Fatalf("DecodeToken() error = %v", err)
	}
	if sub, _ := claims["sub"].(string); sub != "real-subject" {
		t.Errorf("sub = %v, want real-subject", claims["sub"])
	}
}

func TestDecodeToken_RejectsExpired(t *testing.T) {
	tm := newTestTokenManager(t)

	// Sign an already-expired token with the same secret and algorithm.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-123",
		"iat": time.Now().Add(-time.Hour).Unix(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	tokenStr, err := expired.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}

	if _, err := tm.DecodeToken(tokenStr); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("DecodeToken(expired) error = %v, want ErrInvalidToken", err)
	}
}

func TestDecodeToken_RejectsWrongSecret(t *testing.T) {
	tm := newTestTokenManager(t)

	other, err := NewTokenManager("another-secret-16-chars-long!!", "HS256", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	token, err := other.CreateAccessToken("user-123", 0, nil)
	if err != nil {
		t.Fatalf("CreateAccessToken() error = %v", err)
	}

	if _, err := tm.DecodeToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("DecodeToken(foreign token) error = %v, want ErrInvalidToken", err)
	}
}

func TestDecodeToken_RejectsMissingExpiry(t *testing.T) {
	tm := newTestTokenManager(t)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-123",
		"iat": time.Now().Unix(),
	})
	tokenStr, err := noExp.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}

	if _, err := tm.DecodeToken(tokenStr); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("DecodeToken(no exp) error = %v, want ErrInvalidToken", err)
	}
}

func TestDecodeToken_RejectsMalformed(t *testing.T) {
	tm := newTestTokenManager(t)

	for _, tokenStr := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0..."} {
		if _, err := tm.DecodeToken(tokenStr); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("DecodeToken(%q) error = %v, want ErrInvalidToken", tokenStr, err)
		}
	}
}

func TestCreateAccessToken_ExplicitExpiry(t *testing.T) {
	tm := newTestTokenManager(t)

	token, err := tm.CreateAccessToken("user-123", time.Hour, nil)
	if err != nil {
		t.Fatalf("CreateAccessToken() error = %v", err)
	}
	claims, err := tm.DecodeToken(token)
	if err != nil {
		t.Fatalf("DecodeToken() error = %v", err)
	}

	iat := claims["iat"].(float64)
	exp := claims["exp"].(float64)
	if got := exp - iat; got != time.Hour.Seconds() {
		t.Errorf("exp-iat = %v seconds, want %v", got, time.Hour.Seconds())
	}
}
