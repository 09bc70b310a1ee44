package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// ErrInvalidToken is returned for every verification failure: bad
// signature, malformed structure, wrong algorithm, or expiry in the past.
// Callers only learn "valid" or "invalid"; the root cause is not exposed,
// so a token cannot be used as an oracle.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenManager creates and verifies signed, time-limited access tokens.
//
// Tokens are compact JWTs signed with an HMAC secret. The manager holds
// only static configuration (secret, algorithm, default expiry) set once
// at construction; creation and verification are pure and safe to call
// concurrently.
type TokenManager struct {
	secret        []byte
	method        jwt.SigningMethod
	defaultExpiry time.Duration
}

// NewTokenManager creates a TokenManager.
//
// The secret must be at least 16 characters (use 32+ bytes of random data
// in production). algorithm is an HMAC method name: HS256, HS384 or HS512.
// defaultExpiry is the lifetime applied when CreateAccessToken is called
// without an explicit one.
func NewTokenManager(secret, algorithm string, defaultExpiry time.Duration) (*TokenManager, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("auth: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("auth: signing algorithm %q is not an HMAC method", algorithm)
	}
	if defaultExpiry <= 0 {
		defaultExpiry = 15 * time.Minute
	}

	return &TokenManager{
		secret:        []byte(secret),
		method:        method,
		defaultExpiry: defaultExpiry,
	}, nil
}

// CreateAccessToken creates and signs a token asserting the given subject.
//
// The payload always carries "sub" (the subject), "iat" (issue time),
// "exp" (iat plus expiresIn, or the configured default when expiresIn is
// zero) and a unique "jti". Extra claims such as the username are merged
// in; the registered claims above win on collision, so a caller cannot
// smuggle in its own "sub" or "exp".
func (m *TokenManager) CreateAccessToken(subject string, expiresIn time.Duration, extraClaims map[string]any) (string, error) {
	if expiresIn <= 0 {
		expiresIn = m.defaultExpiry
	}
	now := time.Now()

	claims := jwt.MapClaims{}
	for k, v := range extraClaims {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(expiresIn).Unix()
	claims["jti"] = xid.New().String()

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// DecodeToken verifies a token string and returns its claims.
//
// Verification checks the signature, requires the configured algorithm
// (rejecting algorithm-confusion tokens), requires an expiry, and rejects
// expired tokens. Every failure comes back as ErrInvalidToken.
func (m *TokenManager) DecodeToken(tokenStr string) (map[string]any, error) {
	token, err := jwt.Parse(
		tokenStr,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
