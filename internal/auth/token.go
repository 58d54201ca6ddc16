package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Common errors
var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims carries the identity encoded in an access token. UserID scopes
// every persistence operation.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenVerifier validates and issues HMAC-signed access tokens. User
// management itself (signup, password, OAuth) lives outside this
// service; the verifier only needs the shared signing secret.
type TokenVerifier struct {
	secret           []byte
	accessExpiration time.Duration
}

// NewTokenVerifier creates a verifier for the given signing secret.
func NewTokenVerifier(secret string, accessExpiration time.Duration) *TokenVerifier {
	if accessExpiration == 0 {
		accessExpiration = 24 * time.Hour
	}
	return &TokenVerifier{
		secret:           []byte(secret),
		accessExpiration: accessExpiration,
	}
}

// ValidateAccessToken parses and verifies a bearer token, returning its
// claims. Any parse or signature failure maps to ErrInvalidToken.
func (v *TokenVerifier) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueAccessToken mints a token for the given identity. Used by tooling
// and tests; production tokens come from the identity provider that
// shares the secret.
func (v *TokenVerifier) IssueAccessToken(userID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.accessExpiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
