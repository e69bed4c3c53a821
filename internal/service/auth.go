package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer = "userhub@example.com"
	tokenTTL    = time.Hour
)

// Claim is what callers put into a token: the resolved user's identity.
type Claim struct {
	ID    string
	Email string
	Role  string
}

// TokenClaims is the serialized token body: the claim fields plus the
// registered sub/iss/exp set, typed via jwt.RegisteredClaims so they
// marshal in standard JWT claim shape (exp as unix seconds).
type TokenClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService verifies credentials and issues claim tokens. It is
// stateless; user resolution by email is the UserService's job.
type AuthService struct{}

func NewAuthService() *AuthService {
	return &AuthService{}
}

// VerifyPassword is a plaintext equality check. This is a documented
// weakness of the service, not an oversight: introducing hashing would
// change the external behavior, so it stays as-is.
func (s *AuthService) VerifyPassword(submitted, stored string) bool {
	return submitted == stored
}

// Sign serializes the claim plus sub/iss/exp as JSON and base64-encodes it.
// The result is reversible and carries no signature or integrity
// protection; Decode undoes it. Another documented weakness kept intact.
func (s *AuthService) Sign(c Claim) (string, error) {
	claims := TokenClaims{
		ID:    c.ID,
		Email: c.Email,
		Role:  c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.ID,
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	b, err := json.Marshal(claims)

	if err != nil {
		return "", fmt.Errorf("marshal token claims: %w", err)
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

// Decode reverses Sign. There is nothing to verify, so this is decoding,
// not validation.
func (s *AuthService) Decode(token string) (TokenClaims, error) {
	raw, err := base64.StdEncoding.DecodeString(token)

	if err != nil {
		return TokenClaims{}, fmt.Errorf("decode token: %w", err)
	}

	var claims TokenClaims

	if err := json.Unmarshal(raw, &claims); err != nil {
		return TokenClaims{}, fmt.Errorf("unmarshal token claims: %w", err)
	}

	return claims, nil
}
