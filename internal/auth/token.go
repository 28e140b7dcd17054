package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tyrehub/catalog/internal/constants"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenSigner issues and validates HS256 admin tokens.
type TokenSigner struct {
	secretKey []byte
}

func NewTokenSigner(secretKey []byte) *TokenSigner {
	return &TokenSigner{secretKey: secretKey}
}

// Enabled reports whether a secret is configured. Without one every token is
// rejected.
func (s *TokenSigner) Enabled() bool {
	return len(s.secretKey) > 0
}

// Issue signs a token for subject with the given role.
func (s *TokenSigner) Issue(subject string, role constants.Role, ttl time.Duration) (string, error) {
	if !s.Enabled() {
		return "", errors.New("no signing secret configured")
	}

	now := time.Now()
	claims := AdminClaims{
		RoleValue: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses tokenString and checks signature and expiry.
func (s *TokenSigner) Validate(tokenString string) (*AdminClaims, error) {
	if !s.Enabled() {
		return nil, ErrInvalidToken
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
