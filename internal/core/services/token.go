package services

import (
	"context"
	"fmt"
	"time"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/contracts"
	"github.com/MrNoFunsadface/FCommunityBE/internal/core/domain"
	"github.com/MrNoFunsadface/FCommunityBE/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService is the session authenticator glue: it signs and verifies the
// bearer credentials the outer layer presents on every request.
type TokenService struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secretKey: []byte(secret),
		issuer:    "fcommunity-backend",
		ttl:       24 * time.Hour,
	}
}

func (s *TokenService) Issue(user domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.Name,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.ttl).Unix(),
		"iss":   s.issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Verify parses and validates the JWT string and extracts the caller identity.
func (s *TokenService) Verify(ctx context.Context, tokenStr string) (contracts.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		// Ensure signing method is HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return contracts.Identity{}, apperr.Unauthenticated("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return contracts.Identity{}, apperr.Unauthenticated("invalid claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return contracts.Identity{}, apperr.Unauthenticated("subject not found in token")
	}
	id := contracts.Identity{ID: sub}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		id.Name = name
	}
	return id, nil
}
