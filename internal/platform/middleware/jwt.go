package middleware

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTValidator validates HMAC-signed tokens issued by the identity layer.
type JWTValidator struct {
	signingKey []byte
}

func NewJWTValidator(signingKey string) *JWTValidator {
	return &JWTValidator{signingKey: []byte(signingKey)}
}

type actorTokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ValidateToken parses and verifies the token, returning the actor claims.
func (v *JWTValidator) ValidateToken(tokenString string) (*ActorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &actorTokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(*actorTokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("token missing role claim")
	}
	return &ActorClaims{Subject: claims.Subject, Role: claims.Role}, nil
}
