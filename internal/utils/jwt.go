package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPayload is the customer identity embedded in every signature. The
// verified flag is a snapshot from signing time, so a token issued before
// OTP verification keeps reporting verified=false until reissued.
type TokenPayload struct {
	ID       uuid.UUID
	Email    string
	Verified bool
}

type signatureClaims struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
	Verified   bool   `json:"verified"`
	jwt.RegisteredClaims
}

// GenerateSignature creates a signed JWT carrying the customer payload.
func GenerateSignature(secret string, payload TokenPayload, ttl time.Duration) (string, error) {
	claims := &signatureClaims{
		CustomerID: payload.ID.String(),
		Email:      payload.Email,
		Verified:   payload.Verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSignature validates the token and returns the embedded payload.
func ParseSignature(secret, tokenString string) (TokenPayload, error) {
	token, err := jwt.ParseWithClaims(tokenString, &signatureClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return TokenPayload{}, err
	}

	claims, ok := token.Claims.(*signatureClaims)
	if !ok || !token.Valid {
		return TokenPayload{}, jwt.ErrTokenInvalidClaims
	}

	id, err := uuid.Parse(claims.CustomerID)
	if err != nil {
		return TokenPayload{}, err
	}

	return TokenPayload{ID: id, Email: claims.Email, Verified: claims.Verified}, nil
}
