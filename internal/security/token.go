package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/containerd/errdefs"
	"github.com/golang-jwt/jwt/v5"

	"librental-backend/internal/domain"
)

var (
	ErrInvalidToken = fmt.Errorf("invalid token: %w", errdefs.ErrUnauthenticated)
	ErrExpiredToken = fmt.Errorf("token has expired: %w", errdefs.ErrUnauthenticated)
)

// DefaultTokenLifetimeDays is the bearer-token lifetime handed to mobile
// clients from issuance.
const DefaultTokenLifetimeDays = 30

// UserClaims defines the standard claims for our application
type UserClaims struct {
	UserID int32       `json:"user_id"`
	Role   domain.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	Generate(userID int32, role domain.Role) (string, error)
	Validate(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret   []byte
	lifetime time.Duration
}

func NewTokenManager(secret string, lifetimeDays int) TokenManager {
	if lifetimeDays <= 0 {
		lifetimeDays = DefaultTokenLifetimeDays
	}
	return &tokenManager{
		secret:   []byte(secret),
		lifetime: time.Duration(lifetimeDays) * 24 * time.Hour,
	}
}

func (m *tokenManager) Generate(userID int32, role domain.Role) (string, error) {
	claims := UserClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(userID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.lifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "librental-auth",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) Validate(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		// Populate UserID from Subject if it was lost (though we set both)
		if claims.UserID == 0 && claims.Subject != "" {
			uid, _ := strconv.Atoi(claims.Subject)
			claims.UserID = int32(uid)
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
