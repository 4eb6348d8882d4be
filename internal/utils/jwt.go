package utils

import (
	"errors"
	"time"

	"ledgerpay/internal/config"
	"ledgerpay/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken issues a signed access token for the given user and
// returns it together with its lifetime in seconds. The signing secret
// comes from JWT_SECRET; the lifetime from JWT_EXPIRES_IN.
func GenerateToken(user *models.User) (string, int64, error) {
	secret := config.GetEnv("JWT_SECRET", "")
	if secret == "" {
		return "", 0, errors.New("JWT_SECRET not configured")
	}

	ttl := config.GetDurationEnv("JWT_EXPIRES_IN", 15*time.Minute)
	now := time.Now()

	claims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "ledgerpay-api",
			Subject:   user.ID,
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}
	return token, int64(ttl.Seconds()), nil
}

// ParseToken validates a token string and returns its claims.
func ParseToken(tokenString string) (*models.UserClaims, error) {
	secret := config.GetEnv("JWT_SECRET", "")
	if secret == "" {
		return nil, errors.New("JWT_SECRET not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
