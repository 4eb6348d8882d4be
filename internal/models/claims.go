package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload attached to authenticated requests.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
