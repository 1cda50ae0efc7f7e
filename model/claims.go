package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the signed payload of both access and refresh tokens.
// Subject carries the username; UserID and Role are advisory extras and are
// never trusted for authorization without a fresh directory lookup.
type AppClaims struct {
	UserID int    `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
