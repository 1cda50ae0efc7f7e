package model

import "time"

type TokenType string

const TokenTypeCookie TokenType = "COOKIE"

// TokenRecord is the persisted row for an issued refresh token. Records are
// only ever flagged, never deleted, so "already revoked" stays
// distinguishable from "never issued".
type TokenRecord struct {
	ID        int       `json:"id"`
	TokenStr  string    `json:"-"` // The signed token is not exposed in JSON responses.
	TokenType TokenType `json:"token_type"`
	Revoked   bool      `json:"revoked"`
	Expired   bool      `json:"expired"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Usable reports whether the record may still back a refresh. The signed
// expiry inside the token itself is checked separately.
func (t *TokenRecord) Usable() bool {
	return !t.Revoked && !t.Expired
}
