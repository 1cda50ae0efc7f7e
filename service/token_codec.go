package service

import (
	"errors"
	"fmt"
	"go-social-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSignature means the token's signature does not match the
	// process key; none of its claims can be trusted.
	ErrInvalidSignature = errors.New("token signature is invalid")
	// ErrMalformedToken means the string is not a parseable signed token.
	ErrMalformedToken = errors.New("token is malformed")
)

// TokenCodec signs and parses bearer tokens. It performs no I/O and is safe
// for concurrent use: the key is immutable after construction.
type TokenCodec struct {
	key []byte
}

func NewTokenCodec(key []byte) *TokenCodec {
	return &TokenCodec{key: key}
}

// Issue builds and signs a token for the given subject. IssuedAt is now and
// ExpiresAt is now+ttl. Extra claims are embedded alongside the registered
// ones.
func (c *TokenCodec) Issue(subject string, ttl time.Duration, extraClaims map[string]interface{}) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub": subject,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(ttl)),
	}
	for k, v := range extraClaims {
		claims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// ParseAndVerify checks the signature and returns the claims. The signature
// is verified before any claim is looked at; a token signed with a different
// key is indistinguishable from garbage. Expiry is deliberately not enforced
// here so that callers can inspect the claims of an expired token; use
// IsExpired.
//
// Strict base64 decoding makes every issued token have exactly one accepted
// spelling: without it, altering the unused padding bits of the final
// signature character yields a different string that still verifies.
func (c *TokenCodec) ParseAndVerify(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return c.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// IsExpired reports whether the signed expiry has elapsed. A token without
// an expiry claim is treated as expired.
func (c *TokenCodec) IsExpired(claims *model.AppClaims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Before(time.Now())
}
