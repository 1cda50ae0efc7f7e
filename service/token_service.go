package service

import (
	"database/sql"
	"errors"
	"go-social-api/logger"
	"go-social-api/model"
	"go-social-api/repository"
	"net/http"
	"strings"
	"time"
)

const (
	// AuthorizationHeader carries the access token as "Bearer <token>".
	AuthorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "

	// RefreshTokenCookie is the HTTP-only cookie carrying the refresh token.
	RefreshTokenCookie = "refresh_token"

	// AccessTokenHeader is the response header carrying a freshly minted
	// access token.
	AccessTokenHeader = "X-Access-Token"
)

// ExtractBearerToken pulls the access token out of the Authorization header.
// Any scheme other than an exact "Bearer " prefix counts as no token.
func ExtractBearerToken(r *http.Request) string {
	header := r.Header.Get(AuthorizationHeader)
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return header[len(bearerPrefix):]
}

// ExtractRefreshCookie pulls the refresh token out of the request cookies.
func ExtractRefreshCookie(r *http.Request) string {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// TokenService orchestrates the codec and the token store. It reasons only
// about a token's internal claims and store records; resolving the subject
// against the user directory is the caller's job.
type TokenService struct {
	codec      *TokenCodec
	tokenRepo  repository.ITokenRepository
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(codec *TokenCodec, tokenRepo repository.ITokenRepository, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		codec:      codec,
		tokenRepo:  tokenRepo,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken mints a short-lived stateless token for the principal.
// Access tokens are never persisted.
func (s *TokenService) GenerateAccessToken(principal *model.Principal) (string, error) {
	return s.codec.Issue(principal.Username, s.accessTTL, map[string]interface{}{
		"user_id": principal.UserID,
		"role":    string(principal.Role),
	})
}

// GenerateRefreshToken mints a long-lived token and wraps it in an HTTP-only,
// secure cookie. It does not persist the token; recording it as a live
// session is the caller's responsibility after user resolution.
func (s *TokenService) GenerateRefreshToken(principal *model.Principal) (string, *http.Cookie, error) {
	token, err := s.codec.Issue(principal.Username, s.refreshTTL, nil)
	if err != nil {
		return "", nil, err
	}

	cookie := &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
	}
	return token, cookie, nil
}

// ExpiredRefreshCookie returns a replacement cookie that immediately clears
// the refresh token on the client.
func (s *TokenService) ExpiredRefreshCookie() *http.Cookie {
	return &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
	}
}

// ExtractUsername returns the subject of a signed token, verifying the
// signature first.
func (s *TokenService) ExtractUsername(token string) (string, error) {
	claims, err := s.codec.ParseAndVerify(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsValid fails closed: it returns true only when the token parses with a
// valid signature, the subject matches the principal exactly, and the signed
// expiry has not elapsed. The token store is not consulted here; refresh
// validity during rotation additionally requires a live store record, which
// the authentication service checks.
func (s *TokenService) IsValid(token string, principal *model.Principal) bool {
	claims, err := s.codec.ParseAndVerify(token)
	if err != nil {
		return false
	}
	if claims.Subject != principal.Username {
		return false
	}
	return !s.codec.IsExpired(claims)
}

// Revoke flags the stored record for the given token as revoked and expired.
// When persist is false the mutation stays in memory and is discarded; this
// models "mark but don't commit", used when the access token accompanying a
// refresh is invalidated opportunistically. A missing record is a no-op.
func (s *TokenService) Revoke(tokenStr string, persist bool) error {
	record, err := s.tokenRepo.GetByTokenStr(tokenStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	record.Revoked = true
	record.Expired = true
	if persist {
		return s.tokenRepo.Save(record)
	}
	return nil
}

// RevokeAllForUser flags every currently-valid record of the user and
// persists the batch in one write transaction. Used by the password-change
// reaction.
//
// Known race: a login committing between the read and the write here mints a
// session the bulk update does not see. With a single shared token store the
// window is small and accepted.
func (s *TokenService) RevokeAllForUser(userID int) error {
	records, err := s.tokenRepo.GetValidByUserID(userID)
	if err != nil {
		return err
	}
	return s.revokeRecords(records, s.tokenRepo.SaveAll)
}

// RevokeAllForUserTx is RevokeAllForUser inside an existing transaction, so
// that session invalidation can commit together with the password update.
func (s *TokenService) RevokeAllForUserTx(tx *sql.Tx, userID int) error {
	records, err := s.tokenRepo.GetValidByUserIDTx(tx, userID)
	if err != nil {
		return err
	}
	return s.revokeRecords(records, func(recs []*model.TokenRecord) error {
		return s.tokenRepo.SaveAllTx(tx, recs)
	})
}

func (s *TokenService) revokeRecords(records []*model.TokenRecord, save func([]*model.TokenRecord) error) error {
	if len(records) == 0 {
		return nil
	}
	for _, record := range records {
		record.Revoked = true
		record.Expired = true
	}
	if err := save(records); err != nil {
		return err
	}
	logger.Log.WithField("count", len(records)).Info("Revoked all valid tokens for user")
	return nil
}
