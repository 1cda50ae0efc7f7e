package service

import (
	"database/sql"
	"errors"
	"go-social-api/logger"
	"go-social-api/model"
	"go-social-api/repository"
	"net/http"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers a wrong password or a disabled account.
	// Handlers surface it identically to ErrUnknownUser so that the
	// response does not reveal whether the username exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownUser means the subject resolves to no directory record.
	ErrUnknownUser = errors.New("user not found")
	// ErrUnauthorized is the refresh endpoint's failure: missing, invalid
	// or revoked refresh token.
	ErrUnauthorized = errors.New("unauthorized")
)

// AuthService implements the authentication use cases: login, logout,
// refresh, and the password-change reaction that kills every outstanding
// session of a user.
type AuthService struct {
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
	tokens    *TokenService
}

func NewAuthService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), err
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IsValidPassword enforces the password policy: 8-20 characters with at
// least one lower case letter, one upper case letter, one digit and one
// special character.
func (s *AuthService) IsValidPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 20 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range pwd {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return lower && upper && digit && special
}

// Login verifies the credentials against the user directory, mints an
// access/refresh token pair and records the refresh token as a live session
// owned by the user. Unknown username and wrong password surface as distinct
// sentinels internally but must be presented identically to the client.
func (s *AuthService) Login(username, password string) (*model.User, string, *http.Cookie, error) {
	log := logger.Log.WithField("username", username)

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("Login attempt for unknown username")
			return nil, "", nil, ErrUnknownUser
		}
		return nil, "", nil, err
	}

	if !user.Enabled() {
		log.Warn("Login attempt for disabled or deleted account")
		return nil, "", nil, ErrInvalidCredentials
	}

	if !s.CheckPasswordHash(password, user.Password) {
		log.Info("Login attempt with wrong password")
		return nil, "", nil, ErrInvalidCredentials
	}

	principal := model.NewPrincipal(user)

	accessToken, err := s.tokens.GenerateAccessToken(principal)
	if err != nil {
		return nil, "", nil, err
	}

	refreshToken, refreshCookie, err := s.tokens.GenerateRefreshToken(principal)
	if err != nil {
		return nil, "", nil, err
	}

	// One refresh record per login; the record, not the cookie, is what
	// revocation acts on later.
	record := &model.TokenRecord{
		TokenStr:  refreshToken,
		TokenType: model.TokenTypeCookie,
		UserID:    user.ID,
	}
	if err := s.tokenRepo.Save(record); err != nil {
		return nil, "", nil, err
	}

	log.WithField("user_id", user.ID).Info("User logged in")
	return user, accessToken, refreshCookie, nil
}

// Refresh mints a new access token from a valid refresh token. The access
// token accompanying the request is revoked opportunistically without a
// persisted write. The refresh token itself is not rotated; it is reused
// until its own expiry or an explicit logout.
func (s *AuthService) Refresh(accessToken, refreshToken string) (string, error) {
	if accessToken != "" {
		if err := s.tokens.Revoke(accessToken, false); err != nil {
			return "", err
		}
	}

	if refreshToken == "" {
		return "", ErrUnauthorized
	}

	username, err := s.tokens.ExtractUsername(refreshToken)
	if err != nil {
		logger.Log.WithError(err).Info("Refresh attempt with unparseable token")
		return "", ErrUnauthorized
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Log.WithField("username", username).Info("Refresh attempt for unknown subject")
			return "", ErrUnauthorized
		}
		return "", err
	}
	if !user.Enabled() {
		return "", ErrUnauthorized
	}

	// Rotation requires a live store record on top of the signed claims:
	// a revoked token is still cryptographically valid but unusable.
	record, err := s.tokenRepo.GetByTokenStr(refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUnauthorized
		}
		return "", err
	}
	if !record.Usable() {
		logger.Log.WithField("user_id", user.ID).Warn("Refresh attempt with revoked token")
		return "", ErrUnauthorized
	}

	principal := model.NewPrincipal(user)
	if !s.tokens.IsValid(refreshToken, principal) {
		return "", ErrUnauthorized
	}

	return s.tokens.GenerateAccessToken(principal)
}

// Logout marks the session behind the refresh token as revoked. Idempotent:
// an absent or already-revoked record is not an error, so calling logout
// twice is safe.
func (s *AuthService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokens.Revoke(refreshToken, true)
}

// OnPasswordChanged invalidates every outstanding session of the user. It
// must be called inside the same transaction as the password update, so
// that "password changed" and "sessions killed" commit together.
func (s *AuthService) OnPasswordChanged(tx *sql.Tx, userID int) error {
	logger.Log.WithField("user_id", userID).Info("Password changed, revoking all sessions")
	return s.tokens.RevokeAllForUserTx(tx, userID)
}
