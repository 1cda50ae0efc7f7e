package handler

import (
	"context"
	"database/sql"
	"errors"
	"go-social-api/common"
	"go-social-api/model"
	"go-social-api/repository"
	"go-social-api/service"
	"net/http"
)

type contextKey string

const PrincipalKey contextKey = "principal"

// PrincipalFromContext returns the authenticated principal of the request,
// or nil when the request is unauthenticated.
func PrincipalFromContext(ctx context.Context) *model.Principal {
	principal, _ := ctx.Value(PrincipalKey).(*model.Principal)
	return principal
}

// AuthMiddleware is the per-request authentication filter. It never rejects
// a request itself: with no token, a bad token, or a token whose subject is
// gone or disabled, the request simply proceeds unauthenticated and the
// route guards decide. The principal is rebuilt from a fresh directory
// lookup on every request, so account-status changes bite immediately.
type AuthMiddleware struct {
	userRepo repository.IUserRepository
	tokens   *service.TokenService
}

func NewAuthMiddleware(userRepo repository.IUserRepository, tokens *service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{userRepo: userRepo, tokens: tokens}
}

// Authenticate runs once per request and continues the chain exactly once
// regardless of outcome.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := service.ExtractBearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Defends against double processing; must not happen in the
		// stateless design.
		if PrincipalFromContext(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		username, err := m.tokens.ExtractUsername(token)
		if err != nil {
			// Malformed or tampered token: downgrade to unauthenticated,
			// never surface the parse failure to the client here.
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.userRepo.GetByUsername(username)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				common.NewAppError(http.StatusInternalServerError, "Could not resolve user", err).Send(w)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		principal := model.NewPrincipal(user)
		if !principal.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		if !m.tokens.IsValid(token, principal) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth guards a protected route: without a principal the request is
// rejected with 401.
func RequireAuth(next func(http.ResponseWriter, *http.Request) *common.AppError) func(http.ResponseWriter, *http.Request) *common.AppError {
	return func(w http.ResponseWriter, r *http.Request) *common.AppError {
		if PrincipalFromContext(r.Context()) == nil {
			return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
		}
		return next(w, r)
	}
}

// RequireAdmin guards an admin route with 403 for non-admin principals.
func RequireAdmin(next func(http.ResponseWriter, *http.Request) *common.AppError) func(http.ResponseWriter, *http.Request) *common.AppError {
	return func(w http.ResponseWriter, r *http.Request) *common.AppError {
		principal := PrincipalFromContext(r.Context())
		if principal == nil {
			return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
		}
		if !principal.IsAdmin() {
			return common.NewAppError(http.StatusForbidden, "Access denied. Admin privileges required.", nil)
		}
		return next(w, r)
	}
}
