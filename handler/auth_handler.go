package handler

import (
	"encoding/json"
	"errors"
	"go-social-api/common"
	"go-social-api/model"
	"go-social-api/service"
	"net/http"
)

type AuthHandler struct {
	authService  *service.AuthService
	tokenService *service.TokenService
}

func NewAuthHandler(authService *service.AuthService, tokenService *service.TokenService) *AuthHandler {
	return &AuthHandler{authService: authService, tokenService: tokenService}
}

// Login godoc
// @Summary      Authenticate with username and password
// @Description  Issues an access token in the X-Access-Token header and a refresh token cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  model.LoginRequest  true  "Credentials"
// @Success      200  {object}  model.AuthResponse
// @Failure      401  {object}  common.AppError
// @Router       /auth/public/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, accessToken, refreshCookie, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		// Unknown username and wrong password must be indistinguishable to
		// the client.
		if errors.Is(err, service.ErrUnknownUser) || errors.Is(err, service.ErrInvalidCredentials) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid username or password", err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not process login", err)
	}

	http.SetCookie(w, refreshCookie)
	w.Header().Set(service.AccessTokenHeader, accessToken)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(model.AuthResponse{User: model.NewUserResponse(user)})

	return nil
}

// Logout godoc
// @Summary      Log out of the current session
// @Description  Revokes the refresh token and clears its cookie. Safe to call repeatedly.
// @Tags         auth
// @Produce      json
// @Success      200  {string}  string
// @Router       /auth/public/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	refreshToken := service.ExtractRefreshCookie(r)

	if err := h.authService.Logout(refreshToken); err != nil {
		// Storage failure: no safe degraded mode for authentication state.
		return common.NewAppError(http.StatusInternalServerError, "Could not process logout", err)
	}

	http.SetCookie(w, h.tokenService.ExpiredRefreshCookie())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode("Logged out successfully")

	return nil
}

// Refresh godoc
// @Summary      Mint a new access token from the refresh cookie
// @Description  Returns the new token in the X-Access-Token header; the body carries a null user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.AuthResponse
// @Failure      401  "missing or invalid refresh token"
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	accessToken := service.ExtractBearerToken(r)
	refreshToken := service.ExtractRefreshCookie(r)

	newAccessToken, err := h.authService.Refresh(accessToken, refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			// 401 with no informative body.
			w.WriteHeader(http.StatusUnauthorized)
			return nil
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh token", err)
	}

	w.Header().Set(service.AccessTokenHeader, newAccessToken)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(model.AuthResponse{User: nil})

	return nil
}
