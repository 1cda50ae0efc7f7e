package handler

import (
	"encoding/json"
	"errors"
	"go-social-api/common"
	"go-social-api/logger"
	"go-social-api/model"
	"go-social-api/service"
	"net/http"
	"strconv"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register godoc
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user  body  model.RegisterRequest  true  "New user"
// @Success      201  {object}  model.UserResponse
// @Failure      409  {object}  common.AppError
// @Router       /register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.service.Register(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
			return common.NewAppError(http.StatusConflict, err.Error(), nil)
		case errors.Is(err, service.ErrWeakPassword):
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Error creating user", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(model.NewUserResponse(user))

	return nil
}

// GetMe returns the profile of the authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) *common.AppError {
	principal := PrincipalFromContext(r.Context())

	user, err := h.service.GetByID(principal.UserID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not load user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.NewUserResponse(user))
	return nil
}

// UpdateMe applies a partial profile update to the authenticated user.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) *common.AppError {
	principal := PrincipalFromContext(r.Context())

	var req model.UpdateUserRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.service.UpdateProfile(principal.UserID, req)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not update user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.NewUserResponse(user))
	return nil
}

// UpdatePassword changes the authenticated user's password and kills every
// outstanding session.
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	principal := PrincipalFromContext(r.Context())

	var req model.UpdatePasswordRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.service.UpdatePassword(principal.UserID, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrSamePassword):
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not update password", err)
		}
	}

	logger.Log.WithField("user_id", principal.UserID).Info("Password change request completed")
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// DisableMe soft-deletes the authenticated user's account.
func (h *UserHandler) DisableMe(w http.ResponseWriter, r *http.Request) *common.AppError {
	principal := PrincipalFromContext(r.Context())

	if err := h.service.Disable(principal.UserID); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not disable account", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Follow makes the authenticated user follow the user in the path.
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) *common.AppError {
	principal := PrincipalFromContext(r.Context())

	targetID, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	if err := h.service.Follow(principal.UserID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow):
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrUnknownUser):
			return common.NewAppError(http.StatusNotFound, "User not found", nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not follow user", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Unfollow removes a follow edge.
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) *common.AppError {
	principal := PrincipalFromContext(r.Context())

	targetID, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	if err := h.service.Unfollow(principal.UserID, targetID); err != nil {
		if errors.Is(err, service.ErrSelfFollow) {
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not unfollow user", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GetAllUsers lists every user. Admin only.
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.service.GetAllUsers()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not list users", err)
	}

	responses := make([]*model.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, model.NewUserResponse(user))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
	return nil
}

// UpdateUserRole changes a user's role. Admin only.
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	targetID, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	var req model.UpdateUserRoleRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.service.UpdateUserRole(targetID, req.Role); err != nil {
		if errors.Is(err, service.ErrInvalidRole) {
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not update role", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// pathID parses a numeric path parameter.
func pathID(r *http.Request, name string) (int, *common.AppError) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid "+name+" in path", err)
	}
	return id, nil
}
