package model

import "time"

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=20"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=20"`
	Email       string `json:"email" validate:"required,email,max=100"`
	Password    string `json:"password" validate:"required,min=8,max=20"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest defines the payload for partial profile updates.
// Nil fields are left untouched.
type UpdateUserRequest struct {
	DisplayName *string    `json:"display_name,omitempty" validate:"omitempty,min=2,max=20"`
	Bio         *string    `json:"bio,omitempty" validate:"omitempty,max=160"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
}

// UpdatePasswordRequest defines the payload for a password change.
// The full password policy is enforced in the service layer.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// UpdateUserRoleRequest defines the payload for updating a user's role.
type UpdateUserRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=admin user"`
}

// CreatePostRequest defines the payload for creating a post.
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=300"`
}

// UpdatePostRequest defines the payload for partial post updates.
type UpdatePostRequest struct {
	Content   *string `json:"content,omitempty" validate:"omitempty,min=1,max=300"`
	Published *bool   `json:"published,omitempty"`
}

// AuthResponse wraps the authenticated principal returned by login and
// refresh. The refresh endpoint returns a nil user; principal resolution is
// deferred to the next authenticated call.
type AuthResponse struct {
	User *UserResponse `json:"user"`
}
