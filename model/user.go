package model

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the directory record for an account. Account status is kept as
// named boolean columns; a user whose Disabled or Deleted flag is set must
// never act as an authenticated principal, even with a valid token.
type User struct {
	ID            int        `json:"id"`
	Username      string     `json:"username"`
	DisplayName   string     `json:"display_name"`
	Email         string     `json:"email"`
	Password      string     `json:"-"`
	Role          Role       `json:"role"`
	Bio           string     `json:"bio"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Disabled      bool       `json:"-"`
	Deleted       bool       `json:"-"`
	EmailVerified bool       `json:"email_verified"`
	DisabledAt    *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Enabled reports whether the account may authenticate.
func (u *User) Enabled() bool {
	return !u.Disabled && !u.Deleted
}

func (u *User) Disable() {
	now := time.Now()
	u.Disabled = true
	u.DisabledAt = &now
}

func (u *User) Enable() {
	u.Disabled = false
	u.DisabledAt = nil
}

func (u *User) MarkDeleted() {
	u.Deleted = true
}

func (u *User) Restore() {
	u.Deleted = false
}

// UserResponse is the client-facing shape of a user. The password hash and
// status flags stay server-side.
type UserResponse struct {
	ID          int        `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	Bio         string     `json:"bio"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        u.Role,
		Bio:         u.Bio,
		BirthDate:   u.BirthDate,
		CreatedAt:   u.CreatedAt,
	}
}
