package model

// Principal is the authenticated identity for the duration of one request.
// It is never persisted; it is rebuilt per request from a validated token's
// subject claim plus a fresh directory lookup, so disabling or deleting a
// user takes effect immediately even for tokens that have not expired yet.
type Principal struct {
	UserID   int
	Username string
	Role     Role
	Enabled  bool
}

// NewPrincipal derives a principal from a directory record.
func NewPrincipal(u *User) *Principal {
	return &Principal{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		Enabled:  u.Enabled(),
	}
}

func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
