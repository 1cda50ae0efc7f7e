package service

import (
	"database/sql"
	"errors"
	"fmt"
	"go-social-api/logger"
	"go-social-api/model"
	"go-social-api/repository"
)

var (
	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")
	ErrWeakPassword  = errors.New("password does not meet the security policy")
	ErrSamePassword  = errors.New("new password cannot be the same as the old password")
	ErrSelfFollow    = errors.New("users cannot follow themselves")
	ErrInvalidRole   = errors.New("invalid role specified")
)

// UserService handles user-related business logic. It holds the raw DB
// handle so password changes can couple the hash update and the session
// invalidation in one transaction.
type UserService struct {
	db       *sql.DB
	userRepo repository.IUserRepository
	auth     *AuthService
}

func NewUserService(db *sql.DB, userRepo repository.IUserRepository, auth *AuthService) *UserService {
	return &UserService{db: db, userRepo: userRepo, auth: auth}
}

// Register creates a new user with a hashed password and the default role.
func (s *UserService) Register(req model.RegisterRequest) (*model.User, error) {
	if !s.auth.IsValidPassword(req.Password) {
		return nil, ErrWeakPassword
	}

	if taken, err := s.userRepo.ExistsByUsername(req.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.userRepo.ExistsByEmail(req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    hashed,
		Role:        model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

func (s *UserService) GetByID(id int) (*model.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetAllUsers() ([]*model.User, error) {
	return s.userRepo.GetAll()
}

// UpdateProfile applies a partial update to the user's profile fields.
func (s *UserService) UpdateProfile(userID int, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.BirthDate != nil {
		user.BirthDate = req.BirthDate
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserRole validates the role and calls the repository to update it.
func (s *UserService) UpdateUserRole(userID int, newRole model.Role) error {
	if newRole != model.RoleAdmin && newRole != model.RoleUser {
		return ErrInvalidRole
	}
	return s.userRepo.UpdateRole(userID, string(newRole))
}

// UpdatePassword validates the new password, writes the new hash and revokes
// every outstanding session of the user in a single transaction. A window
// where the old password's sessions stay alive after the change would defeat
// the point of changing it.
func (s *UserService) UpdatePassword(userID int, newPassword string) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}

	if !s.auth.IsValidPassword(newPassword) {
		return ErrWeakPassword
	}
	if s.auth.CheckPasswordHash(newPassword, user.Password) {
		return ErrSamePassword
	}

	hashed, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.userRepo.UpdatePassword(tx, userID, hashed); err != nil {
		return err
	}
	if err := s.auth.OnPasswordChanged(tx, userID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	logger.Log.WithField("user_id", userID).Info("Password updated and sessions revoked")
	return nil
}

// Disable soft-deletes the user's account.
func (s *UserService) Disable(userID int) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	user.MarkDeleted()
	user.Disable()
	return s.userRepo.Update(user)
}

// Follow records that follower follows the target user.
func (s *UserService) Follow(followerID, followingID int) error {
	if followerID == followingID {
		return ErrSelfFollow
	}
	if _, err := s.GetByID(followingID); err != nil {
		return err
	}
	return s.userRepo.Follow(followerID, followingID)
}

func (s *UserService) Unfollow(followerID, followingID int) error {
	if followerID == followingID {
		return ErrSelfFollow
	}
	return s.userRepo.Unfollow(followerID, followingID)
}
