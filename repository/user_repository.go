package repository

import (
	"database/sql"
	"go-social-api/logger"
	"go-social-api/model"
)

// IUserRepository defines the contract for the user directory.
type IUserRepository interface {
	Create(user *model.User) error
	GetByID(id int) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	GetAll() ([]*model.User, error)
	Update(user *model.User) error
	UpdateRole(userID int, newRole string) error
	UpdatePassword(tx *sql.Tx, userID int, passwordHash string) error
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	Follow(followerID, followingID int) error
	Unfollow(followerID, followingID int) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, username, display_name, email, password, role, bio, birth_date, disabled, deleted, email_verified, disabled_at, created_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.DisplayName, &user.Email, &user.Password,
		&user.Role, &user.Bio, &user.BirthDate, &user.Disabled, &user.Deleted,
		&user.EmailVerified, &user.DisabledAt, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Create(user *model.User) error {
	query := `INSERT INTO users (username, display_name, email, password, role) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	return r.DB.QueryRow(query, user.Username, user.DisplayName, user.Email, user.Password, user.Role).Scan(&user.ID, &user.CreatedAt)
}

func (r *UserRepository) GetByID(id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRow(query, id))
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.DB.QueryRow(query, username))
}

func (r *UserRepository) GetAll() ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for all users")
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.DisplayName, &user.Email, &user.Password,
			&user.Role, &user.Bio, &user.BirthDate, &user.Disabled, &user.Deleted,
			&user.EmailVerified, &user.DisabledAt, &user.CreatedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update persists the mutable profile and status fields of a user.
// The password hash has its own transactional path, see UpdatePassword.
func (r *UserRepository) Update(user *model.User) error {
	query := `UPDATE users SET display_name = $1, email = $2, bio = $3, birth_date = $4, disabled = $5, deleted = $6, email_verified = $7, disabled_at = $8 WHERE id = $9`
	_, err := r.DB.Exec(query, user.DisplayName, user.Email, user.Bio, user.BirthDate,
		user.Disabled, user.Deleted, user.EmailVerified, user.DisabledAt, user.ID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Failed to execute update user query")
	}
	return err
}

func (r *UserRepository) UpdateRole(userID int, newRole string) error {
	query := `UPDATE users SET role = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, newRole, userID)
	return err
}

// UpdatePassword writes the new hash inside an existing transaction, so that
// the caller can couple it with session invalidation atomically.
func (r *UserRepository) UpdatePassword(tx *sql.Tx, userID int, passwordHash string) error {
	query := `UPDATE users SET password = $1 WHERE id = $2`
	res, err := tx.Exec(query, passwordHash, userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to execute update password query")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// Follow records that followerID follows followingID. Re-following is a no-op.
func (r *UserRepository) Follow(followerID, followingID int) error {
	query := `INSERT INTO user_following (follower_id, following_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := r.DB.Exec(query, followerID, followingID)
	return err
}

func (r *UserRepository) Unfollow(followerID, followingID int) error {
	query := `DELETE FROM user_following WHERE follower_id = $1 AND following_id = $2`
	_, err := r.DB.Exec(query, followerID, followingID)
	return err
}
