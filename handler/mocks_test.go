package handler

import (
	"context"
	"database/sql"
	"go-social-api/model"
	"go-social-api/service"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) GetByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetAll() ([]*model.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}
func (m *mockUserRepo) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) UpdateRole(userID int, newRole string) error {
	args := m.Called(userID, newRole)
	return args.Error(0)
}
func (m *mockUserRepo) UpdatePassword(tx *sql.Tx, userID int, passwordHash string) error {
	args := m.Called(tx, userID, passwordHash)
	return args.Error(0)
}
func (m *mockUserRepo) ExistsByUsername(username string) (bool, error) {
	args := m.Called(username)
	return args.Bool(0), args.Error(1)
}
func (m *mockUserRepo) ExistsByEmail(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}
func (m *mockUserRepo) Follow(followerID, followingID int) error {
	args := m.Called(followerID, followingID)
	return args.Error(0)
}
func (m *mockUserRepo) Unfollow(followerID, followingID int) error {
	args := m.Called(followerID, followingID)
	return args.Error(0)
}

type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) Save(token *model.TokenRecord) error {
	args := m.Called(token)
	return args.Error(0)
}
func (m *mockTokenRepo) GetByTokenStr(tokenStr string) (*model.TokenRecord, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenRecord), args.Error(1)
}
func (m *mockTokenRepo) GetValidByUserID(userID int) ([]*model.TokenRecord, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TokenRecord), args.Error(1)
}
func (m *mockTokenRepo) SaveAll(tokens []*model.TokenRecord) error {
	args := m.Called(tokens)
	return args.Error(0)
}
func (m *mockTokenRepo) GetValidByUserIDTx(tx *sql.Tx, userID int) ([]*model.TokenRecord, error) {
	args := m.Called(tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TokenRecord), args.Error(1)
}
func (m *mockTokenRepo) SaveAllTx(tx *sql.Tx, tokens []*model.TokenRecord) error {
	args := m.Called(tx, tokens)
	return args.Error(0)
}

func newTestTokenService(tokenRepo *mockTokenRepo) *service.TokenService {
	codec := service.NewTokenCodec([]byte("test-signing-key"))
	return service.NewTokenService(codec, tokenRepo, 15*time.Minute, 7*24*time.Hour)
}

func hashForTest(t *testing.T, password string) string {
	t.Helper()
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(bytes)
}

func withPrincipal(r *http.Request, principal *model.Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), PrincipalKey, principal))
}

func activeUser(t *testing.T, password string) *model.User {
	return &model.User{
		ID:       1,
		Username: "alice",
		Email:    "alice@example.com",
		Password: hashForTest(t, password),
		Role:     model.RoleUser,
	}
}
