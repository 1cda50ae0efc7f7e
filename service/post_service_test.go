package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"go-social-api/model"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPostRepo struct{ mock.Mock }

func (m *mockPostRepo) Create(post *model.Post) error {
	args := m.Called(post)
	return args.Error(0)
}
func (m *mockPostRepo) GetByID(id int) (*model.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}
func (m *mockPostRepo) GetByUserID(userID, limit, offset int) ([]*model.Post, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}
func (m *mockPostRepo) Update(post *model.Post) error {
	args := m.Called(post)
	return args.Error(0)
}
func (m *mockPostRepo) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}
func (m *mockPostRepo) Like(userID, postID int) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}
func (m *mockPostRepo) Unlike(userID, postID int) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

// fakeCache is an in-memory stand-in for the Redis client.
type fakeCache struct {
	store map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if value, ok := c.store[key]; ok {
		return redis.NewStringResult(value, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		c.store[key] = string(v)
	case string:
		c.store[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var deleted int64
	for _, key := range keys {
		if _, ok := c.store[key]; ok {
			delete(c.store, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

func TestPostService_ListPostsByUser_CacheAside(t *testing.T) {
	repo := new(mockPostRepo)
	cache := newFakeCache()
	posts := []*model.Post{{ID: 1, UserID: 1, Content: "hello"}}
	repo.On("GetByUserID", 1, postPageSize, 0).Return(posts, nil).Once()

	svc := NewPostService(repo, cache)

	// First call misses the cache and hits the repository.
	got, err := svc.ListPostsByUser(1, 0)
	assert.NoError(t, err)
	assert.Len(t, got, 1)

	// Second call is served from the cache.
	got, err = svc.ListPostsByUser(1, 0)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Content)
	repo.AssertNumberOfCalls(t, "GetByUserID", 1)
}

func TestPostService_ListPostsByUser_PageClamping(t *testing.T) {
	repo := new(mockPostRepo)
	repo.On("GetByUserID", 1, postPageSize, 0).Return([]*model.Post{}, nil).Once()
	repo.On("GetByUserID", 1, postPageSize, maxPostPage*postPageSize).Return([]*model.Post{}, nil).Once()

	svc := NewPostService(repo, newFakeCache())

	_, err := svc.ListPostsByUser(1, -5)
	assert.NoError(t, err)
	_, err = svc.ListPostsByUser(1, maxPostPage+100)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPostService_CreatePost_InvalidatesCache(t *testing.T) {
	repo := new(mockPostRepo)
	cache := newFakeCache()
	stale, _ := json.Marshal([]*model.Post{})
	cache.store[fmt.Sprintf(postCacheKeyTmpl, 1, 0)] = string(stale)

	repo.On("Create", mock.MatchedBy(func(p *model.Post) bool {
		return p.UserID == 1 && p.Content == "hello"
	})).Return(nil).Once()

	svc := NewPostService(repo, cache)
	post, err := svc.CreatePost(1, model.CreatePostRequest{Content: "hello"})

	assert.NoError(t, err)
	assert.Equal(t, 1, post.UserID)
	assert.Empty(t, cache.store)
}

func TestPostService_GetPostByID_NotFound(t *testing.T) {
	repo := new(mockPostRepo)
	repo.On("GetByID", 99).Return(nil, sql.ErrNoRows).Once()

	svc := NewPostService(repo, newFakeCache())
	_, err := svc.GetPostByID(99)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_UpdatePost_Ownership(t *testing.T) {
	owner := &model.Principal{UserID: 1, Username: "alice", Role: model.RoleUser}
	stranger := &model.Principal{UserID: 2, Username: "bob", Role: model.RoleUser}
	admin := &model.Principal{UserID: 3, Username: "root", Role: model.RoleAdmin}
	newContent := "edited"

	t.Run("owner can update", func(t *testing.T) {
		repo := new(mockPostRepo)
		repo.On("GetByID", 7).Return(&model.Post{ID: 7, UserID: 1, Content: "old"}, nil).Once()
		repo.On("Update", mock.MatchedBy(func(p *model.Post) bool { return p.Content == "edited" })).Return(nil).Once()

		svc := NewPostService(repo, newFakeCache())
		post, err := svc.UpdatePost(owner, 7, model.UpdatePostRequest{Content: &newContent})
		assert.NoError(t, err)
		assert.Equal(t, "edited", post.Content)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		repo := new(mockPostRepo)
		repo.On("GetByID", 7).Return(&model.Post{ID: 7, UserID: 1}, nil).Once()

		svc := NewPostService(repo, newFakeCache())
		_, err := svc.UpdatePost(stranger, 7, model.UpdatePostRequest{Content: &newContent})
		assert.ErrorIs(t, err, ErrPostPermissionDenied)
		repo.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("admin can update any post", func(t *testing.T) {
		repo := new(mockPostRepo)
		repo.On("GetByID", 7).Return(&model.Post{ID: 7, UserID: 1}, nil).Once()
		repo.On("Update", mock.Anything).Return(nil).Once()

		svc := NewPostService(repo, newFakeCache())
		_, err := svc.UpdatePost(admin, 7, model.UpdatePostRequest{Content: &newContent})
		assert.NoError(t, err)
	})
}

func TestPostService_DeletePost_Ownership(t *testing.T) {
	stranger := &model.Principal{UserID: 2, Username: "bob", Role: model.RoleUser}

	repo := new(mockPostRepo)
	repo.On("GetByID", 7).Return(&model.Post{ID: 7, UserID: 1}, nil).Once()

	svc := NewPostService(repo, newFakeCache())
	assert.ErrorIs(t, svc.DeletePost(stranger, 7), ErrPostPermissionDenied)
	repo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestPostService_LikePost(t *testing.T) {
	repo := new(mockPostRepo)
	repo.On("GetByID", 7).Return(&model.Post{ID: 7, UserID: 1}, nil).Once()
	repo.On("Like", 2, 7).Return(nil).Once()

	svc := NewPostService(repo, newFakeCache())
	assert.NoError(t, svc.LikePost(2, 7))
	repo.AssertExpectations(t)
}
