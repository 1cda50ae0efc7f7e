package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"go-social-api/logger"
	"go-social-api/model"
	"go-social-api/repository"
	"time"
)

const (
	postPageSize     = 10
	maxPostPage      = 30
	postCacheTTL     = 10 * time.Minute
	postCacheKeyTmpl = "posts:%d:%d" // posts:<userID>:<page>
)

var (
	ErrPostNotFound         = errors.New("post not found")
	ErrPostPermissionDenied = errors.New("you can only modify your own posts")
)

// PostService handles post business logic with a cache-aside strategy on
// per-user listings.
type PostService struct {
	repo  repository.IPostRepository
	cache ICacheClient
}

func NewPostService(repo repository.IPostRepository, cache ICacheClient) *PostService {
	return &PostService{repo: repo, cache: cache}
}

// CreatePost creates a post owned by the principal and invalidates the
// owner's listing cache.
func (s *PostService) CreatePost(userID int, req model.CreatePostRequest) (*model.Post, error) {
	post := &model.Post{
		UserID:  userID,
		Content: req.Content,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}

	s.invalidateUserCache(userID)
	return post, nil
}

func (s *PostService) GetPostByID(id int) (*model.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// ListPostsByUser lists one page of a user's posts, newest first. The page
// number is clamped; pages beyond maxPostPage are treated as the last
// allowed page.
func (s *PostService) ListPostsByUser(userID, page int) ([]*model.Post, error) {
	if page < 0 {
		page = 0
	}
	if page > maxPostPage {
		page = maxPostPage
	}

	cacheKey := fmt.Sprintf(postCacheKeyTmpl, userID, page)
	ctx := context.Background()

	if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
		var posts []*model.Post
		if err := json.Unmarshal([]byte(cached), &posts); err == nil {
			return posts, nil
		}
	}

	posts, err := s.repo.GetByUserID(userID, postPageSize, page*postPageSize)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(posts); err == nil {
		s.cache.Set(ctx, cacheKey, data, postCacheTTL)
	}

	return posts, nil
}

// UpdatePost applies a partial update. Only the owner or an admin may
// modify a post.
func (s *PostService) UpdatePost(principal *model.Principal, postID int, req model.UpdatePostRequest) (*model.Post, error) {
	post, err := s.GetPostByID(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != principal.UserID && !principal.IsAdmin() {
		return nil, ErrPostPermissionDenied
	}

	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := s.repo.Update(post); err != nil {
		return nil, err
	}

	s.invalidateUserCache(post.UserID)
	return post, nil
}

// DeletePost removes a post. Only the owner or an admin may delete it.
func (s *PostService) DeletePost(principal *model.Principal, postID int) error {
	post, err := s.GetPostByID(postID)
	if err != nil {
		return err
	}
	if post.UserID != principal.UserID && !principal.IsAdmin() {
		return ErrPostPermissionDenied
	}

	if err := s.repo.Delete(postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}

	s.invalidateUserCache(post.UserID)
	return nil
}

// LikePost records a like for the principal. Liking twice is a no-op.
func (s *PostService) LikePost(userID, postID int) error {
	post, err := s.GetPostByID(postID)
	if err != nil {
		return err
	}
	if err := s.repo.Like(userID, postID); err != nil {
		return err
	}
	s.invalidateUserCache(post.UserID)
	return nil
}

func (s *PostService) UnlikePost(userID, postID int) error {
	post, err := s.GetPostByID(postID)
	if err != nil {
		return err
	}
	if err := s.repo.Unlike(userID, postID); err != nil {
		return err
	}
	s.invalidateUserCache(post.UserID)
	return nil
}

// invalidateUserCache drops every cached page of a user's listing.
func (s *PostService) invalidateUserCache(userID int) {
	ctx := context.Background()
	keys := make([]string, 0, maxPostPage+1)
	for page := 0; page <= maxPostPage; page++ {
		keys = append(keys, fmt.Sprintf(postCacheKeyTmpl, userID, page))
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Warn("Failed to invalidate post cache")
	}
}
