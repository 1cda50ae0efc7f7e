package handler

import (
	"encoding/json"
	"errors"
	"go-social-api/common"
	"go-social-api/model"
	"go-social-api/service"
	"net/http"
	"strconv"
)

type PostHandler struct {
	service *service.PostService
}

func NewPostHandler(service *service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// CreatePost godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        post  body  model.CreatePostRequest  true  "New post"
// @Success      201  {object}  model.Post
// @Security     BearerAuth
// @Router       /api/posts [post]
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) *common.AppError {
	principal := PrincipalFromContext(r.Context())

	var req model.CreatePostRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	post, err := h.service.CreatePost(principal.UserID, req)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not create post", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
	return nil
}

// GetPost returns a single post by ID.
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) *common.AppError {
	postID, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	post, err := h.service.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return common.NewAppError(http.StatusNotFound, "Post not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not load post", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
	return nil
}

// ListUserPosts returns one page of a user's posts, newest first.
func (h *PostHandler) ListUserPosts(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	posts, err := h.service.ListPostsByUser(userID, page)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not list posts", err)
	}
	if posts == nil {
		posts = []*model.Post{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(posts)
	return nil
}

// UpdatePost patches a post's content or published flag.
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) *common.AppError {
	principal := PrincipalFromContext(r.Context())

	postID, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	var req model.UpdatePostRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	post, err := h.service.UpdatePost(principal, postID, req)
	if err != nil {
		return postServiceError(err, "Could not update post")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
	return nil
}

// DeletePost removes a post.
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) *common.AppError {
	principal := PrincipalFromContext(r.Context())

	postID, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	if err := h.service.DeletePost(principal, postID); err != nil {
		return postServiceError(err, "Could not delete post")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// LikePost records a like by the authenticated user.
func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) *common.AppError {
	principal := PrincipalFromContext(r.Context())

	postID, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	if err := h.service.LikePost(principal.UserID, postID); err != nil {
		return postServiceError(err, "Could not like post")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// UnlikePost removes the authenticated user's like.
func (h *PostHandler) UnlikePost(w http.ResponseWriter, r *http.Request) *common.AppError {
	principal := PrincipalFromContext(r.Context())

	postID, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	if err := h.service.UnlikePost(principal.UserID, postID); err != nil {
		return postServiceError(err, "Could not unlike post")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func postServiceError(err error, fallback string) *common.AppError {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		return common.NewAppError(http.StatusNotFound, "Post not found", nil)
	case errors.Is(err, service.ErrPostPermissionDenied):
		return common.NewAppError(http.StatusForbidden, err.Error(), nil)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}
