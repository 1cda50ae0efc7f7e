package repository

import (
	"database/sql"
	"go-social-api/logger"
	"go-social-api/model"
)

// IPostRepository defines the contract for post persistence.
type IPostRepository interface {
	Create(post *model.Post) error
	GetByID(id int) (*model.Post, error)
	GetByUserID(userID, limit, offset int) ([]*model.Post, error)
	Update(post *model.Post) error
	Delete(id int) error
	Like(userID, postID int) error
	Unlike(userID, postID int) error
}

type PostRepository struct {
	DB *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) Create(post *model.Post) error {
	query := `INSERT INTO posts (user_id, content, published) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query, post.UserID, post.Content, post.Published).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", post.UserID).Error("Failed to execute create post query")
	}
	return err
}

const postSelect = `SELECT p.id, p.user_id, p.content, p.published, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count
	FROM posts p`

func (r *PostRepository) GetByID(id int) (*model.Post, error) {
	post := &model.Post{}
	err := r.DB.QueryRow(postSelect+` WHERE p.id = $1`, id).Scan(
		&post.ID, &post.UserID, &post.Content, &post.Published, &post.CreatedAt, &post.UpdatedAt, &post.LikeCount)
	if err != nil {
		return nil, err // Return sql.ErrNoRows if not found
	}
	return post, nil
}

func (r *PostRepository) GetByUserID(userID, limit, offset int) ([]*model.Post, error) {
	log := logger.Log.WithField("user_id", userID)

	rows, err := r.DB.Query(postSelect+` WHERE p.user_id = $1 ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for posts by user ID")
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post := &model.Post{}
		if err := rows.Scan(&post.ID, &post.UserID, &post.Content, &post.Published,
			&post.CreatedAt, &post.UpdatedAt, &post.LikeCount); err != nil {
			log.WithError(err).Error("Failed to scan post row")
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Update(post *model.Post) error {
	query := `UPDATE posts SET content = $1, published = $2, updated_at = now() WHERE id = $3 RETURNING updated_at`
	return r.DB.QueryRow(query, post.Content, post.Published, post.ID).Scan(&post.UpdatedAt)
}

func (r *PostRepository) Delete(id int) error {
	res, err := r.DB.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Like records a like. Liking twice is a no-op.
func (r *PostRepository) Like(userID, postID int) error {
	query := `INSERT INTO post_likes (user_id, post_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := r.DB.Exec(query, userID, postID)
	return err
}

func (r *PostRepository) Unlike(userID, postID int) error {
	query := `DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2`
	_, err := r.DB.Exec(query, userID, postID)
	return err
}
