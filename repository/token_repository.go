package repository

import (
	"database/sql"
	"go-social-api/logger"
	"go-social-api/model"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token database operations.
// Lookup by token string is an exact, case-sensitive, full-string match.
type ITokenRepository interface {
	Save(token *model.TokenRecord) error
	GetByTokenStr(tokenStr string) (*model.TokenRecord, error)
	GetValidByUserID(userID int) ([]*model.TokenRecord, error)
	SaveAll(tokens []*model.TokenRecord) error
	GetValidByUserIDTx(tx *sql.Tx, userID int) ([]*model.TokenRecord, error)
	SaveAllTx(tx *sql.Tx, tokens []*model.TokenRecord) error
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Save inserts a new token record, or updates the flags of an existing one.
// Records are never deleted, only flagged.
func (r *TokenRepository) Save(token *model.TokenRecord) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"token_type": token.TokenType,
	})

	if token.ID == 0 {
		log.Info("Executing query to create a new token record")
		query := `INSERT INTO tokens (token_str, token_type, revoked, expired, user_id) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
		err := r.DB.QueryRow(query, token.TokenStr, token.TokenType, token.Revoked, token.Expired, token.UserID).Scan(&token.ID, &token.CreatedAt)
		if err != nil {
			log.WithError(err).Error("Failed to execute create token query")
			return err
		}
		return nil
	}

	query := `UPDATE tokens SET revoked = $1, expired = $2 WHERE id = $3`
	if _, err := r.DB.Exec(query, token.Revoked, token.Expired, token.ID); err != nil {
		log.WithError(err).Error("Failed to execute update token query")
		return err
	}
	return nil
}

// GetByTokenStr retrieves a token record by its exact signed string.
func (r *TokenRepository) GetByTokenStr(tokenStr string) (*model.TokenRecord, error) {
	token := &model.TokenRecord{}
	query := `SELECT id, token_str, token_type, revoked, expired, user_id, created_at FROM tokens WHERE token_str = $1`
	err := r.DB.QueryRow(query, tokenStr).Scan(&token.ID, &token.TokenStr, &token.TokenType, &token.Revoked, &token.Expired, &token.UserID, &token.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get token by string query")
		}
		return nil, err // Return sql.ErrNoRows if not found
	}
	return token, nil
}

// GetValidByUserID retrieves every token record of a user that is neither
// revoked nor expired.
func (r *TokenRepository) GetValidByUserID(userID int) ([]*model.TokenRecord, error) {
	return r.getValidByUserID(r.DB, userID)
}

// GetValidByUserIDTx is GetValidByUserID inside an existing transaction.
func (r *TokenRepository) GetValidByUserIDTx(tx *sql.Tx, userID int) ([]*model.TokenRecord, error) {
	return r.getValidByUserID(tx, userID)
}

type queryer interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func (r *TokenRepository) getValidByUserID(q queryer, userID int) ([]*model.TokenRecord, error) {
	log := logger.Log.WithField("user_id", userID)

	query := `SELECT id, token_str, token_type, revoked, expired, user_id, created_at FROM tokens WHERE user_id = $1 AND revoked = FALSE AND expired = FALSE`
	rows, err := q.Query(query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for valid tokens by user ID")
		return nil, err
	}
	defer rows.Close()

	var tokens []*model.TokenRecord
	for rows.Next() {
		var t model.TokenRecord
		if err := rows.Scan(&t.ID, &t.TokenStr, &t.TokenType, &t.Revoked, &t.Expired, &t.UserID, &t.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan token row")
			return nil, err
		}
		tokens = append(tokens, &t)
	}
	return tokens, rows.Err()
}

// SaveAll updates the flags of a batch of records in a single transaction.
// Used by the global-invalidation path.
func (r *TokenRepository) SaveAll(tokens []*model.TokenRecord) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.SaveAllTx(tx, tokens); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveAllTx updates the flags of a batch of records inside an existing
// transaction.
func (r *TokenRepository) SaveAllTx(tx *sql.Tx, tokens []*model.TokenRecord) error {
	query := `UPDATE tokens SET revoked = $1, expired = $2 WHERE id = $3`
	for _, token := range tokens {
		if _, err := tx.Exec(query, token.Revoked, token.Expired, token.ID); err != nil {
			logger.Log.WithError(err).WithField("token_id", token.ID).Error("Failed to execute bulk token update")
			return err
		}
	}
	return nil
}
