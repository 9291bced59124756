package repository

import (
	"context"
	"errors"

	"quillport/internal/models"

	"gorm.io/gorm"
)

// PostLikeRepository defines the interface for like rows.
type PostLikeRepository interface {
	// Find returns the like row for (postID, userID), or (nil, nil)
	// when no row exists.
	Find(ctx context.Context, postID, userID uint) (*models.PostLike, error)
	Create(ctx context.Context, like *models.PostLike) error
	Delete(ctx context.Context, postID, userID uint) error
}

type postLikeRepository struct {
	db *gorm.DB
}

// NewPostLikeRepository creates a new post like repository
func NewPostLikeRepository(db *gorm.DB) PostLikeRepository {
	return &postLikeRepository{db: db}
}

func (r *postLikeRepository) Find(ctx context.Context, postID, userID uint) (*models.PostLike, error) {
	var like models.PostLike
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *postLikeRepository) Create(ctx context.Context, like *models.PostLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *postLikeRepository) Delete(ctx context.Context, postID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{}).Error
}
