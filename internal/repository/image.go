package repository

import (
	"context"

	"quillport/internal/models"

	"gorm.io/gorm"
)

// PostImageRepository defines the interface for embedded image rows.
type PostImageRepository interface {
	BulkCreate(ctx context.Context, images []models.PostImage) error
	DeleteByPostID(ctx context.Context, postID uint) error
	ListByPostID(ctx context.Context, postID uint) ([]models.PostImage, error)
}

type postImageRepository struct {
	db *gorm.DB
}

// NewPostImageRepository creates a new post image repository
func NewPostImageRepository(db *gorm.DB) PostImageRepository {
	return &postImageRepository{db: db}
}

func (r *postImageRepository) BulkCreate(ctx context.Context, images []models.PostImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

func (r *postImageRepository) DeleteByPostID(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.PostImage{}).Error
}

func (r *postImageRepository) ListByPostID(ctx context.Context, postID uint) ([]models.PostImage, error) {
	var images []models.PostImage
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Find(&images).Error
	return images, err
}
