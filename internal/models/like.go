package models

// PostLike records that a user liked a post. The (post_id, user_id)
// pair is unique; presence of a row means "liked".
type PostLike struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	PostID uint `gorm:"column:post_id;not null;uniqueIndex:idx_post_like_post_user" json:"post_id"`
	UserID uint `gorm:"column:user_id;not null;uniqueIndex:idx_post_like_post_user" json:"user_id"`
}

// TableName specifies the table name for GORM.
func (PostLike) TableName() string {
	return "post_likes"
}
