package models

import "time"

// Post represents a blog entry. Content is stored as raw HTML, including
// any <img> tags; the URLs of those tags are mirrored into post_images
// rows whenever the content changes.
type Post struct {
	PostID   uint   `gorm:"column:post_id;primaryKey" json:"post_id"`
	Title    string `json:"title"`
	AuthorID uint   `gorm:"column:author_id;not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	IsQnA    bool   `gorm:"column:is_qna" json:"is_qna"`
	Content  string `gorm:"type:text;not null" json:"content"`
	// Avatar holds the stored path of the uploaded cover image. Responses
	// carry it qualified with the public base URL.
	Avatar string `json:"avatar"`
	// LikeCount is a stored counter kept in step with post_likes rows via
	// explicit increment/decrement calls. It is intentionally not a
	// computed COUNT(*); see the like toggle in the post service.
	LikeCount int       `gorm:"column:like_count;not null;default:0" json:"like_count"`
	CreatedAt time.Time `json:"createdAt"`

	Images []PostImage `gorm:"foreignKey:PostID;references:PostID" json:"images,omitempty"`

	// TimeAgo is not persisted; formatted per-request from CreatedAt.
	TimeAgo string `gorm:"-" json:"time_ago,omitempty"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// PostImage mirrors one <img src="..."> occurrence in a post's content.
// Rows are replaced wholesale (delete all, reinsert) when the content
// changes; duplicate URLs within one post are kept as separate rows.
type PostImage struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"column:post_id;not null;index" json:"post_id"`
	ImageURL string `gorm:"column:image_url;type:text;not null" json:"image_url"`
}

// TableName specifies the table name for GORM.
func (PostImage) TableName() string {
	return "post_images"
}
