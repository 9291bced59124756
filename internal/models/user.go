// Package models contains data structures for the application's domain models.
package models

// Role is the authorization level of a user account.
type Role string

const (
	// RoleUser is the default role for new accounts.
	RoleUser Role = "user"
	// RoleAdmin grants full moderation rights.
	RoleAdmin Role = "admin"
	// RoleModerator grants post moderation rights.
	RoleModerator Role = "moderator"
)

// Privileged reports whether the role may moderate other users' posts.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleModerator
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleModerator
}

// User represents an author account. The users table carries no
// created/updated timestamps; the legacy schema never recorded them.
type User struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"not null" json:"name"`
	Email         string `gorm:"unique;not null" json:"email"`
	HashedPw      string `gorm:"column:hashed_pw;not null" json:"-"`
	PostCount     int    `gorm:"not null;default:0" json:"post_count"`
	LikeCount     int    `gorm:"not null;default:0" json:"like_count"`
	Avatar        string `gorm:"type:text" json:"avatar"`
	FollowerCount int    `gorm:"not null;default:0" json:"follower_count"`
	Description   string `json:"description"`
	Role          Role   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	Posts []Post `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// Principal is the authenticated identity attached to a request by the
// auth middleware. Handlers and services receive it explicitly instead
// of reading ambient request state.
type Principal struct {
	ID   uint `json:"id"`
	Role Role `json:"role"`
}
