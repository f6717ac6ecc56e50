// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Comments form a forest per post:
// a nil ParentID marks a root comment, anything else is a reply to another
// comment on the same post.
type Comment struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Content   string   `gorm:"type:text;not null" json:"content"`
	UserID    uint     `gorm:"not null" json:"user_id"`
	PostID    uint     `gorm:"not null;index:idx_comments_post_created" json:"post_id"`
	ParentID  *uint    `gorm:"index" json:"parent_id"`
	User      User     `gorm:"foreignKey:UserID" json:"user"`
	Post      Post     `gorm:"foreignKey:PostID" json:"-"`
	Parent    *Comment `gorm:"foreignKey:ParentID" json:"-"`
	LikeCount int      `gorm:"not null;default:0" json:"like_count"`
	// Liked indicates whether the current requesting user liked this comment (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `gorm:"index:idx_comments_post_created" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Replies holds the direct children in chronological order. Populated by
	// the tree builder only; never persisted.
	Replies []*Comment `gorm:"-" json:"replies"`
}
