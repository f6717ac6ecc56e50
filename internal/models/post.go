// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in the community feed.
//
// LikeCount is a persisted denormalized counter kept in sync with the number
// of Like rows targeting the post. It is only mutated through atomic
// increments inside the like-toggle transaction.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Content   string `gorm:"type:text;not null" json:"content"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	User      User   `gorm:"foreignKey:UserID" json:"user"`
	LikeCount int    `gorm:"not null;default:0" json:"like_count"`
	// CommentCount is not persisted; computed at query time
	CommentCount int `gorm:"->" json:"comment_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Comments is the nested comment tree for detail responses, populated by
	// the tree builder. Never read from or written to the database directly.
	Comments []*Comment `gorm:"-" json:"comments,omitempty"`
}
