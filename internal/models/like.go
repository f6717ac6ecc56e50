package models

import (
	"fmt"
	"time"
)

// TargetKind distinguishes what a like points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Valid reports whether the kind is one of the known target kinds.
func (k TargetKind) Valid() bool {
	return k == TargetPost || k == TargetComment
}

// TargetRef identifies a likeable entity. Using an explicit tagged reference
// keeps target resolution a plain table lookup rather than a generic
// content-type relation.
type TargetRef struct {
	Kind TargetKind
	ID   uint
}

func (t TargetRef) String() string {
	return fmt.Sprintf("%s/%d", t.Kind, t.ID)
}

// Like records that a user liked a post or a comment.
// The triple (user_id, target_type, target_id) is unique: a user can like a
// given target at most once. That uniqueness constraint is the only
// concurrency-control anchor for the toggle operation, so likes are hard
// facts with no soft delete.
type Like struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_like_user_target" json:"user_id"`
	TargetType TargetKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_like_user_target;index:idx_like_target_created" json:"target_type"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_like_user_target" json:"target_id"`
	CreatedAt  time.Time  `gorm:"index:idx_like_target_created" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Target returns the reference this like points at.
func (l *Like) Target() TargetRef {
	return TargetRef{Kind: l.TargetType, ID: l.TargetID}
}
