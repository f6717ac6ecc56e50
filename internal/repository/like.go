// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"pulse/internal/models"

	"gorm.io/gorm"
)

// LikeAttribution pairs a like's target with the current author of that
// target. The join to posts/comments happens at query time, so attribution
// always reflects live ownership rather than a snapshot.
type LikeAttribution struct {
	TargetID uint `gorm:"column:target_id"`
	AuthorID uint `gorm:"column:author_id"`
}

// LikeRepository defines read-side queries over like events. The toggle
// write path lives in the like service, where it runs inside a single
// transaction together with the counter update.
type LikeRepository interface {
	IsLiked(ctx context.Context, userID uint, target models.TargetRef) (bool, error)
	CountForTarget(ctx context.Context, target models.TargetRef) (int64, error)
	ListSince(ctx context.Context, kind models.TargetKind, since time.Time) ([]LikeAttribution, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) IsLiked(ctx context.Context, userID uint, target models.TargetRef) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target.Kind, target.ID).
		Count(&count).Error
	return count > 0, err
}

func (r *likeRepository) CountForTarget(ctx context.Context, target models.TargetRef) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("target_type = ? AND target_id = ?", target.Kind, target.ID).
		Count(&count).Error
	return count, err
}

// ListSince returns (target_id, author_id) pairs for every like of the given
// kind created at or after the threshold. Targets that no longer exist drop
// out through the inner join, so likes on deleted content never contribute.
func (r *likeRepository) ListSince(ctx context.Context, kind models.TargetKind, since time.Time) ([]LikeAttribution, error) {
	table := "posts"
	if kind == models.TargetComment {
		table = "comments"
	}

	var rows []LikeAttribution
	err := r.db.WithContext(ctx).
		Table("likes").
		Select("likes.target_id AS target_id, t.user_id AS author_id").
		Joins("JOIN "+table+" t ON t.id = likes.target_id AND t.deleted_at IS NULL").
		Where("likes.target_type = ? AND likes.created_at >= ?", kind, since).
		Scan(&rows).Error
	return rows, err
}
