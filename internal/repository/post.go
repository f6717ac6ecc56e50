// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"pulse/internal/cache"
	"pulse/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidateFeed(ctx)
	}
	return err
}

// GetByID serves the post detail through the cache. The cached projection is
// viewer-neutral (liked is always false in it) so every viewer shares one
// entry; the per-viewer liked bit is filled from the live likes table after.
func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.applyPostDetails(r.db.WithContext(ctx), 0).
			Preload("User").
			First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}

	if currentUserID != 0 {
		var liked bool
		err := r.db.WithContext(ctx).Model(&models.Like{}).
			Select("count(*) > 0").
			Where("target_type = ? AND target_id = ? AND user_id = ?", models.TargetPost, id, currentUserID).
			Scan(&liked).Error
		if err != nil {
			return nil, err
		}
		post.Liked = liked
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// feedCacheLimit matches the feed handler's default page size; only that
// exact anonymous first page is shared widely enough to be worth caching.
const feedCacheLimit = 20

func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	load := func() error {
		return r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	}

	if currentUserID == 0 && offset == 0 && limit == feedCacheLimit {
		err := cache.Aside(ctx, cache.FeedKey, &posts, cache.FeedTTL, load)
		return posts, err
	}
	return posts, load()
}

// applyPostDetails adds subqueries to fetch the comment count and liked status
// in a single query instead of one round-trip per post.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comment_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.target_type = 'post' AND likes.target_id = posts.id AND likes.user_id = ?) as liked",
			currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PostKey(post.ID))
	cache.InvalidateFeed(ctx)
	return nil
}

// Delete removes the post together with its comments and every like
// targeting the post or one of its comments, in one transaction. Likes are
// independent fact rows, so the cascade is done here rather than with
// foreign-key actions.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("target_type = ? AND target_id IN (?)",
				models.TargetComment,
				tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", id),
			).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("target_type = ? AND target_id = ?", models.TargetPost, id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	cache.InvalidateFeed(ctx)
	return nil
}
