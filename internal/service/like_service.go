package service

import (
	"context"
	"errors"
	"strings"

	"pulse/internal/cache"
	"pulse/internal/models"
	"pulse/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// LikeService implements the like toggle: for a given (user, target) pair a
// like either exists or it does not, and toggling flips that state together
// with the target's denormalized like_count inside one transaction.
type LikeService struct {
	db *gorm.DB
}

// ToggleResult reports the state after a toggle.
type ToggleResult struct {
	Target    models.TargetRef `json:"-"`
	Liked     bool             `json:"liked"`
	LikeCount int              `json:"like_count"`
}

// targetTable maps a target kind onto its backing table. The explicit
// dispatch table replaces any generic content-type relation: adding a new
// likeable kind means adding one row here.
type targetTable struct {
	model interface{}
	table string
	noun  string
}

var targetTables = map[models.TargetKind]targetTable{
	models.TargetPost:    {model: &models.Post{}, table: "posts", noun: "Post"},
	models.TargetComment: {model: &models.Comment{}, table: "comments", noun: "Comment"},
}

// NewLikeService creates a new LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

// Toggle flips the like state for (userID, target).
//
// The get-or-create of the Like row and the counter adjustment run in a
// single transaction, so the denormalized counter never diverges from the
// true Like-row count when observed between transactions. Two concurrent
// toggles racing to create the same like are serialized by the unique index
// on (user_id, target_type, target_id): the loser gets a unique violation,
// surfaced as a Conflict error the caller should retry.
func (s *LikeService) Toggle(ctx context.Context, userID uint, target models.TargetRef) (*ToggleResult, error) {
	tt, ok := targetTables[target.Kind]
	if !ok {
		return nil, models.NewValidationError("Unknown like target type")
	}

	result := &ToggleResult{Target: target}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(tt.model).Where("id = ?", target.ID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return models.NewNotFoundError(tt.noun, target.ID)
		}

		var existing models.Like
		err := tx.
			Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target.Kind, target.ID).
			First(&existing).Error
		switch {
		case err == nil:
			// Already liked: remove the like and decrement.
			if derr := tx.Delete(&existing).Error; derr != nil {
				return derr
			}
			if derr := adjustLikeCount(tx, tt, target.ID, -1); derr != nil {
				return derr
			}
			result.Liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := models.Like{UserID: userID, TargetType: target.Kind, TargetID: target.ID}
			if cerr := tx.Create(&like).Error; cerr != nil {
				if isUniqueViolation(cerr) {
					return models.NewConflictError("Concurrent modification detected. Please retry.")
				}
				return cerr
			}
			if ierr := adjustLikeCount(tx, tt, target.ID, +1); ierr != nil {
				return ierr
			}
			result.Liked = true
		default:
			return err
		}

		var count int
		if err := tx.Model(tt.model).Select("like_count").Where("id = ?", target.ID).Scan(&count).Error; err != nil {
			return err
		}
		result.LikeCount = count
		return nil
	})
	if err != nil {
		observability.LikeToggles.WithLabelValues(string(target.Kind), toggleOutcome(err)).Inc()
		return nil, err
	}

	// The cached detail projection embeds like_count, so a post toggle must
	// drop it. Comment counters live outside that projection.
	if target.Kind == models.TargetPost {
		cache.Invalidate(ctx, cache.PostKey(target.ID))
	}

	outcome := "unliked"
	if result.Liked {
		outcome = "liked"
	}
	observability.LikeToggles.WithLabelValues(string(target.Kind), outcome).Inc()
	return result, nil
}

// adjustLikeCount applies an atomic relative update so concurrent toggles on
// different users never lose increments. UpdateColumn leaves updated_at
// alone: the counter is a cache, not content.
func adjustLikeCount(tx *gorm.DB, tt targetTable, id uint, delta int) error {
	return tx.Model(tt.model).
		Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
}

// isUniqueViolation detects a duplicate-key error across the drivers in use:
// GORM's translated error, the raw Postgres error code, and the message of
// the sqlite driver used by tests.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func toggleOutcome(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeConflict:
			return "conflict"
		case models.CodeNotFound:
			return "not_found"
		}
	}
	return "error"
}
