// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"time"

	"pulse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tunes factory behavior.
type SeedOptions struct {
	// SkipBcrypt stores plaintext passwords. Dev-only speed hack;
	// login will not work against these users.
	SkipBcrypt bool
}

// Factory creates realistic fake records.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
}

// NewFactory constructs a Factory bound to the given database.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts}
}

// CreateUser constructs and persists a sample user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post for the given user.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Content: gofakeit.Paragraph(1, 3, 5, "\n"),
		UserID:  user.ID,
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment on a post. Pass a parent override to
// make it a nested reply.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(8),
		UserID:  user.ID,
		PostID:  post.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like on a target and bumps its counter, mirroring
// what the toggle does in production. CreatedAt can be backdated through
// the override to place likes inside or outside the leaderboard window.
func (f *Factory) CreateLike(user *models.User, target models.TargetRef, overrides ...func(*models.Like)) error {
	like := &models.Like{
		UserID:     user.ID,
		TargetType: target.Kind,
		TargetID:   target.ID,
	}

	for _, override := range overrides {
		override(like)
	}

	return f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		table := "posts"
		if target.Kind == models.TargetComment {
			table = "comments"
		}
		return tx.Table(table).Where("id = ?", target.ID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
}
