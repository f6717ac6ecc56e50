package repository

import (
	"context"
	"testing"
	"time"

	"pulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLikeRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestListSince_AttributesToCurrentOwner(t *testing.T) {
	t.Parallel()
	db := setupLikeRepoDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := models.User{Username: "a", Email: "a@example.com", Password: "pw"}
	require.NoError(t, db.Create(&author).Error)

	post := models.Post{Content: "p", UserID: author.ID}
	require.NoError(t, db.Create(&post).Error)

	now := time.Now()
	require.NoError(t, db.Create(&models.Like{
		UserID: 10, TargetType: models.TargetPost, TargetID: post.ID, CreatedAt: now,
	}).Error)

	rows, err := repo.ListSince(ctx, models.TargetPost, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, post.ID, rows[0].TargetID)
	assert.Equal(t, author.ID, rows[0].AuthorID)
}

func TestListSince_ExcludesOldLikes(t *testing.T) {
	t.Parallel()
	db := setupLikeRepoDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := models.User{Username: "a", Email: "a@example.com", Password: "pw"}
	require.NoError(t, db.Create(&author).Error)
	post := models.Post{Content: "p", UserID: author.ID}
	require.NoError(t, db.Create(&post).Error)

	now := time.Now()
	require.NoError(t, db.Create(&models.Like{
		UserID: 1, TargetType: models.TargetPost, TargetID: post.ID,
		CreatedAt: now.Add(-30 * time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.Like{
		UserID: 2, TargetType: models.TargetPost, TargetID: post.ID,
		CreatedAt: now.Add(-time.Hour),
	}).Error)

	rows, err := repo.ListSince(ctx, models.TargetPost, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, post.ID, rows[0].TargetID)
}

func TestListSince_SkipsDeletedTargets(t *testing.T) {
	t.Parallel()
	db := setupLikeRepoDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := models.User{Username: "a", Email: "a@example.com", Password: "pw"}
	require.NoError(t, db.Create(&author).Error)

	kept := models.Post{Content: "kept", UserID: author.ID}
	doomed := models.Post{Content: "doomed", UserID: author.ID}
	require.NoError(t, db.Create(&kept).Error)
	require.NoError(t, db.Create(&doomed).Error)

	now := time.Now()
	for _, target := range []uint{kept.ID, doomed.ID} {
		require.NoError(t, db.Create(&models.Like{
			UserID: 5, TargetType: models.TargetPost, TargetID: target, CreatedAt: now,
		}).Error)
	}

	require.NoError(t, db.Delete(&models.Post{}, doomed.ID).Error)

	rows, err := repo.ListSince(ctx, models.TargetPost, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, kept.ID, rows[0].TargetID)
}

func TestListSince_SeparatesKinds(t *testing.T) {
	t.Parallel()
	db := setupLikeRepoDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	postAuthor := models.User{Username: "pa", Email: "pa@example.com", Password: "pw"}
	commentAuthor := models.User{Username: "ca", Email: "ca@example.com", Password: "pw"}
	require.NoError(t, db.Create(&postAuthor).Error)
	require.NoError(t, db.Create(&commentAuthor).Error)

	post := models.Post{Content: "p", UserID: postAuthor.ID}
	require.NoError(t, db.Create(&post).Error)
	comment := models.Comment{Content: "c", UserID: commentAuthor.ID, PostID: post.ID}
	require.NoError(t, db.Create(&comment).Error)

	now := time.Now()
	require.NoError(t, db.Create(&models.Like{
		UserID: 1, TargetType: models.TargetPost, TargetID: post.ID, CreatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&models.Like{
		UserID: 1, TargetType: models.TargetComment, TargetID: comment.ID, CreatedAt: now,
	}).Error)

	since := now.Add(-time.Hour)

	postRows, err := repo.ListSince(ctx, models.TargetPost, since)
	require.NoError(t, err)
	require.Len(t, postRows, 1)
	assert.Equal(t, postAuthor.ID, postRows[0].AuthorID)

	commentRows, err := repo.ListSince(ctx, models.TargetComment, since)
	require.NoError(t, err)
	require.Len(t, commentRows, 1)
	assert.Equal(t, commentAuthor.ID, commentRows[0].AuthorID)
}

func TestIsLikedAndCount(t *testing.T) {
	t.Parallel()
	db := setupLikeRepoDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := models.User{Username: "a", Email: "a@example.com", Password: "pw"}
	require.NoError(t, db.Create(&author).Error)
	post := models.Post{Content: "p", UserID: author.ID}
	require.NoError(t, db.Create(&post).Error)

	target := models.TargetRef{Kind: models.TargetPost, ID: post.ID}

	liked, err := repo.IsLiked(ctx, 7, target)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, db.Create(&models.Like{
		UserID: 7, TargetType: models.TargetPost, TargetID: post.ID,
	}).Error)

	liked, err = repo.IsLiked(ctx, 7, target)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err := repo.CountForTarget(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
