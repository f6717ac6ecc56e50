package service

import (
	"context"
	"testing"
	"time"

	"pulse/internal/cache"
	"pulse/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLikeTestDB(t *testing.T) *gorm.DB {
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

func seedPostWithComment(t *testing.T, db *gorm.DB) (*models.User, *models.Post, *models.Comment) {
	t.Helper()
	user := &models.User{Username: "author", Email: "author@example.com", Password: "pw"}
	require.NoError(t, db.Create(user).Error)

	post := &models.Post{Content: "hello", UserID: user.ID}
	require.NoError(t, db.Create(post).Error)

	comment := &models.Comment{Content: "hi", UserID: user.ID, PostID: post.ID}
	require.NoError(t, db.Create(comment).Error)

	return user, post, comment
}

func TestToggle_LikeThenUnlike(t *testing.T) {
	t.Parallel()
	db := setupLikeTestDB(t)
	_, post, _ := seedPostWithComment(t, db)
	svc := NewLikeService(db)
	ctx := context.Background()

	target := models.TargetRef{Kind: models.TargetPost, ID: post.ID}

	// First toggle creates the like and bumps the counter.
	res, err := svc.Toggle(ctx, 42, target)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.LikeCount)

	var likeRows int64
	require.NoError(t, db.Model(&models.Like{}).Count(&likeRows).Error)
	assert.Equal(t, int64(1), likeRows)

	// Second toggle removes it again.
	res, err = svc.Toggle(ctx, 42, target)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.LikeCount)

	require.NoError(t, db.Model(&models.Like{}).Count(&likeRows).Error)
	assert.Equal(t, int64(0), likeRows)
}

func TestToggle_Alternation(t *testing.T) {
	t.Parallel()
	db := setupLikeTestDB(t)
	_, post, _ := seedPostWithComment(t, db)
	svc := NewLikeService(db)
	ctx := context.Background()

	target := models.TargetRef{Kind: models.TargetPost, ID: post.ID}

	for i := 0; i < 6; i++ {
		res, err := svc.Toggle(ctx, 7, target)
		require.NoError(t, err)
		wantLiked := i%2 == 0
		assert.Equal(t, wantLiked, res.Liked, "toggle %d", i)
	}

	// An even number of toggles ends unliked with the counter back at zero.
	var p models.Post
	require.NoError(t, db.First(&p, post.ID).Error)
	assert.Equal(t, 0, p.LikeCount)
}

func TestToggle_IndependentUsers(t *testing.T) {
	t.Parallel()
	db := setupLikeTestDB(t)
	_, post, _ := seedPostWithComment(t, db)
	svc := NewLikeService(db)
	ctx := context.Background()

	target := models.TargetRef{Kind: models.TargetPost, ID: post.ID}

	for userID := uint(1); userID <= 5; userID++ {
		res, err := svc.Toggle(ctx, userID, target)
		require.NoError(t, err)
		assert.True(t, res.Liked)
	}

	var p models.Post
	require.NoError(t, db.First(&p, post.ID).Error)
	assert.Equal(t, 5, p.LikeCount)

	// One user unliking does not touch the others.
	res, err := svc.Toggle(ctx, 3, target)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 4, res.LikeCount)
}

func TestToggle_CommentTarget(t *testing.T) {
	t.Parallel()
	db := setupLikeTestDB(t)
	_, _, comment := seedPostWithComment(t, db)
	svc := NewLikeService(db)
	ctx := context.Background()

	target := models.TargetRef{Kind: models.TargetComment, ID: comment.ID}

	res, err := svc.Toggle(ctx, 9, target)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.LikeCount)

	var c models.Comment
	require.NoError(t, db.First(&c, comment.ID).Error)
	assert.Equal(t, 1, c.LikeCount)

	// A like on a comment never bleeds into posts sharing the same ID space.
	var p models.Post
	require.NoError(t, db.First(&p, comment.PostID).Error)
	assert.Equal(t, 0, p.LikeCount)
}

func TestToggle_TargetNotFound(t *testing.T) {
	t.Parallel()
	db := setupLikeTestDB(t)
	svc := NewLikeService(db)

	_, err := svc.Toggle(context.Background(), 1, models.TargetRef{Kind: models.TargetPost, ID: 12345})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestToggle_UnknownTargetKind(t *testing.T) {
	t.Parallel()
	db := setupLikeTestDB(t)
	svc := NewLikeService(db)

	_, err := svc.Toggle(context.Background(), 1, models.TargetRef{Kind: "sticker", ID: 1})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestToggle_RaceLoserGetsConflictAndRollsBack(t *testing.T) {
	t.Parallel()
	db := setupLikeTestDB(t)
	_, post, _ := seedPostWithComment(t, db)
	svc := NewLikeService(db)

	target := models.TargetRef{Kind: models.TargetPost, ID: post.ID}

	// Land a competing like between the service's read and its insert, the
	// way a second request does in a real race: the create callback fires
	// after the read found nothing, right before the row is written.
	var injected bool
	err := db.Callback().Create().Before("gorm:create").Register("competing_like", func(tx *gorm.DB) {
		if injected {
			return
		}
		if _, ok := tx.Statement.Dest.(*models.Like); !ok {
			return
		}
		injected = true
		rival := tx.Session(&gorm.Session{NewDB: true, SkipHooks: true})
		if rerr := rival.Exec(
			"INSERT INTO likes (user_id, target_type, target_id, created_at) VALUES (?, ?, ?, ?)",
			8, string(models.TargetPost), post.ID, time.Now(),
		).Error; rerr != nil {
			tx.AddError(rerr)
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Callback().Create().Remove("competing_like") })

	_, err = svc.Toggle(context.Background(), 8, target)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)

	// The transaction rolled back: no like rows survive and the counter
	// never moved.
	var likeRows int64
	require.NoError(t, db.Model(&models.Like{}).Count(&likeRows).Error)
	assert.Equal(t, int64(0), likeRows)

	var p models.Post
	require.NoError(t, db.First(&p, post.ID).Error)
	assert.Equal(t, 0, p.LikeCount)
}

func TestToggle_DropsCachedPostProjection(t *testing.T) {
	// Not parallel: swaps the package-level cache client.
	db := setupLikeTestDB(t)
	_, post, comment := seedPostWithComment(t, db)
	svc := NewLikeService(db)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	key := cache.PostKey(post.ID)
	require.NoError(t, mr.Set(key, `{"id":1}`))

	_, err := svc.Toggle(ctx, 3, models.TargetRef{Kind: models.TargetPost, ID: post.ID})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key), "post toggle must drop the cached detail projection")

	// Comment toggles leave the post projection alone.
	require.NoError(t, mr.Set(key, `{"id":1}`))
	_, err = svc.Toggle(ctx, 3, models.TargetRef{Kind: models.TargetComment, ID: comment.ID})
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))
}

func TestToggle_CounterNeverNegative(t *testing.T) {
	t.Parallel()
	db := setupLikeTestDB(t)
	_, post, _ := seedPostWithComment(t, db)
	svc := NewLikeService(db)
	ctx := context.Background()

	target := models.TargetRef{Kind: models.TargetPost, ID: post.ID}

	res, err := svc.Toggle(ctx, 1, target)
	require.NoError(t, err)
	require.True(t, res.Liked)

	res, err = svc.Toggle(ctx, 1, target)
	require.NoError(t, err)
	require.False(t, res.Liked)
	assert.GreaterOrEqual(t, res.LikeCount, 0)
}
