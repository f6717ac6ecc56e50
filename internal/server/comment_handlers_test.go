package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pulse/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentHandler(t *testing.T) {
	t.Parallel()
	s, db := newHandlerTestServer(t)
	author := createTestUser(t, db, "author")
	commenter := createTestUser(t, db, "commenter")
	app := newAuthedApp(s, commenter.ID)

	post := &models.Post{Content: "p", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts/1/comments", fiber.Map{
		"content": "nice post",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var comment models.Comment
	decodeBody(t, resp, &comment)
	assert.Equal(t, "nice post", comment.Content)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Nil(t, comment.ParentID)
}

func TestCreateCommentHandler_PostMissing(t *testing.T) {
	t.Parallel()
	s, db := newHandlerTestServer(t)
	commenter := createTestUser(t, db, "commenter")
	app := newAuthedApp(s, commenter.ID)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts/77/comments", fiber.Map{
		"content": "into the void",
	}))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateReplyHandler(t *testing.T) {
	t.Parallel()
	s, db := newHandlerTestServer(t)
	author := createTestUser(t, db, "author")
	app := newAuthedApp(s, author.ID)

	post := &models.Post{Content: "p", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)
	root := &models.Comment{Content: "root", UserID: author.ID, PostID: post.ID}
	require.NoError(t, db.Create(root).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/comments/1/reply", fiber.Map{
		"content": "agreed",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var reply models.Comment
	decodeBody(t, resp, &reply)
	assert.Equal(t, post.ID, reply.PostID)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)
}

func TestCreateReplyHandler_CrossPostRejected(t *testing.T) {
	t.Parallel()
	s, db := newHandlerTestServer(t)
	author := createTestUser(t, db, "author")
	app := newAuthedApp(s, author.ID)

	postA := &models.Post{Content: "a", UserID: author.ID}
	postB := &models.Post{Content: "b", UserID: author.ID}
	require.NoError(t, db.Create(postA).Error)
	require.NoError(t, db.Create(postB).Error)
	root := &models.Comment{Content: "root", UserID: author.ID, PostID: postA.ID}
	require.NoError(t, db.Create(root).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/comments/1/reply", fiber.Map{
		"content": "wrong thread",
		"post_id": postB.ID,
	}))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCommentsHandler_ReturnsTree(t *testing.T) {
	t.Parallel()
	s, db := newHandlerTestServer(t)
	author := createTestUser(t, db, "author")
	app := newAuthedApp(s, author.ID)

	post := &models.Post{Content: "p", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)

	first := &models.Comment{Content: "first", UserID: author.ID, PostID: post.ID}
	require.NoError(t, db.Create(first).Error)
	second := &models.Comment{Content: "second", UserID: author.ID, PostID: post.ID}
	require.NoError(t, db.Create(second).Error)
	nested := &models.Comment{Content: "nested", UserID: author.ID, PostID: post.ID, ParentID: &first.ID}
	require.NoError(t, db.Create(nested).Error)
	deep := &models.Comment{Content: "deep", UserID: author.ID, PostID: post.ID, ParentID: &nested.ID}
	require.NoError(t, db.Create(deep).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/1/comments", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Comments []*models.Comment `json:"comments"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Comments, 2)
	assert.Equal(t, "first", body.Comments[0].Content)
	assert.Equal(t, "second", body.Comments[1].Content)
	require.Len(t, body.Comments[0].Replies, 1)
	require.Len(t, body.Comments[0].Replies[0].Replies, 1)
	assert.Equal(t, "deep", body.Comments[0].Replies[0].Replies[0].Content)
	assert.Empty(t, body.Comments[1].Replies)
}

func TestUpdateCommentHandler_OwnershipEnforced(t *testing.T) {
	t.Parallel()
	s, db := newHandlerTestServer(t)
	author := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")

	post := &models.Post{Content: "p", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)
	comment := &models.Comment{Content: "mine", UserID: author.ID, PostID: post.ID}
	require.NoError(t, db.Create(comment).Error)

	strangerApp := newAuthedApp(s, stranger.ID)
	resp, err := strangerApp.Test(jsonRequest(t, http.MethodPut, "/api/comments/1", fiber.Map{
		"content": "hijacked",
	}))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	authorApp := newAuthedApp(s, author.ID)
	resp, err = authorApp.Test(jsonRequest(t, http.MethodPut, "/api/comments/1", fiber.Map{
		"content": "edited",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Comment
	decodeBody(t, resp, &got)
	assert.Equal(t, "edited", got.Content)
}

func TestDeleteCommentHandler_RemovesSubtree(t *testing.T) {
	t.Parallel()
	s, db := newHandlerTestServer(t)
	author := createTestUser(t, db, "author")
	app := newAuthedApp(s, author.ID)

	post := &models.Post{Content: "p", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)
	root := &models.Comment{Content: "root", UserID: author.ID, PostID: post.ID}
	require.NoError(t, db.Create(root).Error)
	reply := &models.Comment{Content: "reply", UserID: author.ID, PostID: post.ID, ParentID: &root.ID}
	require.NoError(t, db.Create(reply).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/comments/1", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestToggleCommentLikeHandler(t *testing.T) {
	t.Parallel()
	s, db := newHandlerTestServer(t)
	author := createTestUser(t, db, "author")
	liker := createTestUser(t, db, "liker")
	app := newAuthedApp(s, liker.ID)

	post := &models.Post{Content: "p", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)
	comment := &models.Comment{Content: "c", UserID: author.ID, PostID: post.ID}
	require.NoError(t, db.Create(comment).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/comments/1/like", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Liked     bool `json:"liked"`
		LikeCount int  `json:"like_count"`
	}
	decodeBody(t, resp, &result)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.LikeCount)

	var reloaded models.Comment
	require.NoError(t, db.First(&reloaded, comment.ID).Error)
	assert.Equal(t, 1, reloaded.LikeCount)
}
