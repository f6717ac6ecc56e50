package service

import (
	"testing"
	"time"

	"pulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentAt(id uint, parentID *uint, offset time.Duration) *models.Comment {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.Comment{
		ID:        id,
		ParentID:  parentID,
		Content:   "c",
		PostID:    1,
		CreatedAt: base.Add(offset),
	}
}

func ptr(id uint) *uint { return &id }

func countNodes(nodes []*models.Comment) int {
	total := 0
	for _, n := range nodes {
		total += 1 + countNodes(n.Replies)
	}
	return total
}

func TestBuildCommentTree_Empty(t *testing.T) {
	t.Parallel()
	tree := BuildCommentTree(nil)
	assert.Empty(t, tree)
}

func TestBuildCommentTree_FlatList(t *testing.T) {
	t.Parallel()
	comments := []*models.Comment{
		commentAt(1, nil, 0),
		commentAt(2, nil, time.Minute),
		commentAt(3, nil, 2*time.Minute),
	}

	tree := BuildCommentTree(comments)

	require.Len(t, tree, 3)
	assert.Equal(t, uint(1), tree[0].ID)
	assert.Equal(t, uint(2), tree[1].ID)
	assert.Equal(t, uint(3), tree[2].ID)
	for _, root := range tree {
		assert.Empty(t, root.Replies)
	}
}

func TestBuildCommentTree_Nesting(t *testing.T) {
	t.Parallel()
	// root(1) -> reply(2) -> reply(4); root(1) -> reply(3); root(5)
	comments := []*models.Comment{
		commentAt(1, nil, 0),
		commentAt(2, ptr(1), time.Minute),
		commentAt(3, ptr(1), 2*time.Minute),
		commentAt(4, ptr(2), 3*time.Minute),
		commentAt(5, nil, 4*time.Minute),
	}

	tree := BuildCommentTree(comments)

	require.Len(t, tree, 2)
	assert.Equal(t, uint(1), tree[0].ID)
	assert.Equal(t, uint(5), tree[1].ID)

	require.Len(t, tree[0].Replies, 2)
	assert.Equal(t, uint(2), tree[0].Replies[0].ID)
	assert.Equal(t, uint(3), tree[0].Replies[1].ID)

	require.Len(t, tree[0].Replies[0].Replies, 1)
	assert.Equal(t, uint(4), tree[0].Replies[0].Replies[0].ID)

	// Every input comment appears exactly once.
	assert.Equal(t, len(comments), countNodes(tree))
}

func TestBuildCommentTree_RepliesStayChronological(t *testing.T) {
	t.Parallel()
	comments := []*models.Comment{
		commentAt(1, nil, 0),
		commentAt(2, ptr(1), 5*time.Minute),
		commentAt(3, ptr(1), time.Minute),
	}
	// Input arrives sorted by created_at ascending, as ListByPost returns it.
	comments[1], comments[2] = comments[2], comments[1]

	tree := BuildCommentTree(comments)

	require.Len(t, tree, 1)
	require.Len(t, tree[0].Replies, 2)
	assert.True(t, tree[0].Replies[0].CreatedAt.Before(tree[0].Replies[1].CreatedAt))
}

func TestBuildCommentTree_DeepChain(t *testing.T) {
	t.Parallel()
	const depth = 200
	comments := make([]*models.Comment, 0, depth)
	comments = append(comments, commentAt(1, nil, 0))
	for i := uint(2); i <= depth; i++ {
		parent := i - 1
		comments = append(comments, commentAt(i, &parent, time.Duration(i)*time.Second))
	}

	tree := BuildCommentTree(comments)

	require.Len(t, tree, 1)
	node := tree[0]
	for i := uint(2); i <= depth; i++ {
		require.Len(t, node.Replies, 1)
		node = node.Replies[0]
		assert.Equal(t, i, node.ID)
	}
	assert.Empty(t, node.Replies)
}

func TestBuildCommentTree_OrphansDropped(t *testing.T) {
	t.Parallel()
	comments := []*models.Comment{
		commentAt(1, nil, 0),
		commentAt(2, ptr(99), time.Minute),  // parent not in input
		commentAt(3, ptr(2), 2*time.Minute), // parent dropped, so the whole branch drops
		commentAt(4, ptr(1), 3*time.Minute),
	}

	tree := BuildCommentTree(comments)

	require.Len(t, tree, 1)
	assert.Equal(t, uint(1), tree[0].ID)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, uint(4), tree[0].Replies[0].ID)
}

func TestBuildCommentTree_NoSharedStateBetweenCalls(t *testing.T) {
	t.Parallel()
	comments := []*models.Comment{
		commentAt(1, nil, 0),
		commentAt(2, ptr(1), time.Minute),
	}

	first := BuildCommentTree(comments)
	second := BuildCommentTree(comments)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	// Rebuilding must reset Replies, not append to the previous run's slices.
	assert.Len(t, second[0].Replies, 1)
}
