package service

import (
	"pulse/internal/models"
	"pulse/internal/observability"
)

// BuildCommentTree materializes the reply forest for one post from the flat
// comment list in a single linear pass.
//
// The input must already be sorted by created_at ascending -- that is the
// order ListByPost returns -- so every per-parent reply list comes out
// chronological without sorting, and O(n) time / O(n) space holds regardless
// of tree depth or branching.
//
// A comment whose parent id is not present in the input is dropped, not
// promoted to root. Since comments are always fetched per post and a parent
// cannot belong to a different post, this case is unreachable with a
// consistent store; dropping keeps the output a strict subset of the input.
//
// Cycles need no detection here: a comment's parent must exist before the
// comment can be created, so parent.created_at < child.created_at always
// holds at write time and parent chains cannot loop.
func BuildCommentTree(comments []*models.Comment) []*models.Comment {
	byID := make(map[uint]*models.Comment, len(comments))
	for _, c := range comments {
		c.Replies = []*models.Comment{}
		byID[c.ID] = c
	}

	roots := []*models.Comment{}
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok {
			continue
		}
		parent.Replies = append(parent.Replies, c)
	}

	observability.CommentTreeSize.Observe(float64(len(comments)))
	return roots
}
