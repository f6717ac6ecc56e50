// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"pulse/internal/models"
	"pulse/internal/notifications"
	"pulse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments. Comments come back as a
// nested tree: top-level comments in chronological order, each carrying its
// replies recursively.
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	tree, err := s.commentService.CommentTree(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"comments": tree})
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:  userID,
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.notifyCommentCreated(c, userID, comment, notifications.EventCommentCreated)

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// CreateReply handles POST /api/comments/:id/reply
func (s *Server) CreateReply(c *fiber.Ctx) error {
	parentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var req struct {
		Content string `json:"content"`
		PostID  uint   `json:"post_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.commentService.CreateReply(c.Context(), service.CreateReplyInput{
		UserID:   userID,
		ParentID: parentID,
		PostID:   req.PostID,
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.notifyCommentCreated(c, userID, reply, notifications.EventReplyCreated)

	return c.Status(fiber.StatusCreated).JSON(reply)
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		UserID:    userID,
		CommentID: id,
		Content:   req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	if _, err := s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		UserID:    userID,
		CommentID: id,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

// ToggleCommentLike handles POST /api/comments/:id/like
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	result, err := s.likeService.Toggle(c.Context(), userID, models.TargetRef{
		Kind: models.TargetComment,
		ID:   id,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.notifyCommentOwner(c, userID, result)

	return c.JSON(result)
}

// notifyCommentCreated pushes a live event to the parent content's author.
func (s *Server) notifyCommentCreated(c *fiber.Ctx, actorID uint, comment *models.Comment, eventType string) {
	if s.notifier == nil {
		return
	}

	var recipient uint
	if comment.ParentID != nil {
		parent, err := s.commentRepo.GetByID(c.Context(), *comment.ParentID)
		if err != nil {
			return
		}
		recipient = parent.UserID
	} else {
		post, err := s.postRepo.GetByID(c.Context(), comment.PostID, 0)
		if err != nil {
			return
		}
		recipient = post.UserID
	}
	if recipient == actorID {
		return
	}

	s.publishUserEvent(c.Context(), recipient, eventType,
		notifications.CommentEventPayload{
			CommentID: comment.ID,
			PostID:    comment.PostID,
			ParentID:  comment.ParentID,
			ActorID:   actorID,
		})
}

// notifyCommentOwner pushes a live like event to the comment's author.
func (s *Server) notifyCommentOwner(c *fiber.Ctx, actorID uint, result *service.ToggleResult) {
	if s.notifier == nil {
		return
	}
	comment, err := s.commentRepo.GetByID(c.Context(), result.Target.ID)
	if err != nil || comment.UserID == actorID {
		return
	}
	s.publishUserEvent(c.Context(), comment.UserID, notifications.EventCommentLiked,
		notifications.LikeEventPayload{
			TargetType: string(result.Target.Kind),
			TargetID:   result.Target.ID,
			ActorID:    actorID,
			Liked:      result.Liked,
			LikeCount:  result.LikeCount,
		})
}
