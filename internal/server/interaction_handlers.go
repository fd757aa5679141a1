package server

import (
	"socialconnect/internal/models"
	"socialconnect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/interaction/posts/:postId/like. Liking twice is
// idempotent; the response says whether the like already existed.
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	alreadyLiked, err := s.interactionService.LikePost(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if alreadyLiked {
		return c.JSON(fiber.Map{"detail": "Already liked", "liked": true})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"detail": "Liked", "liked": true})
}

// LikeStatus handles GET /api/interaction/posts/:postId/like-status
func (s *Server) LikeStatus(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	liked, err := s.interactionService.LikeStatus(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// UnlikePost handles DELETE /api/interaction/posts/:postId/unlike
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.interactionService.UnlikePost(c.UserContext(), currentUserID(c), postID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetComments handles GET /api/interaction/posts/:postId/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	page := parsePagination(c)
	comments, total, err := s.interactionService.ListComments(c.UserContext(), postID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(paginatedResponse(comments, total, page))
}

// CreateComment handles POST /api/interaction/posts/:postId/comments/create
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.interactionService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  currentUserID(c),
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/interaction/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.interactionService.DeleteComment(c.UserContext(), currentUserID(c), commentID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
