package service

import (
	"context"

	"socialconnect/internal/models"
	"socialconnect/internal/policy"
	"socialconnect/internal/repository"
	"socialconnect/internal/validation"
)

// InteractionService provides like and comment business logic.
type InteractionService struct {
	interactionRepo repository.InteractionRepository
	postRepo        repository.PostRepository
	isAdmin         AdminChecker
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

func NewInteractionService(
	interactionRepo repository.InteractionRepository,
	postRepo repository.PostRepository,
	isAdmin AdminChecker,
) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
		isAdmin:         isAdmin,
	}
}

// LikePost records a like on the post. Liking an already-liked post is a
// success; alreadyLiked distinguishes it so the handler can say so.
func (s *InteractionService) LikePost(ctx context.Context, userID, postID uint) (alreadyLiked bool, err error) {
	if _, err := s.activePost(ctx, postID); err != nil {
		return false, err
	}

	created, err := s.interactionRepo.Like(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	return !created, nil
}

// LikeStatus reports whether the user has liked the post.
func (s *InteractionService) LikeStatus(ctx context.Context, userID, postID uint) (bool, error) {
	if _, err := s.activePost(ctx, postID); err != nil {
		return false, err
	}
	return s.interactionRepo.IsLiked(ctx, userID, postID)
}

// UnlikePost removes the user's like. Unliking a post that was never liked
// is not-found, not a silent success.
func (s *InteractionService) UnlikePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.activePost(ctx, postID); err != nil {
		return err
	}

	removed, err := s.interactionRepo.Unlike(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFoundError("Like", postID)
	}
	return nil
}

func (s *InteractionService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.activePost(ctx, in.PostID); err != nil {
		return nil, err
	}
	if err := validation.ValidateCommentContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment := &models.Comment{
		UserID:   in.UserID,
		PostID:   in.PostID,
		Content:  in.Content,
		IsActive: true,
	}
	if err := s.interactionRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.interactionRepo.GetCommentByID(ctx, comment.ID)
}

// ListComments returns a page of active comments on the post, newest first.
func (s *InteractionService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, int64, error) {
	if _, err := s.activePost(ctx, postID); err != nil {
		return nil, 0, err
	}
	return s.interactionRepo.ListComments(ctx, postID, limit, offset)
}

// DeleteComment deactivates the comment. Only its author and admins may.
func (s *InteractionService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.interactionRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}

	r, err := resolveRequester(ctx, userID, s.isAdmin)
	if err != nil {
		return err
	}
	if !policy.CanModify(r, comment.UserID) {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	return s.interactionRepo.DeactivateComment(ctx, comment)
}

// activePost loads the post and hides deactivated ones behind not-found, so
// likes and comments can never land on a dead post.
func (s *InteractionService) activePost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsActive {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}
