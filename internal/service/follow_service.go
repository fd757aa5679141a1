package service

import (
	"context"

	"socialconnect/internal/models"
	"socialconnect/internal/repository"
)

// FollowService provides the follow-graph business logic.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow creates a follow edge from userID to targetID. Self-follows and
// duplicate follows are rejected as validation errors.
func (s *FollowService) Follow(ctx context.Context, userID, targetID uint) error {
	if userID == targetID {
		return models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	created, err := s.followRepo.Follow(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if !created {
		return models.NewValidationError("You are already following this user")
	}
	return nil
}

// Unfollow removes the follow edge. Unfollowing someone you do not follow is
// not-found, not a silent success.
func (s *FollowService) Unfollow(ctx context.Context, userID, targetID uint) error {
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	removed, err := s.followRepo.Unfollow(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFoundError("Follow relationship", targetID)
	}
	return nil
}

// Followers lists the users following userID, newest first.
func (s *FollowService) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.UserSummary, int64, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.followRepo.Followers(ctx, userID, limit, offset)
}

// Following lists the users userID follows, newest first.
func (s *FollowService) Following(ctx context.Context, userID uint, limit, offset int) ([]models.UserSummary, int64, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.followRepo.Following(ctx, userID, limit, offset)
}
