package service

import (
	"context"
	"fmt"
	"time"

	"socialconnect/internal/media"
	"socialconnect/internal/models"
	"socialconnect/internal/observability"
	"socialconnect/internal/policy"
	"socialconnect/internal/repository"
	"socialconnect/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type UserService struct {
	userRepo      repository.UserRepository
	profileRepo   repository.ProfileRepository
	followRepo    repository.FollowRepository
	store         media.Store
	uploadTimeout time.Duration
	isAdmin       AdminChecker
}

// UpdateProfileInput carries a partial profile update. Nil fields are left
// unchanged.
type UpdateProfileInput struct {
	UserID   uint
	Bio      *string
	Website  *string
	Location *string
	Privacy  *string
	Avatar   []byte
}

type SearchUsersInput struct {
	RequesterID uint
	Query       string
	Limit       int
	Offset      int
}

func NewUserService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	followRepo repository.FollowRepository,
	store media.Store,
	uploadTimeout time.Duration,
	isAdmin AdminChecker,
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		followRepo:    followRepo,
		store:         store,
		uploadTimeout: uploadTimeout,
		isAdmin:       isAdmin,
	}
}

// GetMe returns the caller's own account with its profile.
func (s *UserService) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Bio != nil {
		if err := validation.ValidateBio(*in.Bio); err != nil {
			return nil, models.NewFieldValidationError("bio", err.Error())
		}
	}
	if in.Privacy != nil && !models.ValidPrivacy(models.Privacy(*in.Privacy)) {
		return nil, models.NewFieldValidationError("privacy", "privacy must be public, private or followers")
	}

	// The avatar is validated and uploaded before anything is persisted, so
	// a rejected upload leaves the profile untouched.
	avatarURL, err := s.uploadAvatar(ctx, in.UserID, in.Avatar)
	if err != nil {
		return nil, err
	}

	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.Website != nil {
		profile.Website = *in.Website
	}
	if in.Location != nil {
		profile.Location = *in.Location
	}
	if in.Privacy != nil {
		profile.Privacy = models.Privacy(*in.Privacy)
	}
	if avatarURL != "" {
		profile.AvatarURL = avatarURL
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetUserProfile returns the target user with their profile, subject to the
// profile's privacy mode. A zero requesterID is an anonymous request.
func (s *UserService) GetUserProfile(ctx context.Context, requesterID, targetID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user.Profile == nil {
		return nil, models.NewInternalError(fmt.Errorf("user %d has no profile", targetID))
	}

	r, err := resolveRequester(ctx, requesterID, s.isAdmin)
	if err != nil {
		return nil, err
	}

	// The follow edge only matters for followers-only profiles.
	var isFollower bool
	if user.Profile.Privacy == models.PrivacyFollowers && r.Authenticated && r.ID != targetID {
		isFollower, err = s.followRepo.IsFollowing(ctx, r.ID, targetID)
		if err != nil {
			return nil, err
		}
	}

	switch policy.CanViewProfile(r, targetID, user.Profile.Privacy, isFollower) {
	case policy.Allow:
		return user, nil
	case policy.DenyUnauthenticated:
		return nil, models.NewUnauthorizedError("Authentication is required to view this profile")
	default:
		return nil, models.NewForbiddenError("This profile is not visible to you")
	}
}

// SearchUsers finds users by username. Admins may search without a query and
// see every profile; everyone else must supply a query and only sees
// profiles visible to them.
func (s *UserService) SearchUsers(ctx context.Context, in SearchUsersInput) ([]models.UserSummary, int64, error) {
	r, err := resolveRequester(ctx, in.RequesterID, s.isAdmin)
	if err != nil {
		return nil, 0, err
	}

	if policy.CanSearchProfiles(r, in.Query) != policy.Allow {
		return nil, 0, models.NewValidationError("Search query is required")
	}

	return s.userRepo.Search(ctx, repository.SearchOptions{
		Query:        in.Query,
		RequesterID:  r.ID,
		Unrestricted: r.IsAdmin,
		Limit:        in.Limit,
		Offset:       in.Offset,
	})
}

func (s *UserService) uploadAvatar(ctx context.Context, userID uint, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	img, err := media.ValidateImage(data, "avatar")
	if err != nil {
		return "", err
	}
	if s.store == nil {
		return "", models.NewFieldValidationError("avatar", "Avatar uploads are not available")
	}

	uploadCtx, cancel := uploadContext(ctx, s.uploadTimeout)
	defer cancel()

	span, uploadCtx := observability.NewSpan(uploadCtx, "media.upload_avatar")
	defer span.End()
	span.AddAttributes(
		attribute.String("media.content_type", img.ContentType),
		attribute.Int("media.size_bytes", len(img.Data)),
	)

	url, err := s.store.Save(uploadCtx, media.AvatarKey(userID, img), img.ContentType, img.Data)
	if err != nil {
		span.SetError(err)
		return "", models.NewFieldValidationError("avatar", "Avatar upload failed")
	}
	return url, nil
}
