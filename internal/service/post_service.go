package service

import (
	"context"
	"strings"
	"time"

	"socialconnect/internal/media"
	"socialconnect/internal/models"
	"socialconnect/internal/observability"
	"socialconnect/internal/policy"
	"socialconnect/internal/repository"
	"socialconnect/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo      repository.PostRepository
	store         media.Store
	uploadTimeout time.Duration
	isAdmin       AdminChecker
}

type CreatePostInput struct {
	UserID   uint
	Content  string
	Category string
	Image    []byte // raw upload, empty when the post has no image
}

type ListPostsInput struct {
	RequesterID  uint
	Limit        int
	Offset       int
	Search       string
	Ordering     string
	AuthorID     uint
	Category     string
	ShowInactive bool // admin only
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Content  *string
	Category *string
	Image    []byte
}

func NewPostService(
	postRepo repository.PostRepository,
	store media.Store,
	uploadTimeout time.Duration,
	isAdmin AdminChecker,
) *PostService {
	return &PostService{
		postRepo:      postRepo,
		store:         store,
		uploadTimeout: uploadTimeout,
		isAdmin:       isAdmin,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Content) == "" && len(in.Image) == 0 {
		return nil, models.NewValidationError("Content or an image is required")
	}
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	category := models.PostCategory(in.Category)
	if category == "" {
		category = models.PostCategoryGeneral
	}
	if !models.ValidPostCategory(category) {
		return nil, models.NewValidationError("Invalid category")
	}

	// The image is validated and uploaded before the post row exists, so a
	// rejected or failed upload leaves nothing behind.
	imageURL, err := s.uploadImage(ctx, in.UserID, in.Image)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Content:  in.Content,
		UserID:   in.UserID,
		ImageURL: imageURL,
		Category: category,
		IsActive: true,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns the post. Inactive posts are only visible to their author
// and admins; everyone else gets not-found rather than a hint that the post
// existed.
func (s *PostService) GetPost(ctx context.Context, requesterID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsActive {
		r, err := resolveRequester(ctx, requesterID, s.isAdmin)
		if err != nil {
			return nil, err
		}
		if !policy.CanModify(r, post.UserID) {
			return nil, models.NewNotFoundError("Post", postID)
		}
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.Post, int64, error) {
	if in.ShowInactive {
		r, err := resolveRequester(ctx, in.RequesterID, s.isAdmin)
		if err != nil {
			return nil, 0, err
		}
		if !r.IsAdmin {
			return nil, 0, models.NewForbiddenError("Only admins may list inactive posts")
		}
	}

	return s.postRepo.List(ctx, repository.PostListOptions{
		Limit:           in.Limit,
		Offset:          in.Offset,
		Search:          in.Search,
		Ordering:        in.Ordering,
		AuthorID:        in.AuthorID,
		Category:        in.Category,
		IncludeInactive: in.ShowInactive,
	})
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	r, err := resolveRequester(ctx, in.UserID, s.isAdmin)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(r, post.UserID) {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" && post.ImageURL == "" && len(in.Image) == 0 {
			return nil, models.NewValidationError("Content or an image is required")
		}
		if err := validation.ValidatePostContent(*in.Content); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if in.Category != nil && !models.ValidPostCategory(models.PostCategory(*in.Category)) {
		return nil, models.NewValidationError("Invalid category")
	}

	// Upload first so a failed image leaves the post untouched.
	imageURL, err := s.uploadImage(ctx, post.UserID, in.Image)
	if err != nil {
		return nil, err
	}

	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Category != nil {
		post.Category = models.PostCategory(*in.Category)
	}
	if imageURL != "" {
		post.ImageURL = imageURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost deactivates the post. The row survives so like and comment
// history stays intact.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	r, err := resolveRequester(ctx, userID, s.isAdmin)
	if err != nil {
		return err
	}
	if !policy.CanModify(r, post.UserID) {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	return s.postRepo.Deactivate(ctx, postID)
}

// uploadImage validates and stores a post image, returning its public URL.
// An empty upload is a no-op.
func (s *PostService) uploadImage(ctx context.Context, userID uint, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	img, err := media.ValidateImage(data, "image")
	if err != nil {
		return "", err
	}
	if s.store == nil {
		return "", models.NewFieldValidationError("image", "Image uploads are not available")
	}

	uploadCtx, cancel := uploadContext(ctx, s.uploadTimeout)
	defer cancel()

	span, uploadCtx := observability.NewSpan(uploadCtx, "media.upload_post_image")
	defer span.End()
	span.AddAttributes(
		attribute.String("media.content_type", img.ContentType),
		attribute.Int("media.size_bytes", len(img.Data)),
	)

	url, err := s.store.Save(uploadCtx, media.PostImageKey(userID, img), img.ContentType, img.Data)
	if err != nil {
		span.SetError(err)
		return "", models.NewFieldValidationError("image", "Image upload failed")
	}
	return url, nil
}
