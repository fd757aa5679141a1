// Package media validates uploaded images and stores them in the configured
// backend, producing the public URL recorded on posts and profiles.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"net/http"
	"path"
	"strings"

	"socialconnect/internal/config"
	"socialconnect/internal/models"

	"github.com/google/uuid"
)

// MaxImageBytes is the upload size ceiling for post images and avatars.
const MaxImageBytes = 2 << 20

// Store persists a validated image and returns its public URL.
// The backend is chosen once at startup from configuration.
type Store interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Image is a validated upload ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	ext         string
}

// ValidateImage checks size and content type. Only JPEG and PNG are accepted,
// and the body must actually decode as the type it claims, not just carry the
// right magic bytes.
func ValidateImage(data []byte, field string) (*Image, error) {
	if len(data) == 0 {
		return nil, models.NewFieldValidationError(field, "image is empty")
	}
	if len(data) > MaxImageBytes {
		return nil, models.NewFieldValidationError(field, "image exceeds the 2MB size limit")
	}

	contentType := http.DetectContentType(data)
	var ext string
	var err error
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
		_, err = jpeg.DecodeConfig(bytes.NewReader(data))
	case "image/png":
		ext = ".png"
		_, err = png.DecodeConfig(bytes.NewReader(data))
	default:
		return nil, models.NewFieldValidationError(field, "only JPEG and PNG images are allowed")
	}
	if err != nil {
		return nil, models.NewFieldValidationError(field, "image data is corrupt or not a valid image")
	}

	return &Image{Data: data, ContentType: contentType, ext: ext}, nil
}

// PostImageKey returns the storage key for a post image. Keys are scoped by
// the owner so uploads can happen before the post row exists.
func PostImageKey(userID uint, img *Image) string {
	return fmt.Sprintf("posts/%d/%s%s", userID, uuid.NewString(), img.ext)
}

// AvatarKey returns the storage key for a profile avatar.
func AvatarKey(userID uint, img *Image) string {
	return fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), img.ext)
}

// New resolves the configured backend into a Store. The choice is made once
// here; callers never consult configuration again.
func New(cfg *config.Config) (Store, error) {
	switch cfg.MediaBackend {
	case "local":
		return newLocalStore(cfg.MediaDir, cfg.MediaBaseURL)
	case "s3":
		return newS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + path.Clean(key)
}
