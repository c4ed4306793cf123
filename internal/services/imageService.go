package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/arzan03/CourseHub/internal/storage"
	"github.com/google/uuid"
)

// MaxImageSize caps uploaded images at 5 MiB
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload is an image received from a client
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageService validates images and stores them in the ImageStore
type ImageService struct {
	images storage.ImageStore
}

// NewImageService creates an ImageService; a nil store disables uploads.
func NewImageService(images storage.ImageStore) *ImageService {
	return &ImageService{images: images}
}

// Enabled reports whether an image store is configured
func (s *ImageService) Enabled() bool {
	return s != nil && s.images != nil
}

// Store uploads the image under folder and passes its public link to save.
// If save fails the uploaded object is removed again.
func (s *ImageService) Store(ctx context.Context, folder string, upload Upload, save func(link string) error) (string, error) {
	if !s.Enabled() {
		return "", apperrors.ErrImageStorageDisabled
	}
	if upload.Size <= 0 {
		return "", apperrors.Validation("image is empty")
	}
	if upload.Size > MaxImageSize {
		return "", apperrors.Validation("image must be at most 5MB")
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", apperrors.Validation("image must be a jpeg, png, gif or webp file")
	}

	objectName := path.Join(folder, uuid.New().String()+ext)
	link, err := s.images.Put(ctx, objectName, upload.Body, upload.Size, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	if err := save(link); err != nil {
		_ = s.images.Remove(ctx, objectName)
		return "", err
	}
	return link, nil
}
