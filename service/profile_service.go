package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"membership-backend/logger"
	"membership-backend/metrics"
	"membership-backend/models"
	"membership-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileStore is implemented by repository.ProfileRepository
type ProfileStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.ProfileDocument, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, doc *models.ProfileDocument) error
	UpdateProfileImage(ctx context.Context, userID uuid.UUID, path string) error
}

var (
	ErrProfileStoreNotSet = errors.New("profile repository not set")
	ErrStorageNotSet      = errors.New("image storage not set")
	ErrImageUploadFailed  = errors.New("failed to store profile image")
	ErrEmptyImage         = errors.New("profile image is empty")
	ErrNoProfileImage     = errors.New("member has no profile image")
)

// ProfileService handles member profile operations
type ProfileService struct {
	profiles ProfileStore
	images   storage.Storage
}

// ProfileServiceOption is a functional option for ProfileService
type ProfileServiceOption func(*ProfileService)

func WithProfileRepository(repo ProfileStore) ProfileServiceOption {
	return func(s *ProfileService) {
		s.profiles = repo
	}
}

func WithStorage(st storage.Storage) ProfileServiceOption {
	return func(s *ProfileService) {
		s.images = st
	}
}

// NewProfileService creates a new profile service
func NewProfileService(opts ...ProfileServiceOption) *ProfileService {
	s := &ProfileService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type GetProfileRequest struct {
	UserID uuid.UUID
}

type GetProfileResult struct {
	Profile *models.ProfileDocument
}

// GetProfile retrieves a member's full profile
func (s *ProfileService) GetProfile(ctx context.Context, req GetProfileRequest) (*GetProfileResult, error) {
	if s.profiles == nil {
		return nil, ErrProfileStoreNotSet
	}

	profile, err := s.profiles.GetProfile(ctx, req.UserID)
	metrics.ObserveStoreOperation("get_profile", err)
	if err != nil {
		return nil, err
	}

	return &GetProfileResult{Profile: profile}, nil
}

type UpdateProfileRequest struct {
	UserID  uuid.UUID
	Profile *models.ProfileDocument
}

type UpdateProfileResult struct{}

// UpdateProfile replaces a member's full profile atomically
func (s *ProfileService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UpdateProfileResult, error) {
	if s.profiles == nil {
		return nil, ErrProfileStoreNotSet
	}
	if req.Profile == nil {
		return nil, errors.New("profile document is required")
	}

	err := s.profiles.UpdateProfile(ctx, req.UserID, req.Profile)
	metrics.ObserveStoreOperation("update_profile", err)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("profile updated",
		zap.String("user_id", req.UserID.String()),
		zap.Int("qualifications", len(req.Profile.ProfessionalInfo.Qualifications)),
		zap.Int("certifications", len(req.Profile.ProfessionalInfo.Certifications)),
	)

	return &UpdateProfileResult{}, nil
}

type UploadProfileImageRequest struct {
	UserID   uuid.UUID
	Filename string
	Size     int64
	Body     io.Reader
}

type UploadProfileImageResult struct {
	Path string
}

// UploadProfileImage stores the image and points the member at it.
// The stored object is removed again if the member row cannot be updated.
func (s *ProfileService) UploadProfileImage(ctx context.Context, req UploadProfileImageRequest) (*UploadProfileImageResult, error) {
	if s.profiles == nil {
		return nil, ErrProfileStoreNotSet
	}
	if s.images == nil {
		return nil, ErrStorageNotSet
	}

	if req.Size <= 0 {
		return nil, ErrEmptyImage
	}
	if _, err := storage.ContentType(req.Filename); err != nil {
		return nil, err
	}

	path, err := s.images.Upload(ctx, uuid.New(), req.Filename, req.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageUploadFailed, err)
	}

	err = s.profiles.UpdateProfileImage(ctx, req.UserID, path)
	metrics.ObserveStoreOperation("update_profile_image", err)
	if err != nil {
		if delErr := s.images.Delete(context.WithoutCancel(ctx), path); delErr != nil {
			logger.FromContext(ctx).Warn("failed to clean up profile image",
				zap.String("path", path),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	return &UploadProfileImageResult{Path: path}, nil
}

type GetProfileImageRequest struct {
	UserID uuid.UUID
}

type GetProfileImageResult struct {
	Path        string
	ContentType string
	Body        io.ReadCloser
}

// GetProfileImage opens the member's stored image. The caller must close Body.
func (s *ProfileService) GetProfileImage(ctx context.Context, req GetProfileImageRequest) (*GetProfileImageResult, error) {
	if s.profiles == nil {
		return nil, ErrProfileStoreNotSet
	}
	if s.images == nil {
		return nil, ErrStorageNotSet
	}

	profile, err := s.profiles.GetProfile(ctx, req.UserID)
	metrics.ObserveStoreOperation("get_profile", err)
	if err != nil {
		return nil, err
	}

	path := profile.PersonalInfo.ProfileImage
	if path == "" {
		return nil, ErrNoProfileImage
	}

	contentType, err := storage.ContentType(path)
	if err != nil {
		return nil, err
	}

	body, err := s.images.Download(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to download profile image: %w", err)
	}

	return &GetProfileImageResult{Path: path, ContentType: contentType, Body: body}, nil
}
