package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"membership-backend/logger"
	"membership-backend/models"
	"membership-backend/repository"
	"membership-backend/service"
	"membership-backend/storage"
	"membership-backend/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileService is implemented by service.ProfileService
type ProfileService interface {
	GetProfile(ctx context.Context, req service.GetProfileRequest) (*service.GetProfileResult, error)
	UpdateProfile(ctx context.Context, req service.UpdateProfileRequest) (*service.UpdateProfileResult, error)
	UploadProfileImage(ctx context.Context, req service.UploadProfileImageRequest) (*service.UploadProfileImageResult, error)
	GetProfileImage(ctx context.Context, req service.GetProfileImageRequest) (*service.GetProfileImageResult, error)
}

// room for multipart boundaries and the userId field on top of the image
const multipartOverhead = 1 << 20

// ProfileHandler handles HTTP requests for member profiles
type ProfileHandler struct {
	profileService ProfileService
	validator      *validation.Validator
	requestTimeout time.Duration
	maxImageSize   int64
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService ProfileService, validator *validation.Validator, requestTimeout time.Duration, maxImageSize int64) *ProfileHandler {
	if validator == nil {
		validator = validation.New()
	}
	return &ProfileHandler{
		profileService: profileService,
		validator:      validator,
		requestTimeout: requestTimeout,
		maxImageSize:   maxImageSize,
	}
}

// UpdateProfileRequest represents the request body for updating a profile
type UpdateProfileRequest struct {
	UserID      string                  `json:"userId"`
	ProfileData *models.ProfileDocument `json:"profileData"`
}

func (h *ProfileHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.requestTimeout)
}

// GetProfile handles GET /api/profile?userId=
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userIDStr := c.Query("userId")
	if userIDStr == "" {
		respondError(c, http.StatusBadRequest, "MISSING_USER_ID", "userId is required")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_USER_ID", "Invalid userId format")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.profileService.GetProfile(ctx, service.GetProfileRequest{UserID: userID})
	if err != nil {
		h.storeError(c, err, "GET_FAILED", "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, result.Profile)
}

// UpdateProfile handles POST /api/profile/update
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON")
		return
	}

	if req.UserID == "" || req.ProfileData == nil {
		respondError(c, http.StatusBadRequest, "MISSING_FIELDS", "userId and profileData are required")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_USER_ID", "Invalid userId format")
		return
	}

	if err := h.validator.Validate(req.ProfileData); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_FAILED",
					"message": "Profile data is invalid",
					"fields":  verr.Fields,
				},
			})
			return
		}
		respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", "Profile data is invalid")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	_, err = h.profileService.UpdateProfile(ctx, service.UpdateProfileRequest{
		UserID:  userID,
		Profile: req.ProfileData,
	})
	if err != nil {
		h.storeError(c, err, "UPDATE_FAILED", "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadProfileImage handles POST /api/profile/image
func (h *ProfileHandler) UploadProfileImage(c *gin.Context) {
	if h.maxImageSize > 0 {
		limit := h.maxImageSize + multipartOverhead
		if c.Request.ContentLength > limit {
			respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE", "Image exceeds the maximum allowed size")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	userIDStr := c.PostForm("userId")
	if userIDStr == "" {
		respondError(c, http.StatusBadRequest, "MISSING_USER_ID", "userId is required")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_USER_ID", "Invalid userId format")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE", "Image exceeds the maximum allowed size")
			return
		}
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}
	if h.maxImageSize > 0 && fileHeader.Size > h.maxImageSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE", "Image exceeds the maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_FILE", "Could not read uploaded file")
		return
	}
	defer file.Close()

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.profileService.UploadProfileImage(ctx, service.UploadProfileImageRequest{
		UserID:   userID,
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Body:     file,
	})
	switch {
	case errors.Is(err, storage.ErrUnsupportedImageType):
		respondError(c, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "Image must be jpg, png, gif or webp")
		return
	case errors.Is(err, service.ErrEmptyImage):
		respondError(c, http.StatusBadRequest, "EMPTY_FILE", "Image is empty")
		return
	case err != nil:
		h.storeError(c, err, "UPLOAD_FAILED", "Failed to upload profile image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"profileImage": result.Path,
		},
	})
}

// GetProfileImage handles GET /api/profile/image?userId=
func (h *ProfileHandler) GetProfileImage(c *gin.Context) {
	userIDStr := c.Query("userId")
	if userIDStr == "" {
		respondError(c, http.StatusBadRequest, "MISSING_USER_ID", "userId is required")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_USER_ID", "Invalid userId format")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.profileService.GetProfileImage(ctx, service.GetProfileImageRequest{UserID: userID})
	if errors.Is(err, service.ErrNoProfileImage) {
		respondError(c, http.StatusNotFound, "NO_PROFILE_IMAGE", "Member has no profile image")
		return
	}
	if err != nil {
		h.storeError(c, err, "DOWNLOAD_FAILED", "Failed to load profile image")
		return
	}
	defer result.Body.Close()

	c.Header("Cache-Control", "private, max-age=300")
	c.DataFromReader(http.StatusOK, -1, result.ContentType, result.Body, nil)
}

// storeError maps store errors to responses; the cause is only logged.
func (h *ProfileHandler) storeError(c *gin.Context, err error, code, message string) {
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}

	logger.FromContext(c.Request.Context()).Error(message,
		zap.String("code", code),
		zap.Error(err),
	)
	respondError(c, http.StatusInternalServerError, code, message)
}
