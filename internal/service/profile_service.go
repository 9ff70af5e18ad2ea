package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/arlenko/folio/internal/domain"
	"github.com/arlenko/folio/internal/repository"
	"github.com/arlenko/folio/internal/storage"
	"github.com/arlenko/folio/pkg/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrUnauthorized     = errors.New("no identity for profile creation")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrProfileExists    = errors.New("profile already exists for user")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// PageCache is the public-page cache the services invalidate on mutation.
type PageCache interface {
	Get(ctx context.Context, username string) ([]byte, error)
	Set(ctx context.Context, username string, payload []byte) error
	Delete(ctx context.Context, username string) error
}

type ProfileService struct {
	profileRepo repository.ProfileRepository
	sectionRepo repository.SectionRepository
	userRepo    repository.UserRepository
	media       storage.MediaStore
	cache       PageCache
	logger      *zap.Logger
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	sectionRepo repository.SectionRepository,
	userRepo repository.UserRepository,
	media storage.MediaStore,
	cache PageCache,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		sectionRepo: sectionRepo,
		userRepo:    userRepo,
		media:       media,
		cache:       cache,
		logger:      logger,
	}
}

type ProvisionInput struct {
	Username    string
	DisplayName string
	// UserID is the explicit identity used when no session is present,
	// e.g. when the signup flow creates the profile right after register.
	UserID uuid.UUID
}

// Provision creates the profile row for an identity. It first tries the
// privileged create_profile path and falls back to a plain insert when that
// fails for any reason. The uniqueness pre-checks and the writes are not one
// transaction; the database unique constraints are the final backstop for
// concurrent signups racing on the same username.
func (s *ProfileService) Provision(ctx context.Context, sessionUserID *uuid.UUID, input ProvisionInput) (*domain.Profile, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if errs := validator.Username(username); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUsername, errs["username"])
	}

	userID := input.UserID
	if sessionUserID != nil {
		userID = *sessionUserID
	}
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	normalized := strings.ToLower(username)

	existing, err := s.profileRepo.GetByUsername(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	owned, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if owned != nil {
		return nil, ErrProfileExists
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = username
	}

	now := time.Now()
	profile := &domain.Profile{
		ID:          uuid.New(),
		UserID:      userID,
		Username:    normalized,
		DisplayName: displayName,
		Theme:       "default",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.profileRepo.CreatePrivileged(ctx, profile)
	if err == nil {
		return created, nil
	}
	s.logger.Warn("privileged profile create failed, falling back to insert",
		zap.String("username", normalized), zap.Error(err))

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}
	return profile, nil
}

// Get returns the caller's profile, provisioning it from the user record if
// the row is missing (first dashboard load after an interrupted signup).
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrProfileNotFound
	}

	return s.Provision(ctx, &userID, ProvisionInput{Username: user.Username})
}

type UpdateProfileInput struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	BannerURL   *string `json:"banner_url"`
	Theme       *string `json:"theme"`
}

func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	if input.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = input.AvatarURL
	}
	if input.BannerURL != nil {
		profile.BannerURL = input.BannerURL
	}
	if input.Theme != nil {
		profile.Theme = *input.Theme
	}
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	s.invalidatePage(ctx, profile.Username)
	return profile, nil
}

var mediaExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// UploadMedia stores a profile image and persists its public URL. An upload
// failure leaves the profile row untouched, so the previous URL stays live.
func (s *ProfileService) UploadMedia(ctx context.Context, userID uuid.UUID, purpose domain.MediaPurpose, filename string, r io.Reader, size int64, contentType string) (*domain.Profile, error) {
	if !purpose.Valid() {
		return nil, fmt.Errorf("invalid media purpose %q", purpose)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !mediaExtensions[ext] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, ext)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	key := fmt.Sprintf("%s/%s%s", profile.ID, purpose, ext)
	url, err := s.media.Upload(ctx, key, r, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", purpose, err)
	}

	switch purpose {
	case domain.MediaAvatar:
		profile.AvatarURL = &url
	case domain.MediaBanner:
		profile.BannerURL = &url
	}
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("persisting %s url: %w", purpose, err)
	}

	s.invalidatePage(ctx, profile.Username)
	return profile, nil
}

// PublicPage resolves a profile by username with its visible sections in
// display order.
func (s *ProfileService) PublicPage(ctx context.Context, username string) (*domain.Profile, []domain.Section, error) {
	profile, err := s.profileRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		return nil, nil, ErrProfileNotFound
	}

	sections, err := s.sectionRepo.ListVisibleByProfile(ctx, profile.ID)
	if err != nil {
		return nil, nil, err
	}
	return profile, sections, nil
}

func (s *ProfileService) invalidatePage(ctx context.Context, username string) {
	if err := s.cache.Delete(ctx, username); err != nil {
		s.logger.Warn("invalidating page cache", zap.String("username", username), zap.Error(err))
	}
}
