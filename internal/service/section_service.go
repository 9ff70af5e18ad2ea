package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arlenko/folio/internal/domain"
	"github.com/arlenko/folio/internal/editor"
	"github.com/arlenko/folio/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrNotSectionOwner = errors.New("section belongs to another profile")
	ErrBadContent      = errors.New("content does not match section type")
)

type SectionService struct {
	sectionRepo repository.SectionRepository
	profileRepo repository.ProfileRepository
	cache       PageCache
	logger      *zap.Logger
}

func NewSectionService(
	sectionRepo repository.SectionRepository,
	profileRepo repository.ProfileRepository,
	cache PageCache,
	logger *zap.Logger,
) *SectionService {
	return &SectionService{
		sectionRepo: sectionRepo,
		profileRepo: profileRepo,
		cache:       cache,
		logger:      logger,
	}
}

func (s *SectionService) List(ctx context.Context, userID uuid.UUID) ([]domain.Section, error) {
	profile, err := s.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.sectionRepo.ListByProfile(ctx, profile.ID)
}

// Add creates a section of the given type with its empty default payload,
// positioned after the existing sections.
func (s *SectionService) Add(ctx context.Context, userID uuid.UUID, sectionType domain.SectionType, title string) (*domain.Section, error) {
	content, err := domain.DefaultContent(sectionType)
	if err != nil {
		return nil, err
	}

	profile, err := s.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.sectionRepo.CountByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	section := &domain.Section{
		ID:        uuid.New(),
		ProfileID: profile.ID,
		Title:     title,
		Type:      sectionType,
		Content:   content,
		Position:  count,
		Visible:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, fmt.Errorf("creating section: %w", err)
	}

	s.invalidatePage(ctx, profile.Username)
	return section, nil
}

type SaveSectionInput struct {
	Title   *string         `json:"title"`
	Content json.RawMessage `json:"content"`
	Visible *bool           `json:"visible"`
}

// Save writes a draft back onto the persisted section. Content is decoded
// against the section's type tag; a payload that cannot be shaped to the tag
// is rejected. There is no optimistic-concurrency check: two editors saving
// the same section silently overwrite each other.
func (s *SectionService) Save(ctx context.Context, userID, sectionID uuid.UUID, input SaveSectionInput) (*domain.Section, error) {
	profile, err := s.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	section, err := s.ownedSection(ctx, profile, sectionID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		section.Title = *input.Title
	}
	if input.Content != nil {
		content, err := domain.DecodeContent(section.Type, input.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadContent, err)
		}
		section.Content = content
	}
	if input.Visible != nil {
		section.Visible = *input.Visible
	}
	section.UpdatedAt = time.Now()

	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, fmt.Errorf("saving section: %w", err)
	}

	s.invalidatePage(ctx, profile.Username)
	return section, nil
}

// Delete removes exactly the given section; other sections keep their
// positions and content.
func (s *SectionService) Delete(ctx context.Context, userID, sectionID uuid.UUID) error {
	profile, err := s.ownProfile(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := s.ownedSection(ctx, profile, sectionID); err != nil {
		return err
	}

	if err := s.sectionRepo.Delete(ctx, sectionID); err != nil {
		return fmt.Errorf("deleting section: %w", err)
	}

	s.invalidatePage(ctx, profile.Username)
	return nil
}

// EditorStore scopes the service to one user's sections for use as the
// persistence boundary of an editor.DraftSet.
func (s *SectionService) EditorStore(userID uuid.UUID) editor.Store {
	return &editorStore{service: s, userID: userID}
}

type editorStore struct {
	service *SectionService
	userID  uuid.UUID
}

func (es *editorStore) LoadSections(ctx context.Context) ([]domain.Section, error) {
	return es.service.List(ctx, es.userID)
}

func (es *editorStore) SaveSection(ctx context.Context, id uuid.UUID, draft editor.Draft) error {
	raw, err := domain.EncodeContent(draft.Content)
	if err != nil {
		return err
	}
	_, err = es.service.Save(ctx, es.userID, id, SaveSectionInput{
		Title:   &draft.Title,
		Content: raw,
		Visible: &draft.Visible,
	})
	return err
}

func (s *SectionService) ownProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *SectionService) ownedSection(ctx context.Context, profile *domain.Profile, sectionID uuid.UUID) (*domain.Section, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, ErrSectionNotFound
	}
	if section.ProfileID != profile.ID {
		return nil, ErrNotSectionOwner
	}
	return section, nil
}

func (s *SectionService) invalidatePage(ctx context.Context, username string) {
	if err := s.cache.Delete(ctx, username); err != nil {
		s.logger.Warn("invalidating page cache", zap.String("username", username), zap.Error(err))
	}
}
