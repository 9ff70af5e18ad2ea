// Package editor holds the dashboard's editing model: one draft per section,
// kept in memory and written back to the store only on an explicit save.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arlenko/folio/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrUnknownDraft    = errors.New("no draft for section")
	ErrSaveInProgress  = errors.New("save already in progress for section")
	ErrContentMismatch = errors.New("content does not match section type")
)

// Status tracks a draft against its persisted section.
type Status int

const (
	StatusClean Status = iota
	StatusDirty
	StatusSaving
)

// Draft is the unsaved edit state of a single section.
type Draft struct {
	Title   string
	Content domain.Content
	Visible bool
}

// Store is the persistence boundary of a DraftSet, already scoped to one
// profile's sections.
type Store interface {
	LoadSections(ctx context.Context) ([]domain.Section, error)
	SaveSection(ctx context.Context, id uuid.UUID, draft Draft) error
}

// DraftSet maps section ids to drafts. Saves are guarded per section: a
// second save of the same section while one is in flight is refused, but
// nothing prevents two DraftSets over the same profile from overwriting each
// other (last write wins).
type DraftSet struct {
	store Store

	mu     sync.Mutex
	order  []uuid.UUID
	types  map[uuid.UUID]domain.SectionType
	drafts map[uuid.UUID]Draft
	status map[uuid.UUID]Status
}

func NewDraftSet(store Store) *DraftSet {
	return &DraftSet{
		store:  store,
		types:  make(map[uuid.UUID]domain.SectionType),
		drafts: make(map[uuid.UUID]Draft),
		status: make(map[uuid.UUID]Status),
	}
}

// Load seeds drafts from the persisted sections, discarding any local edits.
// Sections with a nil payload get the empty content for their type.
func (s *DraftSet) Load(ctx context.Context) error {
	sections, err := s.store.LoadSections(ctx)
	if err != nil {
		return fmt.Errorf("loading sections: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.types = make(map[uuid.UUID]domain.SectionType)
	s.drafts = make(map[uuid.UUID]Draft)
	s.status = make(map[uuid.UUID]Status)

	for _, sec := range sections {
		content := sec.Content
		if content == nil {
			if content, err = domain.DefaultContent(sec.Type); err != nil {
				return err
			}
		}
		s.order = append(s.order, sec.ID)
		s.types[sec.ID] = sec.Type
		s.drafts[sec.ID] = Draft{Title: sec.Title, Content: content, Visible: sec.Visible}
		s.status[sec.ID] = StatusClean
	}
	return nil
}

// Update applies a pure transform to the draft for id. Persisted state is
// never touched.
func (s *DraftSet) Update(id uuid.UUID, transform func(*Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[id]
	if !ok {
		return ErrUnknownDraft
	}

	if err := transform(&draft); err != nil {
		return err
	}

	s.drafts[id] = draft
	if s.status[id] != StatusSaving {
		s.status[id] = StatusDirty
	}
	return nil
}

// Save persists the draft for id and reloads all drafts on success. On
// failure the draft is left untouched and stays dirty.
func (s *DraftSet) Save(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	draft, ok := s.drafts[id]
	if !ok {
		s.mu.Unlock()
		return ErrUnknownDraft
	}
	if s.status[id] == StatusSaving {
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	if !domain.ContentMatches(s.types[id], draft.Content) {
		s.mu.Unlock()
		return ErrContentMismatch
	}
	s.status[id] = StatusSaving
	s.mu.Unlock()

	if err := s.store.SaveSection(ctx, id, draft); err != nil {
		s.mu.Lock()
		s.status[id] = StatusDirty
		s.mu.Unlock()
		return fmt.Errorf("saving section: %w", err)
	}

	return s.Load(ctx)
}

// Draft returns a copy of the draft for id.
func (s *DraftSet) Draft(id uuid.UUID) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	return d, ok
}

func (s *DraftSet) Status(id uuid.UUID) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status[id]
}

// IDs returns section ids in display order.
func (s *DraftSet) IDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, len(s.order))
	copy(ids, s.order)
	return ids
}
