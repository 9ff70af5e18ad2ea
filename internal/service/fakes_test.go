package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/arlenko/folio/internal/domain"
	"github.com/google/uuid"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == strings.ToLower(username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*domain.Profile

	privilegedErr   error
	privilegedCalls int
	createCalls     int
	createErr       error
	updateErr       error
	lookupCalls     int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (f *fakeProfileRepo) CreatePrivileged(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	f.privilegedCalls++
	if f.privilegedErr != nil {
		return nil, f.privilegedErr
	}
	cp := *p
	f.profiles[p.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	f.lookupCalls++
	for _, p := range f.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileRepo) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	f.lookupCalls++
	for _, p := range f.profiles {
		if p.Username == strings.ToLower(username) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

type fakeSectionRepo struct {
	sections map[uuid.UUID]*domain.Section
}

func newFakeSectionRepo() *fakeSectionRepo {
	return &fakeSectionRepo{sections: make(map[uuid.UUID]*domain.Section)}
}

func (f *fakeSectionRepo) Create(ctx context.Context, s *domain.Section) error {
	cp := *s
	f.sections[s.ID] = &cp
	return nil
}

func (f *fakeSectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Section, error) {
	s, ok := f.sections[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSectionRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Section, error) {
	return f.list(profileID, false), nil
}

func (f *fakeSectionRepo) ListVisibleByProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Section, error) {
	return f.list(profileID, true), nil
}

func (f *fakeSectionRepo) CountByProfile(ctx context.Context, profileID uuid.UUID) (int, error) {
	return len(f.list(profileID, false)), nil
}

func (f *fakeSectionRepo) Update(ctx context.Context, s *domain.Section) error {
	if _, ok := f.sections[s.ID]; !ok {
		return errors.New("section does not exist")
	}
	cp := *s
	f.sections[s.ID] = &cp
	return nil
}

func (f *fakeSectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.sections, id)
	return nil
}

func (f *fakeSectionRepo) list(profileID uuid.UUID, visibleOnly bool) []domain.Section {
	var out []domain.Section
	for _, s := range f.sections {
		if s.ProfileID != profileID {
			continue
		}
		if visibleOnly && !s.Visible {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type fakeMediaStore struct {
	uploadErr error
	uploads   []string
	baseURL   string
}

func (f *fakeMediaStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, key)
	return f.baseURL + "/" + key, nil
}

type fakePageCache struct {
	data    map[string][]byte
	deleted []string
}

func newFakePageCache() *fakePageCache {
	return &fakePageCache{data: make(map[string][]byte)}
}

func (f *fakePageCache) Get(ctx context.Context, username string) ([]byte, error) {
	b, ok := f.data[strings.ToLower(username)]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return b, nil
}

func (f *fakePageCache) Set(ctx context.Context, username string, payload []byte) error {
	f.data[strings.ToLower(username)] = payload
	return nil
}

func (f *fakePageCache) Delete(ctx context.Context, username string) error {
	f.deleted = append(f.deleted, strings.ToLower(username))
	delete(f.data, strings.ToLower(username))
	return nil
}
