package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/arlenko/folio/internal/domain"
	"github.com/arlenko/folio/internal/service"
	"github.com/arlenko/folio/internal/transport/http/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// In-memory stores, just enough to drive the services under the handlers.

type memUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func (m *memUserRepo) Create(ctx context.Context, u *domain.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == strings.ToLower(username) {
			return u, nil
		}
	}
	return nil, nil
}

type memProfileRepo struct {
	profiles map[uuid.UUID]*domain.Profile
}

func (m *memProfileRepo) CreatePrivileged(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	cp := *p
	m.profiles[p.ID] = &cp
	return &cp, nil
}

func (m *memProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

func (m *memProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	for _, p := range m.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memProfileRepo) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	for _, p := range m.profiles {
		if p.Username == strings.ToLower(username) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

type memSectionRepo struct {
	sections map[uuid.UUID]*domain.Section
}

func (m *memSectionRepo) Create(ctx context.Context, s *domain.Section) error {
	cp := *s
	m.sections[s.ID] = &cp
	return nil
}

func (m *memSectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Section, error) {
	s, ok := m.sections[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSectionRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Section, error) {
	return m.list(profileID, false), nil
}

func (m *memSectionRepo) ListVisibleByProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Section, error) {
	return m.list(profileID, true), nil
}

func (m *memSectionRepo) CountByProfile(ctx context.Context, profileID uuid.UUID) (int, error) {
	return len(m.list(profileID, false)), nil
}

func (m *memSectionRepo) Update(ctx context.Context, s *domain.Section) error {
	cp := *s
	m.sections[s.ID] = &cp
	return nil
}

func (m *memSectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.sections, id)
	return nil
}

func (m *memSectionRepo) list(profileID uuid.UUID, visibleOnly bool) []domain.Section {
	var out []domain.Section
	for _, s := range m.sections {
		if s.ProfileID == profileID && (!visibleOnly || s.Visible) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

type memMedia struct{ err error }

func (m *memMedia) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "http://cdn.local/folio-media/" + key, nil
}

type memCache struct{ data map[string][]byte }

func (m *memCache) Get(ctx context.Context, username string) ([]byte, error) {
	b, ok := m.data[username]
	if !ok {
		return nil, errors.New("miss")
	}
	return b, nil
}

func (m *memCache) Set(ctx context.Context, username string, payload []byte) error {
	m.data[username] = payload
	return nil
}

func (m *memCache) Delete(ctx context.Context, username string) error {
	delete(m.data, username)
	return nil
}

type env struct {
	profileService *service.ProfileService
	sectionService *service.SectionService
	profileRepo    *memProfileRepo
	cache          *memCache
}

func newEnv() *env {
	users := &memUserRepo{users: make(map[uuid.UUID]*domain.User)}
	profiles := &memProfileRepo{profiles: make(map[uuid.UUID]*domain.Profile)}
	sections := &memSectionRepo{sections: make(map[uuid.UUID]*domain.Section)}
	media := &memMedia{}
	cache := &memCache{data: make(map[string][]byte)}
	logger := zap.NewNop()

	return &env{
		profileService: service.NewProfileService(profiles, sections, users, media, cache, logger),
		sectionService: service.NewSectionService(sections, profiles, cache, logger),
		profileRepo:    profiles,
		cache:          cache,
	}
}

func authed(r *http.Request, userID uuid.UUID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserIDKey, userID))
}

func TestCreateProfileMissingUsername(t *testing.T) {
	e := newEnv()
	h := NewProfileHandler(e.profileService, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username is required")
}

func TestCreateProfileShortUsername(t *testing.T) {
	e := newEnv()
	h := NewProfileHandler(e.profileService, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles", strings.NewReader(`{"username":"ab"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username must be 3-20 characters")
}

func TestCreateProfileNoIdentity(t *testing.T) {
	e := newEnv()
	h := NewProfileHandler(e.profileService, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles", strings.NewReader(`{"username":"bob_1"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProfileWithExplicitUserID(t *testing.T) {
	e := newEnv()
	h := NewProfileHandler(e.profileService, zap.NewNop())

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles",
		strings.NewReader(`{"username":"Bob_1","user_id":"`+userID.String()+`"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"bob_1"`)
}

func TestCreateProfileTakenCaseInsensitive(t *testing.T) {
	e := newEnv()
	h := NewProfileHandler(e.profileService, zap.NewNop())

	first := httptest.NewRequest(http.MethodPost, "/api/v1/profiles",
		strings.NewReader(`{"username":"bob_1","user_id":"`+uuid.NewString()+`"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, first)
	require.Equal(t, http.StatusCreated, rec.Code)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/profiles",
		strings.NewReader(`{"username":"BOB_1","user_id":"`+uuid.NewString()+`"}`))
	rec = httptest.NewRecorder()
	h.Create(rec, second)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "USERNAME_TAKEN")
}

func TestMeReturnsOwnProfile(t *testing.T) {
	e := newEnv()
	h := NewProfileHandler(e.profileService, zap.NewNop())

	userID := uuid.New()
	_, err := e.profileService.Provision(context.Background(), &userID, service.ProvisionInput{Username: "bob_1"})
	require.NoError(t, err)

	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil), userID)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"bob_1"`)
}

func TestUpdateProfilePatch(t *testing.T) {
	e := newEnv()
	h := NewProfileHandler(e.profileService, zap.NewNop())

	userID := uuid.New()
	_, err := e.profileService.Provision(context.Background(), &userID, service.ProvisionInput{Username: "bob_1"})
	require.NoError(t, err)

	req := authed(httptest.NewRequest(http.MethodPatch, "/api/v1/profile",
		strings.NewReader(`{"bio":"hello there","theme":"dark"}`)), userID)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"bio":"hello there"`)
	assert.Contains(t, body, `"theme":"dark"`)
}

func TestSectionLifecycleOverHTTP(t *testing.T) {
	e := newEnv()
	h := NewSectionHandler(e.sectionService, zap.NewNop())

	userID := uuid.New()
	_, err := e.profileService.Provision(context.Background(), &userID, service.ProvisionInput{Username: "bob_1"})
	require.NoError(t, err)

	// add
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/sections",
		strings.NewReader(`{"type":"links","title":"Links"}`)), userID)
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// save one link
	req = authed(httptest.NewRequest(http.MethodPatch, "/api/v1/sections/"+created.ID.String(),
		strings.NewReader(`{"content":{"links":[{"title":"My Link","url":"https://example.com"}]}}`)), userID)
	req.SetPathValue("id", created.ID.String())
	rec = httptest.NewRecorder()
	h.Update(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// reload
	req = authed(httptest.NewRequest(http.MethodGet, "/api/v1/sections", nil), userID)
	rec = httptest.NewRecorder()
	h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"url":"https://example.com"`)

	// delete
	req = authed(httptest.NewRequest(http.MethodDelete, "/api/v1/sections/"+created.ID.String(), nil), userID)
	req.SetPathValue("id", created.ID.String())
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSectionCreateUnknownType(t *testing.T) {
	e := newEnv()
	h := NewSectionHandler(e.sectionService, zap.NewNop())

	userID := uuid.New()
	_, err := e.profileService.Provision(context.Background(), &userID, service.ProvisionInput{Username: "bob_1"})
	require.NoError(t, err)

	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/sections",
		strings.NewReader(`{"type":"embed"}`)), userID)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNKNOWN_TYPE")
}

func TestPublicJSONCachesPayload(t *testing.T) {
	e := newEnv()
	h := NewPublicHandler(e.profileService, e.cache, nil, zap.NewNop())

	userID := uuid.New()
	_, err := e.profileService.Provision(context.Background(), &userID, service.ProvisionInput{Username: "bob_1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/bob_1", nil)
	req.SetPathValue("username", "bob_1")
	rec := httptest.NewRecorder()
	h.GetJSON(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sections":[]`)
	assert.NotEmpty(t, e.cache.data["bob_1"], "payload is cached for the next hit")

	// second request is served from cache
	req = httptest.NewRequest(http.MethodGet, "/api/v1/profiles/bob_1", nil)
	req.SetPathValue("username", "bob_1")
	rec = httptest.NewRecorder()
	h.GetJSON(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublicJSONUnknownProfile(t *testing.T) {
	e := newEnv()
	h := NewPublicHandler(e.profileService, e.cache, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/nobody", nil)
	req.SetPathValue("username", "nobody")
	rec := httptest.NewRecorder()
	h.GetJSON(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
