package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arlenko/folio/internal/domain"
	"github.com/arlenko/folio/internal/render"
	"github.com/arlenko/folio/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PublicHandler struct {
	profileService *service.ProfileService
	cache          service.PageCache
	renderer       *render.Renderer
	logger         *zap.Logger
}

func NewPublicHandler(profileService *service.ProfileService, cache service.PageCache, renderer *render.Renderer, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{
		profileService: profileService,
		cache:          cache,
		renderer:       renderer,
		logger:         logger,
	}
}

type publicPage struct {
	Profile  *domain.Profile  `json:"profile"`
	Sections []domain.Section `json:"sections"`
}

// GetJSON serves the public page payload, cache-aside with a short TTL.
func (h *PublicHandler) GetJSON(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	if payload, err := h.cache.Get(r.Context(), username); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
		return
	}

	profile, sections, err := h.profileService.PublicPage(r.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found")
			return
		}
		h.logger.Error("public page", zap.String("username", username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	if sections == nil {
		sections = []domain.Section{}
	}

	payload, err := json.Marshal(publicPage{Profile: profile, Sections: sections})
	if err != nil {
		h.logger.Error("marshal public page", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	if err := h.cache.Set(r.Context(), profile.Username, payload); err != nil {
		h.logger.Warn("caching public page", zap.String("username", profile.Username), zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// GetHTML renders the public page at /{username}. The active section comes
// from the section query param and defaults to the first one.
func (h *PublicHandler) GetHTML(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	profile, sections, err := h.profileService.PublicPage(r.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("public page", zap.String("username", username), zap.Error(err))
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	activeID := uuid.Nil
	if raw := r.URL.Query().Get("section"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			activeID = id
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.ProfilePage(w, profile, sections, activeID); err != nil {
		h.logger.Error("render public page", zap.String("username", username), zap.Error(err))
	}
}
