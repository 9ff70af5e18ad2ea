package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arlenko/folio/internal/domain"
	"github.com/arlenko/folio/internal/service"
	"github.com/arlenko/folio/internal/transport/http/middleware"
	"github.com/arlenko/folio/pkg/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SectionHandler struct {
	sectionService *service.SectionService
	logger         *zap.Logger
}

func NewSectionHandler(sectionService *service.SectionService, logger *zap.Logger) *SectionHandler {
	return &SectionHandler{sectionService: sectionService, logger: logger}
}

func (h *SectionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sections, err := h.sectionService.List(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found")
			return
		}
		h.logger.Error("list sections", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	if sections == nil {
		sections = []domain.Section{}
	}

	writeJSON(w, http.StatusOK, sections)
}

func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var body struct {
		Type  domain.SectionType `json:"type"`
		Title string             `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if !body.Type.Valid() {
		writeError(w, http.StatusBadRequest, "UNKNOWN_TYPE", "Section type must be text_list, links or gallery")
		return
	}
	if errs := validator.ValidateSectionTitle(body.Title); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	section, err := h.sectionService.Add(r.Context(), userID, body.Type, body.Title)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found")
			return
		}
		h.logger.Error("create section", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, section)
}

func (h *SectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sectionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid section ID")
		return
	}

	var input service.SaveSectionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if input.Title != nil {
		if errs := validator.ValidateSectionTitle(*input.Title); errs.HasErrors() {
			writeValidationErrors(w, errs)
			return
		}
	}

	section, err := h.sectionService.Save(r.Context(), userID, sectionID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadContent):
			writeError(w, http.StatusBadRequest, "BAD_CONTENT", "Content does not match section type")
		case errors.Is(err, service.ErrProfileNotFound), errors.Is(err, service.ErrSectionNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Section not found")
		case errors.Is(err, service.ErrNotSectionOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Section belongs to another profile")
		default:
			h.logger.Error("update section", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, section)
}

func (h *SectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sectionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid section ID")
		return
	}

	if err := h.sectionService.Delete(r.Context(), userID, sectionID); err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound), errors.Is(err, service.ErrSectionNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Section not found")
		case errors.Is(err, service.ErrNotSectionOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Section belongs to another profile")
		default:
			h.logger.Error("delete section", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
