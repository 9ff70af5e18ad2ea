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

const maxUploadBytes = 10 << 20

type ProfileHandler struct {
	profileService *service.ProfileService
	logger         *zap.Logger
}

func NewProfileHandler(profileService *service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, logger: logger}
}

// Me returns the caller's profile, provisioning it lazily if the row is
// missing.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found")
			return
		}
		h.logger.Error("get profile", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Create provisions a profile for the session identity, or for an explicit
// user_id when no session is present.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
		UserID      string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.Username(body.Username); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	input := service.ProvisionInput{
		Username:    body.Username,
		DisplayName: body.DisplayName,
	}
	if body.UserID != "" {
		explicit, err := uuid.Parse(body.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
			return
		}
		input.UserID = explicit
	}

	var session *uuid.UUID
	if id, ok := middleware.UserIDFrom(r.Context()); ok {
		session = &id
	}

	profile, err := h.profileService.Provision(r.Context(), session, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameRequired), errors.Is(err, service.ErrInvalidUsername):
			writeError(w, http.StatusBadRequest, "INVALID_USERNAME", err.Error())
		case errors.Is(err, service.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "No identity for profile creation")
		case errors.Is(err, service.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "USERNAME_TAKEN", "Username is already taken")
		case errors.Is(err, service.ErrProfileExists):
			writeError(w, http.StatusConflict, "PROFILE_EXISTS", "Profile already exists")
		default:
			h.logger.Error("create profile", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateProfileUpdate(input.DisplayName, input.Bio, input.Theme); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	profile, err := h.profileService.Update(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found")
			return
		}
		h.logger.Error("update profile", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, domain.MediaAvatar)
}

func (h *ProfileHandler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, domain.MediaBanner)
}

// upload stores a profile image. A storage failure is reported to the caller
// and the previously persisted URL stays in place.
func (h *ProfileHandler) upload(w http.ResponseWriter, r *http.Request, purpose domain.MediaPurpose) {
	userID := middleware.GetUserID(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Could not parse upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Missing file field")
		return
	}
	defer file.Close()

	profile, err := h.profileService.UploadMedia(
		r.Context(), userID, purpose,
		header.Filename, file, header.Size, header.Header.Get("Content-Type"),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedMedia):
			writeError(w, http.StatusBadRequest, "UNSUPPORTED_MEDIA", "File type is not supported")
		case errors.Is(err, service.ErrProfileNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found")
		default:
			h.logger.Error("upload media", zap.String("purpose", string(purpose)), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "UPLOAD_FAILED", "Upload failed, previous image kept")
		}
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
