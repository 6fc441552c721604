package httpx

import (
	"errors"
	"net/http"

	"github.com/hirespherex/portal-api/internal/data"
	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
	"github.com/hirespherex/portal-api/internal/service"
)

// StudentHandlers provides HTTP handlers for student profiles.
type StudentHandlers struct {
	Svc *service.StudentService
}

const (
	maxStudentListLimit = 100 // Maximum number of students that can be requested in one call
)

// Create handles HTTP requests to register a student profile.
func (h *StudentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateStudentProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	profile, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case apperrors.IsConflict(err):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "student_conflict", Err: err})
		case apperrors.IsForeignKey(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_reference", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, profile)
}

// List handles HTTP requests to list student profiles with filters.
func (h *StudentHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxStudentListLimit)

	profiles, err := h.Svc.ListWithOptions(r.Context(), model.StudentsListOptions{
		Limit:       limit,
		Offset:      offset,
		Q:           optStringQuery(r, "q"),
		Program:     optStringQuery(r, "program"),
		Verified:    optBoolQuery(r, "verified"),
		Placed:      optBoolQuery(r, "placed"),
		JoiningYear: optIntQuery(r, "joining_year"),
		Sort:        r.URL.Query().Get("sort"),
		Dir:         r.URL.Query().Get("dir"),
	})
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"students": profiles,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetByUserID handles HTTP requests to get a student profile by user ID.
func (h *StudentHandlers) GetByUserID(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")},
		)
		return
	}

	profile, err := h.Svc.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, data.ErrStudentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "student_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

// GetMe returns the student profile of the authenticated user.
func (h *StudentHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(
			w,
			ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("no active session")},
		)
		return
	}

	profile, err := h.Svc.GetByUserID(r.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, data.ErrStudentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "student_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

// UpdateMe handles HTTP requests by a student to edit their own profile.
// The placed and verified flags stay under placement-team control.
func (h *StudentHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(
			w,
			ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("no active session")},
		)
		return
	}

	var req model.UpdateStudentProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Placed = nil
	req.Verified = nil

	profile, err := h.Svc.Update(r.Context(), sess.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrStudentNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "student_not_found", Err: err})
		case apperrors.IsConflict(err):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "student_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

// Update handles HTTP requests to update a student profile.
func (h *StudentHandlers) Update(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")},
		)
		return
	}

	var req model.UpdateStudentProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	profile, err := h.Svc.Update(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrStudentNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "student_not_found", Err: err})
		case apperrors.IsConflict(err):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "student_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

// Verify handles HTTP requests to mark a student's academic record verified.
func (h *StudentHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")},
		)
		return
	}

	profile, err := h.Svc.Verify(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrStudentNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "student_not_found", Err: err})
		case errors.Is(err, service.ErrStudentNotVerifiable):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "student_not_verifiable", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "verify_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

// Delete handles HTTP requests to delete a student profile.
func (h *StudentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")},
		)
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), userID)
	if err != nil {
		if apperrors.IsForeignKey(err) {
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "student_in_use", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}

	if !deleted {
		WriteError(
			w,
			ErrorParams{Code: http.StatusNotFound, ErrCode: "student_not_found", Err: errors.New("student not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
