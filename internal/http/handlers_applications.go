package httpx

import (
	"errors"
	"net/http"

	"github.com/hirespherex/portal-api/internal/data"
	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
	"github.com/hirespherex/portal-api/internal/service"
)

// ApplicationHandlers provides HTTP handlers for drive applications.
type ApplicationHandlers struct {
	Svc *service.ApplicationService
}

const (
	maxApplicationListLimit = 100 // Maximum number of applications that can be requested in one call
)

// Apply handles HTTP requests by a student to apply to a company drive. The
// applicant is always the authenticated user; the body only names the drive.
func (h *ApplicationHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(
			w,
			ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("no active session")},
		)
		return
	}

	var req model.CreateApplicationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.Apply(r.Context(), sess.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotRegistered):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "student_not_registered", Err: err})
		case errors.Is(err, data.ErrCompanyDriveNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "company_drive_not_found", Err: err})
		case errors.Is(err, service.ErrDriveClosed):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "drive_closed", Err: err})
		case errors.Is(err, service.ErrAlreadyPlaced):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "already_placed", Err: err})
		case errors.Is(err, service.ErrStudentNotEligible):
			WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "not_eligible", Err: err})
		case apperrors.IsConflict(err):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "application_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "apply_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, app)
}

// List handles HTTP requests to list applications with filters.
func (h *ApplicationHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxApplicationListLimit)

	opts := model.ApplicationsListOptions{
		Limit:          limit,
		Offset:         offset,
		CompanyDriveID: optStringQuery(r, "company_drive_id"),
		StudentUserID:  optStringQuery(r, "student_user_id"),
		Sort:           r.URL.Query().Get("sort"),
		Dir:            r.URL.Query().Get("dir"),
	}
	if raw := optStringQuery(r, "status"); raw != nil {
		status := model.ApplicationStatus(*raw)
		opts.Status = &status
	}

	apps, err := h.Svc.ListWithOptions(r.Context(), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"limit":        limit,
		"offset":       offset,
	})
}

// ListMine lists the authenticated student's own applications.
func (h *ApplicationHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(
			w,
			ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("no active session")},
		)
		return
	}

	limit, offset := ParseLimitOffset(r, 50, maxApplicationListLimit)
	studentID := sess.UserID

	apps, err := h.Svc.ListWithOptions(r.Context(), model.ApplicationsListOptions{
		Limit:         limit,
		Offset:        offset,
		StudentUserID: &studentID,
		Sort:          r.URL.Query().Get("sort"),
		Dir:           r.URL.Query().Get("dir"),
	})
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"limit":        limit,
		"offset":       offset,
	})
}

// GetByID handles HTTP requests to get an application by ID.
func (h *ApplicationHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")},
		)
		return
	}

	app, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "application_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// UpdateStatus handles HTTP requests to move an application along the offer
// funnel.
func (h *ApplicationHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")},
		)
		return
	}

	var req model.UpdateApplicationStatusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.UpdateStatus(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrApplicationNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "application_not_found", Err: err})
		case errors.Is(err, data.ErrJobNotFound):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_reference", Err: err})
		case errors.Is(err, service.ErrInvalidTransition):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "invalid_transition", Err: err})
		case errors.Is(err, service.ErrOfferedJobMismatch):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "offered_job_mismatch", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// RespondToOffer handles HTTP requests by a student to accept or decline an
// offer on their own application.
func (h *ApplicationHandlers) RespondToOffer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")},
		)
		return
	}

	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(
			w,
			ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("no active session")},
		)
		return
	}

	var req struct {
		Accept *bool `json:"accept"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Accept == nil {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: errors.New("accept is required")},
		)
		return
	}

	app, err := h.Svc.RespondToOffer(r.Context(), id, sess.UserID, *req.Accept)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrApplicationNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "application_not_found", Err: err})
		case apperrors.IsForbidden(err):
			WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "not_owner", Err: err})
		case errors.Is(err, service.ErrInvalidTransition):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "invalid_transition", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "respond_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// Withdraw handles HTTP requests by a student to withdraw their own
// application. Only the applicant may withdraw, and only while still applied.
func (h *ApplicationHandlers) Withdraw(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")},
		)
		return
	}

	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(
			w,
			ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("no active session")},
		)
		return
	}

	deleted, err := h.Svc.Withdraw(r.Context(), id, sess.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTransition):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "invalid_transition", Err: err})
		case apperrors.IsForbidden(err):
			WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "not_owner", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "withdraw_failed", Err: err})
		}
		return
	}

	if !deleted {
		WriteError(
			w,
			ErrorParams{Code: http.StatusNotFound, ErrCode: "application_not_found", Err: errors.New("application not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"withdrawn": true})
}
