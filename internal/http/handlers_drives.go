package httpx

import (
	"errors"
	"net/http"

	"github.com/hirespherex/portal-api/internal/data"
	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
	"github.com/hirespherex/portal-api/internal/service"
)

// DriveHandlers provides HTTP handlers for placement drives and the company
// drives nested under them.
type DriveHandlers struct {
	Svc *service.PlacementService
}

const (
	maxDriveListLimit = 100 // Maximum number of drives that can be requested in one call
)

// CreateDrive handles HTTP requests to open a new placement drive.
func (h *DriveHandlers) CreateDrive(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePlacementDriveRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	drive, err := h.Svc.CreateDrive(r.Context(), &req)
	if err != nil {
		if isValidationError(err) {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusCreated, drive)
}

// ListDrives handles HTTP requests to list placement drives.
func (h *DriveHandlers) ListDrives(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxDriveListLimit)

	drives, err := h.Svc.ListDrives(r.Context(), model.PlacementDrivesListOptions{
		Limit:  limit,
		Offset: offset,
		Q:      optStringQuery(r, "q"),
		Sort:   r.URL.Query().Get("sort"),
		Dir:    r.URL.Query().Get("dir"),
	})
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"placement_drives": drives,
		"limit":            limit,
		"offset":           offset,
	})
}

// GetDrive handles HTTP requests to get a placement drive by ID.
func (h *DriveHandlers) GetDrive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("drive id is required")},
		)
		return
	}

	drive, err := h.Svc.GetDrive(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrPlacementDriveNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "drive_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, drive)
}

// UpdateDrive handles HTTP requests to update a placement drive.
func (h *DriveHandlers) UpdateDrive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("drive id is required")},
		)
		return
	}

	var req model.UpdatePlacementDriveRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	drive, err := h.Svc.UpdateDrive(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrPlacementDriveNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "drive_not_found", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, drive)
}

// DeleteDrive handles HTTP requests to delete a placement drive.
func (h *DriveHandlers) DeleteDrive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("drive id is required")},
		)
		return
	}

	deleted, err := h.Svc.DeleteDrive(r.Context(), id)
	if err != nil {
		if apperrors.IsForeignKey(err) {
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "drive_in_use", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}

	if !deleted {
		WriteError(
			w,
			ErrorParams{Code: http.StatusNotFound, ErrCode: "drive_not_found", Err: errors.New("placement drive not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// CreateCompanyDrive handles HTTP requests to add a company's participation
// to a placement drive.
func (h *DriveHandlers) CreateCompanyDrive(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCompanyDriveRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	drive, err := h.Svc.CreateCompanyDrive(r.Context(), &req)
	if err != nil {
		switch {
		case apperrors.IsForeignKey(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_reference", Err: err})
		case apperrors.IsConflict(err):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "company_drive_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, drive)
}

// ListCompanyDrives handles HTTP requests to list company drives with filters.
func (h *DriveHandlers) ListCompanyDrives(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxDriveListLimit)

	opts := model.CompanyDrivesListOptions{
		Limit:            limit,
		Offset:           offset,
		PlacementDriveID: optStringQuery(r, "placement_drive_id"),
		CompanyID:        optStringQuery(r, "company_id"),
		Sort:             r.URL.Query().Get("sort"),
		Dir:              r.URL.Query().Get("dir"),
	}
	if raw := optStringQuery(r, "status"); raw != nil {
		status := model.DriveStatus(*raw)
		opts.Status = &status
	}
	if raw := optStringQuery(r, "drive_type"); raw != nil {
		dt := model.DriveType(*raw)
		opts.DriveType = &dt
	}

	drives, err := h.Svc.ListCompanyDrives(r.Context(), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"company_drives": drives,
		"limit":          limit,
		"offset":         offset,
	})
}

// GetCompanyDrive handles HTTP requests to get a company drive by ID.
func (h *DriveHandlers) GetCompanyDrive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("company drive id is required")},
		)
		return
	}

	drive, err := h.Svc.GetCompanyDrive(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrCompanyDriveNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "company_drive_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, drive)
}

// UpdateCompanyDrive handles HTTP requests to update a company drive.
func (h *DriveHandlers) UpdateCompanyDrive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("company drive id is required")},
		)
		return
	}

	var req model.UpdateCompanyDriveRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	drive, err := h.Svc.UpdateCompanyDrive(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrCompanyDriveNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "company_drive_not_found", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, drive)
}

// DeleteCompanyDrive handles HTTP requests to delete a company drive.
func (h *DriveHandlers) DeleteCompanyDrive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("company drive id is required")},
		)
		return
	}

	deleted, err := h.Svc.DeleteCompanyDrive(r.Context(), id)
	if err != nil {
		if apperrors.IsForeignKey(err) {
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "company_drive_in_use", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}

	if !deleted {
		WriteError(
			w,
			ErrorParams{Code: http.StatusNotFound, ErrCode: "company_drive_not_found", Err: errors.New("company drive not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
