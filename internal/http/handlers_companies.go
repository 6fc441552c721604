package httpx

import (
	"errors"
	"net/http"

	"github.com/hirespherex/portal-api/internal/data"
	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
	"github.com/hirespherex/portal-api/internal/service"
)

// CompanyHandlers provides HTTP handlers for company operations.
type CompanyHandlers struct {
	Svc *service.CompanyService
}

const (
	maxCompanyListLimit = 100 // Maximum number of companies that can be requested in one call
)

// Create handles HTTP requests to register a new company.
func (h *CompanyHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCompanyRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	company, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case apperrors.IsConflict(err):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, company)
}

// List handles HTTP requests to list companies with pagination and filters.
func (h *CompanyHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxCompanyListLimit)

	opts := model.CompaniesListOptions{
		Limit:  limit,
		Offset: offset,
		Q:      optStringQuery(r, "q"),
		Sort:   r.URL.Query().Get("sort"),
		Dir:    r.URL.Query().Get("dir"),
	}
	if raw := optStringQuery(r, "size"); raw != nil {
		size := model.CompanySize(*raw)
		opts.Size = &size
	}

	companies, err := h.Svc.ListWithOptions(r.Context(), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"companies": companies,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetByID handles HTTP requests to get a company by ID.
func (h *CompanyHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("company id is required")},
		)
		return
	}

	company, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrCompanyNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "company_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, company)
}

// Update handles HTTP requests to update a company.
func (h *CompanyHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("company id is required")},
		)
		return
	}

	var req model.UpdateCompanyRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	company, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrCompanyNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "company_not_found", Err: err})
		case apperrors.IsConflict(err):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, company)
}

// Delete handles HTTP requests to delete a company.
func (h *CompanyHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("company id is required")},
		)
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		if apperrors.IsForeignKey(err) {
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "company_in_use", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}

	if !deleted {
		WriteError(
			w,
			ErrorParams{Code: http.StatusNotFound, ErrCode: "company_not_found", Err: errors.New("company not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
