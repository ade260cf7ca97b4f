package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vendix/domain-gateway/internal/storage"
)

// organizationResponse is the JSON shape of an organization.
type organizationResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// storeResponse is the JSON shape of a store.
type storeResponse struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	CreatedAt      time.Time `json:"created_at"`
}

// createOrganizationRequest is the request body for POST /organizations
type createOrganizationRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// createStoreRequest is the request body for POST /stores
type createStoreRequest struct {
	OrganizationID int64  `json:"organization_id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
}

// HandleCreateOrganization creates an organization.
// POST /organizations
func (h *Handler) HandleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req createOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.Slug == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "name and slug required")
		return
	}

	org, err := h.storage.CreateOrganization(r.Context(), req.Name, req.Slug)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			WriteError(w, http.StatusConflict, ErrCodeDuplicate, "slug is already taken")
			return
		}
		h.logger.Error("failed to create organization", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, organizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		Slug:      org.Slug,
		CreatedAt: org.CreatedAt,
	})
}

// HandleGetOrganization returns an organization by ID.
// GET /organizations/{id}
func (h *Handler) HandleGetOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid organization ID")
		return
	}

	org, err := h.storage.GetOrganization(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "organization not found")
			return
		}
		h.logger.Error("failed to get organization", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, organizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		Slug:      org.Slug,
		CreatedAt: org.CreatedAt,
	})
}

// HandleCreateStore creates a store under an organization.
// POST /stores
func (h *Handler) HandleCreateStore(w http.ResponseWriter, r *http.Request) {
	var req createStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	if req.OrganizationID == 0 || req.Name == "" || req.Slug == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "organization_id, name and slug required")
		return
	}

	store, err := h.storage.CreateStore(r.Context(), req.OrganizationID, req.Name, req.Slug)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "organization not found")
		case errors.Is(err, storage.ErrDuplicate):
			WriteError(w, http.StatusConflict, ErrCodeDuplicate, "slug is already taken")
		default:
			h.logger.Error("failed to create store", "error", err)
			WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, storeResponse{
		ID:             store.ID,
		OrganizationID: store.OrganizationID,
		Name:           store.Name,
		Slug:           store.Slug,
		CreatedAt:      store.CreatedAt,
	})
}

// HandleGetStore returns a store by ID.
// GET /stores/{id}
func (h *Handler) HandleGetStore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid store ID")
		return
	}

	store, err := h.storage.GetStore(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "store not found")
			return
		}
		h.logger.Error("failed to get store", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, storeResponse{
		ID:             store.ID,
		OrganizationID: store.OrganizationID,
		Name:           store.Name,
		Slug:           store.Slug,
		CreatedAt:      store.CreatedAt,
	})
}
