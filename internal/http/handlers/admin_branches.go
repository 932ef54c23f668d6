package handlers

import (
	"net/http"

	"cafesync-order-service/internal/models"
	"cafesync-order-service/pkg/response"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) AdminCreateBranch(w http.ResponseWriter, r *http.Request) {
	var branch models.Branch
	if err := decodeJSON(r, &branch); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	created, err := h.Catalog.AddBranch(r.Context(), branch)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Created(w, created)
}

func (h *Handler) AdminUpdateBranch(w http.ResponseWriter, r *http.Request) {
	var branch models.Branch
	if err := decodeJSON(r, &branch); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	branch.ID = chi.URLParam(r, "branchID")

	updated, err := h.Catalog.UpdateBranch(r.Context(), branch)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, updated)
}

// AdminDeleteBranch removes the branch record only. Menu items and
// orders referencing the branch keep their ids.
func (h *Handler) AdminDeleteBranch(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteBranch(r.Context(), chi.URLParam(r, "branchID")); err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, map[string]bool{"deleted": true})
}
