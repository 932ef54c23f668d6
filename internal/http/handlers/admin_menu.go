package handlers

import (
	"net/http"

	"cafesync-order-service/internal/models"
	"cafesync-order-service/pkg/response"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) AdminListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.MenuItems(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *Handler) AdminCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item models.MenuItem
	if err := decodeJSON(r, &item); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	created, err := h.Catalog.AddMenuItem(r.Context(), item)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Created(w, created)
}

func (h *Handler) AdminUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item models.MenuItem
	if err := decodeJSON(r, &item); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	item.ID = chi.URLParam(r, "itemID")

	updated, err := h.Catalog.UpdateMenuItem(r.Context(), item)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, updated)
}

func (h *Handler) AdminDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteMenuItem(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, map[string]bool{"deleted": true})
}
