package handlers

import (
	"net/http"

	"cafesync-order-service/pkg/response"
)

// PublicMenu returns the full menu including availability and
// discounted prices. The storefront filters client side.
func (h *Handler) PublicMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.MenuItems(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *Handler) PublicBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.Catalog.Branches(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, branches)
}

// PublicSettings exposes the branding subset of app settings. The
// staff passwords never leave the server.
func (h *Handler) PublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Catalog.Settings(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}
	settings.KitchenPassword = ""
	settings.AdminPassword = ""
	response.Success(w, settings)
}
