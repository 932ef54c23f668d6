package handlers

import (
	"net/http"

	"cafesync-order-service/internal/models"
	"cafesync-order-service/pkg/response"
)

func (h *Handler) AdminGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Catalog.Settings(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, settings)
}

func (h *Handler) AdminUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.AppSettings
	if err := decodeJSON(r, &settings); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	if err := h.Catalog.SaveSettings(r.Context(), settings); err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, settings)
}
