package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cafesync-order-service/internal/catalog"
	"cafesync-order-service/internal/config"
	"cafesync-order-service/internal/inventory"
	"cafesync-order-service/internal/lifecycle"
	"cafesync-order-service/internal/store"
	"cafesync-order-service/pkg/response"

	"go.uber.org/zap"
)

type Handler struct {
	Store     store.KeyValueStore
	Logger    *zap.Logger
	Config    config.Config
	Lifecycle *lifecycle.Service
	Ledger    *inventory.Ledger
	Catalog   *catalog.Service
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// serviceError maps domain sentinels onto the HTTP envelope.
func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrValidation) || errors.Is(err, catalog.ErrValidation):
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, lifecycle.ErrNotFound) || errors.Is(err, catalog.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		h.Logger.Error("request failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func badRequest(w http.ResponseWriter, message string) {
	response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", message)
}
