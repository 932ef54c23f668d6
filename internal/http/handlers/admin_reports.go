package handlers

import (
	"net/http"
	"time"

	"cafesync-order-service/internal/analytics"
	"cafesync-order-service/internal/models"
	"cafesync-order-service/internal/store"
	"cafesync-order-service/pkg/response"
)

// AdminAnalytics computes the dashboard snapshot from the current
// order log and menu. Nothing is cached; the dataset is small enough
// to recompute per request.
func (h *Handler) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Lifecycle.Orders(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}
	menu, err := h.Catalog.MenuItems(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, analytics.Compute(orders, menu, time.Now()))
}

func (h *Handler) AdminListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.Lifecycle.Receipts(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, receipts)
}

// AdminListInventory returns the per-item stock mirror maintained by
// the inventory ledger.
func (h *Handler) AdminListInventory(w http.ResponseWriter, r *http.Request) {
	records, err := store.Load(r.Context(), h.Store, store.KeyInventory, []models.Inventory{})
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, records)
}

// AdminRefreshInventory re-runs the stock level sweep on demand.
func (h *Handler) AdminRefreshInventory(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.CheckLevels(r.Context()); err != nil {
		h.serviceError(w, err)
		return
	}
	records, err := store.Load(r.Context(), h.Store, store.KeyInventory, []models.Inventory{})
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, records)
}
