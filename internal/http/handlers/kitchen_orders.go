package handlers

import (
	"net/http"
	"strings"

	"cafesync-order-service/internal/models"
	"cafesync-order-service/pkg/response"

	"github.com/go-chi/chi/v5"
)

// KitchenListOrders returns the order log, optionally filtered by
// branch and status. Oldest first, matching the display queue order.
func (h *Handler) KitchenListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Lifecycle.Orders(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}

	branchID := strings.TrimSpace(r.URL.Query().Get("branchId"))
	status := models.OrderStatus(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" && !status.Valid() {
		badRequest(w, "Unknown order status")
		return
	}

	filtered := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if branchID != "" && order.BranchID != branchID {
			continue
		}
		if status != "" && order.Status != status {
			continue
		}
		filtered = append(filtered, order)
	}
	response.Success(w, filtered)
}

type statusRequest struct {
	Status   models.OrderStatus `json:"status"`
	BranchID string             `json:"branchId"`
}

// KitchenUpdateStatus moves an order through the pipeline. The
// optional branchId stamps the receipt when the move completes the
// order.
func (h *Handler) KitchenUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in statusRequest
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	order, err := h.Lifecycle.SetStatus(r.Context(), chi.URLParam(r, "orderID"), in.Status, in.BranchID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, order)
}
