package handlers

import (
	"net/http"

	"cafesync-order-service/internal/lifecycle"
	"cafesync-order-service/pkg/response"

	"github.com/go-chi/chi/v5"
)

// PublicCreateOrder places a new order from the storefront.
func (h *Handler) PublicCreateOrder(w http.ResponseWriter, r *http.Request) {
	var in lifecycle.PlaceOrderInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	order, err := h.Lifecycle.PlaceOrder(r.Context(), in)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Created(w, order)
}

// PublicGetOrder lets a customer follow their order by id.
func (h *Handler) PublicGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Lifecycle.Order(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, order)
}

type feedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// PublicSubmitFeedback attaches a rating and comment to a completed
// order.
func (h *Handler) PublicSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var in feedbackRequest
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	order, err := h.Lifecycle.SubmitFeedback(r.Context(), chi.URLParam(r, "orderID"), in.Rating, in.Comment)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	response.Success(w, order)
}
