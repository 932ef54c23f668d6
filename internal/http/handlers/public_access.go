package handlers

import (
	"crypto/subtle"
	"net/http"

	"cafesync-order-service/pkg/response"
)

type accessRequest struct {
	Password string `json:"password"`
}

// PublicVerifyAccess checks a staff password and reports which surface
// it opens. The client stores the password and replays it as the
// X-Access-Password header on protected routes.
func (h *Handler) PublicVerifyAccess(w http.ResponseWriter, r *http.Request) {
	var in accessRequest
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if in.Password == "" {
		badRequest(w, "Password is required")
		return
	}

	settings, err := h.Catalog.Settings(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}

	switch {
	case constantEqual(in.Password, settings.AdminPassword):
		response.Success(w, map[string]string{"role": "admin"})
	case constantEqual(in.Password, settings.KitchenPassword):
		response.Success(w, map[string]string{"role": "kitchen"})
	default:
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid access password")
	}
}

func constantEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
