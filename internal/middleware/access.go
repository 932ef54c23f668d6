package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"cafesync-order-service/internal/models"

	"go.uber.org/zap"
)

// Role names for the two staff-facing surfaces.
const (
	RoleKitchen = "kitchen"
	RoleAdmin   = "admin"
)

// SettingsSource yields the current app settings; the gate re-reads
// them per request so a password change applies without restart.
type SettingsSource func(ctx context.Context) (models.AppSettings, error)

// AccessGate protects kitchen and admin routes with the shared
// passwords from app settings, sent as the X-Access-Password header.
// The admin password also opens the kitchen surface.
func AccessGate(role string, settings SettingsSource, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := strings.TrimSpace(r.Header.Get("X-Access-Password"))
			if supplied == "" {
				unauthorized(w)
				return
			}

			cfg, err := settings(r.Context())
			if err != nil {
				logger.Warn("access gate settings read failed", zap.Error(err))
				unauthorized(w)
				return
			}

			if !allowed(role, cfg, supplied) {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func allowed(role string, cfg models.AppSettings, supplied string) bool {
	if equal(supplied, cfg.AdminPassword) {
		return true
	}
	return role == RoleKitchen && equal(supplied, cfg.KitchenPassword)
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"error":"UNAUTHORIZED","message":"Invalid access password"}`))
}
