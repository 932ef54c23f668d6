package httpapi

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"cafesync-order-service/internal/http/handlers"
	"cafesync-order-service/internal/middleware"
	"cafesync-order-service/internal/models"
	"cafesync-order-service/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(h *handlers.Handler, logger *zap.Logger, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(middleware.RequestID())

	cfg := h.Config
	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Content-Type",
				"X-Requested-With",
				"X-Access-Password",
				"Cache-Control",
				"Pragma",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	settings := func(ctx context.Context) (models.AppSettings, error) {
		return h.Catalog.Settings(ctx)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/menu", h.PublicMenu)
		r.Get("/branches", h.PublicBranches)
		r.Get("/settings", h.PublicSettings)
		r.Post("/orders", h.PublicCreateOrder)
		r.Get("/orders/{orderID}", h.PublicGetOrder)
		r.Post("/orders/{orderID}/feedback", h.PublicSubmitFeedback)
		r.Post("/access/verify", h.PublicVerifyAccess)
	})

	r.Route("/api/kitchen", func(r chi.Router) {
		r.Use(middleware.AccessGate(middleware.RoleKitchen, settings, logger))

		r.Get("/orders", h.KitchenListOrders)
		r.Put("/orders/{orderID}/status", h.KitchenUpdateStatus)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AccessGate(middleware.RoleAdmin, settings, logger))

		r.Get("/menu", h.AdminListMenu)
		r.Post("/menu", h.AdminCreateMenuItem)
		r.Put("/menu/{itemID}", h.AdminUpdateMenuItem)
		r.Delete("/menu/{itemID}", h.AdminDeleteMenuItem)

		r.Post("/branches", h.AdminCreateBranch)
		r.Put("/branches/{branchID}", h.AdminUpdateBranch)
		r.Delete("/branches/{branchID}", h.AdminDeleteBranch)

		r.Get("/settings", h.AdminGetSettings)
		r.Put("/settings", h.AdminUpdateSettings)

		r.Get("/analytics", h.AdminAnalytics)
		r.Get("/receipts", h.AdminListReceipts)
		r.Get("/inventory", h.AdminListInventory)
		r.Post("/inventory/refresh", h.AdminRefreshInventory)
	})

	if wsServer != nil {
		r.Get("/ws/kitchen/orders", wsServer.HandleKitchenOrders)
	}

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
