package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafesync-order-service/internal/catalog"
	"cafesync-order-service/internal/config"
	"cafesync-order-service/internal/feed"
	httpapi "cafesync-order-service/internal/http"
	"cafesync-order-service/internal/http/handlers"
	"cafesync-order-service/internal/inventory"
	"cafesync-order-service/internal/lifecycle"
	"cafesync-order-service/internal/logger"
	"cafesync-order-service/internal/queue"
	"cafesync-order-service/internal/store"
	"cafesync-order-service/internal/ws"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	var kv store.KeyValueStore
	switch cfg.StorageDriver {
	case "postgres":
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer pg.Close()
		kv = pg
	case "memory":
		kv = store.NewMemory()
	default:
		fs, err := store.NewFile(cfg.DataDir)
		if err != nil {
			log.Fatal("data directory unusable", zap.Error(err))
		}
		kv = fs
	}
	log.Info("storage ready", zap.String("driver", cfg.StorageDriver))

	catalogSvc := catalog.New(kv, log)
	if err := catalogSvc.Seed(ctx); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}

	ledger := inventory.NewLedger(kv, log, cfg.IngredientYield)
	if err := ledger.CheckLevels(ctx); err != nil {
		log.Warn("startup stock sweep failed", zap.Error(err))
	}

	var events lifecycle.EventSink
	if cfg.RabbitMQURL != "" {
		qc, err := queue.New(cfg.RabbitMQURL)
		if err != nil {
			if cfg.Env == "production" {
				log.Fatal("rabbitmq connection failed", zap.Error(err))
			}
			log.Warn("rabbitmq connection failed; continuing without events", zap.Error(err))
		} else {
			publisher, err := queue.NewEventPublisher(qc, log)
			if err != nil {
				if cfg.Env == "production" {
					log.Fatal("rabbitmq exchange failed", zap.Error(err))
				}
				log.Warn("rabbitmq exchange failed; continuing without events", zap.Error(err))
				_ = qc.Close()
			} else {
				defer qc.Close()
				events = publisher
				log.Info("rabbitmq events enabled")
			}
		}
	} else {
		log.Info("event publishing disabled (RABBITMQ_URL is empty)")
	}

	lifecycleSvc := lifecycle.New(kv, ledger, events, log)

	changeFeed := feed.New(kv, log)
	notifier := feed.NewPendingNotifier(changeFeed, cfg.PollInterval, log)
	defer notifier.Close()

	wsServer := ws.New(kv, changeFeed, notifier, log)

	h := &handlers.Handler{
		Store:     kv,
		Logger:    log,
		Config:    cfg,
		Lifecycle: lifecycleSvc,
		Ledger:    ledger,
		Catalog:   catalogSvc,
	}

	apiServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(h, log, wsServer),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("order api ready", zap.String("base", "/api"))
		log.Info("order ws ready", zap.String("base", "/ws"))
		log.Info("order service listening", zap.String("addr", cfg.HTTPAddr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}
