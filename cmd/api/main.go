package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/studio-scheduler/internal/db"
	"github.com/BruksfildServices01/studio-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/studio-scheduler/internal/logger"
	"github.com/BruksfildServices01/studio-scheduler/internal/notify"
	"github.com/BruksfildServices01/studio-scheduler/internal/payment"
	"github.com/BruksfildServices01/studio-scheduler/internal/routes"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(logger.Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatal("DB", err.Error())
	}
	log.Info("DB", "✅ Database connected and migrated")

	// ======================================================
	// Optional infrastructure
	// ======================================================
	deps := routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Gateway:  payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Server.FrontendURL, log),
		Verifier: payment.NewWebhookVerifier(cfg.Stripe.WebhookSecret),
		Notifier: notify.NewLogNotifier(log),
	}

	if cfg.Stripe.WebhookSecret == "" {
		log.Warn("STRIPE", "STRIPE_WEBHOOK_SECRET is empty, settlement callbacks will be refused")
	}

	if cfg.Redis.Addr != "" {
		client, err := cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Warn("REDIS", "event de-duplication disabled: "+err.Error())
		} else {
			defer client.Close()
			deps.Deduper = cache.NewEventStore(client, cfg.Redis.EventTTL)
		}
	}

	if cfg.AMQP.URL != "" {
		publisher, err := notify.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			log.Warn("AMQP", "notifications go to the log: "+err.Error())
		} else {
			defer publisher.Close()
			deps.Notifier = publisher
		}
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	defer auditDispatcher.Close()
	deps.Audit = auditDispatcher

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, deps)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP", "🚀 Server running on "+cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Server shutdown complete")
	}
}
