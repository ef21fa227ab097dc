package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/storefront-backend/internal/api"
	"github.com/baharkarakas/storefront-backend/internal/auth"
	"github.com/baharkarakas/storefront-backend/internal/config"
	"github.com/baharkarakas/storefront-backend/internal/db"
	"github.com/baharkarakas/storefront-backend/internal/logger"
	"github.com/baharkarakas/storefront-backend/internal/metrics"
	"github.com/baharkarakas/storefront-backend/internal/notify"
	"github.com/baharkarakas/storefront-backend/internal/repository/postgres"
	"github.com/baharkarakas/storefront-backend/internal/services"
	"github.com/baharkarakas/storefront-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(cfg.Workers, 1024)
	defer wp.Stop()

	var mailer services.Notifier = notify.LogMailer{Log: log}
	if cfg.BrevoAPIKey != "" {
		mailer = notify.NewBrevoMailer(cfg.BrevoAPIKey, cfg.EmailSender, cfg.EmailSenderName, cfg.NotifyTimeout)
	} else {
		log.Warn("BREVO_API_KEY not set, payment emails are logged only")
	}

	tokens := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)

	paymentSvc := services.NewPaymentService(
		repos.Payments,
		repos.Orders,
		repos.PickupOrders,
		mailer,
		wp,
		log,
		services.PaymentOptions{
			BackfillTimeout:  cfg.BackfillTimeout,
			NotifyTimeout:    cfg.NotifyTimeout,
			PropagateTimeout: cfg.PropagateTimeout,
		},
	)
	orderSvc := services.NewOrderService(repos.Orders, repos.PickupOrders)
	staffSvc := services.NewStaffService(repos.Staff, repos.AuditLogs, tokens, log)

	if err := staffSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error("seed admin", "err", err)
		os.Exit(1)
	}

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:        cfg,
		Log:        log,
		Tokens:     tokens,
		PaymentSvc: paymentSvc,
		OrderSvc:   orderSvc,
		StaffSvc:   staffSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
