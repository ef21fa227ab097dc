package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/storefront-backend/internal/api/handlers"
	"github.com/baharkarakas/storefront-backend/internal/auth"
	"github.com/baharkarakas/storefront-backend/internal/config"
	"github.com/baharkarakas/storefront-backend/internal/metrics"
	"github.com/baharkarakas/storefront-backend/internal/middleware"
	"github.com/baharkarakas/storefront-backend/internal/models"
	"github.com/baharkarakas/storefront-backend/internal/services"
)

type RouterDeps struct {
	Cfg        config.Config
	Log        *slog.Logger
	Tokens     *auth.TokenManager
	PaymentSvc *services.PaymentService
	OrderSvc   *services.OrderService
	StaffSvc   *services.StaffService
}

func NewRouter(d RouterDeps) http.Handler {
	errs := handlers.ErrorWriter{Dev: d.Cfg.IsDev(), Log: d.Log}
	payments := handlers.NewPaymentHandler(d.PaymentSvc, errs)
	orders := handlers.NewOrderHandler(d.OrderSvc, errs)
	staff := handlers.NewStaffHandler(d.StaffSvc, errs)
	authn := middleware.NewAuthMiddleware(d.Tokens, d.Cfg.Env)

	backOffice := middleware.RequireRole(models.RoleAdmin, models.RoleStaff)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(middleware.HTTPMetrics, middleware.AccessLog(d.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	// ---------- staff auth ----------
	r.Post("/auth/login", staff.Login)
	r.Post("/auth/refresh", staff.Refresh)

	// ---------- payments ----------
	r.Route("/payments", func(r chi.Router) {
		r.Post("/confirm", payments.Confirm)

		r.Group(func(r chi.Router) {
			r.Use(authn.Auth)
			r.With(backOffice).Get("/transactions", payments.List)
			r.With(backOffice).Get("/transactions/{id}", payments.Get)
			r.With(adminOnly).Patch("/transactions/{id}/status", payments.UpdateStatus)
		})
	})

	// ---------- back office ----------
	r.Group(func(r chi.Router) {
		r.Use(authn.Auth)
		r.With(backOffice).Get("/orders/{id}", orders.Get(models.OrderDelivery))
		r.With(backOffice).Get("/pickup-orders/{id}", orders.Get(models.OrderPickup))
		r.With(adminOnly).Get("/staff", staff.List)
		r.With(adminOnly).Post("/staff", staff.Create)
	})

	return r
}
