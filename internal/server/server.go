package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Fi44er/storefront/config"
	"github.com/Fi44er/storefront/internal/handlers"
	"github.com/Fi44er/storefront/internal/middleware"
	"github.com/Fi44er/storefront/internal/service"
	"github.com/Fi44er/storefront/internal/storage"
	"github.com/Fi44er/storefront/utils"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 60 * time.Second

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	handler    *handlers.Handler
	jwt        *middleware.JWTConfig
	logger     *utils.Logger
	router     chi.Router
	httpServer *http.Server
}

func NewServer(cfg *config.Config, svc *service.Service, store *storage.LocalStore, logger *utils.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		handler: handlers.NewHandler(svc, store, cfg.JWTSecret, logger),
		jwt:     &middleware.JWTConfig{SecretKey: cfg.JWTSecret, Users: svc},
		logger:  logger,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	h := s.handler
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Get("/crypto-accounts/active", h.ListActiveCryptoAccounts)
		r.Get("/orders/payment-proof/{filename}", h.ServePaymentProof)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(s.jwt))

			r.Get("/cart", h.GetCart)
			r.Post("/cart/items", h.AddToCart)
			r.Delete("/cart/items/{id}", h.RemoveCartItem)

			r.Post("/orders", h.CreateOrder)
			r.Get("/orders", h.ListOrders)
			r.Get("/orders/{id}", h.GetOrder)
			r.Post("/orders/{id}/payment-proof", h.UploadPaymentProof)

			r.Post("/topups", h.CreateTopup)
			r.Get("/topups/mine", h.ListMyTopups)

			r.Post("/payments", h.ProcessPayment)
			r.Get("/payments/order/{orderId}", h.GetPaymentByOrder)

			r.Get("/users/me/balance", h.GetBalance)
			r.Get("/users/me/balance-history", h.GetBalanceHistory)
			r.Get("/users/{id}/balance", h.GetBalance)
			r.Get("/users/{id}/balance-history", h.GetBalanceHistory)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Get("/crypto-accounts", h.ListCryptoAccounts)
				r.Post("/crypto-accounts", h.CreateCryptoAccount)
				r.Get("/crypto-accounts/{id}", h.GetCryptoAccount)
				r.Put("/crypto-accounts/{id}", h.UpdateCryptoAccount)
				r.Delete("/crypto-accounts/{id}", h.DeleteCryptoAccount)

				r.Post("/products", h.CreateProduct)
				r.Patch("/products/{id}/price", h.UpdateProductPrice)

				r.Get("/orders/stats", h.GetOrderStats)
				r.Patch("/orders/{id}/status", h.UpdateOrderStatus)
				r.Patch("/orders/{id}/payment-status", h.UpdateOrderPaymentStatus)
				r.Delete("/orders/{id}", h.DeleteOrder)

				r.Get("/topups", h.ListTopups)
				r.Get("/topups/stats", h.GetTopupStats)
				r.Get("/topups/{id}", h.GetTopup)
				r.Patch("/topups/{id}/approve", h.ApproveTopup)
				r.Patch("/topups/{id}/reject", h.RejectTopup)
				r.Delete("/topups/{id}", h.DeleteTopup)

				r.Get("/payments/stats", h.GetPaymentStats)
				r.Get("/payments/{id}", h.GetPayment)
				r.Patch("/payments/{id}/status", h.UpdatePaymentStatus)

				r.Patch("/users/{id}/balance", h.AdjustBalance)
				r.Get("/users/{id}/balance/reconcile", h.ReconcileBalance)
			})
		})
	})

	return r
}

// Run blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Run() error {
	s.logger.Infof("🚀 Starting server on %s", s.cfg.HTTPAddr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
