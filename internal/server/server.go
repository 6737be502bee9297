package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/linhlinh38/Bookminton/internal/auth"
	"github.com/linhlinh38/Bookminton/internal/booking"
	"github.com/linhlinh38/Bookminton/internal/branch"
	"github.com/linhlinh38/Bookminton/internal/config"
	"github.com/linhlinh38/Bookminton/internal/packagecourt"
	"github.com/linhlinh38/Bookminton/internal/schedule"
	"github.com/linhlinh38/Bookminton/internal/transaction"
	"github.com/linhlinh38/Bookminton/internal/user"
)

// Handlers groups the HTTP handlers of every domain package.
type Handlers struct {
	Users        *user.Handler
	Branches     *branch.Handler
	Schedules    *schedule.Handler
	Bookings     *booking.Handler
	Packages     *packagecourt.Handler
	Transactions *transaction.Handler
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(cfg *config.Config, h Handlers, db Pinger) *Server {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(cfg.CORSOrigins),
		RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	router.GET("/health", Health(db))
	router.GET("/metrics", Metrics())

	public := router.Group("/")
	{
		public.POST("/auth/register", h.Users.Register)
		public.POST("/auth/login", h.Users.Login)
		public.POST("/auth/refresh", h.Users.RefreshToken)

		public.GET("/branches", h.Branches.ListBranches)
		public.GET("/branches/:id", h.Branches.GetBranch)
		public.GET("/branches/:id/courts", h.Branches.ListCourts)
		public.GET("/courts/:id/schedules", h.Schedules.ListCourtSchedules)

		public.GET("/packages", h.Packages.ListPackages)
		public.GET("/packages/:id", h.Packages.GetPackage)
	}

	protected := router.Group("/")
	protected.Use(auth.Middleware(auth.NewTokens(cfg.JWTSecret)))
	{
		protected.GET("/me", h.Users.GetMe)
		protected.GET("/transactions", h.Transactions.ListTransactions)
		protected.GET("/bookings/:id", h.Bookings.GetBooking)
		protected.GET("/bookings/:id/schedules", h.Bookings.ListSchedules)
		protected.GET("/package-purchases/manager/:managerID", h.Packages.ListPurchasesOfManager)
		protected.GET("/package-purchases/:id", h.Packages.GetPurchase)
	}

	customer := protected.Group("/")
	customer.Use(auth.RequireRole(auth.RoleCustomer))
	{
		customer.POST("/bookings", h.Bookings.CreateBooking)
		customer.GET("/bookings/my", h.Bookings.GetMyBookings)
		customer.POST("/bookings/:id/cancel", h.Bookings.CancelBooking)
	}

	manager := protected.Group("/")
	manager.Use(auth.RequireRole(auth.RoleManager))
	{
		manager.POST("/branches", h.Branches.RequestCreateBranch)
		manager.POST("/branches/:id/courts", h.Branches.CreateCourt)
		manager.POST("/staff", h.Users.CreateStaff)
		manager.POST("/package-purchases/buy", h.Packages.BuyPackageCourt)
		manager.POST("/package-purchases/buy-full", h.Packages.BuyPackageFull)
	}

	desk := protected.Group("/")
	desk.Use(auth.RequireRole(auth.RoleManager, auth.RoleStaff, auth.RoleAdmin))
	{
		desk.GET("/bookings/court/:courtID", h.Bookings.ListByCourt)
		desk.GET("/bookings/status/:status", h.Bookings.ListByStatus)
		desk.PUT("/bookings/:id/confirm", h.Bookings.ConfirmBooking)
		desk.PUT("/bookings/:id/hours", h.Bookings.UpdateTotalHours)
	}

	operator := protected.Group("/")
	operator.Use(auth.RequireRole(auth.RoleOperator, auth.RoleAdmin))
	{
		operator.POST("/branches/handle-request", h.Branches.HandleRequest)
	}

	admin := protected.Group("/")
	admin.Use(auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/packages", h.Packages.CreatePackage)
		admin.PUT("/package-purchases/:id/confirm", h.Packages.ConfirmPurchase)
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
