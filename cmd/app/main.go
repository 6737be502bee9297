package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linhlinh38/Bookminton/internal/auth"
	"github.com/linhlinh38/Bookminton/internal/booking"
	"github.com/linhlinh38/Bookminton/internal/branch"
	"github.com/linhlinh38/Bookminton/internal/clock"
	"github.com/linhlinh38/Bookminton/internal/config"
	"github.com/linhlinh38/Bookminton/internal/db"
	"github.com/linhlinh38/Bookminton/internal/email"
	"github.com/linhlinh38/Bookminton/internal/events"
	"github.com/linhlinh38/Bookminton/internal/logger"
	"github.com/linhlinh38/Bookminton/internal/packagecourt"
	"github.com/linhlinh38/Bookminton/internal/schedule"
	"github.com/linhlinh38/Bookminton/internal/server"
	"github.com/linhlinh38/Bookminton/internal/transaction"
	"github.com/linhlinh38/Bookminton/internal/user"
	"github.com/linhlinh38/Bookminton/migrations"
)

func main() {
	logger.Init()
	logger.Info("Starting Bookminton")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(context.Background(), cfg.DatabaseURL, db.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, migrations.Files); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	emailService := email.New(
		cfg.EmailFrom,
		cfg.EmailFromName,
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.RedisAddr,
	)
	defer emailService.Close()

	publisher, err := events.Connect(cfg.RabbitURL, cfg.EventsExchange)
	if err != nil {
		logger.Error("Event broker unavailable, events will be dropped", "error", err.Error())
		publisher = events.NewNoopPublisher()
	}
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tx := db.NewTransactor(database)
	clk := clock.NewSystem()

	userRepo := user.NewRepository(database)
	branchRepo := branch.NewRepository(database)
	scheduleRepo := schedule.NewRepository(database)
	bookingRepo := booking.NewRepository(database)
	packageRepo := packagecourt.NewRepository(database)
	transactionRepo := transaction.NewRepository(database)

	userService := user.NewService(userRepo, branchRepo, auth.NewTokens(cfg.JWTSecret))
	branchService := branch.NewService(branchRepo, userService, clk)
	scheduleService := schedule.NewService(scheduleRepo, branchService)
	bookingService := booking.NewService(bookingRepo, scheduleRepo, branchService, userService, tx, emailService, publisher)
	packageService := packagecourt.NewService(packageRepo, userRepo, transactionRepo, tx, emailService, publisher, clk,
		packagecourt.Options{
			AdminAccountID:  cfg.AdminAccountID,
			MaxCustomCourts: cfg.MaxCustomPackageCourts,
		})

	go emailService.Start(ctx)
	go packagecourt.NewSweeper(packageService, cfg.PurchaseSweepInterval).Start(ctx)

	srv := server.New(cfg, server.Handlers{
		Users:        user.NewHandler(userService),
		Branches:     branch.NewHandler(branchService),
		Schedules:    schedule.NewHandler(scheduleService),
		Bookings:     booking.NewHandler(bookingService),
		Packages:     packagecourt.NewHandler(packageService),
		Transactions: transaction.NewHandler(transactionRepo),
	}, database)

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		serverErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Errorf("Server error: %v", err)
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
