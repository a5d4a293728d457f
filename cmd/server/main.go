package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Barmakyy/logistics-app/internal/config"
	"github.com/Barmakyy/logistics-app/internal/db"
	"github.com/Barmakyy/logistics-app/internal/handler"
	"github.com/Barmakyy/logistics-app/internal/mail"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/Barmakyy/logistics-app/internal/server"
	"github.com/Barmakyy/logistics-app/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.Bootstrap(ctx); err != nil {
		logger.Error("failed to apply schema", "err", err)
		os.Exit(1)
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	shipmentRepo := repository.ShipmentRepository{DB: pg}
	paymentRepo := repository.PaymentRepository{DB: pg}
	messageRepo := repository.MessageRepository{DB: pg}
	notificationRepo := repository.NotificationRepository{DB: pg}
	settingsRepo := repository.SettingsRepository{DB: pg}
	dashboardRepo := repository.DashboardRepository{DB: pg}

	mailer := mail.New(cfg)

	// services
	authSvc := service.AuthService{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.AccessTokenTTL,
		Users:     userRepo,
		Logger:    logger,
	}
	shipmentSvc := service.ShipmentService{
		Shipments:     shipmentRepo,
		Payments:      paymentRepo,
		Notifications: notificationRepo,
		Users:         userRepo,
		Logger:        logger,
	}
	paymentSvc := service.PaymentService{
		Payments:  paymentRepo,
		Shipments: shipmentRepo,
	}
	messageSvc := service.MessageService{
		Messages: messageRepo,
		Users:    userRepo,
		Mailer:   mailer,
		Logger:   logger,
	}
	invoiceSvc := service.InvoiceService{
		Payments: paymentRepo,
		Settings: settingsRepo,
	}

	handlers := server.Handlers{
		Health:        handler.HealthHandler{DB: pg},
		Auth:          handler.AuthHandler{Service: authSvc, Users: userRepo},
		ProfileUpload: handler.ProfileUploadHandler{UploadDir: cfg.UploadDir, Users: userRepo},
		Shipments:     handler.ShipmentHandler{Repo: shipmentRepo, Service: shipmentSvc},
		Customers:     handler.CustomerHandler{Users: userRepo, Shipments: shipmentRepo},
		Agents:        handler.AgentHandler{Users: userRepo, Shipments: shipmentRepo},
		Payments:      handler.PaymentHandler{Repo: paymentRepo, Service: paymentSvc, Invoice: invoiceSvc},
		Messages:      handler.MessageHandler{Repo: messageRepo, Service: messageSvc},
		Notifications: handler.NotificationHandler{Repo: notificationRepo},
		Settings:      handler.SettingsHandler{Repo: settingsRepo, UploadDir: cfg.UploadDir},
		Dashboard:     handler.DashboardHandler{Repo: dashboardRepo},
		Portal: handler.CustomerPortalHandler{
			Shipments:   shipmentRepo,
			Payments:    paymentRepo,
			Messages:    messageRepo,
			ShipmentSvc: shipmentSvc,
			PaymentSvc:  paymentSvc,
			InvoiceSvc:  invoiceSvc,
			MessageSvc:  messageSvc,
		},
	}

	router := server.NewRouter(cfg, logger, userRepo, handlers)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
