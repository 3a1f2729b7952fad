package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"eventplanner/config"
	_ "eventplanner/docs" // swagger docs
	"eventplanner/internal/adapters/auth"
	"eventplanner/internal/adapters/email"
	httpdelivery "eventplanner/internal/delivery/http"
	"eventplanner/internal/delivery/http/controllers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
	"eventplanner/internal/repository/mongodb"
	"eventplanner/internal/repository/postgres"
	"eventplanner/internal/services"
)

const shutdownTimeout = 15 * time.Second

// @title Event Planner API
// @version 1.0
// @description Event planning backend: accounts, events, invitations and RSVPs.
// @host localhost:5000
// @BasePath /
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	// After Load so LOG_LEVEL and GO_ENV from .env apply.
	logger := config.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer stores.close()

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.AWSRegion,
			AccessKeyID:        cfg.Mail.AWSAccessKeyID,
			SecretAccessKey:    cfg.Mail.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Mail.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "provider", cfg.Mail.Provider, "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	accountService := services.NewAccountService(stores.users, hasher, cfg.ContextTimeout)
	eventService := services.NewEventService(stores.events, emailService, logger, cfg.ContextTimeout)

	accountController := controllers.NewAccountController(logger, accountService)
	eventController := controllers.NewEventController(logger, eventService)
	healthController := controllers.NewHealthController(logger, stores.ping, cfg.ContextTimeout)

	mux := httpdelivery.NewRouter(accountController, eventController, healthController)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}

type stores struct {
	users  domain.UserRepository
	events domain.EventRepository
	ping   controllers.PingFunc
	close  func()
}

// openStores connects the configured backend. An unreachable store at startup is logged, not fatal.
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.Open(cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, cfg.ContextTimeout)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			logger.Error("could not connect to postgres", "err", err)
		} else if err := postgres.EnsureSchema(pingCtx, db); err != nil {
			logger.Error("could not apply schema", "err", err)
		} else {
			logger.Info("connected to postgres")
		}
		return &stores{
			users:  postgres.NewUserRepository(db),
			events: postgres.NewEventRepository(db),
			ping:   db.PingContext,
			close:  func() { closeSQL(db, logger) },
		}, nil

	default:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoServerSelectionTimeout)
		if err != nil {
			return nil, fmt.Errorf("mongo client: %w", err)
		}
		if err := mongodb.Ping(ctx, client); err != nil {
			logger.Error("could not connect to mongodb", "err", err)
		} else {
			logger.Info("connected to mongodb", "database", cfg.MongoDatabase)
		}
		db := client.Database(cfg.MongoDatabase)
		return &stores{
			users:  mongodb.NewUserRepository(db),
			events: mongodb.NewEventRepository(db),
			ping:   func(ctx context.Context) error { return mongodb.Ping(ctx, client) },
			close:  func() { disconnectMongo(client, logger) },
		}, nil
	}
}

func closeSQL(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("failed to close postgres", "err", err)
	}
}

func disconnectMongo(client *mongo.Client, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Error("failed to disconnect mongodb", "err", err)
	}
}
