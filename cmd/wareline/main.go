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

	"github.com/hibiken/asynq"

	"github.com/wareline/wareline/internal/app"
	"github.com/wareline/wareline/internal/auth"
	"github.com/wareline/wareline/internal/export"
	"github.com/wareline/wareline/internal/files"
	"github.com/wareline/wareline/internal/inventory"
	"github.com/wareline/wareline/internal/masterdata/departments"
	"github.com/wareline/wareline/internal/masterdata/products"
	"github.com/wareline/wareline/internal/masterdata/suppliers"
	"github.com/wareline/wareline/internal/notifications"
	"github.com/wareline/wareline/internal/observability"
	"github.com/wareline/wareline/internal/platform/cache"
	"github.com/wareline/wareline/internal/platform/db"
	"github.com/wareline/wareline/internal/platform/storage"
	"github.com/wareline/wareline/internal/preparation"
	"github.com/wareline/wareline/internal/rbac"
	"github.com/wareline/wareline/internal/sales/orders"
	"github.com/wareline/wareline/internal/shared"
	"github.com/wareline/wareline/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns, MaxConnLifetime: cfg.PGConnLife})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	objectStore, err := storage.New(ctx, storage.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		logger.Error("connect object storage", slog.Any("error", err))
		os.Exit(1)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "wareline_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()
	rbacMW := rbac.Middleware{Service: rbac.NewService(), Logger: logger}

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, rbacMW)

	authService := auth.NewService(usersRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	productsHandler := products.NewHandler(logger, products.NewService(products.NewRepository(pool)), rbacMW)
	suppliersHandler := suppliers.NewHandler(logger, suppliers.NewService(suppliers.NewRepository(pool)), rbacMW)
	departmentsHandler := departments.NewHandler(logger, departments.NewService(departments.NewRepository(pool)), rbacMW)

	inventoryService := inventory.NewService(inventory.NewRepository(pool))
	inventoryHandler := inventory.NewHandler(logger, inventoryService, rbacMW)

	ordersService := orders.NewService(orders.NewRepository(pool))
	ordersHandler := orders.NewHandler(logger, ordersService, rbacMW)

	notificationsRepo := notifications.NewRepository(pool)
	notificationsHandler := notifications.NewHandler(logger, notificationsRepo, rbacMW)
	dispatcher := notifications.NewDispatcher(logger, asynqClient)

	auditLogger := shared.NewAuditLogger(pool)
	preparationService := preparation.NewService(logger, preparation.NewRepository(pool), ordersService, usersRepo, dispatcher)
	preparationHandler := preparation.NewHandler(logger, preparationService, rbacMW, auditLogger)

	exporter := export.NewExporter(preparationService, inventoryService)
	exportHandler := export.NewHandler(logger, exporter, rbacMW)
	filesHandler := files.NewHandler(logger, objectStore, rbacMW)

	router := app.NewRouter(app.RouterConfig{
		Middleware: app.MiddlewareStack(app.MiddlewareConfig{
			Logger:         logger,
			Config:         cfg,
			SessionManager: sessionManager,
			CSRFManager:    csrfManager,
			Metrics:        metrics,
		}),
		Metrics:       metrics,
		Auth:          authHandler,
		Users:         usersHandler,
		Products:      productsHandler,
		Suppliers:     suppliersHandler,
		Departments:   departmentsHandler,
		Inventory:     inventoryHandler,
		Orders:        ordersHandler,
		Preparation:   preparationHandler,
		Notifications: notificationsHandler,
		Export:        exportHandler,
		Files:         filesHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("wareline api listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
}
