package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	exportapp "github.com/commerceqb/gateway/internal/application/export"
	gatewayapp "github.com/commerceqb/gateway/internal/application/gateway"
	sessionapp "github.com/commerceqb/gateway/internal/application/session"
	"github.com/commerceqb/gateway/internal/domain/export"
	"github.com/commerceqb/gateway/internal/infrastructure/auth"
	"github.com/commerceqb/gateway/internal/infrastructure/config"
	"github.com/commerceqb/gateway/internal/infrastructure/event"
	"github.com/commerceqb/gateway/internal/infrastructure/logger"
	"github.com/commerceqb/gateway/internal/infrastructure/persistence"
	"github.com/commerceqb/gateway/internal/infrastructure/qbxml"
	"github.com/commerceqb/gateway/internal/interfaces/http/handler"
	"github.com/commerceqb/gateway/internal/interfaces/http/middleware"
	"github.com/commerceqb/gateway/internal/interfaces/http/router"
	"github.com/commerceqb/gateway/internal/interfaces/soap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting QuickBooks export gateway",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	jobRepo := persistence.NewGormExportJobRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	variationRepo := persistence.NewGormProductVariationRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Event bus: commerce events fan into the export queue
	bus := event.NewInMemoryEventBus(log)
	enqueueService := exportapp.NewEnqueueService(
		jobRepo, customerRepo, variationRepo, orderRepo,
		cfg.QuickBooks, log.Named("enqueue"),
	)
	bus.Subscribe(enqueueService, enqueueService.EventTypes()...)

	// qbXML request builder
	builder, err := qbxml.NewBuilder()
	if err != nil {
		log.Fatal("Failed to parse qbXML templates", zap.Error(err))
	}

	// Gateway service behind the SOAP endpoint
	sessionManager := sessionapp.NewManager(sessionRepo, log.Named("session"))
	priority := export.ParsePriorityOrder(cfg.QuickBooks.PriorityOrder)
	if len(priority) == 0 {
		priority = export.DefaultPriorityOrder()
	}
	gatewayService := gatewayapp.NewService(
		jobRepo,
		userRepo,
		sessionManager,
		gatewayapp.DefaultValidators(customerRepo, variationRepo, orderRepo, paymentRepo),
		gatewayapp.NewPopulator(customerRepo, variationRepo, orderRepo, paymentRepo),
		gatewayapp.NewAttacher(customerRepo, variationRepo, orderRepo, paymentRepo),
		builder,
		cfg.QuickBooks.ServerVersion,
		priority,
		log.Named("gateway"),
	)

	// Admin API token service
	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		logger.GinMiddleware(log),
	)

	// Web connector endpoints live at the root, outside the admin API group
	soapHandler := soap.NewHandler(gatewayService, log.Named("soap"))
	qwcHandler := soap.NewQWCHandler(cfg.QuickBooks)
	root := engine.Group("")
	soapHandler.RegisterRoutes(root)
	qwcHandler.RegisterRoutes(root)

	// Admin API
	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler(db.DB))
	r.Register(handler.NewAuthHandler(userRepo, jwtService, log.Named("auth")))
	r.UseProtected(middleware.JWTAuthMiddleware(jwtService))
	r.RegisterProtected(handler.NewQueueHandler(jobRepo, orderRepo, bus, log.Named("queue")))
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
