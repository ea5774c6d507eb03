package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/application/billing"
	freightapp "github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/application/freight"
	paymentapp "github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/application/payment"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/auth"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/config"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/logger"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/persistence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/telemetry"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/interfaces/http/handler"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/interfaces/http/middleware"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/interfaces/http/router"
)

//	@title			Shipment Ledger API
//	@version		1.0
//	@description	Multi-tenant freight, billing and payment ledger API

//	@contact.name	API Support
//	@contact.url	https://github.com/abbeyjpaulose-ops/shipment-app-sub000

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting shipment ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize tracing (if enabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database spans join the request traces
	if cfg.Telemetry.Enabled {
		if err := telemetry.EnableDBTracing(db.DB, log); err != nil {
			log.Fatal("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	manifestRepo := persistence.NewGormManifestRepository(db.DB)
	adjustmentRepo := persistence.NewGormAdjustmentRepository(db.DB)
	vehicleRepo := persistence.NewGormVehicleRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	preInvoiceRepo := persistence.NewGormPreInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	summaryRepo := persistence.NewGormSummaryRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	entityDirectory := persistence.NewGormEntityDirectory(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	sequenceAllocator := persistence.NewSequenceAllocator(invoiceRepo, preInvoiceRepo, manifestRepo)

	// Initialize application services
	paymentService := paymentapp.NewPaymentService(
		paymentRepo, summaryRepo, transactionRepo, invoiceRepo, shipmentRepo,
	)
	reconciliationService := paymentapp.NewReconciliationService(
		invoiceRepo, shipmentRepo, paymentRepo, summaryRepo, log,
	)
	shipmentService := freightapp.NewShipmentService(
		shipmentRepo, manifestRepo, invoiceRepo, preInvoiceRepo, paymentService, log,
	)
	manifestService := freightapp.NewManifestService(
		manifestRepo, shipmentRepo, vehicleRepo, adjustmentRepo, sequenceAllocator, log,
	)
	invoiceService := billingapp.NewInvoiceService(
		invoiceRepo, preInvoiceRepo, shipmentRepo, entityDirectory, settingsRepo,
		sequenceAllocator, paymentService, reconciliationService, log,
	)

	// JWT token service
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	shipmentHandler := handler.NewShipmentHandler(shipmentService)
	manifestHandler := handler.NewManifestHandler(manifestService)
	vehicleHandler := handler.NewVehicleHandler(vehicleRepo)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	preInvoiceHandler := handler.NewPreInvoiceHandler(invoiceService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	publicPaths := []string{
		"/api/v1/ping",
		"/api/v1/system/ping",
		"/api/v1/system/info",
	}
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  publicPaths,
		Logger:     log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Resolve tenant context after authentication
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.SkipPaths = append(tenantConfig.SkipPaths, publicPaths...)
	r.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Freight domain (shipments, manifests, adjustments, vehicles)
	freightRoutes := router.NewDomainGroup("freight", "/freight")
	freightRoutes.POST("/shipments", shipmentHandler.Create)
	freightRoutes.GET("/shipments", shipmentHandler.List)
	freightRoutes.GET("/shipments/:id", shipmentHandler.GetByID)
	freightRoutes.DELETE("/shipments/:id", shipmentHandler.Delete)

	freightRoutes.POST("/manifests", manifestHandler.Create)
	freightRoutes.GET("/manifests", manifestHandler.List)
	freightRoutes.GET("/manifests/:id", manifestHandler.GetByID)
	freightRoutes.PUT("/manifests/:id/status", manifestHandler.UpdateStatus)
	freightRoutes.DELETE("/manifests/:id/consignments/:consignment_number", manifestHandler.RemoveConsignment)

	freightRoutes.POST("/adjustments", manifestHandler.RecordAdjustment)

	freightRoutes.GET("/vehicles", vehicleHandler.List)
	freightRoutes.GET("/vehicles/:vehicle_no", vehicleHandler.GetByNumber)

	// Billing domain (invoices, pre-invoice drafts)
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.POST("/invoices/generate", invoiceHandler.Generate)
	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	billingRoutes.POST("/invoices/:id/cancel", invoiceHandler.Cancel)

	billingRoutes.POST("/pre-invoices", preInvoiceHandler.Create)
	billingRoutes.GET("/pre-invoices", preInvoiceHandler.List)
	billingRoutes.GET("/pre-invoices/:id", preInvoiceHandler.GetByID)
	billingRoutes.PUT("/pre-invoices/:id/lines/:line_id", preInvoiceHandler.UpdateLine)
	billingRoutes.POST("/pre-invoices/:id/generate", preInvoiceHandler.Generate)

	// Payment domain (balances, transactions, rollups)
	paymentRoutes := router.NewDomainGroup("payments", "/payments")
	paymentRoutes.GET("", paymentHandler.ListPayments)
	paymentRoutes.GET("/summary", paymentHandler.GetEntitySummary)
	paymentRoutes.POST("/transactions", paymentHandler.RecordTransaction)
	paymentRoutes.GET("/transactions", paymentHandler.ListTransactions)
	paymentRoutes.POST("/transactions/:id/void", paymentHandler.VoidTransaction)
	paymentRoutes.GET("/invoices/:id/outstanding", paymentHandler.InvoiceOutstanding)

	// Reconciliation domain (ledger rebuilds)
	reconciliationRoutes := router.NewDomainGroup("reconciliation", "/reconciliation")
	reconciliationRoutes.POST("/rebuild", reconciliationHandler.Rebuild)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(freightRoutes).
		Register(billingRoutes).
		Register(paymentRoutes).
		Register(reconciliationRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
