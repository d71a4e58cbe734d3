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

	appbilling "github.com/storemate/backend/internal/application/billing"
	appinventory "github.com/storemate/backend/internal/application/inventory"
	appreturns "github.com/storemate/backend/internal/application/returns"
	"github.com/storemate/backend/internal/domain/billing"
	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/inventory"
	"github.com/storemate/backend/internal/domain/returns"
	"github.com/storemate/backend/internal/infrastructure/config"
	"github.com/storemate/backend/internal/infrastructure/event"
	"github.com/storemate/backend/internal/infrastructure/logger"
	"github.com/storemate/backend/internal/infrastructure/persistence"
)

// application holds the wired service layer. HTTP exposure beyond /health
// is deliberately absent; callers embed these services directly.
type application struct {
	bus       *event.InMemoryEventBus
	Invoices  *appbilling.InvoiceService
	Payments  *appbilling.PaymentService
	Purchases *appinventory.PurchaseService
	Inventory *appinventory.InventoryService
	Returns   *appreturns.ReturnService
}

// buildApplication wires transaction scopes, services, and the event bus.
// Invoice and payment settlement events feed the audit log handler.
func buildApplication(db *persistence.Database, log *zap.Logger) *application {
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(appbilling.NewSettlementAuditHandler(log))

	billingScope := persistence.NewGormBillingTransactionScope(db.DB)
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	returnsScope := persistence.NewGormReturnsTransactionScope(db.DB)

	invoices := appbilling.NewInvoiceService(billingScope, log)
	invoices.SetEventPublisher(bus)
	payments := appbilling.NewPaymentService(billingScope, log)
	payments.SetEventPublisher(bus)

	return &application{
		bus:       bus,
		Invoices:  invoices,
		Payments:  payments,
		Purchases: appinventory.NewPurchaseService(inventoryScope, log),
		Inventory: appinventory.NewInventoryService(inventoryScope, log),
		Returns:   appreturns.NewReturnService(returnsScope, log),
	}
}

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

	log.Info("Starting StoreMate Backend",
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

	// Auto-migrate schema in development; production relies on the
	// migrate tool and versioned SQL files.
	if cfg.App.Env != "production" {
		if err := db.DB.AutoMigrate(
			&catalog.Category{},
			&catalog.Product{},
			&billing.Invoice{},
			&billing.InvoiceItem{},
			&billing.Payment{},
			&inventory.StockTransaction{},
			&inventory.PurchasePayment{},
			&returns.ProductReturn{},
			&returns.ExchangeDetail{},
			&returns.DamagedProduct{},
			&returns.SupplierReturn{},
			&persistence.NumberSequence{},
		); err != nil {
			log.Fatal("Failed to auto-migrate schema", zap.Error(err))
		}
		log.Info("Schema auto-migration completed")
	}

	app := buildApplication(db, log)
	if err := app.bus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Setup Gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies configuration", zap.Error(err))
		}
	}

	// Health check endpoint
	engine.GET("/health", healthHandler(db))

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
	if err := app.bus.Stop(ctx); err != nil {
		log.Error("Event bus shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
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
