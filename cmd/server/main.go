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

	appsettings "github.com/blindscommerce/backend/internal/application/settings"
	apptax "github.com/blindscommerce/backend/internal/application/tax"
	"github.com/blindscommerce/backend/internal/domain/tax"
	"github.com/blindscommerce/backend/internal/infrastructure/config"
	"github.com/blindscommerce/backend/internal/infrastructure/logger"
	"github.com/blindscommerce/backend/internal/infrastructure/persistence"
	"github.com/blindscommerce/backend/internal/infrastructure/taxjar"
	"github.com/blindscommerce/backend/internal/interfaces/http/handler"
	"github.com/blindscommerce/backend/internal/interfaces/http/middleware"
	"github.com/blindscommerce/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting tax service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	rateRepo := persistence.NewGormTaxRateRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)

	// Application services
	settingsService := appsettings.NewService(settingRepo, log, cfg.Tax.SettingsCacheTTL)
	external := taxjar.NewAdapter(settingsService, taxjar.Origin{
		Country: "US",
		Zip:     cfg.Tax.OriginZip,
		State:   cfg.Tax.OriginState,
	}, cfg.Tax.ExternalTimeout, log)
	resolver := tax.NewRateResolver(rateRepo, log)
	calculator := apptax.NewCalculatorService(resolver, settingsService, external, log)
	rateAdmin := apptax.NewRateAdminService(rateRepo, external, log)

	// Handlers
	taxHandler := handler.NewTaxHandler(calculator)
	adminHandler := handler.NewTaxRateAdminHandler(rateAdmin)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	systemHandler := handler.NewSystemHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Liveness and readiness stay outside API versioning.
	engine.GET("/healthz", systemHandler.Healthz)
	engine.GET("/readyz", systemHandler.Readyz)

	router.NewRouter(engine).
		Register(router.NewTaxRoutes(taxHandler)).
		Register(router.NewAdminRoutes(adminHandler, settingsHandler)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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
