package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/christine-iyer/fix-the-damn-truck/internal/config"
	"github.com/christine-iyer/fix-the-damn-truck/internal/handlers"
	"github.com/christine-iyer/fix-the-damn-truck/internal/middleware"
	"github.com/christine-iyer/fix-the-damn-truck/internal/repositories/mongodb"
	"github.com/christine-iyer/fix-the-damn-truck/internal/services"
	"github.com/christine-iyer/fix-the-damn-truck/pkg/cache"
	"github.com/christine-iyer/fix-the-damn-truck/pkg/database"
	"github.com/christine-iyer/fix-the-damn-truck/pkg/logger"
	"github.com/christine-iyer/fix-the-damn-truck/pkg/storage"
	"github.com/christine-iyer/fix-the-damn-truck/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
		Colors: cfg.App.Environment == "development",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	migrator := database.NewMigrator(db.Database)
	if err := migrator.Up(); err != nil {
		appLogger.Fatalf("Failed to run migrations: %v", err)
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	storageProvider, err := storage.New(cfg.Storage)
	if err != nil {
		appLogger.Fatalf("Failed to initialize storage: %v", err)
	}

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database)
	vehicleRepo := mongodb.NewVehicleRepository(db.Database)
	requestRepo := mongodb.NewServiceRequestRepository(db.Database)

	// Services
	authService := services.NewAuthService(userRepo, redisCache, db, cfg.Security, appLogger)
	userService := services.NewUserService(userRepo, vehicleRepo, requestRepo, db, appLogger)
	vehicleService := services.NewVehicleService(vehicleRepo, requestRepo, db, appLogger)
	requestService := services.NewServiceRequestService(requestRepo, userRepo, vehicleRepo, vehicleService, db, appLogger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(userService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	requestHandler := handlers.NewServiceRequestHandler(requestService)
	listHandler := handlers.NewListHandler(userService, authService)
	certHandler := handlers.NewCertificationHandler(userService, storageProvider)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(appLogger))

	api := router.Group("/api")
	{
		routes.SetupAuthRoutes(api, authHandler, authService)
		routes.SetupAdminRoutes(api, adminHandler, authService)
		routes.SetupVehicleRoutes(api, vehicleHandler, authService)
		routes.SetupServiceRequestRoutes(api, requestHandler, authService)
		routes.SetupListRoutes(api, listHandler, certHandler, authService)
	}

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		health := gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		}
		if err := db.Ping(); err != nil {
			status = http.StatusServiceUnavailable
			health["status"] = "unhealthy"
			health["database"] = err.Error()
		}
		c.JSON(status, health)
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		appLogger.Infof("Starting server on port %d", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Errorf("Forced shutdown: %v", err)
	}
}
