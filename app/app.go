// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"go-social-api/config"
	"go-social-api/db"
	"go-social-api/handler"
	"go-social-api/logger"
	"go-social-api/repository"
	"go-social-api/router"
	"go-social-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// buildRouter wires all layers together. This is the single place where
// repositories, services and handlers are composed.
func buildRouter(database *sql.DB, cache service.ICacheClient) http.Handler {
	cfg := &config.AppConfig

	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	postRepo := repository.NewPostRepository(database)

	codec := service.NewTokenCodec([]byte(cfg.JWT.SecretKey))
	tokenService := service.NewTokenService(codec, tokenRepo, cfg.AccessTTL(), cfg.RefreshTTL())
	authService := service.NewAuthService(userRepo, tokenRepo, tokenService)
	userService := service.NewUserService(database, userRepo, authService)
	postService := service.NewPostService(postRepo, cache)

	authHandler := handler.NewAuthHandler(authService, tokenService)
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)
	authMiddleware := handler.NewAuthMiddleware(userRepo, tokenService)

	return router.NewRouter(authHandler, userHandler, postHandler, authMiddleware)
}

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	r := buildRouter(database, redisClient)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// TestApp bundles a fully wired router with its backing database handle for
// integration-style tests.
type TestApp struct {
	DB     *sql.DB
	Router http.Handler
}

// NewTestApp wires the full stack on top of the given database and cache.
// config.AppConfig must be populated by the caller.
func NewTestApp(database *sql.DB, cache service.ICacheClient) *TestApp {
	return &TestApp{
		DB:     database,
		Router: buildRouter(database, cache),
	}
}
