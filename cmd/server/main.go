package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medvertical/records-sub015/internal/api"
	"github.com/medvertical/records-sub015/internal/backend"
	"github.com/medvertical/records-sub015/internal/fhir"
	"github.com/medvertical/records-sub015/pkg/config"
	"github.com/medvertical/records-sub015/pkg/logging"
	"github.com/medvertical/records-sub015/pkg/middleware"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")
	version    = "dev"
	buildTime  = "unknown"
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting FHIR server registry",
		zap.String("version", version),
		zap.String("build_time", buildTime),
	)

	// Initialize storage backend
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := backend.New(ctx, cfg)
	cancel()
	if err != nil {
		logger.Fatal("Failed to initialize storage backend", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	logger.Info("Storage backend initialized", zap.String("type", cfg.Storage.Type))

	// Ping storage to verify connection
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping storage", zap.Error(err))
	}

	// FHIR client is constructed once and shared; no route invokes it yet
	fhirClient := fhir.NewClient(&cfg.FHIR, logger)

	router := setupRouter(cfg, store, fhirClient, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("address", cfg.Server.Address()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func setupRouter(cfg *config.Config, store backend.Backend, fhirClient *fhir.Client, logger *zap.Logger) *gin.Engine {
	// Set Gin mode
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: cfg.CORS.AllowedHeaders,
		MaxAge:       12 * time.Hour,
	}))
	router.Use(middleware.ErrorNormalizer(logger))

	handlers := api.NewHandlers(store, fhirClient, logger)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/fhir/servers", handlers.ListFhirServers)
		apiGroup.POST("/fhir/servers", handlers.RegisterFhirServer)
		apiGroup.GET("/health", handlers.Health)
	}

	// Unmatched non-API paths fall through to static file serving
	router.NoRoute(staticFallback(cfg.Server.StaticDir))

	return router
}

// staticFallback serves files from staticDir for unmatched non-API paths.
// Everything else gets a normalized 404.
func staticFallback(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path

		if staticDir == "" || strings.HasPrefix(reqPath, "/api/") || c.Request.Method != http.MethodGet {
			_ = c.Error(&middleware.HTTPError{Status: http.StatusNotFound, Message: "Not Found"})
			return
		}

		if reqPath == "/" {
			reqPath = "/index.html"
		}
		file := filepath.Join(staticDir, filepath.Clean("/"+reqPath))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		_ = c.Error(&middleware.HTTPError{Status: http.StatusNotFound, Message: "Not Found"})
	}
}
