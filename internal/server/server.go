package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/wastewise/expense-service/internal/auth"
	"github.com/wastewise/expense-service/internal/config"
	"github.com/wastewise/expense-service/internal/handler"
	"github.com/wastewise/expense-service/internal/middleware"
)

// Server represents the HTTP server for the expense tracking service
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	log        *zap.Logger
}

// Handlers bundles the route handlers the server mounts.
type Handlers struct {
	Receipts    *handler.ReceiptHandler
	Analytics   *handler.AnalyticsHandler
	Preferences *handler.PreferencesHandler
}

// NewServer creates and configures a new server instance
func NewServer(cfg *config.Config, log *zap.Logger, verifier *auth.TokenVerifier, h Handlers) *Server {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	server := &Server{
		router: router,
		config: cfg,
		log:    log,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 90 * time.Second,
		},
	}

	server.setupRoutes(verifier, h)

	return server
}

// GetRouter returns the gin router instance
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes(verifier *auth.TokenVerifier, h Handlers) {
	// Health check endpoint
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// API documentation endpoints
	// Access the Swagger UI at http://localhost:8080/api-docs/index.html
	swaggerHandler := ginSwagger.WrapHandler(swaggerFiles.Handler)
	s.router.GET("/api-docs/*any", swaggerHandler)

	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})

	authRequired := middleware.AuthMiddleware(verifier)

	v1 := s.router.Group("/v1")
	{
		receipts := v1.Group("/receipts", authRequired)
		{
			receipts.POST("/scan", h.Receipts.ScanReceipt)
			receipts.GET("/scan/state", h.Receipts.UploadState)
			receipts.POST("", h.Receipts.CreateReceipt)
			receipts.GET("", h.Receipts.ListReceipts)
		}

		h.Analytics.RegisterAnalyticsRoutes(v1, authRequired)
		h.Preferences.RegisterPreferencesRoutes(v1, authRequired)
	}
}

// Start begins listening for requests and handles graceful shutdown
func (s *Server) Start() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.log.Info("server listening", zap.Int("port", s.config.Port))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-quit
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.log.Info("server exited gracefully")
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
