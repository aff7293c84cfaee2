// File: internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"realty_bureau_backend/internal/auth"
	"realty_bureau_backend/internal/common"
	"realty_bureau_backend/internal/config"
	"realty_bureau_backend/internal/jobs"
	"realty_bureau_backend/internal/listing"
	"realty_bureau_backend/internal/media"
	"realty_bureau_backend/internal/middleware"
	"realty_bureau_backend/internal/platform/database"
	"realty_bureau_backend/internal/shared"
	"realty_bureau_backend/internal/user"
	"realty_bureau_backend/internal/wishlist"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// indexEnsurer is implemented by search indexers that own an index mapping.
type indexEnsurer interface {
	EnsureIndex(ctx context.Context) error
}

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	indexer  listing.SearchIndexer
	pruneJob *jobs.WishlistPruneJob
}

// Handlers groups the route owners mounted under /api/v1.
type Handlers struct {
	Listing  *listing.Handler
	Wishlist *wishlist.Handler
	User     *user.Handler
	Auth     *auth.Handler
	Media    *media.Handler
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	tokens shared.TokenService,
	handlers Handlers,
	indexer listing.SearchIndexer,
	pruneJob *jobs.WishlistPruneJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	binding.Validator = common.DefaultValidator

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))

	authMW := middleware.AuthMiddleware(tokens, cfg.AuthCookieName, logger.Named("AuthMiddleware"))
	optionalAuthMW := middleware.OptionalAuthMiddleware(tokens, cfg.AuthCookieName, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	router.GET("/health", healthHandler(db, logger))

	if cfg.MediaBackend == config.MediaBackendLocal && cfg.UploadDir != "" {
		router.Static(cfg.UploadPublicPath, cfg.UploadDir)
	}

	v1 := router.Group("/api/v1")
	handlers.Auth.RegisterRoutes(v1, authMW)
	handlers.User.RegisterRoutes(v1, authMW)
	handlers.Listing.RegisterRoutes(v1, optionalAuthMW, authMW, adminRoleMW)
	handlers.Wishlist.RegisterRoutes(v1, authMW)
	handlers.Media.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		cfg:        cfg,
		logger:     logger,
		indexer:    indexer,
		pruneJob:   pruneJob,
	}, nil
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start prepares background work and blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	if ensurer, ok := s.indexer.(indexEnsurer); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := ensurer.EnsureIndex(ctx); err != nil {
			s.logger.Error("Failed to create Elasticsearch plots index", zap.Error(err))
		}
		cancel()
	} else {
		s.logger.Info("Search mirror disabled, skipping index creation")
	}

	if s.pruneJob != nil {
		if err := s.pruneJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start wishlist prune job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

// Shutdown stops the prune job and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.pruneJob != nil {
		s.pruneJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			logger.Warn("Health check database ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unavailable",
				"message":   "Database is unreachable.",
				"timestamp": time.Now().UTC(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"message":   "Realty Bureau API is healthy!",
			"timestamp": time.Now().UTC(),
		})
	}
}
