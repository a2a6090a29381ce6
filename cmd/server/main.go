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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/alliance"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/applications"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/auth"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/config"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/database"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/handlers"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/leaderboard"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/middleware"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.Connect(ctx, logger, cfg)
	cancel()
	if err != nil {
		logger.Fatalw("mongo connection failed", "error", err)
	}

	userStore := users.NewStore(db.Database())
	appStore := applications.NewStore(db.Database(), logger)
	allianceStore := alliance.NewStore(db.Database(), logger)

	fetcher := leaderboard.NewMongoFetcher(db.Database(), cfg.LifetimeCollections)
	enricher := leaderboard.NewEnricher(userStore, logger)
	cache := leaderboard.NewCache(cfg.LeaderboardCacheSize, cfg.LeaderboardCacheTTL)
	board := leaderboard.NewOrchestrator(fetcher, enricher, cache, logger)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)
	h := handlers.New(logger, db, board, userStore, appStore, allianceStore)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.GET("/health", h.Health)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Helldivers 2 Gaming Website API",
			"version": handlers.Version,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/version", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"version": handlers.Version,
				"service": "helldivers2-gaming-website",
			})
		})

		api.GET("/leaderboard", h.GetLeaderboard)
		api.GET("/leaderboard/batch", h.GetLeaderboardBatch)

		api.GET("/users/lookup", h.LookupUser)

		api.GET("/alliance/config", h.GetAllianceConfig)
		api.GET("/alliance/awards", h.GetMemberAwards)

		authed := api.Group("")
		authed.Use(middleware.RequireAuth(jwtService))
		{
			authed.POST("/applications", h.SubmitApplication)

			admin := authed.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/applications", h.ListApplications)
				admin.PUT("/alliance/config", h.UpdateAllianceConfig)
				admin.POST("/alliance/awards", h.GrantMemberAward)
			}
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		logger.Infow("server starting", "port", cfg.Port, "db", cfg.MongoDB)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("forced shutdown", "error", err)
	}
	db.Close(shutdownCtx)

	logger.Info("server exited")
}
