package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/cache"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/config"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/handler"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/hub"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/repository"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/service"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/database"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/jwt"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/log"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log.Init(log.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger := log.L()

	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.AutoMigrate(db,
		&domain.ChatSessionModel{},
		&domain.ChatMessageModel{},
		&domain.AdminUserModel{},
		&domain.ProductModel{},
		&domain.CategoryModel{},
		&domain.ResourceModel{},
		&domain.AnnouncementModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis, cfg.Cache.Prefix)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	chatHub := hub.NewHub(cfg.WebSocket)
	go chatHub.Run()

	jwtManager, err := jwt.NewManager(cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL, cfg.Auth.Issuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create jwt manager")
	}

	chatRepo := repository.NewGormChatRepository(db)
	adminRepo := repository.NewGormAdminRepository(db)
	catalogRepo := repository.NewGormCatalogRepository(db)

	authService := service.NewAuthService(adminRepo, jwtManager)
	chatService := service.NewChatService(chatRepo, chatHub, redisCache, cfg.Cache.TTL, authService)
	catalogService := service.NewCatalogService(catalogRepo, redisCache, cfg.Cache.TTL)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.SeedAdmin(seedCtx, cfg.Auth.AdminEmail, "admin", cfg.Auth.AdminPassword); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed admin account")
	}
	seedCancel()

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.GinMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler.NewAuthHandler(authService).RegisterRoutes(r)
	handler.NewChatHandler(chatService, authMiddleware).RegisterRoutes(r)
	handler.NewCatalogHandler(catalogService, authMiddleware).RegisterRoutes(r)
	handler.NewWSHandler(chatHub, chatService, cfg.WebSocket).RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("server stopped")
}
